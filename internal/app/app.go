// Package app 把配置、存储、采集器与聚合流程组装在一起，供各个命令复用。
package app

import (
	"fmt"

	"github.com/LJTian/CyberPulse/internal/collector"
	"github.com/LJTian/CyberPulse/internal/config"
	"github.com/LJTian/CyberPulse/internal/keyword"
	"github.com/LJTian/CyberPulse/internal/logging"
	"github.com/LJTian/CyberPulse/internal/processor"
	"github.com/LJTian/CyberPulse/internal/storage"
)

type App struct {
	Config    *config.Config
	Store     *storage.Store
	Keywords  *keyword.FileProvider
	Processor *processor.Processor
}

// Build 配置了 Postgres 时先把 YAML 站点同步进数据库，再以数据库作为站点来源
func Build(cfg *config.Config) (*App, error) {
	store, err := storage.NewStore(cfg.PostgresDSN, cfg.RedisAddr)
	if err != nil {
		return nil, fmt.Errorf("app: init store: %w", err)
	}

	siteFile := config.NewSiteFile(cfg.SitesFile)
	var sites processor.SiteProvider = siteFile
	if store.DB != nil {
		list, err := siteFile.Sites()
		if err != nil {
			return nil, fmt.Errorf("app: load sites: %w", err)
		}
		if err := store.SeedSites(list); err != nil {
			return nil, fmt.Errorf("app: seed sites: %w", err)
		}
		logging.Info("sites served from postgres", "seeded", len(list))
		sites = store
	}

	keywords := keyword.NewFileProvider(cfg.KeywordsFile)

	opts := collector.Options{
		UserAgent:     cfg.UserAgent,
		Timeout:       cfg.RequestTimeout,
		ArticleCap:    cfg.ArticleCap,
		IngressMaxLen: cfg.IngressMaxLen,
	}
	p := processor.New(
		sites,
		keywords,
		collector.NewRegistry(opts),
		collector.NewIngressFetcher(opts, cfg.IngressRate, cfg.BrowserScraperURL),
		processor.Options{
			SummaryMaxLen: cfg.SummaryMaxLen,
			Concurrency:   cfg.FetchConcurrency,
		},
	)
	if store.Redis != nil {
		p.WithIngressCache(storage.NewIngressCache(store.Redis))
	}

	return &App{
		Config:    cfg,
		Store:     store,
		Keywords:  keywords,
		Processor: p,
	}, nil
}

func (a *App) Close() error {
	return a.Store.Close()
}
