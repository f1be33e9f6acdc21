package processor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/LJTian/CyberPulse/internal/collector"
	"github.com/LJTian/CyberPulse/internal/config"
	"github.com/LJTian/CyberPulse/internal/keyword"
	"github.com/LJTian/CyberPulse/internal/logging"
	"github.com/LJTian/CyberPulse/internal/metrics"
)

// SiteProvider 提供本轮要采集的站点列表（YAML 文件或数据库）
type SiteProvider interface {
	Sites() ([]config.Site, error)
}

// KeywordProvider 提供本轮的通用关键字与 APT 关键字
type KeywordProvider interface {
	Keywords() (keyword.Set, error)
}

// IngressSource 按文章记录的选择器补全导语，失败返回空字符串
type IngressSource interface {
	IngressFor(ctx context.Context, a collector.Article) string
}

// IngressCache 导语缓存，可选
type IngressCache interface {
	Get(ctx context.Context, link string) (string, bool)
	Set(ctx context.Context, link, text string)
}

type Options struct {
	SummaryMaxLen int
	Concurrency   int
}

func (o Options) withDefaults() Options {
	if o.SummaryMaxLen <= 0 {
		o.SummaryMaxLen = 150
	}
	if o.Concurrency <= 0 {
		o.Concurrency = 4
	}
	return o
}

// Processor 一次完整的聚合：采集 -> 过滤 -> 补全导语 -> 分类 -> 排序
type Processor struct {
	sites    SiteProvider
	keywords KeywordProvider
	fetcher  collector.Fetcher
	ingress  IngressSource
	cache    IngressCache
	opts     Options
}

func New(sites SiteProvider, keywords KeywordProvider, fetcher collector.Fetcher, ingress IngressSource, opts Options) *Processor {
	return &Processor{
		sites:    sites,
		keywords: keywords,
		fetcher:  fetcher,
		ingress:  ingress,
		opts:     opts.withDefaults(),
	}
}

// WithIngressCache 设置导语缓存，传 nil 表示不缓存
func (p *Processor) WithIngressCache(c IngressCache) *Processor {
	p.cache = c
	return p
}

// Run 执行一轮聚合。只有站点或关键字加载失败才返回错误，单个来源失败只记录日志。
func (p *Processor) Run(ctx context.Context) ([]collector.Article, error) {
	sites, err := p.sites.Sites()
	if err != nil {
		return nil, fmt.Errorf("processor: load sites: %w", err)
	}
	set, err := p.keywords.Keywords()
	if err != nil {
		return nil, fmt.Errorf("processor: load keywords: %w", err)
	}

	all := p.fetchAll(ctx, sites)
	kept := Filter(all, set.General)
	p.enrich(ctx, kept)
	for i := range kept {
		Classify(&kept[i], set.APT)
	}
	SortNewestFirst(kept)

	logging.Info("aggregation finished", "sites", len(sites), "fetched", len(all), "kept", len(kept))
	return kept, nil
}

// fetchAll 并发采集所有站点，结果按站点顺序拼接
func (p *Processor) fetchAll(ctx context.Context, sites []config.Site) []collector.Article {
	results := make([][]collector.Article, len(sites))

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for i, site := range sites {
		i, site := i, site
		g.Go(func() error {
			results[i] = p.fetchOne(ctx, site)
			return nil
		})
	}
	_ = g.Wait()

	var out []collector.Article
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

func (p *Processor) fetchOne(ctx context.Context, site config.Site) (articles []collector.Article) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("source panicked", "site", site.Name, "panic", r)
			metrics.Global.IncrementSourceFailures()
			articles = nil
		}
	}()

	start := time.Now()
	articles, err := p.fetcher.Fetch(ctx, site)
	if err != nil {
		logging.Warn("fetch source failed", "site", site.Name, "mode", site.Mode(), "err", err)
		metrics.Global.IncrementSourceFailures()
		return nil
	}
	metrics.Global.IncrementSourcesFetched()
	logging.Debug("source fetched", "site", site.Name, "articles", len(articles), "took", time.Since(start))
	return articles
}

// Filter 保留 title + " " + ingress 命中任一通用关键字的文章，顺序不变
func Filter(articles []collector.Article, general []string) []collector.Article {
	out := make([]collector.Article, 0, len(articles))
	for _, a := range articles {
		if keyword.Matches(a.Title+" "+a.Ingress, general) {
			out = append(out, a)
		}
	}
	return out
}

// enrich 为缺少导语的 HTML 文章补全导语，并统一生成 summary
func (p *Processor) enrich(ctx context.Context, articles []collector.Article) {
	if p.ingress != nil {
		texts := make([]string, len(articles))

		var g errgroup.Group
		g.SetLimit(p.opts.Concurrency)
		for i := range articles {
			i := i
			a := articles[i]
			if a.Ingress != "" || a.IngressSelector == "" {
				continue
			}
			g.Go(func() error {
				texts[i] = p.lookupIngress(ctx, a)
				return nil
			})
		}
		_ = g.Wait()

		for i, text := range texts {
			if text != "" {
				articles[i].Ingress = text
			}
		}
	}

	for i := range articles {
		articles[i].Summary = Summarize(articles[i], p.opts.SummaryMaxLen)
	}
}

func (p *Processor) lookupIngress(ctx context.Context, a collector.Article) (text string) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("ingress panicked", "url", a.Link, "panic", r)
			text = ""
		}
	}()

	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, a.Link); ok {
			return cached
		}
	}
	metrics.Global.IncrementIngressFetches()
	text = p.ingress.IngressFor(ctx, a)
	if text != "" && p.cache != nil {
		p.cache.Set(ctx, a.Link, text)
	}
	return text
}

// Summarize 有导语用导语，否则截断标题
func Summarize(a collector.Article, maxLen int) string {
	if a.Ingress != "" {
		return a.Ingress
	}
	return collector.Truncate(a.Title, maxLen)
}

// Classify 标记 APT 与瑞典相关
func Classify(a *collector.Article, apt []string) {
	text := a.Title + " " + a.Ingress
	if keyword.Matches(strings.ToLower(text), apt) {
		a.IsAPT = true
	}
	if keyword.IsSwedishReference(text) {
		a.IsSwedishReference = true
	}
}

// SortNewestFirst 按规范化时间倒序稳定排序，无法解析的时间排在最后
func SortNewestFirst(articles []collector.Article) {
	type keyed struct {
		ts time.Time
		a  collector.Article
	}
	items := make([]keyed, len(articles))
	for i, a := range articles {
		items[i] = keyed{ts: Normalize(a.RawTimestamp), a: a}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].ts.After(items[j].ts)
	})
	for i := range items {
		articles[i] = items[i].a
	}
}
