package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/LJTian/CyberPulse/internal/app"
	"github.com/LJTian/CyberPulse/internal/cache"
	"github.com/LJTian/CyberPulse/internal/config"
	"github.com/LJTian/CyberPulse/internal/logging"
	"github.com/spf13/cobra"
)

var (
	flagSites    string
	flagKeywords string
	flagPretty   bool
	flagDebug    bool
)

// 一个仅执行一次聚合的命令行入口：把结果以 JSON 输出到 stdout，适合手动排查来源配置
var rootCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run the aggregation pipeline once and print the result as JSON",
	RunE:  runCollect,
}

func init() {
	rootCmd.Flags().StringVar(&flagSites, "sites", "", "path to sites.yaml (overrides SITES_FILE)")
	rootCmd.Flags().StringVar(&flagKeywords, "keywords", "", "path to keywords.txt (overrides KEYWORDS_FILE)")
	rootCmd.Flags().BoolVar(&flagPretty, "pretty", false, "indent JSON output")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "enable debug logging")
}

func runCollect(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	if flagSites != "" {
		cfg.SitesFile = flagSites
	}
	if flagKeywords != "" {
		cfg.KeywordsFile = flagKeywords
	}
	logging.Init(cfg.Debug || flagDebug)

	a, err := app.Build(cfg)
	if err != nil {
		return err
	}
	defer a.Close()

	start := time.Now()
	articles, err := a.Processor.Run(context.Background())
	if err != nil {
		return fmt.Errorf("collect: %w", err)
	}
	logging.Info("collect done", "articles", len(articles), "took", time.Since(start))

	enc := json.NewEncoder(cmd.OutOrStdout())
	if flagPretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(cache.Snapshot{Articles: articles, GeneratedAt: time.Now()})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
