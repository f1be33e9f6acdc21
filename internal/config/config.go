package config

import (
	"os"
	"strconv"
	"time"

	"github.com/LJTian/CyberPulse/internal/logging"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

type Config struct {
	AppPort string

	// 均为可选：未配置 Postgres 时站点直接读 YAML，未配置 Redis 时不缓存 ingress
	PostgresDSN string
	RedisAddr   string

	CronSpec string

	SitesFile    string
	KeywordsFile string

	UserAgent      string
	RequestTimeout time.Duration

	// 单个来源最多保留的条数、RSS 描述截断长度、标题兜底摘要长度（按字符计）
	ArticleCap    int
	IngressMaxLen int
	SummaryMaxLen int

	FetchConcurrency int
	IngressRate      float64

	// 需要浏览器渲染的站点通过 browser-scraper 服务提取 ingress
	BrowserScraperURL string

	BasicAuthUser string
	BasicAuthPass string

	Debug bool
}

func Load() *Config {
	cfg := &Config{
		AppPort:           getEnv("APP_PORT", "4711"),
		PostgresDSN:       getEnv("POSTGRES_DSN", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		CronSpec:          getEnv("CRON_SPEC", "@every 30m"),
		SitesFile:         getEnv("SITES_FILE", "configs/sites.yaml"),
		KeywordsFile:      getEnv("KEYWORDS_FILE", "configs/keywords.txt"),
		UserAgent:         getEnv("USER_AGENT", defaultUserAgent),
		RequestTimeout:    getEnvDuration("REQUEST_TIMEOUT", 10*time.Second),
		ArticleCap:        getEnvInt("ARTICLE_CAP", 50),
		IngressMaxLen:     getEnvInt("INGRESS_MAX_LEN", 300),
		SummaryMaxLen:     getEnvInt("SUMMARY_MAX_LEN", 150),
		FetchConcurrency:  getEnvInt("FETCH_CONCURRENCY", 4),
		IngressRate:       getEnvFloat("INGRESS_RATE", 5),
		BrowserScraperURL: getEnv("BROWSER_SCRAPER_URL", ""),
		BasicAuthUser:     getEnv("APP_BASIC_USER", ""),
		BasicAuthPass:     getEnv("APP_BASIC_PASS", ""),
		Debug:             getEnv("DEBUG", "") == "true",
	}

	logging.Info("config loaded", "port", cfg.AppPort, "cron", cfg.CronSpec, "sites", cfg.SitesFile, "keywords", cfg.KeywordsFile)
	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

// getEnvInt 只接受正整数，非法值回退默认值
func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			return d
		}
	}
	return def
}
