package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/LJTian/CyberPulse/internal/config"
)

// Article 统一采集后的文章记录；Title 与 Link 必须非空
type Article struct {
	Title     string `json:"title"`
	Link      string `json:"link"`
	Origin    string `json:"origin"`
	OriginURL string `json:"originUrl"`

	// 来源中的原始时间字符串，缺失时为空
	RawTimestamp string          `json:"timestamp,omitempty"`
	Category     config.Category `json:"category"`
	Ingress      string          `json:"ingress"`
	Summary      string          `json:"summary"`

	IsAPT              bool `json:"isApt"`
	IsSwedishReference bool `json:"isSwedishReference"`

	// HTML 来源记录下的 ingress 选择器，过滤后才去文章页提取
	IngressSelector string `json:"-"`
	Render          bool   `json:"-"`
}

// Fetcher 抽象一种采集方式（RSS / HTML）
type Fetcher interface {
	Fetch(ctx context.Context, site config.Site) ([]Article, error)
}

// Options 各采集器共享的请求参数
type Options struct {
	UserAgent     string
	Timeout       time.Duration
	ArticleCap    int
	IngressMaxLen int
}

func (o Options) withDefaults() Options {
	if o.UserAgent == "" {
		o.UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"
	}
	if o.Timeout <= 0 {
		o.Timeout = 10 * time.Second
	}
	if o.ArticleCap <= 0 {
		o.ArticleCap = 50
	}
	if o.IngressMaxLen <= 0 {
		o.IngressMaxLen = 300
	}
	return o
}

// Registry 按站点的 Mode 分发到对应采集器
type Registry map[config.Mode]Fetcher

func NewRegistry(opts Options) Registry {
	return Registry{
		config.ModeRSS:  NewRSSFetcher(opts),
		config.ModeHTML: NewHTMLFetcher(opts),
	}
}

func (r Registry) Fetch(ctx context.Context, site config.Site) ([]Article, error) {
	if err := site.Validate(); err != nil {
		return nil, err
	}
	f, ok := r[site.Mode()]
	if !ok {
		return nil, fmt.Errorf("collector: no fetcher for mode %s", site.Mode())
	}
	return f.Fetch(ctx, site)
}

// get 发起带固定 UA 的 GET 请求，非 2xx 视为失败；调用方负责关闭 Body
func get(ctx context.Context, client *http.Client, url, userAgent string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp, nil
}
