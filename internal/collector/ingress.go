package collector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LJTian/CyberPulse/internal/logging"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	ingressMaxResponseBytes = 4 << 20 // 4MB
	renderTimeout           = 30 * time.Second
)

// IngressFetcher 过滤之后才去文章页提取导语（ingress）。
// 对同一进程内的所有请求统一限速，避免短时间内打爆来源站点。
type IngressFetcher struct {
	opts    Options
	client  *http.Client
	limiter *rate.Limiter

	// 非空时，Render 站点通过 browser-scraper 服务提取
	browserURL   string
	renderClient *http.Client
}

// NewIngressFetcher perSecond <= 0 表示不限速
func NewIngressFetcher(opts Options, perSecond float64, browserURL string) *IngressFetcher {
	opts = opts.withDefaults()
	limit := rate.Inf
	if perSecond > 0 {
		limit = rate.Limit(perSecond)
	}
	return &IngressFetcher{
		opts:         opts,
		client:       &http.Client{Timeout: opts.Timeout},
		limiter:      rate.NewLimiter(limit, 1),
		browserURL:   browserURL,
		renderClient: &http.Client{Timeout: renderTimeout},
	}
}

// FetchIngress 抓取文章页并取 selector 对应元素的文本，任何失败都返回空字符串
func (f *IngressFetcher) FetchIngress(ctx context.Context, link, selector string) string {
	return f.fetch(ctx, link, selector, false)
}

// IngressFor 按文章记录的选择器提取导语，需要渲染的站点走 browser-scraper
func (f *IngressFetcher) IngressFor(ctx context.Context, a Article) string {
	return f.fetch(ctx, a.Link, a.IngressSelector, a.Render)
}

func (f *IngressFetcher) fetch(ctx context.Context, link, selector string, render bool) string {
	if link == "" || selector == "" {
		return ""
	}
	if err := f.limiter.Wait(ctx); err != nil {
		return ""
	}

	var (
		text string
		err  error
	)
	if render && f.browserURL != "" {
		text, err = f.fetchRendered(ctx, link, selector)
	} else {
		text, err = f.fetchStatic(ctx, link, selector)
	}
	if err != nil {
		logging.Warn("fetch ingress failed", "url", link, "err", err)
		return ""
	}
	return text
}

func (f *IngressFetcher) fetchStatic(ctx context.Context, link, selector string) (string, error) {
	resp, err := get(ctx, f.client, link, f.opts.UserAgent)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, ingressMaxResponseBytes))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	return collapseWhitespace(doc.Find(selector).First().Text()), nil
}

type renderRequest struct {
	URL      string `json:"url"`
	Selector string `json:"selector"`
}

type renderResponse struct {
	OK    bool   `json:"ok"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// fetchRendered 调用 cmd/browser-scraper 的 /extract 接口
func (f *IngressFetcher) fetchRendered(ctx context.Context, link, selector string) (string, error) {
	body, err := json.Marshal(renderRequest{URL: link, Selector: selector})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.browserURL+"/extract", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.renderClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	var out renderResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, ingressMaxResponseBytes)).Decode(&out); err != nil {
		return "", fmt.Errorf("decode render response: %w", err)
	}
	if !out.OK {
		return "", fmt.Errorf("render: %s", out.Error)
	}
	return collapseWhitespace(out.Text), nil
}
