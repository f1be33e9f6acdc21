package collector

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/LJTian/CyberPulse/internal/config"
	"github.com/LJTian/CyberPulse/internal/logging"
	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// HTMLFetcher 按站点配置的 CSS 选择器抓取列表页
type HTMLFetcher struct {
	opts Options
}

func NewHTMLFetcher(opts Options) *HTMLFetcher {
	return &HTMLFetcher{opts: opts.withDefaults()}
}

func (h *HTMLFetcher) Fetch(ctx context.Context, site config.Site) ([]Article, error) {
	logging.Debug("fetch html", "site", site.Name, "url", site.URL)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(site.URL)
	if err != nil {
		return nil, fmt.Errorf("html %s: bad url: %w", site.Name, err)
	}

	c := colly.NewCollector(
		colly.UserAgent(h.opts.UserAgent),
	)
	c.SetRequestTimeout(h.opts.Timeout)

	sel := site.Selectors
	results := make([]Article, 0, h.opts.ArticleCap)

	c.OnHTML(sel.Articles, func(e *colly.HTMLElement) {
		if len(results) >= h.opts.ArticleCap {
			return
		}
		a, ok := extractArticle(site, base, e.DOM)
		if !ok {
			return
		}
		results = append(results, a)
	})

	if err := c.Visit(site.URL); err != nil {
		return nil, fmt.Errorf("html %s: fetch: %w", site.Name, err)
	}
	c.Wait()

	return results, nil
}

// extractArticle 解析单个文章容器；任何异常只影响当前容器
func extractArticle(site config.Site, base *url.URL, s *goquery.Selection) (a Article, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("html item parse failed", "site", site.Name, "err", r)
			ok = false
		}
	}()

	sel := site.Selectors
	title := collapseWhitespace(s.Find(sel.Title).First().Text())
	href, _ := s.Find(sel.Link).First().Attr("href")
	link := resolveLink(base, href)
	if title == "" || link == "" {
		return Article{}, false
	}

	var timestamp string
	if sel.Timestamp != "" {
		if ts := s.Find(sel.Timestamp).First(); ts.Length() > 0 {
			// 优先取机器可读的 datetime 属性
			if dt, exists := ts.Attr("datetime"); exists && strings.TrimSpace(dt) != "" {
				timestamp = strings.TrimSpace(dt)
			} else {
				timestamp = collapseWhitespace(ts.Text())
			}
		}
	}

	return Article{
		Title:           title,
		Link:            link,
		Origin:          site.Name,
		OriginURL:       site.URL,
		RawTimestamp:    timestamp,
		Category:        site.CategoryOrDefault(),
		IngressSelector: sel.Ingress,
		Render:          site.Render,
	}, true
}

// resolveLink 相对链接基于站点 URL 转成绝对地址
func resolveLink(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
