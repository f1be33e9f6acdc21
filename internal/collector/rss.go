package collector

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/LJTian/CyberPulse/internal/config"
	"github.com/LJTian/CyberPulse/internal/logging"
	"github.com/mmcdole/gofeed"
)

const rssMaxResponseBytes = 8 << 20 // 8MB

// RSSFetcher 抓取 RSS / Atom，gofeed 将 <item> 与 <entry> 统一成 Item
type RSSFetcher struct {
	opts   Options
	client *http.Client
	parser *gofeed.Parser
}

func NewRSSFetcher(opts Options) *RSSFetcher {
	opts = opts.withDefaults()
	return &RSSFetcher{
		opts:   opts,
		client: &http.Client{Timeout: opts.Timeout},
		parser: gofeed.NewParser(),
	}
}

func (f *RSSFetcher) Fetch(ctx context.Context, site config.Site) ([]Article, error) {
	logging.Debug("fetch rss", "site", site.Name, "url", site.RSSURL)

	resp, err := get(ctx, f.client, site.RSSURL, f.opts.UserAgent)
	if err != nil {
		return nil, fmt.Errorf("rss %s: fetch: %w", site.Name, err)
	}
	defer resp.Body.Close()

	feed, err := f.parser.Parse(io.LimitReader(resp.Body, rssMaxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("rss %s: parse: %w", site.Name, err)
	}

	items := feed.Items
	if len(items) > f.opts.ArticleCap {
		items = items[:f.opts.ArticleCap]
	}

	results := make([]Article, 0, len(items))
	for _, item := range items {
		a, ok := f.articleFromItem(site, item)
		if !ok {
			continue
		}
		results = append(results, a)
	}
	return results, nil
}

// articleFromItem 单条解析失败只跳过该条
func (f *RSSFetcher) articleFromItem(site config.Site, item *gofeed.Item) (a Article, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			logging.Warn("rss item parse failed", "site", site.Name, "err", r)
			ok = false
		}
	}()

	if item == nil {
		return Article{}, false
	}
	title := strings.TrimSpace(item.Title)
	link := itemLink(item)
	if title == "" || link == "" {
		return Article{}, false
	}

	return Article{
		Title:        title,
		Link:         link,
		Origin:       site.Name,
		OriginURL:    site.URL,
		RawTimestamp: itemTimestamp(item),
		Category:     site.CategoryOrDefault(),
		Ingress:      itemDescription(item, f.opts.IngressMaxLen),
	}, true
}

// itemLink 优先取 <link> 文本，Atom 的 href 由 gofeed 放进 Link / Links
func itemLink(item *gofeed.Item) string {
	if link := strings.TrimSpace(item.Link); link != "" {
		return link
	}
	for _, l := range item.Links {
		if l = strings.TrimSpace(l); l != "" {
			return l
		}
	}
	return ""
}

// itemDescription 依次尝试 description / summary 与 content:encoded / content
func itemDescription(item *gofeed.Item, limit int) string {
	for _, candidate := range []string{item.Description, item.Content} {
		if strings.TrimSpace(candidate) == "" {
			continue
		}
		text := stripHTML(candidate)
		if text == "" {
			continue
		}
		return Truncate(text, limit)
	}
	return ""
}

// itemTimestamp pubDate / dc:date / published 已由 gofeed 合并到 Published，最后退回 updated
func itemTimestamp(item *gofeed.Item) string {
	if ts := strings.TrimSpace(item.Published); ts != "" {
		return ts
	}
	if item.DublinCoreExt != nil && len(item.DublinCoreExt.Date) > 0 {
		if ts := strings.TrimSpace(item.DublinCoreExt.Date[0]); ts != "" {
			return ts
		}
	}
	return strings.TrimSpace(item.Updated)
}
