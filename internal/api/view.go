package api

import (
	"html/template"
	"net/url"
	"strings"

	"github.com/LJTian/CyberPulse/internal/collector"
	"github.com/LJTian/CyberPulse/internal/config"
	"github.com/LJTian/CyberPulse/internal/keyword"
	"github.com/LJTian/CyberPulse/internal/processor"
)

const categoryAPT = "apt"

// articleView 展示层的文章：在原始字段之外附加域名、格式化时间与高亮后的 HTML
type articleView struct {
	collector.Article

	Domain             string        `json:"domain"`
	FormattedTimestamp string        `json:"formattedTimestamp"`
	TitleHTML          template.HTML `json:"titleHtml"`
	IngressHTML        template.HTML `json:"ingressHtml"`
	SummaryHTML        template.HTML `json:"summaryHtml"`
}

func buildViews(articles []collector.Article, keywords []string) []articleView {
	out := make([]articleView, 0, len(articles))
	for _, a := range articles {
		out = append(out, articleView{
			Article:            a,
			Domain:             extractDomain(a.OriginURL),
			FormattedTimestamp: formatTimestamp(a.RawTimestamp),
			TitleHTML:          keyword.HighlightHTML(a.Title, keywords),
			IngressHTML:        keyword.HighlightHTML(a.Ingress, keywords),
			SummaryHTML:        keyword.HighlightHTML(a.Summary, keywords),
		})
	}
	return out
}

func filterCategory(articles []collector.Article, category string) []collector.Article {
	if category == "" {
		return articles
	}
	out := make([]collector.Article, 0, len(articles))
	for _, a := range articles {
		switch {
		case category == categoryAPT && a.IsAPT:
			out = append(out, a)
		case config.Category(category) == a.Category:
			out = append(out, a)
		}
	}
	return out
}

// extractDomain 来源地址的主机名，去掉 www. 前缀
func extractDomain(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return raw
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// formatTimestamp 无法解析时原样返回
func formatTimestamp(raw string) string {
	ts := processor.Normalize(raw)
	if ts.Equal(processor.MinTimestamp) {
		return raw
	}
	return ts.Format("2006-01-02 15:04")
}
