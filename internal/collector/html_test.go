package collector

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/LJTian/CyberPulse/internal/config"
)

const listPage = `<html><body>
<div class="news">
  <article class="post">
    <h2>Phishing wave hits Swedish banks</h2>
    <a href="/news/phishing">read</a>
    <time datetime="2025-11-26T07:00:00+01:00">26 nov</time>
  </article>
  <article class="post">
    <h2>  Spaced
      title  </h2>
    <a href="https://other.example.com/abs">read</a>
    <span class="date">2025-11-25</span>
  </article>
  <article class="post">
    <h2>No link</h2>
  </article>
  <article class="post">
    <a href="/news/untitled">read</a>
  </article>
</div>
</body></html>`

func htmlSite(url string) config.Site {
	return config.Site{
		Name: "Example HTML",
		URL:  url,
		Selectors: config.Selectors{
			Articles:  "article.post",
			Title:     "h2",
			Link:      "a",
			Timestamp: "time, span.date",
			Ingress:   "p.lead",
		},
	}
}

func TestHTMLFetcherExtractsArticles(t *testing.T) {
	srv := serve(t, "text/html; charset=utf-8", listPage)

	articles, err := NewHTMLFetcher(Options{}).Fetch(context.Background(), htmlSite(srv.URL+"/list"))
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 2 {
		t.Fatalf("expected 2 articles, got %d: %+v", len(articles), articles)
	}

	first := articles[0]
	if first.Title != "Phishing wave hits Swedish banks" {
		t.Fatalf("title = %q", first.Title)
	}
	if first.Link != srv.URL+"/news/phishing" {
		t.Fatalf("relative link not resolved: %q", first.Link)
	}
	if first.RawTimestamp != "2025-11-26T07:00:00+01:00" {
		t.Fatalf("datetime attribute should win, got %q", first.RawTimestamp)
	}
	if first.IngressSelector != "p.lead" || first.Ingress != "" {
		t.Fatalf("ingress should be deferred: %+v", first)
	}
	if first.Category != config.CategoryInternational {
		t.Fatalf("category = %q", first.Category)
	}

	second := articles[1]
	if second.Title != "Spaced title" {
		t.Fatalf("title whitespace not collapsed: %q", second.Title)
	}
	if second.Link != "https://other.example.com/abs" {
		t.Fatalf("absolute link changed: %q", second.Link)
	}
	if second.RawTimestamp != "2025-11-25" {
		t.Fatalf("text timestamp = %q", second.RawTimestamp)
	}
}

func TestHTMLFetcherCapsContainers(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 70; i++ {
		fmt.Fprintf(&b, `<article class="post"><h2>Item %d</h2><a href="/n/%d">x</a></article>`, i, i)
	}
	b.WriteString("</body></html>")
	srv := serve(t, "text/html", b.String())

	articles, err := NewHTMLFetcher(Options{ArticleCap: 50}).Fetch(context.Background(), htmlSite(srv.URL))
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if len(articles) != 50 {
		t.Fatalf("expected 50 articles, got %d", len(articles))
	}
	if articles[49].Title != "Item 49" {
		t.Fatalf("cap should keep document order, last = %q", articles[49].Title)
	}
}

func TestHTMLFetcherHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	articles, err := NewHTMLFetcher(Options{}).Fetch(context.Background(), htmlSite(srv.URL))
	if err == nil {
		t.Fatalf("expected error for 500 response")
	}
	if len(articles) != 0 {
		t.Fatalf("expected no articles, got %d", len(articles))
	}
}

func TestRegistryDispatchesByMode(t *testing.T) {
	rssSrv := serve(t, "application/rss+xml", rssFeed)
	htmlSrv := serve(t, "text/html", listPage)

	reg := NewRegistry(Options{})
	rss, err := reg.Fetch(context.Background(), config.Site{Name: "r", URL: rssSrv.URL, RSSURL: rssSrv.URL})
	if err != nil || len(rss) != 2 {
		t.Fatalf("rss dispatch = %d, %v", len(rss), err)
	}
	html, err := reg.Fetch(context.Background(), htmlSite(htmlSrv.URL))
	if err != nil || len(html) != 2 {
		t.Fatalf("html dispatch = %d, %v", len(html), err)
	}

	broken := config.Site{Name: "broken", URL: htmlSrv.URL, Selectors: config.Selectors{Articles: "article"}}
	if _, err := reg.Fetch(context.Background(), broken); err == nil {
		t.Fatalf("site with missing selectors should fail")
	}
}
