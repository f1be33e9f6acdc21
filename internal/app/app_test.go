package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/LJTian/CyberPulse/internal/config"
)

const feed = `<?xml version="1.0"?>
<rss version="2.0"><channel><title>Feed</title>
<item><title>Phishing wave hits Gothenburg</title><link>https://feed.example/1</link>
<description>Attackers impersonate the Skatteverket.</description></item>
<item><title>Unrelated item</title><link>https://feed.example/2</link></item>
</channel></rss>`

func TestBuildWithFileProviders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		_, _ = w.Write([]byte(feed))
	}))
	defer srv.Close()

	dir := t.TempDir()
	sitesPath := filepath.Join(dir, "sites.yaml")
	keywordsPath := filepath.Join(dir, "keywords.txt")
	sites := "sites:\n  - name: Feed\n    url: " + srv.URL + "\n    rss_url: " + srv.URL + "/rss\n    category: swedish\n"
	if err := os.WriteFile(sitesPath, []byte(sites), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(keywordsPath, []byte("phishing\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := &config.Config{
		SitesFile:        sitesPath,
		KeywordsFile:     keywordsPath,
		RequestTimeout:   5 * time.Second,
		ArticleCap:       50,
		IngressMaxLen:    300,
		SummaryMaxLen:    150,
		FetchConcurrency: 2,
	}
	a, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer a.Close()

	got, err := a.Processor.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 article, got %d", len(got))
	}
	if got[0].Category != config.CategorySwedish || !got[0].IsSwedishReference {
		t.Fatalf("article = %+v", got[0])
	}
	if got[0].Summary != "Attackers impersonate the Skatteverket." {
		t.Fatalf("summary = %q", got[0].Summary)
	}
}
