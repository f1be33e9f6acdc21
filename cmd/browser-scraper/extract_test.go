package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDecodeRequest(t *testing.T) {
	tests := []struct {
		method, body string
		wantStatus   int
	}{
		{http.MethodGet, "", http.StatusMethodNotAllowed},
		{http.MethodPost, "{bad", http.StatusBadRequest},
		{http.MethodPost, `{"selector":"p"}`, http.StatusBadRequest},
		{http.MethodPost, `{"url":"https://example.se/a","selector":"p.lead"}`, http.StatusOK},
	}
	for _, tt := range tests {
		r := httptest.NewRequest(tt.method, "/extract", strings.NewReader(tt.body))
		req, status, _ := decodeRequest(r)
		if status != tt.wantStatus {
			t.Fatalf("decodeRequest(%s %q) status = %d, want %d", tt.method, tt.body, status, tt.wantStatus)
		}
		if status == http.StatusOK && (req.Selector != "p.lead" || req.MaxChars != defaultMaxChars) {
			t.Fatalf("decoded request = %+v", req)
		}
	}
}

func TestExtractJSQuotesSelector(t *testing.T) {
	js := extractJS(`a[title="x"]`)
	if !strings.Contains(js, `document.querySelector("a[title=\"x\"]")`) {
		t.Fatalf("selector not safely quoted:\n%s", js)
	}
	if js := extractJS(""); !strings.Contains(js, "article") {
		t.Fatalf("empty selector should use the content heuristic")
	}
}

func TestCleanText(t *testing.T) {
	if got := cleanText("  Rendered \n\n lead\ttext ", 100); got != "Rendered lead text" {
		t.Fatalf("cleanText = %q", got)
	}
	if got := cleanText("one two three", 7); got != "one..." {
		t.Fatalf("cleanText truncation = %q", got)
	}
}
