package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/LJTian/CyberPulse/internal/logging"
	"github.com/chromedp/chromedp"
)

const (
	defaultMaxChars = 2000
	extractTimeout  = 20 * time.Second
)

// 请求格式与 collector.IngressFetcher 的渲染请求一致
type extractRequest struct {
	URL      string `json:"url"`
	Selector string `json:"selector"`
	MaxChars int    `json:"maxChars"`
}

type extractResponse struct {
	OK    bool   `json:"ok"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

func main() {
	logging.Init(os.Getenv("DEBUG") == "true")

	// 创建浏览器执行器与顶层上下文，整个进程复用一个 headless 实例
	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), chromedp.DefaultExecAllocatorOptions[:]...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	// 预热浏览器，避免首个请求耗时过长
	if err := chromedp.Run(browserCtx); err != nil {
		logging.Warn("warmup chromedp failed", "err", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/extract", extractHandler(browserCtx))

	addr := ":" + getEnv("PORT", "4000")
	logging.Info("browser-scraper listening", "addr", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		logging.Fatal("http server error", "err", err)
	}
}

func extractHandler(browserCtx context.Context) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, status, msg := decodeRequest(r)
		if status != http.StatusOK {
			writeJSON(w, status, extractResponse{OK: false, Error: msg})
			return
		}

		// 每个请求用独立的超时上下文，复用同一个 browserCtx
		ctx, cancel := context.WithTimeout(browserCtx, extractTimeout)
		defer cancel()

		var text string
		err := chromedp.Run(ctx,
			chromedp.Navigate(req.URL),
			chromedp.WaitReady("body", chromedp.ByQuery),
			chromedp.Evaluate(extractJS(req.Selector), &text),
		)
		if err != nil {
			logging.Warn("extract failed", "url", req.URL, "selector", req.Selector, "err", err)
			writeJSON(w, http.StatusOK, extractResponse{OK: false, Error: err.Error()})
			return
		}

		text = cleanText(text, req.MaxChars)
		if text == "" {
			writeJSON(w, http.StatusOK, extractResponse{OK: false, Error: "empty content"})
			return
		}
		writeJSON(w, http.StatusOK, extractResponse{OK: true, Text: text})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
