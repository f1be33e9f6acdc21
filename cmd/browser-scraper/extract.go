package main

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/LJTian/CyberPulse/internal/collector"
)

// decodeRequest 校验请求，返回非 200 状态时附带错误信息
func decodeRequest(r *http.Request) (extractRequest, int, string) {
	var req extractRequest
	if r.Method != http.MethodPost {
		return req, http.StatusMethodNotAllowed, "method not allowed"
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, http.StatusBadRequest, "invalid json"
	}
	if req.URL == "" {
		return req, http.StatusBadRequest, "url is required"
	}
	if req.MaxChars <= 0 || req.MaxChars > 8000 {
		req.MaxChars = defaultMaxChars
	}
	return req, http.StatusOK, ""
}

// extractJS 返回一段 JS：有选择器时取第一个匹配元素的文本，
// 否则在常见正文容器中找段落，找不到时再全页兜底。
func extractJS(selector string) string {
	if strings.TrimSpace(selector) != "" {
		quoted, _ := json.Marshal(selector)
		return `(function () {
  var el = document.querySelector(` + string(quoted) + `);
  return el ? (el.innerText || el.textContent || "") : "";
})();`
	}
	return `(function () {
  var selectors = ["article", "div.article-content", "div#content", "div.main-content", "div.content", "main"];
  for (var i = 0; i < selectors.length; i++) {
    var el = document.querySelector(selectors[i]);
    var p = el && el.querySelector("p");
    if (p && (p.innerText || "").trim().length > 40) {
      return p.innerText;
    }
  }
  var nodes = document.querySelectorAll("p");
  for (var j = 0; j < nodes.length; j++) {
    var t = (nodes[j].innerText || "").trim();
    if (t.length >= 40) {
      return t;
    }
  }
  return "";
})();`
}

// cleanText 压缩空白并按字符数截断
func cleanText(s string, maxChars int) string {
	s = strings.Join(strings.Fields(s), " ")
	return collector.Truncate(s, maxChars)
}
