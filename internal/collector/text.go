package collector

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
)

const ellipsis = "..."

// Truncate 按字符数截断，在最后一个空白处断开并追加省略号
func Truncate(s string, limit int) string {
	s = strings.TrimSpace(s)
	rs := []rune(s)
	if limit <= 0 || len(rs) <= limit {
		return s
	}
	cut := string(rs[:limit])
	if i := strings.LastIndexFunc(cut, unicode.IsSpace); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimSpace(cut) + ellipsis
}

// collapseWhitespace 把连续空白压缩成一个空格
func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// stripHTML 描述中含有 HTML 时转成纯文本
func stripHTML(s string) string {
	if !strings.Contains(s, "<") || !strings.Contains(s, ">") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return collapseWhitespace(doc.Text())
}
