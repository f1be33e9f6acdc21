package keyword

import (
	"html"
	"html/template"
	"sort"
	"strings"
	"unicode/utf8"
)

const (
	markOpen  = `<mark class="highlight">`
	markClose = `</mark>`

	// 占位符由控制字符组成：\x00 + 若干 \x01..\x10 编码的序号 + \x00，
	// 关键词里不允许控制字符，因此占位符不会被后续关键词再次匹配
	placeholderDelim = '\x00'
	placeholderBase  = 16
)

// Highlight 在文本中用 <mark> 标出关键词，长关键词优先，不会嵌套或重叠。
// 标记内的文字与原文逐字节一致（保留大小写），其余文本原样返回。
func Highlight(text string, keywords []string) string {
	return highlight(text, keywords, false)
}

// HighlightHTML 与 Highlight 相同，但会对全部文本做 HTML 转义，可直接用于页面
func HighlightHTML(text string, keywords []string) template.HTML {
	return template.HTML(highlight(text, keywords, true))
}

// highlighter 累积器：当前工作文本 + 占位符序号对应的原文片段
type highlighter struct {
	work  string
	spans []string
}

func highlight(text string, keywords []string, escape bool) string {
	if text == "" {
		return ""
	}
	h := &highlighter{work: strings.ReplaceAll(text, string(placeholderDelim), "")}
	for _, kw := range byLengthDesc(keywords) {
		if usable(kw) {
			h.mark(kw)
		}
	}
	return h.render(escape)
}

// mark 在当前工作文本中把 kw 的所有匹配替换成占位符
func (h *highlighter) mark(kw string) {
	start, end, ok := find(h.work, kw, 0)
	if !ok {
		return
	}

	var b strings.Builder
	pos := 0
	for ok {
		end = extendWord(h.work, end)
		b.WriteString(h.work[pos:start])
		b.WriteString(h.placeholder(h.work[start:end]))
		pos = end
		start, end, ok = find(h.work, kw, pos)
	}
	b.WriteString(h.work[pos:])
	h.work = b.String()
}

func (h *highlighter) placeholder(span string) string {
	n := len(h.spans)
	h.spans = append(h.spans, span)

	var digits []rune
	for {
		digits = append(digits, rune(n%placeholderBase)+1)
		n /= placeholderBase
		if n == 0 {
			break
		}
	}
	var b strings.Builder
	b.WriteRune(placeholderDelim)
	for i := len(digits) - 1; i >= 0; i-- {
		b.WriteRune(digits[i])
	}
	b.WriteRune(placeholderDelim)
	return b.String()
}

// render 一次性把所有占位符替换成 <mark> 标记
func (h *highlighter) render(escape bool) string {
	text := func(s string) string {
		if escape {
			return html.EscapeString(s)
		}
		return s
	}

	var b strings.Builder
	rest := h.work
	for {
		i := strings.IndexRune(rest, placeholderDelim)
		if i < 0 {
			b.WriteString(text(rest))
			break
		}
		b.WriteString(text(rest[:i]))
		rest = rest[i+1:]

		j := strings.IndexRune(rest, placeholderDelim)
		idx := 0
		for _, r := range rest[:j] {
			idx = idx*placeholderBase + int(r-1)
		}
		rest = rest[j+1:]

		b.WriteString(markOpen)
		b.WriteString(text(h.spans[idx]))
		b.WriteString(markClose)
	}
	return b.String()
}

// byLengthDesc 按字符数降序，长度相同时保持原顺序
func byLengthDesc(keywords []string) []string {
	sorted := append([]string(nil), keywords...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})
	return sorted
}
