// Package keyword 关键词匹配、高亮以及关键词文件的加载。
//
// 匹配规则：大小写不敏感；关键词起始处必须是词边界（前一个字符与关键词首字符的
// “是否为单词字符”不同，或位于文本开头），结尾不要求边界，
// 因此 "cyberhot" 能匹配 "cyberhoten"，而 "mask" 不会匹配 "pengamaskin"。
package keyword

import (
	"unicode"
	"unicode/utf8"
)

// Matches 文本中出现任一关键词即返回 true，命中第一个后立即返回
func Matches(text string, keywords []string) bool {
	for _, kw := range keywords {
		if !usable(kw) {
			continue
		}
		if _, _, ok := find(text, kw, 0); ok {
			return true
		}
	}
	return false
}

// find 从 from 开始查找 kw 的第一个有效匹配，返回原文中的字节区间 [start, end)
func find(text, kw string, from int) (int, int, bool) {
	first, _ := utf8.DecodeRuneInString(kw)
	firstIsWord := isWordRune(first)

	prevIsWord := false
	if from > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:from])
		prevIsWord = isWordRune(r)
	}

	for i := from; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		if prevIsWord != firstIsWord {
			if end, ok := matchAt(text, i, kw); ok {
				return i, end, true
			}
		}
		prevIsWord = isWordRune(r)
		i += size
	}
	return 0, 0, false
}

// matchAt 按 rune 逐个做大小写折叠比较，返回匹配结束位置
func matchAt(text string, i int, kw string) (int, bool) {
	j := i
	for _, kr := range kw {
		if j >= len(text) {
			return 0, false
		}
		tr, size := utf8.DecodeRuneInString(text[j:])
		if !equalFold(tr, kr) {
			return 0, false
		}
		j += size
	}
	return j, true
}

// extendWord 把匹配延伸到单词结尾（关键词后缀不受限制）
func extendWord(text string, end int) int {
	for end < len(text) {
		r, size := utf8.DecodeRuneInString(text[end:])
		if !isWordRune(r) {
			break
		}
		end += size
	}
	return end
}

func equalFold(a, b rune) bool {
	return a == b || unicode.ToLower(a) == unicode.ToLower(b)
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsNumber(r)
}

// usable 空关键词和含控制字符的关键词不参与匹配（控制字符保留给高亮占位符）
func usable(kw string) bool {
	if kw == "" {
		return false
	}
	for _, r := range kw {
		if unicode.IsControl(r) {
			return false
		}
	}
	return true
}
