package processor

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
)

// MinTimestamp 无法解析或缺失时间时的哨兵值，比任何真实时间都小，按最新优先排序时排在最后
var MinTimestamp = time.Time{}

// 常见格式先走固定 layout，其余交给 dateparse
var timestampLayouts = []string{
	time.RFC1123,
	time.RFC1123Z,
	time.RFC3339Nano,
	time.RFC3339,
	time.RFC822,
	time.RFC822Z,
	"Mon, 2 Jan 2006 15:04:05 MST",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Normalize 把来源中的时间字符串转成可比较的值。
// 时区偏移直接丢弃（只保留墙上时间），不做时区换算；永不返回错误。
func Normalize(raw string) (ts time.Time) {
	defer func() {
		if r := recover(); r != nil {
			ts = MinTimestamp
		}
	}()

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return MinTimestamp
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return naive(t)
		}
	}
	if t, err := dateparse.ParseIn(raw, time.UTC); err == nil {
		return naive(t)
	}
	return MinTimestamp
}

// naive 去掉时区，只保留年月日时分秒
func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
