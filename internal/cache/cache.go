// Package cache 保存最近一次聚合结果，供读者获取时间点快照。
package cache

import (
	"sync"
	"time"

	"github.com/LJTian/CyberPulse/internal/collector"
)

// Snapshot 一次聚合的完整输出；安装后不再修改
type Snapshot struct {
	Articles    []collector.Article `json:"articles"`
	GeneratedAt time.Time           `json:"generatedAt"`
}

// Cache 单锁保护当前快照，锁只在替换或浅拷贝期间持有
type Cache struct {
	mu      sync.Mutex
	current Snapshot
}

func New() *Cache {
	return &Cache{}
}

// Install 整体替换当前快照，不与旧快照合并
func (c *Cache) Install(s Snapshot) {
	c.mu.Lock()
	c.current = s
	c.mu.Unlock()
}

// Read 返回当前快照的拷贝，调用方可以随意修改
func (c *Cache) Read() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := Snapshot{GeneratedAt: c.current.GeneratedAt}
	if c.current.Articles != nil {
		out.Articles = make([]collector.Article, len(c.current.Articles))
		copy(out.Articles, c.current.Articles)
	}
	return out
}

// Ready 是否已经安装过快照
func (c *Cache) Ready() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.current.GeneratedAt.IsZero()
}
