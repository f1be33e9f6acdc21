package storage

import (
	"context"
	"time"

	"github.com/LJTian/CyberPulse/internal/logging"
	"github.com/redis/go-redis/v9"
)

const ingressCacheTTL = 24 * time.Hour

// IngressCache 以文章链接为键缓存导语，减少重复抓取文章页。
// rdb 为空时所有操作都是 no-op。
type IngressCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewIngressCache(rdb *redis.Client) *IngressCache {
	return &IngressCache{rdb: rdb, ttl: ingressCacheTTL}
}

func ingressKey(link string) string {
	return "ingress:" + hashURL(link)
}

func (c *IngressCache) Get(ctx context.Context, link string) (string, bool) {
	if c == nil || c.rdb == nil || link == "" {
		return "", false
	}
	text, err := c.rdb.Get(ctx, ingressKey(link)).Result()
	if err != nil {
		if err != redis.Nil {
			logging.Warn("ingress cache get failed", "url", link, "err", err)
		}
		return "", false
	}
	return text, text != ""
}

func (c *IngressCache) Set(ctx context.Context, link, text string) {
	if c == nil || c.rdb == nil || link == "" || text == "" {
		return
	}
	if err := c.rdb.Set(ctx, ingressKey(link), text, c.ttl).Err(); err != nil {
		logging.Warn("ingress cache set failed", "url", link, "err", err)
	}
}
