package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/LJTian/CyberPulse/internal/config"
	"github.com/LJTian/CyberPulse/internal/logging"
	"gorm.io/datatypes"
)

const (
	SiteActive   = "active"
	SiteDisabled = "disabled"

	sitesCacheKey = "sites:active"
	sitesCacheTTL = 5 * time.Minute
)

// Site 数据库中的来源配置，与 configs/sites.yaml 中的条目一一对应
type Site struct {
	ID        uint              `gorm:"primaryKey" json:"id"`
	Name      string            `gorm:"size:128;uniqueIndex" json:"name"`
	BaseURL   string            `gorm:"size:512" json:"baseUrl"`
	RSSURL    string            `gorm:"size:512" json:"rssUrl"`
	Category  string            `gorm:"size:32;index" json:"category"`
	Render    bool              `json:"render"`
	Selectors datatypes.JSONMap `gorm:"type:jsonb" json:"selectors"`
	Position  int               `gorm:"index" json:"position"`
	Status    string            `gorm:"size:32;index" json:"status"` // active / disabled

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func siteFromConfig(cs config.Site, position int) Site {
	return Site{
		Name:      toValidUTF8(cs.Name),
		BaseURL:   cs.URL,
		RSSURL:    cs.RSSURL,
		Category:  string(cs.CategoryOrDefault()),
		Render:    cs.Render,
		Selectors: selectorsToMap(cs.Selectors),
		Position:  position,
		Status:    SiteActive,
	}
}

// Config 转回采集层使用的站点定义
func (s Site) Config() config.Site {
	return config.Site{
		Name:      s.Name,
		URL:       s.BaseURL,
		RSSURL:    s.RSSURL,
		Category:  config.Category(s.Category),
		Render:    s.Render,
		Selectors: mapToSelectors(s.Selectors),
	}
}

func selectorsToMap(sel config.Selectors) datatypes.JSONMap {
	m := datatypes.JSONMap{}
	for k, v := range map[string]string{
		"articles":  sel.Articles,
		"title":     sel.Title,
		"link":      sel.Link,
		"timestamp": sel.Timestamp,
		"ingress":   sel.Ingress,
	} {
		if v != "" {
			m[k] = v
		}
	}
	return m
}

func mapToSelectors(m datatypes.JSONMap) config.Selectors {
	str := func(k string) string {
		v, _ := m[k].(string)
		return v
	}
	return config.Selectors{
		Articles:  str("articles"),
		Title:     str("title"),
		Link:      str("link"),
		Timestamp: str("timestamp"),
		Ingress:   str("ingress"),
	}
}

// EnsureSite 按名称写入或更新一个站点
func (s *Store) EnsureSite(cs config.Site, position int) (*Site, error) {
	if s.DB == nil {
		return nil, ErrNoDatabase
	}
	if err := cs.Validate(); err != nil {
		return nil, err
	}

	want := siteFromConfig(cs, position)
	site := &Site{}
	if err := s.DB.Where("name = ?", want.Name).Attrs(want).FirstOrCreate(site).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(site).Updates(map[string]any{
		"base_url":  want.BaseURL,
		"rss_url":   want.RSSURL,
		"category":  want.Category,
		"render":    want.Render,
		"selectors": want.Selectors,
		"position":  want.Position,
	}).Error; err != nil {
		return nil, err
	}
	return site, nil
}

// SeedSites 把 YAML 中的站点同步到数据库，保持文件中的顺序
func (s *Store) SeedSites(sites []config.Site) error {
	if s.DB == nil {
		return ErrNoDatabase
	}
	for i, cs := range sites {
		if err := cs.Validate(); err != nil {
			logging.Warn("skip malformed site", "site", cs.Name, "err", err)
			continue
		}
		if _, err := s.EnsureSite(cs, i); err != nil {
			return fmt.Errorf("seed site %q: %w", cs.Name, err)
		}
	}
	s.invalidateSites()
	return nil
}

// SetSiteStatus 启用或停用站点
func (s *Store) SetSiteStatus(name, status string) error {
	if s.DB == nil {
		return ErrNoDatabase
	}
	res := s.DB.Model(&Site{}).Where("name = ?", name).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("site %q not found", name)
	}
	s.invalidateSites()
	return nil
}

// Sites 实现站点提供者：返回启用的站点，按 position 排序，结果在 Redis 缓存 5 分钟
func (s *Store) Sites() ([]config.Site, error) {
	if s.DB == nil {
		return nil, ErrNoDatabase
	}

	ctx := context.Background()
	if s.Redis != nil {
		if bs, err := s.Redis.Get(ctx, sitesCacheKey).Bytes(); err == nil {
			var cached []config.Site
			if err := json.Unmarshal(bs, &cached); err == nil {
				return cached, nil
			}
		}
	}

	var rows []Site
	if err := s.DB.Where("status = ?", SiteActive).Order("position ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]config.Site, len(rows))
	for i, r := range rows {
		out[i] = r.Config()
	}

	if s.Redis != nil && len(out) > 0 {
		if bs, err := json.Marshal(out); err == nil {
			_ = s.Redis.Set(ctx, sitesCacheKey, bs, sitesCacheTTL).Err()
		}
	}
	return out, nil
}

func (s *Store) invalidateSites() {
	if s.Redis == nil {
		return
	}
	_ = s.Redis.Del(context.Background(), sitesCacheKey).Err()
}
