package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/LJTian/CyberPulse/internal/logging"
)

// Category 站点级分类，在配置时确定，不按文章修改
type Category string

const (
	CategorySwedish       Category = "swedish"
	CategoryInternational Category = "international"
)

// Mode 决定站点使用哪种采集方式
type Mode int

const (
	ModeRSS Mode = iota
	ModeHTML
)

func (m Mode) String() string {
	if m == ModeRSS {
		return "rss"
	}
	return "html"
}

// Selectors HTML 模式下的 CSS 选择器；Timestamp / Ingress 可选
type Selectors struct {
	Articles  string `yaml:"articles" json:"articles"`
	Title     string `yaml:"title" json:"title"`
	Link      string `yaml:"link" json:"link"`
	Timestamp string `yaml:"timestamp,omitempty" json:"timestamp,omitempty"`
	Ingress   string `yaml:"ingress,omitempty" json:"ingress,omitempty"`
}

// Site 一个新闻来源
type Site struct {
	Name      string    `yaml:"name"`
	URL       string    `yaml:"url"`
	RSSURL    string    `yaml:"rss_url,omitempty"`
	Category  Category  `yaml:"category,omitempty"`
	Render    bool      `yaml:"render,omitempty"`
	Selectors Selectors `yaml:"selectors,omitempty"`
}

func (s Site) Mode() Mode {
	if strings.TrimSpace(s.RSSURL) != "" {
		return ModeRSS
	}
	return ModeHTML
}

// CategoryOrDefault 未配置分类时视为 international
func (s Site) CategoryOrDefault() Category {
	if s.Category == CategorySwedish {
		return CategorySwedish
	}
	return CategoryInternational
}

// Validate 检查必填字段；HTML 模式缺少选择器时报错，由调用方按单个来源失败处理
func (s Site) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("site: missing name")
	}
	if strings.TrimSpace(s.URL) == "" {
		return fmt.Errorf("site %s: missing url", s.Name)
	}
	if s.Mode() == ModeRSS {
		return nil
	}
	var missing []string
	if s.Selectors.Articles == "" {
		missing = append(missing, "articles")
	}
	if s.Selectors.Title == "" {
		missing = append(missing, "title")
	}
	if s.Selectors.Link == "" {
		missing = append(missing, "link")
	}
	if len(missing) > 0 {
		return fmt.Errorf("site %s: missing selectors %s", s.Name, strings.Join(missing, ", "))
	}
	return nil
}

type sitesFile struct {
	Sites []Site `yaml:"sites"`
}

// LoadSites 从 YAML 文件读取站点列表，保持文件中的顺序
func LoadSites(path string) ([]Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read sites %s: %w", path, err)
	}
	return ParseSites(data)
}

func ParseSites(data []byte) ([]Site, error) {
	var f sitesFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("config: parse sites: %w", err)
	}
	for i := range f.Sites {
		f.Sites[i].Category = f.Sites[i].CategoryOrDefault()
	}
	return f.Sites, nil
}

// SiteFile 按文件修改时间热加载站点配置
type SiteFile struct {
	path string

	mu    sync.Mutex
	mtime time.Time
	sites []Site
}

func NewSiteFile(path string) *SiteFile {
	return &SiteFile{path: path}
}

// Sites 返回当前站点列表的副本；文件未变化时直接返回缓存
func (f *SiteFile) Sites() ([]Site, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	info, err := os.Stat(f.path)
	if err != nil {
		if f.sites != nil {
			return append([]Site(nil), f.sites...), nil
		}
		return nil, fmt.Errorf("config: stat sites %s: %w", f.path, err)
	}

	if f.sites == nil || !info.ModTime().Equal(f.mtime) {
		sites, err := LoadSites(f.path)
		if err != nil {
			return nil, err
		}
		f.sites = sites
		f.mtime = info.ModTime()
		logging.Info("sites reloaded", "count", len(sites), "file", f.path)
	}
	return append([]Site(nil), f.sites...), nil
}
