package api

import (
	"net/http"

	"github.com/LJTian/CyberPulse/internal/cache"
	"github.com/LJTian/CyberPulse/internal/config"
	"github.com/LJTian/CyberPulse/internal/keyword"
	"github.com/LJTian/CyberPulse/internal/logging"
	"github.com/LJTian/CyberPulse/internal/metrics"
	"github.com/gin-gonic/gin"
)

// KeywordProvider 渲染时用于高亮的关键字
type KeywordProvider interface {
	Keywords() (keyword.Set, error)
}

// Refresher 手动触发一轮聚合
type Refresher interface {
	Refresh() (int, error)
}

type Server struct {
	cache     *cache.Cache
	keywords  KeywordProvider
	refresher Refresher
}

func NewServer(c *cache.Cache, keywords KeywordProvider, refresher Refresher) *Server {
	return &Server{cache: c, keywords: keywords, refresher: refresher}
}

func (s *Server) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", s.health)
	r.GET("/metrics", s.stats)

	v1 := r.Group("/api/v1")
	{
		v1.GET("/articles", s.listArticles)
		v1.GET("/refresh", s.refresh)
		v1.POST("/refresh", s.refresh)
	}
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"ready":   s.cache.Ready(),
		"healthy": metrics.Global.Healthy(),
	})
}

func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, metrics.Global.GetStats())
}

// listArticles category: 空 / swedish / international / apt
func (s *Server) listArticles(c *gin.Context) {
	category := c.Query("category")
	switch category {
	case "", string(config.CategorySwedish), string(config.CategoryInternational), categoryAPT:
	default:
		c.JSON(http.StatusBadRequest, gin.H{
			"code":    "invalid_category",
			"message": "category must be one of swedish, international, apt",
		})
		return
	}

	snap := s.cache.Read()
	views := buildViews(filterCategory(snap.Articles, category), s.highlightKeywords())

	lastUpdate := ""
	if !snap.GeneratedAt.IsZero() {
		lastUpdate = snap.GeneratedAt.Format("2006-01-02 15:04:05")
	}

	c.JSON(http.StatusOK, gin.H{
		"code":    "ok",
		"message": "success",
		"data": gin.H{
			"articles":   views,
			"count":      len(views),
			"lastUpdate": lastUpdate,
		},
	})
}

func (s *Server) refresh(c *gin.Context) {
	count, err := s.refresher.Refresh()
	if err != nil {
		logging.Error("manual refresh failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"count":  count,
	})
}

// highlightKeywords 关键字加载失败时不高亮，不影响列表展示
func (s *Server) highlightKeywords() []string {
	if s.keywords == nil {
		return nil
	}
	set, err := s.keywords.Keywords()
	if err != nil {
		logging.Warn("load keywords for highlight failed", "err", err)
		return nil
	}
	return set.Combined()
}
