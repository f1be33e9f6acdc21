package metrics

import (
	"sync"
	"time"
)

type Metrics struct {
	mu sync.RWMutex

	// Counters
	RefreshRuns     int64
	RefreshFailures int64
	SourcesFetched  int64
	SourceFailures  int64
	IngressFetches  int64

	// Timings
	LastRefreshDuration    time.Duration
	AverageRefreshDuration time.Duration
	TotalRefreshDuration   time.Duration

	// Status
	LastArticleCount int
	LastRunTime      time.Time
	LastErrorTime    time.Time
	LastError        string
	IsHealthy        bool
}

var Global = New()

func New() *Metrics {
	return &Metrics{IsHealthy: true}
}

func (m *Metrics) IncrementSourcesFetched() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourcesFetched++
}

func (m *Metrics) IncrementSourceFailures() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SourceFailures++
}

func (m *Metrics) IncrementIngressFetches() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.IngressFetches++
}

// RecordRefresh 一次成功的刷新：更新耗时、条数并恢复健康状态
func (m *Metrics) RecordRefresh(duration time.Duration, count int) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.RefreshRuns++
	m.LastRefreshDuration = duration
	m.TotalRefreshDuration += duration
	m.AverageRefreshDuration = m.TotalRefreshDuration / time.Duration(m.RefreshRuns)

	m.LastArticleCount = count
	m.LastRunTime = time.Now()
	m.IsHealthy = true
}

func (m *Metrics) SetError(err string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RefreshFailures++
	m.LastError = err
	m.LastErrorTime = time.Now()
	m.IsHealthy = false
}

func (m *Metrics) Healthy() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.IsHealthy
}

func (m *Metrics) GetStats() map[string]interface{} {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return map[string]interface{}{
		"refresh_runs":               m.RefreshRuns,
		"refresh_failures":           m.RefreshFailures,
		"sources_fetched":            m.SourcesFetched,
		"source_failures":            m.SourceFailures,
		"ingress_fetches":            m.IngressFetches,
		"last_refresh_duration_ms":   m.LastRefreshDuration.Milliseconds(),
		"average_refresh_duration_ms": m.AverageRefreshDuration.Milliseconds(),
		"last_article_count":         m.LastArticleCount,
		"last_run_time":              formatTime(m.LastRunTime),
		"last_error_time":            formatTime(m.LastErrorTime),
		"last_error":                 m.LastError,
		"is_healthy":                 m.IsHealthy,
	}
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
