package metrics

import (
	"testing"
	"time"
)

func TestRecordRefreshAndError(t *testing.T) {
	m := New()
	if !m.Healthy() {
		t.Fatalf("new metrics should be healthy")
	}

	m.RecordRefresh(2*time.Second, 12)
	m.RecordRefresh(4*time.Second, 7)
	stats := m.GetStats()
	if stats["refresh_runs"].(int64) != 2 {
		t.Fatalf("refresh_runs = %v, want 2", stats["refresh_runs"])
	}
	if stats["average_refresh_duration_ms"].(int64) != 3000 {
		t.Fatalf("average = %v, want 3000", stats["average_refresh_duration_ms"])
	}
	if stats["last_article_count"].(int) != 7 {
		t.Fatalf("last_article_count = %v, want 7", stats["last_article_count"])
	}

	m.SetError("keywords missing")
	if m.Healthy() {
		t.Fatalf("metrics should be unhealthy after an error")
	}
	if got := m.GetStats()["last_error"]; got != "keywords missing" {
		t.Fatalf("last_error = %v", got)
	}

	m.RecordRefresh(time.Second, 3)
	if !m.Healthy() {
		t.Fatalf("successful refresh should restore health")
	}
}

func TestCountersAndZeroTimes(t *testing.T) {
	m := New()
	m.IncrementSourcesFetched()
	m.IncrementSourceFailures()
	m.IncrementIngressFetches()
	m.IncrementIngressFetches()

	stats := m.GetStats()
	if stats["sources_fetched"].(int64) != 1 || stats["source_failures"].(int64) != 1 || stats["ingress_fetches"].(int64) != 2 {
		t.Fatalf("unexpected counters: %+v", stats)
	}
	if stats["last_run_time"] != "" {
		t.Fatalf("zero last_run_time should render empty, got %v", stats["last_run_time"])
	}
}
