package scheduler

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/LJTian/CyberPulse/internal/cache"
	"github.com/LJTian/CyberPulse/internal/collector"
)

type fakeRunner struct {
	mu       sync.Mutex
	results  [][]collector.Article
	errs     []error
	panicOn  int
	calls    int
	running  int32
	maxInRun int32
	delay    time.Duration
}

func (f *fakeRunner) Run(context.Context) ([]collector.Article, error) {
	n := atomic.AddInt32(&f.running, 1)
	defer atomic.AddInt32(&f.running, -1)
	for {
		m := atomic.LoadInt32(&f.maxInRun)
		if n <= m || atomic.CompareAndSwapInt32(&f.maxInRun, m, n) {
			break
		}
	}
	time.Sleep(f.delay)

	f.mu.Lock()
	defer f.mu.Unlock()
	i := f.calls
	f.calls++
	if f.panicOn > 0 && i+1 == f.panicOn {
		panic("pipeline exploded")
	}
	if i < len(f.errs) && f.errs[i] != nil {
		return nil, f.errs[i]
	}
	if i < len(f.results) {
		return f.results[i], nil
	}
	return nil, nil
}

func articles(titles ...string) []collector.Article {
	out := make([]collector.Article, len(titles))
	for i, t := range titles {
		out[i] = collector.Article{Title: t, Link: "https://example.com/" + t}
	}
	return out
}

func TestNewRejectsInvalidSpec(t *testing.T) {
	if _, err := New("not a cron spec", &fakeRunner{}, cache.New()); err == nil {
		t.Fatalf("expected error for invalid cron spec")
	}
	if _, err := New("@every 30m", &fakeRunner{}, cache.New()); err != nil {
		t.Fatalf("New with @every 30m: %v", err)
	}
}

func TestRefreshInstallsSnapshot(t *testing.T) {
	c := cache.New()
	s, err := New("@every 30m", &fakeRunner{results: [][]collector.Article{articles("a", "b")}}, c)
	if err != nil {
		t.Fatal(err)
	}

	n, err := s.Refresh()
	if err != nil || n != 2 {
		t.Fatalf("Refresh() = %d, %v; want 2, nil", n, err)
	}
	snap := c.Read()
	if len(snap.Articles) != 2 || snap.GeneratedAt.IsZero() {
		t.Fatalf("snapshot = %+v", snap)
	}
}

func TestFailedRefreshKeepsPreviousSnapshot(t *testing.T) {
	c := cache.New()
	runner := &fakeRunner{
		results: [][]collector.Article{articles("kept")},
		errs:    []error{nil, errors.New("keywords unavailable")},
		panicOn: 3,
	}
	s, err := New("@every 30m", runner, c)
	if err != nil {
		t.Fatal(err)
	}

	s.RunOnce()
	before := c.Read()
	if len(before.Articles) != 1 || before.Articles[0].Title != "kept" {
		t.Fatalf("initial snapshot = %+v", before)
	}

	if _, err := s.Refresh(); err == nil {
		t.Fatalf("expected error from failing run")
	}
	if _, err := s.Refresh(); err == nil {
		t.Fatalf("expected panic to surface as error")
	}

	after := c.Read()
	if len(after.Articles) != 1 || after.Articles[0].Title != "kept" || !after.GeneratedAt.Equal(before.GeneratedAt) {
		t.Fatalf("failed refreshes replaced the snapshot: %+v", after)
	}

	// 失败之后定时任务照常继续
	s.RunOnce()
	if runner.calls != 4 {
		t.Fatalf("runner calls = %d, want 4", runner.calls)
	}
}

func TestRefreshesAreSerialized(t *testing.T) {
	runner := &fakeRunner{delay: 20 * time.Millisecond}
	s, err := New("@every 30m", runner, cache.New())
	if err != nil {
		t.Fatal(err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Refresh()
		}()
	}
	wg.Wait()

	if got := atomic.LoadInt32(&runner.maxInRun); got != 1 {
		t.Fatalf("max concurrent runs = %d, want 1", got)
	}
}

func TestStartRunsInitialRefresh(t *testing.T) {
	c := cache.New()
	s, err := New("@every 30m", &fakeRunner{results: [][]collector.Article{articles("first")}}, c)
	if err != nil {
		t.Fatal(err)
	}
	s.Start()
	defer s.Stop()

	deadline := time.Now().Add(2 * time.Second)
	for !c.Ready() {
		if time.Now().After(deadline) {
			t.Fatalf("initial refresh did not install a snapshot")
		}
		time.Sleep(10 * time.Millisecond)
	}
}
