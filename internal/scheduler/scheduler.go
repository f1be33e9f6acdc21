package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/LJTian/CyberPulse/internal/cache"
	"github.com/LJTian/CyberPulse/internal/collector"
	"github.com/LJTian/CyberPulse/internal/logging"
	"github.com/LJTian/CyberPulse/internal/metrics"
	"github.com/robfig/cron/v3"
)

// Runner 执行一轮完整的聚合
type Runner interface {
	Run(ctx context.Context) ([]collector.Article, error)
}

type Scheduler struct {
	cron   *cron.Cron
	runner Runner
	cache  *cache.Cache

	// 串行化定时刷新与手动刷新，避免重复抓取
	runMu sync.Mutex
}

func New(spec string, runner Runner, c *cache.Cache) (*Scheduler, error) {
	cr := cron.New(cron.WithChain(
		cron.Recover(cron.PrintfLogger(logging.StdLogger())),
	))

	s := &Scheduler{
		cron:   cr,
		runner: runner,
		cache:  c,
	}

	if _, err := cr.AddFunc(spec, s.runOnce); err != nil {
		return nil, fmt.Errorf("invalid cron spec %q: %w", spec, err)
	}
	return s, nil
}

// Start 启动定时任务，并在后台立即执行首轮刷新，让缓存尽快有数据
func (s *Scheduler) Start() {
	s.cron.Start()
	go s.runOnce()
}

// Stop 停止定时任务，返回的 context 在正在执行的任务结束后关闭
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// RunOnce 对外暴露的单次执行入口，失败只记录日志，旧快照继续生效
func (s *Scheduler) RunOnce() {
	s.runOnce()
}

// Refresh 手动刷新：同步执行一轮聚合并安装结果，返回文章数
func (s *Scheduler) Refresh() (int, error) {
	return s.refresh("manual")
}

func (s *Scheduler) runOnce() {
	if _, err := s.refresh("timer"); err != nil {
		logging.Error("refresh failed, keeping previous snapshot", "err", err)
	}
}

func (s *Scheduler) refresh(trigger string) (count int, err error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	start := time.Now()
	logging.Info("refresh started", "trigger", trigger)

	articles, err := s.run()
	if err != nil {
		metrics.Global.SetError(err.Error())
		return 0, err
	}

	s.cache.Install(cache.Snapshot{Articles: articles, GeneratedAt: time.Now()})
	took := time.Since(start)
	metrics.Global.RecordRefresh(took, len(articles))
	logging.Info("refresh done", "trigger", trigger, "articles", len(articles), "took", took)
	return len(articles), nil
}

// run 聚合过程中的 panic 转成错误
func (s *Scheduler) run() (articles []collector.Article, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("aggregation panicked: %v", r)
		}
	}()
	return s.runner.Run(context.Background())
}
