package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/LJTian/CyberPulse/internal/api"
	"github.com/LJTian/CyberPulse/internal/app"
	"github.com/LJTian/CyberPulse/internal/cache"
	"github.com/LJTian/CyberPulse/internal/config"
	"github.com/LJTian/CyberPulse/internal/logging"
	"github.com/LJTian/CyberPulse/internal/scheduler"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	logging.Init(cfg.Debug)

	a, err := app.Build(cfg)
	if err != nil {
		logging.Fatal("init app failed", "err", err)
	}
	defer a.Close()

	articles := cache.New()
	s, err := scheduler.New(cfg.CronSpec, a.Processor, articles)
	if err != nil {
		logging.Fatal("init scheduler failed", "err", err)
	}
	// 启动后立即在后台执行首轮刷新，之后按 CRON_SPEC 定时刷新
	s.Start()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	gin.DefaultWriter = logging.StdLogger().Writer()

	r := gin.Default()
	// 若配置了全局访问密码，则启用 Basic Auth 保护（/health 仍然免认证）
	if cfg.BasicAuthUser != "" && cfg.BasicAuthPass != "" {
		r.Use(api.BasicAuthMiddleware(cfg.BasicAuthUser, cfg.BasicAuthPass))
	}

	apiServer := api.NewServer(articles, a.Keywords, s)
	apiServer.RegisterRoutes(r)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}
	go func() {
		logging.Info("starting api server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Fatal("server exit", "err", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logging.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("server shutdown failed", "err", err)
	}
	<-s.Stop().Done()
}
