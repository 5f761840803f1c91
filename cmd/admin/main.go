package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "go.uber.org/automaxprocs"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"portfolio-digital/internal/app"
	"portfolio-digital/internal/core/config"
	"portfolio-digital/internal/core/server"
	"portfolio-digital/internal/service"
	"portfolio-digital/internal/transport/http/handler"
	"portfolio-digital/internal/transport/http/router"
)

func main() {
	_ = godotenv.Load()
	cfg, err := config.Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, cleanup := app.NewLogger(cfg)
	defer cleanup()

	a, err := app.Open(cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	images, err := a.Images(ctx)
	if err != nil {
		log.Fatal("blob store", zap.Error(err))
	}

	// syncer 为 nil 时保持接口为 nil，handler 会返回 not configured
	var syncer handler.Syncer
	if s := a.Syncer(); s != nil {
		syncer = s
	}

	mods := (&router.Registry{}).Register(
		handler.NewContentAdmin(service.NewEditor(a.Store, images, log), service.NewCatalog(a.Store, log)),
		handler.NewCategoryAdmin(service.NewCategories(a.Store, log)),
		handler.NewDashboardAdmin(service.NewDashboard(a.Store)),
		handler.NewSyncAdmin(syncer),
	)
	opts := a.RouterOptions(mods)
	opts.UploadDir = "" // 图片由公开端提供
	r := router.NewAdminEngine(opts)

	addr := server.Addr(cfg.App.Admin.Host, cfg.App.Admin.Port)
	// 同步可能跑满 lock TTL，写超时要比它长
	wt := cfg.GitHub.LockTTL() + 10*time.Second
	srv := server.BuildServer(addr, r, 15*time.Second, wt, 60*time.Second)

	host4human := cfg.App.Admin.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.Admin.Port)
	log.Info("admin api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("admin_v1", baseURL+"/admin/v1"),
		zap.Bool("github_sync", syncer != nil),
	)

	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("admin api FAILED", zap.Error(err))
	}
}
