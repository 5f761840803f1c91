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

	// 依赖
	accounts := service.NewAccounts(a.Store, log)
	catalog := service.NewCatalog(a.Store, log)
	interactions := service.NewInteractions(a.Store, log, cfg.App.SiteURL)

	mods := (&router.Registry{}).Register(
		handler.NewAuthHandler(accounts, a.JWT),
		handler.NewPublicHandler(catalog),
		handler.NewInteractionHandler(interactions),
		handler.NewLocaleHandler(cfg.App.Env == "prod"),
		handler.NewSiteHandler(cfg.App.SiteURL, a.MediaBaseURL()),
	)
	r := router.NewAPIEngine(a.RouterOptions(mods))

	addr := server.Addr(cfg.App.HTTP.Host, cfg.App.HTTP.Port)
	srv := server.BuildServer(
		addr, r,
		time.Duration(cfg.App.HTTP.ReadTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.WriteTimeoutSec)*time.Second,
		time.Duration(cfg.App.HTTP.IdleTimeoutSec)*time.Second,
	)

	host4human := cfg.App.HTTP.Host
	if host4human == "" || host4human == "0.0.0.0" {
		host4human = "127.0.0.1"
	}
	baseURL := "http://" + host4human + ":" + fmt.Sprint(cfg.App.HTTP.Port)
	log.Info("portfolio api starting",
		zap.String("addr", addr),
		zap.String("health", baseURL+"/health"),
		zap.String("api_v1", baseURL+"/api/v1"),
		zap.String("site_url", cfg.App.SiteURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if err := server.Run(ctx, srv, log, 10*time.Second); err != nil {
		log.Error("portfolio api FAILED", zap.Error(err))
	}
}
