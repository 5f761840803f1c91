// provision 幂等地创建或更新管理员账号；只在部署时手动执行，服务启动不会调用。
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"portfolio-digital/internal/app"
	"portfolio-digital/internal/core/config"
	"portfolio-digital/internal/service"
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

	if cfg.Admin.Email == "" || cfg.Admin.Password == "" {
		log.Fatal("admin.email and admin.password are required (APP_ADMIN_EMAIL / APP_ADMIN_PASSWORD)")
	}

	a, err := app.Open(cfg, log)
	if err != nil {
		log.Fatal("bootstrap failed", zap.Error(err))
	}
	defer a.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	created, u, err := service.NewAccounts(a.Store, log).ProvisionAdmin(ctx, service.NewAccount{
		Email:     cfg.Admin.Email,
		Password:  cfg.Admin.Password,
		FirstName: cfg.Admin.FirstName,
		LastName:  cfg.Admin.LastName,
	})
	if err != nil {
		log.Fatal("provision admin failed", zap.Error(err))
	}
	log.Info("admin provisioned", zap.String("user_id", u.ID), zap.Bool("created", created))
}
