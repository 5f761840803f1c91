// Package app 组装两个二进制共用的依赖：配置、日志、数据库、存储、同步。
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"portfolio-digital/internal/core/auth"
	"portfolio-digital/internal/core/config"
	"portfolio-digital/internal/core/database"
	"portfolio-digital/internal/core/lock"
	"portfolio-digital/internal/core/logger"
	"portfolio-digital/internal/githubsync"
	"portfolio-digital/internal/repo"
	"portfolio-digital/internal/storage"
	"portfolio-digital/internal/transport/http/router"
)

type App struct {
	Cfg   *config.Config
	Log   *zap.Logger
	Store *repo.Store
	JWT   *auth.JWTer

	closers []func()
}

// NewLogger 按配置构造 zap，附带 std log 重定向
func NewLogger(cfg *config.Config) (*zap.Logger, func()) {
	var rot *logger.FileRotate
	if r := cfg.Log.Rotate; r.Enable {
		rot = &logger.FileRotate{
			Enable:     true,
			Filename:   r.Filename,
			MaxSizeMB:  r.MaxSizeMB,
			MaxBackups: r.MaxBackups,
			MaxAgeDays: r.MaxAgeDays,
			Compress:   r.Compress,
		}
	}
	l, cleanup := logger.FromConfig(cfg.Log.Level, cfg.Log.JSON, rot)
	restore := logger.RedirectStdLog(l, zap.InfoLevel)
	return l, func() { restore(); cleanup() }
}

// Open 连接数据库（可选自动迁移）并准备 JWT
func Open(cfg *config.Config, log *zap.Logger) (*App, error) {
	db, err := database.NewGorm(database.Opts{
		Driver:             cfg.DB.Driver,
		DSN:                cfg.DB.DSN,
		Username:           cfg.DB.Username,
		Password:           cfg.DB.Password,
		MaxOpenConns:       cfg.DB.MaxOpenConns,
		MaxIdleConns:       cfg.DB.MaxIdleConns,
		ConnMaxLifetimeMin: cfg.DB.ConnMaxLifetimeMin,
		LogLevel:           cfg.DB.LogLevel,
		Logger:             log.Named("gorm"),
	})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	a := &App{Cfg: cfg, Log: log, Store: repo.NewStore(db)}
	if sqlDB, e := db.DB(); e == nil {
		a.closers = append(a.closers, func() { _ = sqlDB.Close() })
	}
	log.Info("database connected", zap.String("driver", cfg.DB.Driver))

	if cfg.DB.AutoMigrate {
		if err := repo.Migrate(db); err != nil {
			a.Close()
			return nil, fmt.Errorf("automigrate: %w", err)
		}
		log.Info("automigrate done")
	}

	a.JWT, err = auth.NewJWTer(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.AccessTokenTTL())
	if err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

// Images 根据 upload.backend 选择本地磁盘或 MinIO
func (a *App) Images(ctx context.Context) (*storage.Images, error) {
	var blobs storage.BlobStore
	switch a.Cfg.Upload.Backend {
	case "minio":
		m := a.Cfg.MinIO
		mc, err := storage.NewMinIO(ctx, storage.MinIOOptions{
			Endpoint:  m.Endpoint,
			AccessKey: m.AccessKey,
			SecretKey: m.SecretKey,
			Bucket:    m.Bucket,
			UseSSL:    m.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		blobs = mc
	case "local", "":
		l, err := storage.NewLocal(a.Cfg.Upload.Dir)
		if err != nil {
			return nil, err
		}
		blobs = l
	default:
		return nil, fmt.Errorf("unknown upload backend %q", a.Cfg.Upload.Backend)
	}
	a.Log.Info("blob store ready", zap.String("backend", a.Cfg.Upload.Backend))
	return &storage.Images{
		Blobs:    blobs,
		MaxBytes: a.Cfg.Upload.MaxBytes,
		MaxSide:  a.Cfg.Upload.MaxSide,
		Quality:  a.Cfg.Upload.Quality,
	}, nil
}

// Syncer 未配置 github.owner 时返回 nil；redis 未配置时只做进程内串行
func (a *App) Syncer() *githubsync.Syncer {
	gh := a.Cfg.GitHub
	if gh.Owner == "" {
		a.Log.Warn("github sync disabled: github.owner is empty")
		return nil
	}
	client := githubsync.NewClient(githubsync.ClientOptions{
		BaseURL:       gh.APIBaseURL,
		ListTimeout:   gh.ListTimeout(),
		EnrichTimeout: gh.EnrichTimeout(),
		EnrichRPS:     gh.EnrichRPS,
	}, a.Log.Named("github"))
	rec := githubsync.NewReconciler(a.Store, client, gh.Owner, a.Log.Named("sync"))

	var locker githubsync.Locker
	if a.Cfg.Redis.Addr != "" {
		l := lock.New(a.Cfg.Redis.Addr, a.Cfg.Redis.Password, a.Cfg.Redis.DB)
		a.closers = append(a.closers, func() { _ = l.Close() })
		locker = l
	}
	creds := githubsync.StaticToken{Token: gh.Token, TTL: gh.TokenTTL()}
	return githubsync.NewSyncer(rec, creds, locker, gh.LockTTL(), a.Log.Named("sync"))
}

// RouterOptions 两个引擎共用的 HTTP 参数
func (a *App) RouterOptions(mods *router.Registry) router.Options {
	o := router.Options{
		Log:          a.Log,
		JWT:          a.JWT,
		Modules:      mods,
		CORSOrigins:  a.Cfg.App.CORSOrigins,
		MaxInFlight:  a.Cfg.App.MaxInFlight,
		MaxBodyBytes: a.Cfg.Upload.MaxBytes + 1<<20,
		Timeout:      a.Cfg.App.Timeout(),
	}
	if a.Cfg.Upload.Backend == "local" || a.Cfg.Upload.Backend == "" {
		o.UploadDir = a.Cfg.Upload.Dir
		o.UploadPrefix = a.Cfg.Upload.PublicPrefix
	}
	return o
}

// MediaBaseURL 图片 key 的公开前缀，前端拼接 base + "/" + key
func (a *App) MediaBaseURL() string {
	if a.Cfg.Upload.Backend == "minio" {
		return a.Cfg.MinIO.PublicURL
	}
	return a.Cfg.Upload.PublicPrefix
}
