package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"portfolio-digital/internal/core/auth"
	"portfolio-digital/internal/core/server"
	mdw "portfolio-digital/internal/transport/http/middleware"
)

type Options struct {
	Log          *zap.Logger
	JWT          *auth.JWTer
	Modules      *Registry
	CORSOrigins  []string
	MaxInFlight  int64
	MaxBodyBytes int64
	Timeout      time.Duration
	// 本地上传目录；为空表示图片由对象存储直接对外
	UploadDir    string
	UploadPrefix string
}

func (o Options) withDefaults() Options {
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
	if o.Modules == nil {
		o.Modules = &Registry{}
	}
	if o.MaxBodyBytes == 0 {
		o.MaxBodyBytes = 16 << 20
	}
	if o.Timeout == 0 {
		o.Timeout = 15 * time.Second
	}
	return o
}

func base(name string, o Options) *gin.Engine {
	r := server.NewRouter(o.Log, server.Options{Name: name, CORSOrigins: o.CORSOrigins})
	r.Use(
		mdw.RequestID(),
		mdw.ConcurrencyLimit(o.MaxInFlight),
		mdw.MaxBodyBytes(o.MaxBodyBytes),
		mdw.Timeout(o.Timeout),
		mdw.Metrics(name),
		mdw.AccessLog(o.Log.Named(name)),
	)

	// 健康检查 + 指标
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": 1}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	return r
}

// NewAPIEngine 公开站点；token 可选，登录要求由各 Action 自己声明
func NewAPIEngine(o Options) *gin.Engine {
	o = o.withDefaults()
	r := base("api", o)
	if o.UploadDir != "" && strings.HasPrefix(o.UploadPrefix, "/") {
		r.Static(o.UploadPrefix, o.UploadDir)
	}

	api := r.Group("/api/v1")
	api.Use(mdw.Locale(), mdw.OptionalAuthJWT(o.JWT))
	o.Modules.MountAPI(api)
	return r
}
