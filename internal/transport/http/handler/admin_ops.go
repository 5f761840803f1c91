package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/githubsync"
	"portfolio-digital/internal/service"
	"portfolio-digital/internal/transport/http/ez"
	resp "portfolio-digital/internal/transport/http/response"
)

type CategoryAdmin struct {
	svc *service.Categories
}

func NewCategoryAdmin(svc *service.Categories) *CategoryAdmin { return &CategoryAdmin{svc: svc} }

func (h *CategoryAdmin) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Category]{
		Method: http.MethodGet, Path: "/categories", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Category, error) {
			return h.svc.List(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[service.CategoryInput, *domain.Category]{
		Method: http.MethodPost, Path: "/categories", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.CategoryInput) (*domain.Category, error) {
			return h.svc.Create(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[service.CategoryInput, *domain.Category]{
		Method: http.MethodPut, Path: "/categories/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.CategoryInput) (*domain.Category, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.svc.Update(c.Request.Context(), id, *in)
		},
	})
	// 仍被项目或成就引用时返回 409
	ez.RegisterAction(e, ez.Action[struct{}, deleted]{
		Method: http.MethodDelete, Path: "/categories/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deleted, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return deleted{}, err
			}
			return deleted{ID: id}, h.svc.Delete(c.Request.Context(), id)
		},
	})
}

type DashboardAdmin struct {
	dash *service.Dashboard
}

func NewDashboardAdmin(dash *service.Dashboard) *DashboardAdmin { return &DashboardAdmin{dash: dash} }

func (h *DashboardAdmin) MountAdmin(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[struct{}, *domain.Stats]{
		Method: http.MethodGet, Path: "/dashboard", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Stats, error) {
			return h.dash.Stats(c.Request.Context())
		},
	})
}

// Syncer 由 githubsync.Syncer 实现
type Syncer interface {
	Sync(ctx context.Context) (githubsync.Result, error)
}

// SyncAdmin 触发 GitHub 同步；syncer 为 nil 表示未配置 owner
type SyncAdmin struct {
	syncer Syncer
}

func NewSyncAdmin(s Syncer) *SyncAdmin { return &SyncAdmin{syncer: s} }

func (h *SyncAdmin) MountAdmin(g *gin.RouterGroup) {
	g.POST("/sync/github", func(c *gin.Context) {
		if h.syncer == nil {
			c.JSON(http.StatusOK, resp.Error(resp.CodeBadRequest, "github sync is not configured"))
			return
		}
		res, err := h.syncer.Sync(c.Request.Context())
		if err != nil {
			_ = c.Error(err)
			msg := res.Message
			if msg == "" {
				msg = ez.Message(err)
			}
			c.JSON(http.StatusOK, resp.ErrorWith(ez.Code(err), msg, res))
			return
		}
		c.JSON(http.StatusOK, resp.OK(res))
	})
}
