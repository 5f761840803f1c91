package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/service"
	"portfolio-digital/internal/transport/http/ez"
)

// PublicHandler 访客可读的内容；未发布内容只对管理员可见
type PublicHandler struct {
	catalog *service.Catalog
}

func NewPublicHandler(catalog *service.Catalog) *PublicHandler {
	return &PublicHandler{catalog: catalog}
}

type projectsQuery struct {
	Q        string `form:"q"`
	Category uint   `form:"category"`
}

type categoryQuery struct {
	Category uint `form:"category"`
}

func optionalID(id uint) *uint {
	if id == 0 {
		return nil
	}
	return &id
}

func (h *PublicHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Home]{
		Method: http.MethodGet, Path: "/home", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Home, error) {
			return h.catalog.Home(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[projectsQuery, []domain.ProjectView]{
		Method: http.MethodGet, Path: "/projects", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *projectsQuery) ([]domain.ProjectView, error) {
			return h.catalog.Projects(c.Request.Context(), service.ProjectQuery{
				Search:     in.Q,
				CategoryID: optionalID(in.Category),
			})
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.ProjectDetail]{
		Method: http.MethodGet, Path: "/projects/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.ProjectDetail, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.catalog.Project(c.Request.Context(), ez.Viewer(c), id)
		},
	})

	ez.RegisterAction(e, ez.Action[categoryQuery, []domain.Achievement]{
		Method: http.MethodGet, Path: "/achievements", Binder: ez.BindQuery,
		Handler: func(c *gin.Context, in *categoryQuery) ([]domain.Achievement, error) {
			return h.catalog.Achievements(c.Request.Context(), optionalID(in.Category))
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.Achievement]{
		Method: http.MethodGet, Path: "/achievements/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Achievement, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.catalog.Achievement(c.Request.Context(), ez.Viewer(c), id)
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Education]{
		Method: http.MethodGet, Path: "/education", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Education, error) {
			return h.catalog.Education(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, *domain.AboutMe]{
		Method: http.MethodGet, Path: "/about", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.AboutMe, error) {
			return h.catalog.About(c.Request.Context())
		},
	})

	ez.RegisterAction(e, ez.Action[struct{}, []domain.Category]{
		Method: http.MethodGet, Path: "/categories", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Category, error) {
			return h.catalog.Categories(c.Request.Context())
		},
	})
}
