package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-digital/internal/domain"
	"portfolio-digital/internal/service"
	"portfolio-digital/internal/transport/http/ez"
)

const imageField = "image"

// ContentAdmin 项目 / 成就 / 教育经历 / 关于我 的后台维护
type ContentAdmin struct {
	editor  *service.Editor
	catalog *service.Catalog
}

func NewContentAdmin(editor *service.Editor, catalog *service.Catalog) *ContentAdmin {
	return &ContentAdmin{editor: editor, catalog: catalog}
}

type deleted struct {
	ID uint `json:"id"`
}

func (h *ContentAdmin) MountAdmin(g *gin.RouterGroup) {
	e := ez.New(g)
	h.mountProjects(e)
	h.mountAchievements(e)
	h.mountEducation(e)
	h.mountAbout(e)
}

func (h *ContentAdmin) mountProjects(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, []domain.ProjectView]{
		Method: http.MethodGet, Path: "/projects", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.ProjectView, error) {
			return h.editor.Projects(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, *domain.Project]{
		Method: http.MethodGet, Path: "/projects/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.Project, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.editor.Project(c.Request.Context(), id)
		},
	})
	ez.RegisterAction(e, ez.Action[service.ProjectInput, *domain.Project]{
		Method: http.MethodPost, Path: "/projects", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.ProjectInput) (*domain.Project, error) {
			return h.editor.CreateProject(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[service.ProjectInput, *domain.Project]{
		Method: http.MethodPut, Path: "/projects/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.ProjectInput) (*domain.Project, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.editor.UpdateProject(c.Request.Context(), id, *in)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, deleted]{
		Method: http.MethodDelete, Path: "/projects/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deleted, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return deleted{}, err
			}
			return deleted{ID: id}, h.editor.DeleteProject(c.Request.Context(), id)
		},
	})
	ez.POSTFILE(e, "/projects/:id/image", imageField, false, nil, func(c *gin.Context, f ez.File) (*domain.Project, error) {
		id, err := ez.ParamID(c, "id")
		if err != nil {
			return nil, err
		}
		return h.editor.SetProjectImage(c.Request.Context(), id, f.Name, f.Reader)
	})
}

func (h *ContentAdmin) mountAchievements(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Achievement]{
		Method: http.MethodGet, Path: "/achievements", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Achievement, error) {
			return h.editor.Achievements(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[service.AchievementInput, *domain.Achievement]{
		Method: http.MethodPost, Path: "/achievements", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.AchievementInput) (*domain.Achievement, error) {
			return h.editor.CreateAchievement(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[service.AchievementInput, *domain.Achievement]{
		Method: http.MethodPut, Path: "/achievements/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.AchievementInput) (*domain.Achievement, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.editor.UpdateAchievement(c.Request.Context(), id, *in)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, deleted]{
		Method: http.MethodDelete, Path: "/achievements/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deleted, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return deleted{}, err
			}
			return deleted{ID: id}, h.editor.DeleteAchievement(c.Request.Context(), id)
		},
	})
	ez.POSTFILE(e, "/achievements/:id/image", imageField, false, nil, func(c *gin.Context, f ez.File) (*domain.Achievement, error) {
		id, err := ez.ParamID(c, "id")
		if err != nil {
			return nil, err
		}
		return h.editor.SetAchievementImage(c.Request.Context(), id, f.Name, f.Reader)
	})
}

func (h *ContentAdmin) mountEducation(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, []domain.Education]{
		Method: http.MethodGet, Path: "/education", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) ([]domain.Education, error) {
			return h.editor.Education(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[service.EducationInput, *domain.Education]{
		Method: http.MethodPost, Path: "/education", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.EducationInput) (*domain.Education, error) {
			return h.editor.CreateEducation(c.Request.Context(), *in)
		},
	})
	ez.RegisterAction(e, ez.Action[service.EducationInput, *domain.Education]{
		Method: http.MethodPut, Path: "/education/:id", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.EducationInput) (*domain.Education, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return h.editor.UpdateEducation(c.Request.Context(), id, *in)
		},
	})
	ez.RegisterAction(e, ez.Action[struct{}, deleted]{
		Method: http.MethodDelete, Path: "/education/:id", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (deleted, error) {
			id, err := ez.ParamID(c, "id")
			if err != nil {
				return deleted{}, err
			}
			return deleted{ID: id}, h.editor.DeleteEducation(c.Request.Context(), id)
		},
	})
}

func (h *ContentAdmin) mountAbout(e ez.EZ) {
	ez.RegisterAction(e, ez.Action[struct{}, *domain.AboutMe]{
		Method: http.MethodGet, Path: "/about", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (*domain.AboutMe, error) {
			return h.catalog.About(c.Request.Context())
		},
	})
	ez.RegisterAction(e, ez.Action[service.AboutInput, *domain.AboutMe]{
		Method: http.MethodPut, Path: "/about", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *service.AboutInput) (*domain.AboutMe, error) {
			return h.editor.UpsertAbout(c.Request.Context(), *in)
		},
	})
	ez.POSTFILE(e, "/about/image", imageField, false, nil, func(c *gin.Context, f ez.File) (*domain.AboutMe, error) {
		return h.editor.SetAboutImage(c.Request.Context(), f.Name, f.Reader)
	})
}
