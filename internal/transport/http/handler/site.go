package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-digital/internal/transport/http/ez"
	mdw "portfolio-digital/internal/transport/http/middleware"
)

// SiteHandler 前端渲染需要的站点级信息
type SiteHandler struct {
	siteURL   string
	mediaBase string
}

func NewSiteHandler(siteURL, mediaBase string) *SiteHandler {
	return &SiteHandler{siteURL: strings.TrimRight(siteURL, "/"), mediaBase: strings.TrimRight(mediaBase, "/")}
}

type siteOut struct {
	SiteURL   string `json:"siteUrl"`
	MediaBase string `json:"mediaBase"`
	Locale    string `json:"locale"`
}

func (h *SiteHandler) MountAPI(g *gin.RouterGroup) {
	ez.RegisterAction(ez.New(g), ez.Action[struct{}, siteOut]{
		Method: http.MethodGet, Path: "/site", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (siteOut, error) {
			return siteOut{SiteURL: h.siteURL, MediaBase: h.mediaBase, Locale: mdw.CurrentLocale(c)}, nil
		},
	})
}
