package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio-digital/internal/transport/http/ez"
	mdw "portfolio-digital/internal/transport/http/middleware"
)

const localeCookieMaxAge = 365 * 24 * 3600

type LocaleHandler struct {
	secure bool
}

func NewLocaleHandler(secureCookie bool) *LocaleHandler { return &LocaleHandler{secure: secureCookie} }

type localeIn struct {
	Lang string `json:"lang" binding:"required"`
}

type localeOut struct {
	Locale    string   `json:"locale"`
	Supported []string `json:"supported"`
}

var supported = []string{"en", "pt"}

func (h *LocaleHandler) MountAPI(g *gin.RouterGroup) {
	e := ez.New(g)

	ez.RegisterAction(e, ez.Action[struct{}, localeOut]{
		Method: http.MethodGet, Path: "/locale", Binder: ez.BindNone,
		Handler: func(c *gin.Context, _ *struct{}) (localeOut, error) {
			return localeOut{Locale: mdw.CurrentLocale(c), Supported: supported}, nil
		},
	})

	ez.RegisterAction(e, ez.Action[localeIn, localeOut]{
		Method: http.MethodPost, Path: "/locale", Binder: ez.BindJSON,
		Handler: func(c *gin.Context, in *localeIn) (localeOut, error) {
			l, ok := mdw.SupportedLocale(in.Lang)
			if !ok {
				return localeOut{}, ez.BadRequest("unsupported language " + in.Lang)
			}
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(mdw.LocaleCookie, l, localeCookieMaxAge, "/", "", h.secure, true)
			return localeOut{Locale: l, Supported: supported}, nil
		},
	})
}
