package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	KeyLocale     = "locale"
	LocaleCookie  = "language"
	DefaultLocale = "en"
)

var supportedLocales = map[string]bool{"en": true, "pt": true}

// SupportedLocale 只接受 en / pt（允许 pt-BR 这类带地区的写法）
func SupportedLocale(tag string) (string, bool) {
	tag = strings.ToLower(strings.TrimSpace(tag))
	if i := strings.IndexAny(tag, "-_"); i > 0 {
		tag = tag[:i]
	}
	return tag, supportedLocales[tag]
}

// ResolveLocale 优先级：?lang= > language cookie > Accept-Language > en
func ResolveLocale(c *gin.Context) string {
	if l, ok := SupportedLocale(c.Query("lang")); ok {
		return l
	}
	if v, err := c.Cookie(LocaleCookie); err == nil {
		if l, ok := SupportedLocale(v); ok {
			return l
		}
	}
	for _, part := range strings.Split(c.GetHeader("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(part, ";")
		if l, ok := SupportedLocale(tag); ok {
			return l
		}
	}
	return DefaultLocale
}

func Locale() gin.HandlerFunc {
	return func(c *gin.Context) {
		l := ResolveLocale(c)
		c.Set(KeyLocale, l)
		c.Header("Content-Language", l)
		c.Next()
	}
}

// CurrentLocale 已经过 Locale 中间件时直接取结果
func CurrentLocale(c *gin.Context) string {
	if l := c.GetString(KeyLocale); l != "" {
		return l
	}
	return ResolveLocale(c)
}
