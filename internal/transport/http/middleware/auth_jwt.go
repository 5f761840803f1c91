package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"portfolio-digital/internal/core/auth"
	"portfolio-digital/internal/transport/http/ez"
	resp "portfolio-digital/internal/transport/http/response"
)

func bearer(c *gin.Context) (string, bool) {
	ah := c.GetHeader("Authorization")
	if !strings.HasPrefix(ah, "Bearer ") {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(ah, "Bearer ")), true
}

func setClaims(c *gin.Context, claims *auth.Claims) {
	c.Set(ez.KeyUserID, claims.UID)
	c.Set(ez.KeyRole, claims.Role)
}

// AuthJWT 必须携带有效 token；requireRole 非空时再校验角色
func AuthJWT(j *auth.JWTer, requireRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		tok, ok := bearer(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "missing token"))
			return
		}
		claims, err := j.Parse(tok)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeUnauthorized, "invalid token"))
			return
		}
		if requireRole != "" && claims.Role != requireRole {
			c.AbortWithStatusJSON(http.StatusOK, resp.Error(resp.CodeForbidden, "forbidden"))
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// OptionalAuthJWT 访客也放行；token 无效时按匿名处理
func OptionalAuthJWT(j *auth.JWTer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tok, ok := bearer(c); ok {
			if claims, err := j.Parse(tok); err == nil {
				setClaims(c, claims)
			}
		}
		c.Next()
	}
}
