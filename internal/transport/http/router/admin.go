package router

import (
	"github.com/gin-gonic/gin"

	"portfolio-digital/internal/domain"
	mdw "portfolio-digital/internal/transport/http/middleware"
)

// NewAdminEngine 管理端 v1，统一要求 admin 角色；token 由公开端 /auth/login 签发
func NewAdminEngine(o Options) *gin.Engine {
	o = o.withDefaults()
	r := base("admin", o)

	admin := r.Group("/admin/v1")
	admin.Use(mdw.AuthJWT(o.JWT, domain.RoleAdmin))
	o.Modules.MountAdmin(admin)
	return r
}
