package employee

import (
	"mohr/internal/middleware"
	"mohr/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	jwtSecret string,
) {
	employees := r.Group("/employees")
	employees.Use(middleware.AuthMiddleware(jwtSecret))
	{
		employees.GET("", middleware.Authorize(rbacService, "employee", "read"), handler.GetAll)
		employees.GET("/options", middleware.Authorize(rbacService, "employee", "read"), handler.GetOptions)
		employees.GET("/:id", middleware.Authorize(rbacService, "employee", "read"), handler.GetById)
		employees.POST("", middleware.Authorize(rbacService, "employee", "manage"), handler.Create)
		employees.PUT("/:id", middleware.Authorize(rbacService, "employee", "manage"), handler.Update)
		employees.DELETE("/:id", middleware.Authorize(rbacService, "employee", "manage"), handler.Delete)
	}
}
