package notification

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
	notifications := r.Group("/notifications")
	notifications.Use(middleware.AuthMiddleware(jwtSecret))
	notifications.Use(middleware.Authorize(rbacService, "notification", "read"))
	{
		notifications.GET("", handler.GetAll)
		notifications.PUT("/:id/read", handler.MarkRead)
	}
}
