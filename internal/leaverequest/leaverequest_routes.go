package leaverequest

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"mohr/internal/middleware"
	"mohr/internal/rbac"
)

func RegisterRoutes(
	r *gin.RouterGroup,
	handler *Handler,
	rbacService rbac.Service,
	rdb *redis.Client,
	jwtSecret string,
) {
	leaves := r.Group("/leave-requests")
	leaves.Use(middleware.AuthMiddleware(jwtSecret))
	{
		leaves.GET("", middleware.Authorize(rbacService, "leave_request", "read"), handler.GetAll)
		leaves.POST("",
			middleware.Authorize(rbacService, "leave_request", "create"),
			middleware.Idempotency(rdb),
			handler.Create)
		leaves.GET("/stats/overview", middleware.Authorize(rbacService, "leave_request", "read"), handler.Stats)
		leaves.GET("/search/:query", middleware.Authorize(rbacService, "leave_request", "read"), handler.Search)
		leaves.GET("/export", middleware.Authorize(rbacService, "leave_request", "export"), handler.Export)
		leaves.GET("/calendar.ics", middleware.Authorize(rbacService, "leave_request", "read"), handler.Calendar)
		leaves.GET("/:id", middleware.Authorize(rbacService, "leave_request", "read"), handler.GetByID)
		leaves.PUT("/:id", middleware.Authorize(rbacService, "leave_request", "decide"), handler.UpdateStatus)
		leaves.DELETE("/:id", middleware.Authorize(rbacService, "leave_request", "delete"), handler.Delete)
	}
}
