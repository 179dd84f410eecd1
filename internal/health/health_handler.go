package health

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"mohr/internal/shared/response"
)

type Handler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHandler(db *gorm.DB, rdb *redis.Client) *Handler {
	return &Handler{db: db, rdb: rdb}
}

// Check reports per-dependency health. Degraded dependencies flip the
// status code to 503 so load balancers stop routing here.
func (h *Handler) Check(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	checks := map[string]string{
		"database": "ok",
		"redis":    "ok",
	}

	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		checks["database"] = "unreachable"
		status = http.StatusServiceUnavailable
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		checks["redis"] = "unreachable"
		status = http.StatusServiceUnavailable
	}

	response.Success(c, status, gin.H{"status": checks}, nil)
}

func RegisterRoutes(router *gin.Engine, handler *Handler) {
	router.GET("/api/health", handler.Check)
	router.GET("/healthz", handler.Check)
}
