package app

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"mohr/internal/auth"
	"mohr/internal/config"
	"mohr/internal/employee"
	"mohr/internal/health"
	"mohr/internal/leaverequest"
	"mohr/internal/messaging/kafka"
	"mohr/internal/middleware"
	"mohr/internal/notification"
	"mohr/internal/rbac"
	"mohr/internal/user"
)

func registerModules(
	cfg *config.Config,
	router *gin.Engine,
	db *gorm.DB,
	rdb *redis.Client,
) error {
	// --- Repositories ---
	userRepo := user.NewRepository(db)
	employeeRepo := employee.NewRepository(db)
	leaveRepo := leaverequest.NewRepository(db)
	notificationRepo := notification.NewRepository(db)
	outboxRepo := kafka.NewOutboxRepository(db)

	// --- RBAC Core ---
	rbacService, err := rbac.NewService()
	if err != nil {
		return err
	}

	// --- Services ---
	userService := user.NewService(userRepo)
	employeeService := employee.NewService(employeeRepo, rdb)
	authService := auth.NewService(userRepo, employeeRepo, cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL)
	leaveService := leaverequest.NewService(db, leaveRepo, employeeService, outboxRepo)
	notificationService := notification.NewService(notificationRepo)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	userHandler := user.NewHandler(userService)
	employeeHandler := employee.NewHandler(employeeService)
	leaveHandler := leaverequest.NewHandlerWithRedis(leaveService, rdb)
	notificationHandler := notification.NewHandler(notificationService)
	healthHandler := health.NewHandler(db, rdb)

	// --- Middleware & Routes ---
	router.Use(middleware.ContextLogger(zap.L()))
	router.Use(middleware.RateLimitByIP(rate.Limit(50), 100))

	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, cfg.Auth.JWTSecret)
		user.RegisterRoutes(api, userHandler, rbacService, cfg.Auth.JWTSecret)
		employee.RegisterRoutes(api, employeeHandler, rbacService, cfg.Auth.JWTSecret)
		leaverequest.RegisterRoutes(api, leaveHandler, rbacService, rdb, cfg.Auth.JWTSecret)
		notification.RegisterRoutes(api, notificationHandler, rbacService, cfg.Auth.JWTSecret)
	}

	health.RegisterRoutes(router, healthHandler)

	return nil
}
