package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"mohr/internal/config"
	"mohr/internal/database"
	"mohr/internal/shared/connection"
)

// BuildApp connects the infrastructure, runs pending migrations and
// mounts every module on the router.
func BuildApp(cfg *config.Config, router *gin.Engine) error {
	db, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), 5)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	if err := database.RunMigrations(sqlDB, zap.L()); err != nil {
		return err
	}

	rdb, err := connection.ConnectRedisWithRetry(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, 5)
	if err != nil {
		return err
	}
	zap.L().Info("redis connection established")

	return registerModules(cfg, router, db, rdb)
}
