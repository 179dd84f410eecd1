package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"mohr/internal/app"
	"mohr/internal/bootstrap"
	"mohr/internal/config"
	"mohr/internal/shared/apperror"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load(os.Getenv("MOHR_CONFIG"))
	if err != nil {
		panic(err)
	}

	logger, err := bootstrap.NewLogger(cfg.Log.Level)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	apperror.Init()
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	if err := app.BuildApp(cfg, r); err != nil {
		logger.Fatal("build app failed", zap.Error(err))
	}

	bootstrap.StartHTTPServer(
		r,
		bootstrap.ServerConfig{
			Port:         cfg.Server.Port,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		bootstrap.NewStdoutAuditLogger(),
	)
}
