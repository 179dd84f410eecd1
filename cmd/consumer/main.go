package main

import (
	"os"

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

	if err := app.RunConsumer(cfg); err != nil {
		logger.Fatal("run consumer failed", zap.Error(err))
	}
}
