package app

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"mohr/internal/config"
	"mohr/internal/messaging/kafka"
	"mohr/internal/messaging/kafka/producer"
	"mohr/internal/shared/connection"
)

// RunWorker relays committed outbox rows to Kafka until the process
// receives SIGINT or SIGTERM.
func RunWorker(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), 5)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	writer, err := connection.ConnectKafkaWithRetry(cfg.Kafka.Broker, 5)
	if err != nil {
		return err
	}
	defer writer.Close()
	zap.L().Info("kafka connection established")

	outboxRepo := kafka.NewOutboxRepository(db)
	producer.ProcessOutboxEvents(ctx, outboxRepo, writer, zap.L(), 3*time.Second)
	return nil
}
