package app

import (
	"context"
	"os/signal"
	"syscall"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"mohr/internal/config"
	"mohr/internal/events"
	"mohr/internal/messaging/kafka/consumer"
	"mohr/internal/notification"
	"mohr/internal/shared/connection"
)

// RunConsumer turns leave decision events into in-app notifications
// until the process receives SIGINT or SIGTERM.
func RunConsumer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := connection.ConnectGORMWithRetry(cfg.Database.DSN(), 5)
	if err != nil {
		return err
	}
	zap.L().Info("database connection established")

	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers: []string{cfg.Kafka.Broker},
		GroupID: "mohr-notifications",
		Topic:   events.LeaveDecisionTopic,
	})
	defer reader.Close()

	notificationService := notification.NewService(notification.NewRepository(db))
	consumer.ConsumeLeaveDecisions(ctx, reader, notificationService, zap.L())
	return nil
}
