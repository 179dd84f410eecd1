package consumer

import (
	"context"
	"encoding/json"
	"fmt"

	"mohr/internal/events"
	"mohr/internal/notification"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeLeaveDecisions turns leave decision events into in-app
// notifications for the affected employee. Messages are committed only
// after the notification row lands, so a crash re-delivers rather than
// drops.
func ConsumeLeaveDecisions(
	ctx context.Context,
	reader *kafkago.Reader,
	notificationService notification.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.leave_decision")
	log.Info("leave decision consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("leave decision consumer stopped")
				return
			}
			log.Error("fetch leave decision message failed", zap.Error(err))
			continue
		}

		var event events.LeaveDecisionEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode leave decision event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		message := decisionMessage(event)
		if err := notificationService.Notify(ctx, event.EmployeeID, "leave_decision", message); err != nil {
			log.Error("create leave decision notification failed",
				zap.String("leave_request_id", event.LeaveRequestID),
				zap.String("employee_id", event.EmployeeID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit leave decision message failed", zap.Error(err))
			continue
		}

		log.Info("leave decision notification created",
			zap.String("leave_request_id", event.LeaveRequestID),
			zap.String("status", event.Status),
		)
	}
}

func decisionMessage(event events.LeaveDecisionEvent) string {
	switch event.Status {
	case "approved":
		return fmt.Sprintf("Your %s leave from %s to %s was approved", event.LeaveType, event.StartDate, event.EndDate)
	case "rejected":
		return fmt.Sprintf("Your %s leave from %s to %s was rejected", event.LeaveType, event.StartDate, event.EndDate)
	default:
		return fmt.Sprintf("Your %s leave from %s to %s was moved back to pending", event.LeaveType, event.StartDate, event.EndDate)
	}
}
