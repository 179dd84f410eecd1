package notification

import (
	"context"
	"net/http"

	"mohr/internal/shared/apperror"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var errNotificationNotFound = apperror.New(
	apperror.CodeNotFound,
	"Notification not found",
	http.StatusNotFound,
)

type NotificationResponse struct {
	ID        string `json:"id"`
	Kind      string `json:"kind"`
	Message   string `json:"message"`
	Read      bool   `json:"read"`
	CreatedAt string `json:"created_at"`
}

//go:generate mockgen -source=notification_service.go -destination=mock/notification_service_mock.go -package=mock
type Service interface {
	Notify(ctx context.Context, employeeID, kind, message string) error
	ListForEmployee(ctx context.Context, employeeID string) ([]NotificationResponse, error)
	MarkRead(ctx context.Context, employeeID, id string) error
}

type service struct {
	repo   Repository
	logger *zap.Logger
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("notification.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("notification.service")
	}
	return &service{repo: repo, logger: l}
}

func (s *service) Notify(ctx context.Context, employeeID, kind, message string) error {
	eid, err := uuid.Parse(employeeID)
	if err != nil {
		return err
	}

	n := &Notification{
		ID:         uuid.New(),
		EmployeeID: eid,
		Kind:       kind,
		Message:    message,
	}

	if err := s.repo.Create(ctx, n); err != nil {
		s.logger.Error("create notification failed",
			zap.String("employee_id", employeeID),
			zap.Error(err),
		)
		return err
	}

	return nil
}

func (s *service) ListForEmployee(ctx context.Context, employeeID string) ([]NotificationResponse, error) {
	notifications, err := s.repo.FindByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	resp := make([]NotificationResponse, len(notifications))
	for i, n := range notifications {
		resp[i] = NotificationResponse{
			ID:        n.ID.String(),
			Kind:      n.Kind,
			Message:   n.Message,
			Read:      n.Read,
			CreatedAt: n.CreatedAt.UTC().Format("2006-01-02T15:04:05Z07:00"),
		}
	}
	return resp, nil
}

func (s *service) MarkRead(ctx context.Context, employeeID, id string) error {
	affected, err := s.repo.MarkRead(ctx, employeeID, id)
	if err != nil {
		return err
	}
	if affected == 0 {
		return errNotificationNotFound
	}
	return nil
}
