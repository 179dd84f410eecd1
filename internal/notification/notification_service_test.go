package notification_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"mohr/internal/notification"
)

type fakeNotificationRepository struct {
	createFn         func(ctx context.Context, n *notification.Notification) error
	findByEmployeeFn func(ctx context.Context, employeeID string) ([]notification.Notification, error)
	markReadFn       func(ctx context.Context, employeeID, id string) (int64, error)
}

func (f *fakeNotificationRepository) Create(ctx context.Context, n *notification.Notification) error {
	if f.createFn != nil {
		return f.createFn(ctx, n)
	}
	return nil
}

func (f *fakeNotificationRepository) FindByEmployee(ctx context.Context, employeeID string) ([]notification.Notification, error) {
	if f.findByEmployeeFn != nil {
		return f.findByEmployeeFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeNotificationRepository) MarkRead(ctx context.Context, employeeID, id string) (int64, error) {
	if f.markReadFn != nil {
		return f.markReadFn(ctx, employeeID, id)
	}
	return 0, nil
}

func TestNotificationService_Notify(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	t.Run("persists notification", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			createFn: func(ctx context.Context, n *notification.Notification) error {
				assert.Equal(t, employeeID, n.EmployeeID)
				assert.Equal(t, "leave_decision", n.Kind)
				assert.False(t, n.Read)
				return nil
			},
		}
		svc := notification.NewService(repo)

		err := svc.Notify(ctx, employeeID.String(), "leave_decision", "Your leave was approved")
		assert.NoError(t, err)
	})

	t.Run("rejects malformed employee id", func(t *testing.T) {
		svc := notification.NewService(&fakeNotificationRepository{})

		err := svc.Notify(ctx, "not-a-uuid", "leave_decision", "msg")
		assert.Error(t, err)
	})
}

func TestNotificationService_ListForEmployee(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New()

	repo := &fakeNotificationRepository{
		findByEmployeeFn: func(ctx context.Context, eid string) ([]notification.Notification, error) {
			assert.Equal(t, employeeID.String(), eid)
			return []notification.Notification{
				{
					ID:         uuid.New(),
					EmployeeID: employeeID,
					Kind:       "leave_decision",
					Message:    "Your leave was approved",
					CreatedAt:  time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC),
				},
			}, nil
		},
	}
	svc := notification.NewService(repo)

	resp, err := svc.ListForEmployee(ctx, employeeID.String())

	assert.NoError(t, err)
	assert.Len(t, resp, 1)
	assert.Equal(t, "leave_decision", resp[0].Kind)
	assert.Equal(t, "2026-05-01T09:00:00Z", resp[0].CreatedAt)
}

func TestNotificationService_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("foreign notification reads as not found", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			markReadFn: func(ctx context.Context, employeeID, id string) (int64, error) {
				return 0, nil
			},
		}
		svc := notification.NewService(repo)

		err := svc.MarkRead(ctx, uuid.New().String(), uuid.New().String())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("success", func(t *testing.T) {
		repo := &fakeNotificationRepository{
			markReadFn: func(ctx context.Context, employeeID, id string) (int64, error) {
				return 1, nil
			},
		}
		svc := notification.NewService(repo)

		err := svc.MarkRead(ctx, uuid.New().String(), uuid.New().String())
		assert.NoError(t, err)
	})
}
