package leaverequest

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"mohr/internal/domain"
	"mohr/internal/employee"
	"mohr/internal/events"
	"mohr/internal/shared/apperror"
	"mohr/internal/shared/contextutil"

	leaverequesterrors "mohr/internal/leaverequest/errors"
	"mohr/internal/messaging/kafka"
)

const (
	maxReasonLength = 500
	recentWindow    = 30 * 24 * time.Hour
)

//go:generate mockgen -source=leaverequest_service.go -destination=mock/leaverequest_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, caller domain.Identity, req CreateLeaveRequestRequest) (LeaveRequestResponse, error)
	List(ctx context.Context, caller domain.Identity, f ListFilter) ([]LeaveRequestResponse, error)
	GetByID(ctx context.Context, caller domain.Identity, id string) (LeaveRequestResponse, error)
	UpdateStatus(ctx context.Context, caller domain.Identity, id string, req UpdateStatusRequest) (LeaveRequestResponse, error)
	Delete(ctx context.Context, caller domain.Identity, id string) error
	StatsOverview(ctx context.Context, caller domain.Identity) (StatsResponse, error)
	Search(ctx context.Context, caller domain.Identity, term string) ([]LeaveRequestResponse, error)
	ExportXLSX(ctx context.Context, caller domain.Identity, f ListFilter) ([]byte, error)
	CalendarFeed(ctx context.Context, caller domain.Identity) (string, error)
}

type service struct {
	db        *gorm.DB
	repo      Repository
	directory employee.Directory
	outbox    kafka.OutboxRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewService(
	db *gorm.DB,
	repo Repository,
	directory employee.Directory,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("leaverequest.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("leaverequest.service")
	}
	return &service{
		db:        db,
		repo:      repo,
		directory: directory,
		outbox:    outbox,
		logger:    l,
		now:       time.Now,
	}
}

// daysRequested counts calendar days inclusively: a single-day leave
// is 1 day, Monday through Friday is 5.
func daysRequested(start, end time.Time) int {
	return int(end.Sub(start)/(24*time.Hour)) + 1
}

// parseDate accepts YYYY-MM-DD only, anchored to UTC midnight so the
// day arithmetic is immune to time zones and DST.
func parseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, value, time.UTC)
}

func (s *service) Create(ctx context.Context, caller domain.Identity, req CreateLeaveRequestRequest) (LeaveRequestResponse, error) {
	s.logger.Debug("create leave request",
		zap.String("caller_employee_id", caller.EmployeeID),
		zap.String("employee_id", req.EmployeeID),
		zap.String("leave_type", req.LeaveType),
		zap.String("start_date", req.StartDate),
		zap.String("end_date", req.EndDate),
	)

	if req.EmployeeID == "" {
		req.EmployeeID = caller.EmployeeID
	}

	start, end, err := s.validateCreate(req)
	if err != nil {
		return LeaveRequestResponse{}, err
	}

	// The employee is resolved before the ownership check, so an
	// unknown or inactive employee reads as absent (404) for every
	// caller rather than as forbidden for non-admins.
	emp, err := s.directory.FindActive(ctx, req.EmployeeID)
	if err != nil {
		if httpErr := apperror.AsAppError(err); httpErr != nil && httpErr.Code == apperror.CodeNotFound {
			return LeaveRequestResponse{}, leaverequesterrors.ErrEmployeeNotFound
		}
		s.logger.Error("employee lookup failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	if !caller.IsAdmin() && req.EmployeeID != caller.EmployeeID {
		return LeaveRequestResponse{}, leaverequesterrors.ErrCreateForOthers
	}

	l := &LeaveRequest{
		EmployeeID:    emp.ID,
		LeaveType:     strings.TrimSpace(req.LeaveType),
		StartDate:     start,
		EndDate:       end,
		DaysRequested: daysRequested(start, end),
		Reason:        strings.TrimSpace(req.Reason),
		Status:        StatusPending,
	}

	// The overlap check and the insert share a serializable
	// transaction, and the leave_requests_no_overlap exclusion
	// constraint backstops it at the database so two concurrent
	// submissions can never both land.
	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)

		overlap, err := qtx.HasOverlapping(ctx, req.EmployeeID, start, end)
		if err != nil {
			return err
		}
		if overlap {
			return leaverequesterrors.ErrLeaveOverlap
		}
		return qtx.Create(ctx, l)
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if txErr != nil {
		switch {
		case isOverlapViolation(txErr):
			return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveOverlap
		case isSerializationFailure(txErr):
			return LeaveRequestResponse{}, leaverequesterrors.ErrConcurrentRequest
		}
		if appErr := apperror.AsAppError(txErr); appErr != nil {
			return LeaveRequestResponse{}, txErr
		}
		s.logger.Error("create leave request failed", zap.Error(txErr))
		return LeaveRequestResponse{}, txErr
	}

	created, err := s.repo.FindByID(ctx, l.ID.String())
	if err != nil {
		s.logger.Error("reload created leave request failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request created",
		zap.String("id", created.ID.String()),
		zap.String("employee_id", created.EmployeeID.String()),
		zap.Int("days_requested", created.DaysRequested),
	)
	return mapToResponse(created), nil
}

// validateCreate aggregates every field violation into one error so
// the caller sees the full list in a single round trip.
func (s *service) validateCreate(req CreateLeaveRequestRequest) (start, end time.Time, err error) {
	fields := map[string]string{}

	if req.EmployeeID == "" {
		fields["employee_id"] = "required"
	} else if _, parseErr := uuid.Parse(req.EmployeeID); parseErr != nil {
		fields["employee_id"] = "must be a valid UUID"
	}
	if strings.TrimSpace(req.LeaveType) == "" {
		fields["leave_type"] = "required"
	}
	if utf8.RuneCountInString(req.Reason) > maxReasonLength {
		fields["reason"] = "must be at most 500 characters"
	}

	startOK, endOK := true, true
	if req.StartDate == "" {
		fields["start_date"] = "required"
		startOK = false
	} else if start, err = parseDate(req.StartDate); err != nil {
		fields["start_date"] = "must be a valid date in YYYY-MM-DD format"
		startOK = false
	}
	if req.EndDate == "" {
		fields["end_date"] = "required"
		endOK = false
	} else if end, err = parseDate(req.EndDate); err != nil {
		fields["end_date"] = "must be a valid date in YYYY-MM-DD format"
		endOK = false
	}
	if startOK && endOK && end.Before(start) {
		fields["end_date"] = "must be on or after start_date"
	}

	if len(fields) > 0 {
		return time.Time{}, time.Time{}, apperror.NewValidation("invalid leave request", fields)
	}
	return start, end, nil
}

func (s *service) List(ctx context.Context, caller domain.Identity, f ListFilter) ([]LeaveRequestResponse, error) {
	// Non-admin callers are always scoped to their own records, no
	// matter what filter they send.
	if !caller.IsAdmin() {
		f.EmployeeID = caller.EmployeeID
	}

	list, err := s.repo.FindAll(ctx, f)
	if err != nil {
		s.logger.Error("list leave requests failed", zap.Error(err))
		return nil, err
	}
	return mapToResponses(list), nil
}

func (s *service) GetByID(ctx context.Context, caller domain.Identity, id string) (LeaveRequestResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveRequestNotFound
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveRequestNotFound
		}
		s.logger.Error("get leave request failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	// Records outside the caller's scope read as absent, so an
	// employee cannot probe which ids exist.
	if !CanAccess(caller, l) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveRequestNotFound
	}
	return mapToResponse(l), nil
}

func (s *service) UpdateStatus(ctx context.Context, caller domain.Identity, id string, req UpdateStatusRequest) (LeaveRequestResponse, error) {
	// Role is checked before existence: non-admins get 403 even for
	// ids that do not exist.
	if !caller.IsAdmin() {
		return LeaveRequestResponse{}, apperror.ErrForbidden
	}
	if !ValidStatus(req.Status) {
		return LeaveRequestResponse{}, leaverequesterrors.ErrInvalidStatus
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveRequestNotFound
		}
		s.logger.Error("load leave request failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	// Any status may move to any other. Moving back to pending
	// clears the decision fields.
	l.Status = req.Status
	if req.Status == StatusPending {
		l.ApprovedBy = nil
		l.ApprovedAt = nil
	} else {
		deciderID, parseErr := uuid.Parse(caller.UserID)
		if parseErr != nil {
			return LeaveRequestResponse{}, apperror.ErrUnauthorized
		}
		decidedAt := s.now()
		l.ApprovedBy = &deciderID
		l.ApprovedAt = &decidedAt
	}

	txErr := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		qtx := s.repo.WithTx(tx)
		if err := qtx.Update(ctx, l); err != nil {
			return err
		}
		return s.enqueueDecisionEvent(ctx, tx, caller, l)
	})
	if txErr != nil {
		if isOverlapViolation(txErr) {
			return LeaveRequestResponse{}, leaverequesterrors.ErrLeaveOverlap
		}
		s.logger.Error("update leave status failed", zap.Error(txErr))
		return LeaveRequestResponse{}, txErr
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		s.logger.Error("reload leave request failed", zap.Error(err))
		return LeaveRequestResponse{}, err
	}

	s.logger.Info("leave request status updated",
		zap.String("id", id),
		zap.String("status", req.Status),
		zap.String("decided_by", caller.UserID),
	)
	return mapToResponse(updated), nil
}

// enqueueDecisionEvent writes the outbox row inside the same
// transaction as the status change. The worker relays it to Kafka.
func (s *service) enqueueDecisionEvent(ctx context.Context, tx *gorm.DB, caller domain.Identity, l *LeaveRequest) error {
	event := events.LeaveDecisionEvent{
		EventType:      "leave.decision",
		LeaveRequestID: l.ID.String(),
		EmployeeID:     l.EmployeeID.String(),
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate.Format(DateLayout),
		EndDate:        l.EndDate.Format(DateLayout),
		DaysRequested:  l.DaysRequested,
		Status:         l.Status,
		DecidedBy:      caller.UserID,
		OccurredAt:     s.now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     contextutil.GetRequestID(ctx),
		AggregateType: "leave_request",
		AggregateID:   l.ID.String(),
		EventType:     event.EventType,
		Topic:         events.LeaveDecisionTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	})
}

func (s *service) Delete(ctx context.Context, caller domain.Identity, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return leaverequesterrors.ErrLeaveRequestNotFound
	}

	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return leaverequesterrors.ErrLeaveRequestNotFound
		}
		s.logger.Error("load leave request failed", zap.Error(err))
		return err
	}

	// State is checked before ownership, so deleting someone else's
	// decided request reports the state problem, not the ownership
	// one.
	if l.Status != StatusPending {
		return leaverequesterrors.ErrNotPending
	}
	if !CanAccess(caller, l) {
		return leaverequesterrors.ErrDeleteForOthers
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("delete leave request failed", zap.Error(err))
		return err
	}

	s.logger.Info("leave request deleted",
		zap.String("id", id),
		zap.String("deleted_by", caller.UserID),
	)
	return nil
}

func (s *service) StatsOverview(ctx context.Context, caller domain.Identity) (StatsResponse, error) {
	scope := ""
	if !caller.IsAdmin() {
		scope = caller.EmployeeID
	}

	counts, err := s.repo.CountByStatus(ctx, scope)
	if err != nil {
		s.logger.Error("count by status failed", zap.Error(err))
		return StatsResponse{}, err
	}
	breakdown, err := s.repo.TypeBreakdown(ctx, scope)
	if err != nil {
		s.logger.Error("type breakdown failed", zap.Error(err))
		return StatsResponse{}, err
	}
	recent, err := s.repo.CountCreatedSince(ctx, scope, s.now().Add(-recentWindow))
	if err != nil {
		s.logger.Error("recent count failed", zap.Error(err))
		return StatsResponse{}, err
	}

	if breakdown == nil {
		breakdown = []LeaveTypeStat{}
	}
	return StatsResponse{
		TotalRequests:      counts[StatusPending] + counts[StatusApproved] + counts[StatusRejected],
		PendingRequests:    counts[StatusPending],
		ApprovedRequests:   counts[StatusApproved],
		RejectedRequests:   counts[StatusRejected],
		LeaveTypeBreakdown: breakdown,
		RecentRequests:     recent,
	}, nil
}

func (s *service) Search(ctx context.Context, caller domain.Identity, term string) ([]LeaveRequestResponse, error) {
	term = strings.TrimSpace(term)
	if term == "" {
		return []LeaveRequestResponse{}, nil
	}

	scope := ""
	if !caller.IsAdmin() {
		scope = caller.EmployeeID
	}

	list, err := s.repo.Search(ctx, scope, term)
	if err != nil {
		s.logger.Error("search leave requests failed", zap.Error(err))
		return nil, err
	}
	return mapToResponses(list), nil
}

// isOverlapViolation detects the leave_requests_no_overlap exclusion
// constraint firing (SQLSTATE 23P01).
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23P01" && pgErr.ConstraintName == "leave_requests_no_overlap"
	}
	return false
}

// isSerializationFailure detects SQLSTATE 40001, raised when two
// serializable transactions race.
func isSerializationFailure(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "40001"
	}
	return false
}
