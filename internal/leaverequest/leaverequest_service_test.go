package leaverequest_test

import (
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mohr/internal/domain"
	"mohr/internal/employee"
	employeeerrors "mohr/internal/employee/errors"
	"mohr/internal/leaverequest"
	leaverequesterrors "mohr/internal/leaverequest/errors"
	"mohr/internal/messaging/kafka"
	"mohr/internal/shared/apperror"
)

type fakeRepository struct {
	createFn            func(ctx context.Context, l *leaverequest.LeaveRequest) error
	findAllFn           func(ctx context.Context, f leaverequest.ListFilter) ([]leaverequest.LeaveRequest, error)
	findByIDFn          func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error)
	updateFn            func(ctx context.Context, l *leaverequest.LeaveRequest) error
	deleteFn            func(ctx context.Context, id string) error
	hasOverlappingFn    func(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	searchFn            func(ctx context.Context, employeeID, term string) ([]leaverequest.LeaveRequest, error)
	countByStatusFn     func(ctx context.Context, employeeID string) (map[string]int64, error)
	typeBreakdownFn     func(ctx context.Context, employeeID string) ([]leaverequest.LeaveTypeStat, error)
	countCreatedSinceFn func(ctx context.Context, employeeID string, since time.Time) (int64, error)
	findApprovedFn      func(ctx context.Context, employeeID string, from time.Time) ([]leaverequest.LeaveRequest, error)
}

func (f *fakeRepository) WithTx(tx *gorm.DB) leaverequest.Repository { return f }

func (f *fakeRepository) Create(ctx context.Context, l *leaverequest.LeaveRequest) error {
	if f.createFn != nil {
		return f.createFn(ctx, l)
	}
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

func (f *fakeRepository) FindAll(ctx context.Context, filter leaverequest.ListFilter) ([]leaverequest.LeaveRequest, error) {
	if f.findAllFn != nil {
		return f.findAllFn(ctx, filter)
	}
	return nil, nil
}

func (f *fakeRepository) FindByID(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
	if f.findByIDFn != nil {
		return f.findByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepository) Update(ctx context.Context, l *leaverequest.LeaveRequest) error {
	if f.updateFn != nil {
		return f.updateFn(ctx, l)
	}
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id string) error {
	if f.deleteFn != nil {
		return f.deleteFn(ctx, id)
	}
	return nil
}

func (f *fakeRepository) HasOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	if f.hasOverlappingFn != nil {
		return f.hasOverlappingFn(ctx, employeeID, startDate, endDate)
	}
	return false, nil
}

func (f *fakeRepository) Search(ctx context.Context, employeeID, term string) ([]leaverequest.LeaveRequest, error) {
	if f.searchFn != nil {
		return f.searchFn(ctx, employeeID, term)
	}
	return nil, nil
}

func (f *fakeRepository) CountByStatus(ctx context.Context, employeeID string) (map[string]int64, error) {
	if f.countByStatusFn != nil {
		return f.countByStatusFn(ctx, employeeID)
	}
	return map[string]int64{}, nil
}

func (f *fakeRepository) TypeBreakdown(ctx context.Context, employeeID string) ([]leaverequest.LeaveTypeStat, error) {
	if f.typeBreakdownFn != nil {
		return f.typeBreakdownFn(ctx, employeeID)
	}
	return nil, nil
}

func (f *fakeRepository) CountCreatedSince(ctx context.Context, employeeID string, since time.Time) (int64, error) {
	if f.countCreatedSinceFn != nil {
		return f.countCreatedSinceFn(ctx, employeeID, since)
	}
	return 0, nil
}

func (f *fakeRepository) FindApproved(ctx context.Context, employeeID string, from time.Time) ([]leaverequest.LeaveRequest, error) {
	if f.findApprovedFn != nil {
		return f.findApprovedFn(ctx, employeeID, from)
	}
	return nil, nil
}

type fakeDirectory struct {
	findActiveFn func(ctx context.Context, id string) (*employee.Employee, error)
}

func (f *fakeDirectory) FindActive(ctx context.Context, id string) (*employee.Employee, error) {
	if f.findActiveFn != nil {
		return f.findActiveFn(ctx, id)
	}
	return &employee.Employee{ID: uuid.MustParse(id), FirstName: "Mya", LastName: "Thwin", IsActive: true}, nil
}

type fakeOutbox struct {
	created []kafka.OutboxEvent
}

func (f *fakeOutbox) WithTx(tx *gorm.DB) kafka.OutboxRepository { return f }

func (f *fakeOutbox) Create(ctx context.Context, event kafka.OutboxEvent) error {
	f.created = append(f.created, event)
	return nil
}

func (f *fakeOutbox) ListPending(ctx context.Context, limit int) ([]kafka.OutboxEvent, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkSent(ctx context.Context, id string) error           { return nil }
func (f *fakeOutbox) MarkFailed(ctx context.Context, id, reason string) error { return nil }

type serviceDeps struct {
	sqlMock sqlmock.Sqlmock
	repo    *fakeRepository
	dir     *fakeDirectory
	outbox  *fakeOutbox
	service leaverequest.Service
	close   func()
}

func setupServiceTest(t *testing.T) *serviceDeps {
	t.Helper()

	db, sqlMock, err := sqlmock.New()
	assert.NoError(t, err)

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: db}), &gorm.Config{
		DisableAutomaticPing: true,
		Logger:               gormlogger.Default.LogMode(gormlogger.Silent),
	})
	assert.NoError(t, err)

	repo := &fakeRepository{}
	dir := &fakeDirectory{}
	outbox := &fakeOutbox{}
	svc := leaverequest.NewService(gdb, repo, dir, outbox)

	return &serviceDeps{
		sqlMock: sqlMock,
		repo:    repo,
		dir:     dir,
		outbox:  outbox,
		service: svc,
		close:   func() { _ = db.Close() },
	}
}

func expectTx(t *testing.T, mock sqlmock.Sqlmock, commit bool) {
	t.Helper()
	mock.ExpectBegin()
	if commit {
		mock.ExpectCommit()
	} else {
		mock.ExpectRollback()
	}
}

func admin() domain.Identity {
	return domain.Identity{
		UserID:     uuid.New().String(),
		EmployeeID: uuid.New().String(),
		Role:       domain.RoleAdmin,
	}
}

func employeeIdentity(employeeID string) domain.Identity {
	return domain.Identity{
		UserID:     uuid.New().String(),
		EmployeeID: employeeID,
		Role:       domain.RoleEmployee,
	}
}

func TestLeaveRequestService_Create(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("success counts days inclusively", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)
		created := &leaverequest.LeaveRequest{}
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			l.ID = uuid.New()
			*created = *l
			return nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			assert.Equal(t, created.ID.String(), id)
			return created, nil
		}

		resp, err := deps.service.Create(ctx, employeeIdentity(employeeID), leaverequest.CreateLeaveRequestRequest{
			EmployeeID: employeeID,
			LeaveType:  "annual",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
			Reason:     "Family trip",
		})

		assert.NoError(t, err)
		assert.Equal(t, 5, resp.DaysRequested)
		assert.Equal(t, leaverequest.StatusPending, resp.Status)
		assert.Equal(t, "2026-03-02", resp.StartDate)
		assert.Equal(t, "2026-03-06", resp.EndDate)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("single day leave is one day", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			l.ID = uuid.New()
			assert.Equal(t, 1, l.DaysRequested)
			return nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return &leaverequest.LeaveRequest{ID: uuid.MustParse(id), DaysRequested: 1, Status: leaverequest.StatusPending}, nil
		}

		resp, err := deps.service.Create(ctx, employeeIdentity(employeeID), leaverequest.CreateLeaveRequestRequest{
			EmployeeID: employeeID,
			LeaveType:  "sick",
			StartDate:  "2026-04-10",
			EndDate:    "2026-04-10",
		})

		assert.NoError(t, err)
		assert.Equal(t, 1, resp.DaysRequested)
	})

	t.Run("overlap rolls back with conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.hasOverlappingFn = func(ctx context.Context, eid string, start, end time.Time) (bool, error) {
			assert.Equal(t, employeeID, eid)
			return true, nil
		}

		_, err := deps.service.Create(ctx, employeeIdentity(employeeID), leaverequest.CreateLeaveRequestRequest{
			EmployeeID: employeeID,
			LeaveType:  "annual",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrLeaveOverlap)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("exclusion constraint maps to conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			return &pgconn.PgError{Code: "23P01", ConstraintName: "leave_requests_no_overlap"}
		}

		_, err := deps.service.Create(ctx, employeeIdentity(employeeID), leaverequest.CreateLeaveRequestRequest{
			EmployeeID: employeeID,
			LeaveType:  "annual",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrLeaveOverlap)
	})

	t.Run("serialization failure maps to retryable conflict", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, false)
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			return &pgconn.PgError{Code: "40001"}
		}

		_, err := deps.service.Create(ctx, employeeIdentity(employeeID), leaverequest.CreateLeaveRequestRequest{
			EmployeeID: employeeID,
			LeaveType:  "annual",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrConcurrentRequest)
	})

	t.Run("aggregates every field violation", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		longReason := make([]byte, 501)
		for i := range longReason {
			longReason[i] = 'x'
		}

		_, err := deps.service.Create(ctx, employeeIdentity(employeeID), leaverequest.CreateLeaveRequestRequest{
			EmployeeID: employeeID,
			StartDate:  "02/03/2026",
			Reason:     string(longReason),
		})

		appErr := apperror.AsAppError(err)
		assert.NotNil(t, appErr)
		assert.Equal(t, apperror.CodeInvalidInput, appErr.Code)
		assert.Contains(t, appErr.Fields, "leave_type")
		assert.Contains(t, appErr.Fields, "start_date")
		assert.Contains(t, appErr.Fields, "end_date")
		assert.Contains(t, appErr.Fields, "reason")
	})

	t.Run("end before start is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		_, err := deps.service.Create(ctx, employeeIdentity(employeeID), leaverequest.CreateLeaveRequestRequest{
			EmployeeID: employeeID,
			LeaveType:  "annual",
			StartDate:  "2026-03-06",
			EndDate:    "2026-03-02",
		})

		appErr := apperror.AsAppError(err)
		assert.NotNil(t, appErr)
		assert.Contains(t, appErr.Fields, "end_date")
	})

	t.Run("employee cannot create for someone else", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		_, err := deps.service.Create(ctx, employeeIdentity(uuid.New().String()), leaverequest.CreateLeaveRequestRequest{
			EmployeeID: employeeID,
			LeaveType:  "annual",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrCreateForOthers)
	})

	t.Run("admin can create for anyone", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			l.ID = uuid.New()
			assert.Equal(t, employeeID, l.EmployeeID.String())
			return nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return &leaverequest.LeaveRequest{ID: uuid.MustParse(id), Status: leaverequest.StatusPending}, nil
		}

		_, err := deps.service.Create(ctx, admin(), leaverequest.CreateLeaveRequestRequest{
			EmployeeID: employeeID,
			LeaveType:  "annual",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
		})

		assert.NoError(t, err)
	})

	t.Run("missing employee id defaults to caller", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.createFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			l.ID = uuid.New()
			assert.Equal(t, employeeID, l.EmployeeID.String())
			return nil
		}
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return &leaverequest.LeaveRequest{ID: uuid.MustParse(id), Status: leaverequest.StatusPending}, nil
		}

		_, err := deps.service.Create(ctx, employeeIdentity(employeeID), leaverequest.CreateLeaveRequestRequest{
			LeaveType: "annual",
			StartDate: "2026-03-02",
			EndDate:   "2026-03-06",
		})

		assert.NoError(t, err)
	})

	t.Run("inactive employee reads as not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deps.dir.findActiveFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}

		_, err := deps.service.Create(ctx, employeeIdentity(employeeID), leaverequest.CreateLeaveRequestRequest{
			EmployeeID: employeeID,
			LeaveType:  "annual",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrEmployeeNotFound)
		httpErr := apperror.ToHTTP(err)
		assert.Equal(t, http.StatusNotFound, httpErr.Status)
		assert.Equal(t, apperror.CodeNotFound, httpErr.Code)
	})

	t.Run("missing foreign employee reads as not found, not forbidden", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deps.dir.findActiveFn = func(ctx context.Context, id string) (*employee.Employee, error) {
			return nil, employeeerrors.ErrEmployeeNotFound
		}

		// A non-admin naming an unresolvable employee gets 404, so
		// the response never reveals whether the id exists.
		_, err := deps.service.Create(ctx, employeeIdentity(uuid.New().String()), leaverequest.CreateLeaveRequestRequest{
			EmployeeID: employeeID,
			LeaveType:  "annual",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrEmployeeNotFound)
		assert.NotErrorIs(t, err, leaverequesterrors.ErrCreateForOthers)
	})

	t.Run("reason length is counted in characters", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return &leaverequest.LeaveRequest{ID: uuid.MustParse(id), Status: leaverequest.StatusPending}, nil
		}

		// 500 two-byte runes: exactly at the limit in characters but
		// well past it in bytes.
		_, err := deps.service.Create(ctx, employeeIdentity(employeeID), leaverequest.CreateLeaveRequestRequest{
			EmployeeID: employeeID,
			LeaveType:  "annual",
			StartDate:  "2026-03-02",
			EndDate:    "2026-03-06",
			Reason:     strings.Repeat("é", 500),
		})

		assert.NoError(t, err)
	})
}

func TestLeaveRequestService_List(t *testing.T) {
	ctx := context.Background()
	employeeID := uuid.New().String()

	t.Run("employee is always scoped to own records", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deps.repo.findAllFn = func(ctx context.Context, f leaverequest.ListFilter) ([]leaverequest.LeaveRequest, error) {
			assert.Equal(t, employeeID, f.EmployeeID)
			assert.Equal(t, leaverequest.StatusApproved, f.Status)
			return []leaverequest.LeaveRequest{}, nil
		}

		_, err := deps.service.List(ctx, employeeIdentity(employeeID), leaverequest.ListFilter{
			Status:     leaverequest.StatusApproved,
			EmployeeID: uuid.New().String(), // ignored for non-admins
		})

		assert.NoError(t, err)
	})

	t.Run("admin filter passes through", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		otherID := uuid.New().String()
		deps.repo.findAllFn = func(ctx context.Context, f leaverequest.ListFilter) ([]leaverequest.LeaveRequest, error) {
			assert.Equal(t, otherID, f.EmployeeID)
			return []leaverequest.LeaveRequest{}, nil
		}

		_, err := deps.service.List(ctx, admin(), leaverequest.ListFilter{EmployeeID: otherID})
		assert.NoError(t, err)
	})
}

func TestLeaveRequestService_GetByID(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	recordID := uuid.New()

	record := &leaverequest.LeaveRequest{
		ID:         recordID,
		EmployeeID: ownerID,
		LeaveType:  "annual",
		Status:     leaverequest.StatusPending,
	}

	t.Run("owner can read", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return record, nil
		}

		resp, err := deps.service.GetByID(ctx, employeeIdentity(ownerID.String()), recordID.String())
		assert.NoError(t, err)
		assert.Equal(t, recordID.String(), resp.ID)
	})

	t.Run("foreign record reads as not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return record, nil
		}

		_, err := deps.service.GetByID(ctx, employeeIdentity(uuid.New().String()), recordID.String())
		assert.ErrorIs(t, err, leaverequesterrors.ErrLeaveRequestNotFound)
	})

	t.Run("malformed id reads as not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		_, err := deps.service.GetByID(ctx, admin(), "not-a-uuid")
		assert.ErrorIs(t, err, leaverequesterrors.ErrLeaveRequestNotFound)
	})
}

func TestLeaveRequestService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	recordID := uuid.New()

	pendingRecord := func() *leaverequest.LeaveRequest {
		return &leaverequest.LeaveRequest{
			ID:            recordID,
			EmployeeID:    uuid.New(),
			LeaveType:     "annual",
			StartDate:     time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
			EndDate:       time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC),
			DaysRequested: 5,
			Status:        leaverequest.StatusPending,
		}
	}

	t.Run("non-admin is rejected before lookup", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			t.Fatal("repository must not be called")
			return nil, nil
		}

		_, err := deps.service.UpdateStatus(ctx, employeeIdentity(uuid.New().String()), recordID.String(), leaverequest.UpdateStatusRequest{
			Status: leaverequest.StatusApproved,
		})

		assert.ErrorIs(t, err, apperror.ErrForbidden)
	})

	t.Run("invalid status is rejected", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		_, err := deps.service.UpdateStatus(ctx, admin(), recordID.String(), leaverequest.UpdateStatusRequest{
			Status: "cancelled",
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrInvalidStatus)
	})

	t.Run("approve stamps decider and enqueues event", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		caller := admin()
		record := pendingRecord()
		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return record, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			assert.Equal(t, leaverequest.StatusApproved, l.Status)
			assert.NotNil(t, l.ApprovedBy)
			assert.Equal(t, caller.UserID, l.ApprovedBy.String())
			assert.NotNil(t, l.ApprovedAt)
			return nil
		}

		resp, err := deps.service.UpdateStatus(ctx, caller, recordID.String(), leaverequest.UpdateStatusRequest{
			Status: leaverequest.StatusApproved,
		})

		assert.NoError(t, err)
		assert.Equal(t, leaverequest.StatusApproved, resp.Status)
		assert.Len(t, deps.outbox.created, 1)
		event := deps.outbox.created[0]
		assert.Equal(t, "leave_request", event.AggregateType)
		assert.Equal(t, recordID.String(), event.AggregateID)
		assert.Contains(t, string(event.Payload), `"status":"approved"`)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("back to pending clears decision fields", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deciderID := uuid.New()
		decidedAt := time.Now()
		record := pendingRecord()
		record.Status = leaverequest.StatusApproved
		record.ApprovedBy = &deciderID
		record.ApprovedAt = &decidedAt

		expectTx(t, deps.sqlMock, true)
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return record, nil
		}
		deps.repo.updateFn = func(ctx context.Context, l *leaverequest.LeaveRequest) error {
			assert.Equal(t, leaverequest.StatusPending, l.Status)
			assert.Nil(t, l.ApprovedBy)
			assert.Nil(t, l.ApprovedAt)
			return nil
		}

		_, err := deps.service.UpdateStatus(ctx, admin(), recordID.String(), leaverequest.UpdateStatusRequest{
			Status: leaverequest.StatusPending,
		})

		assert.NoError(t, err)
		assert.NoError(t, deps.sqlMock.ExpectationsWereMet())
	})

	t.Run("unknown id is not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return nil, gorm.ErrRecordNotFound
		}

		_, err := deps.service.UpdateStatus(ctx, admin(), recordID.String(), leaverequest.UpdateStatusRequest{
			Status: leaverequest.StatusRejected,
		})

		assert.ErrorIs(t, err, leaverequesterrors.ErrLeaveRequestNotFound)
	})
}

func TestLeaveRequestService_Delete(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()
	recordID := uuid.New()

	t.Run("unknown id is not found", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		err := deps.service.Delete(ctx, admin(), recordID.String())
		assert.ErrorIs(t, err, leaverequesterrors.ErrLeaveRequestNotFound)
	})

	t.Run("decided requests cannot be deleted", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return &leaverequest.LeaveRequest{ID: recordID, EmployeeID: ownerID, Status: leaverequest.StatusApproved}, nil
		}

		// State precedes ownership, even for a foreign record.
		err := deps.service.Delete(ctx, employeeIdentity(uuid.New().String()), recordID.String())
		assert.ErrorIs(t, err, leaverequesterrors.ErrNotPending)
	})

	t.Run("foreign pending request is forbidden", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return &leaverequest.LeaveRequest{ID: recordID, EmployeeID: ownerID, Status: leaverequest.StatusPending}, nil
		}

		err := deps.service.Delete(ctx, employeeIdentity(uuid.New().String()), recordID.String())
		assert.ErrorIs(t, err, leaverequesterrors.ErrDeleteForOthers)
	})

	t.Run("owner deletes own pending request", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deleted := false
		deps.repo.findByIDFn = func(ctx context.Context, id string) (*leaverequest.LeaveRequest, error) {
			return &leaverequest.LeaveRequest{ID: recordID, EmployeeID: ownerID, Status: leaverequest.StatusPending}, nil
		}
		deps.repo.deleteFn = func(ctx context.Context, id string) error {
			deleted = true
			assert.Equal(t, recordID.String(), id)
			return nil
		}

		err := deps.service.Delete(ctx, employeeIdentity(ownerID.String()), recordID.String())
		assert.NoError(t, err)
		assert.True(t, deleted)
	})
}

func TestLeaveRequestService_StatsOverview(t *testing.T) {
	ctx := context.Background()

	t.Run("totals sum the status counts", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deps.repo.countByStatusFn = func(ctx context.Context, employeeID string) (map[string]int64, error) {
			assert.Empty(t, employeeID) // admin sees everything
			return map[string]int64{
				leaverequest.StatusPending:  3,
				leaverequest.StatusApproved: 5,
				leaverequest.StatusRejected: 2,
			}, nil
		}
		deps.repo.typeBreakdownFn = func(ctx context.Context, employeeID string) ([]leaverequest.LeaveTypeStat, error) {
			return []leaverequest.LeaveTypeStat{{LeaveType: "annual", Count: 6, AvgDays: 3.5}}, nil
		}
		deps.repo.countCreatedSinceFn = func(ctx context.Context, employeeID string, since time.Time) (int64, error) {
			return 4, nil
		}

		stats, err := deps.service.StatsOverview(ctx, admin())

		assert.NoError(t, err)
		assert.Equal(t, int64(10), stats.TotalRequests)
		assert.Equal(t, int64(3), stats.PendingRequests)
		assert.Equal(t, int64(5), stats.ApprovedRequests)
		assert.Equal(t, int64(2), stats.RejectedRequests)
		assert.Equal(t, int64(4), stats.RecentRequests)
		assert.Len(t, stats.LeaveTypeBreakdown, 1)
	})

	t.Run("employee stats are scoped", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		employeeID := uuid.New().String()
		deps.repo.countByStatusFn = func(ctx context.Context, eid string) (map[string]int64, error) {
			assert.Equal(t, employeeID, eid)
			return map[string]int64{}, nil
		}

		stats, err := deps.service.StatsOverview(ctx, employeeIdentity(employeeID))

		assert.NoError(t, err)
		assert.NotNil(t, stats.LeaveTypeBreakdown)
	})
}

func TestLeaveRequestService_Search(t *testing.T) {
	ctx := context.Background()

	t.Run("blank term short-circuits", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		deps.repo.searchFn = func(ctx context.Context, employeeID, term string) ([]leaverequest.LeaveRequest, error) {
			t.Fatal("repository must not be called")
			return nil, nil
		}

		resp, err := deps.service.Search(ctx, admin(), "   ")
		assert.NoError(t, err)
		assert.Empty(t, resp)
	})

	t.Run("employee search is scoped", func(t *testing.T) {
		deps := setupServiceTest(t)
		defer deps.close()

		employeeID := uuid.New().String()
		deps.repo.searchFn = func(ctx context.Context, eid, term string) ([]leaverequest.LeaveRequest, error) {
			assert.Equal(t, employeeID, eid)
			assert.Equal(t, "annual", term)
			return []leaverequest.LeaveRequest{}, nil
		}

		_, err := deps.service.Search(ctx, employeeIdentity(employeeID), " annual ")
		assert.NoError(t, err)
	})
}
