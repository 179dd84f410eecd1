package leaverequest

import (
	"context"
	"time"

	"gorm.io/gorm"
)

//go:generate mockgen -source=leaverequest_repo.go -destination=mock/leaverequest_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, l *LeaveRequest) error
	FindAll(ctx context.Context, f ListFilter) ([]LeaveRequest, error)
	FindByID(ctx context.Context, id string) (*LeaveRequest, error)
	Update(ctx context.Context, l *LeaveRequest) error
	Delete(ctx context.Context, id string) error
	HasOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error)
	Search(ctx context.Context, employeeID, term string) ([]LeaveRequest, error)
	CountByStatus(ctx context.Context, employeeID string) (map[string]int64, error)
	TypeBreakdown(ctx context.Context, employeeID string) ([]LeaveTypeStat, error)
	CountCreatedSince(ctx context.Context, employeeID string, since time.Time) (int64, error)
	FindApproved(ctx context.Context, employeeID string, from time.Time) ([]LeaveRequest, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

// WithTx binds the repository to an open transaction. The overlap
// check and the insert must run on the same connection or the
// serializable isolation buys nothing.
func (r *repository) WithTx(tx *gorm.DB) Repository {
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Employee").Create(l).Error
}

// scoped applies the optional filters as parameterized clauses.
func scoped(db *gorm.DB, f ListFilter) *gorm.DB {
	if f.EmployeeID != "" {
		db = db.Where("employee_id = ?", f.EmployeeID)
	}
	if f.Status != "" {
		db = db.Where("status = ?", f.Status)
	}
	if f.LeaveType != "" {
		db = db.Where("leave_type = ?", f.LeaveType)
	}
	return db
}

func (r *repository) FindAll(ctx context.Context, f ListFilter) ([]LeaveRequest, error) {
	var list []LeaveRequest
	err := scoped(r.db.WithContext(ctx), f).
		Preload("Employee").
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) FindByID(ctx context.Context, id string) (*LeaveRequest, error) {
	var l LeaveRequest
	err := r.db.WithContext(ctx).
		Preload("Employee").
		First(&l, "id = ?", id).Error
	return &l, err
}

func (r *repository) Update(ctx context.Context, l *LeaveRequest) error {
	return r.db.WithContext(ctx).Omit("Employee").Save(l).Error
}

func (r *repository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&LeaveRequest{}, "id = ?", id).Error
}

// HasOverlapping reports whether the employee already holds a pending
// or approved request touching [startDate, endDate]. Two inclusive
// ranges overlap when a.start <= b.end AND a.end >= b.start.
func (r *repository) HasOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("employee_id = ?", employeeID).
		Where("status IN ?", []string{StatusPending, StatusApproved}).
		Where("start_date <= ? AND end_date >= ?", endDate, startDate).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Search(ctx context.Context, employeeID, term string) ([]LeaveRequest, error) {
	pattern := "%" + term + "%"
	db := r.db.WithContext(ctx).
		Joins("JOIN employees ON employees.id = leave_requests.employee_id").
		Where(
			"employees.first_name ILIKE ? OR employees.last_name ILIKE ? OR leave_requests.leave_type ILIKE ? OR leave_requests.reason ILIKE ?",
			pattern, pattern, pattern, pattern,
		)
	if employeeID != "" {
		db = db.Where("leave_requests.employee_id = ?", employeeID)
	}

	var list []LeaveRequest
	err := db.Preload("Employee").
		Order("leave_requests.created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repository) CountByStatus(ctx context.Context, employeeID string) (map[string]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select("status, COUNT(*) AS count").
		Group("status")
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}
	if err := db.Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}

func (r *repository) TypeBreakdown(ctx context.Context, employeeID string) ([]LeaveTypeStat, error) {
	var stats []LeaveTypeStat
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Select("leave_type, COUNT(*) AS count, ROUND(AVG(days_requested), 1) AS avg_days").
		Group("leave_type").
		Order("count DESC")
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}
	err := db.Scan(&stats).Error
	return stats, err
}

func (r *repository) CountCreatedSince(ctx context.Context, employeeID string, since time.Time) (int64, error) {
	var count int64
	db := r.db.WithContext(ctx).
		Model(&LeaveRequest{}).
		Where("created_at >= ?", since)
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}
	err := db.Count(&count).Error
	return count, err
}

func (r *repository) FindApproved(ctx context.Context, employeeID string, from time.Time) ([]LeaveRequest, error) {
	db := r.db.WithContext(ctx).
		Where("status = ?", StatusApproved).
		Where("end_date >= ?", from)
	if employeeID != "" {
		db = db.Where("employee_id = ?", employeeID)
	}

	var list []LeaveRequest
	err := db.Preload("Employee").
		Order("start_date ASC").
		Find(&list).Error
	return list, err
}
