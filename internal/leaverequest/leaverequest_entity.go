package leaverequest

import (
	"time"

	"github.com/google/uuid"

	"mohr/internal/employee"
)

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type LeaveRequest struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID    uuid.UUID  `gorm:"type:uuid;not null"`
	LeaveType     string     `gorm:"type:varchar(50);not null"`
	StartDate     time.Time  `gorm:"type:date;not null"`
	EndDate       time.Time  `gorm:"type:date;not null"`
	DaysRequested int        `gorm:"not null"`
	Reason        string     `gorm:"type:varchar(500)"`
	Status        string     `gorm:"type:varchar(20);not null;default:'pending'"`
	ApprovedBy    *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt    *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Employee *employee.Employee `gorm:"foreignKey:EmployeeID"`
}

func (LeaveRequest) TableName() string {
	return "leave_requests"
}
