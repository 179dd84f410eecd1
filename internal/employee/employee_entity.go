package employee

import (
	"time"

	"github.com/google/uuid"
)

type Employee struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID         *uuid.UUID `gorm:"type:uuid"`
	FirstName      string     `gorm:"not null"`
	LastName       string     `gorm:"not null"`
	EmployeeNumber string     `gorm:"type:varchar(30);uniqueIndex;not null"`
	Email          string     `gorm:"type:varchar(255);uniqueIndex;not null"`
	Department     string
	Position       string
	HireDate       *time.Time `gorm:"type:date"`
	Salary         *float64   `gorm:"type:numeric(10,2)"`
	ManagerID      *uuid.UUID `gorm:"type:uuid"`
	IsActive       bool       `gorm:"not null;default:true"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (e Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}
