package notification

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	EmployeeID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_employee"`
	Kind       string    `gorm:"type:varchar(50);not null"`
	Message    string    `gorm:"not null"`
	Read       bool      `gorm:"not null;default:false"`
	CreatedAt  time.Time
}
