package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a shopper identified by phone number; rows are created lazily the
// first time an OTP login completes.
type User struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Phone       string     `gorm:"column:phone;not null;uniqueIndex"`
	Name        *string    `gorm:"column:name"`
	Email       *string    `gorm:"column:email"`
	LastLoginAt *time.Time `gorm:"column:last_login_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
