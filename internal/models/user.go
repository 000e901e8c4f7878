package models

import "time"

// User is the owner of every other record.
type User struct {
	Base
	Username            string     `gorm:"uniqueIndex;not null" json:"username"`
	Password            string     `gorm:"not null" json:"-"`
	DisplayName         string     `json:"display_name"`
	IsActive            bool       `gorm:"default:true" json:"is_active"`
	RefreshTokenHash    string     `gorm:"size:64" json:"-"`
	FailedLoginAttempts int        `gorm:"default:0" json:"-"`
	LockedUntil         *time.Time `json:"-"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
}
