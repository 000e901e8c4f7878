package models

import "time"

// CalendarEvent is a dated entry, optionally flagged as a reminder.
type CalendarEvent struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	IsReminder  bool      `gorm:"default:false" json:"is_reminder"`
}

// Task is a dated to-do item.
type Task struct {
	Base
	UserID      string    `gorm:"type:uuid;not null;index" json:"user_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	Date        time.Time `gorm:"not null;index" json:"date"`
	Completed   bool      `gorm:"default:false;index" json:"completed"`
}
