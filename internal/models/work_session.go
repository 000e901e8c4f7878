package models

import "time"

// WorkSession is a clock-in/clock-out interval. A nil ClockOut marks the
// session that is still running.
type WorkSession struct {
	Base
	UserID   string     `gorm:"type:uuid;not null;index" json:"user_id"`
	ClockIn  time.Time  `gorm:"not null;index" json:"clock_in"`
	ClockOut *time.Time `json:"clock_out"`
	Notes    string     `json:"notes,omitempty"`
}

// Active reports whether the session has not been clocked out.
func (w WorkSession) Active() bool {
	return w.ClockOut == nil
}
