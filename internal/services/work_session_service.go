package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/ledger"
	"pocketbook/internal/metrics"
	"pocketbook/internal/models"
	"pocketbook/internal/pagination"
)

// workSessionService tracks clock-in/clock-out intervals. At most one
// session per user is open at a time.
type workSessionService struct {
	db            *gorm.DB
	notifications NotificationServicer
	now           func() time.Time
}

// NewWorkSessionService creates a new WorkSessionServicer.
func NewWorkSessionService(db *gorm.DB, notifications NotificationServicer) WorkSessionServicer {
	return &workSessionService{db: db, notifications: notifications, now: time.Now}
}

func (s *workSessionService) view(session models.WorkSession) WorkSessionView {
	v := WorkSessionView{WorkSession: session}
	if session.Active() {
		elapsed := s.now().Sub(session.ClockIn)
		v.DurationSeconds = int64(elapsed / time.Second)
		v.Duration = ledger.FormatElapsed(elapsed)
		return v
	}
	d := session.ClockOut.Sub(session.ClockIn)
	v.DurationSeconds = int64(d / time.Second)
	v.Duration = ledger.FormatDuration(d)
	return v
}

func findActiveSession(db *gorm.DB, userID string) (*models.WorkSession, error) {
	var session models.WorkSession
	err := db.Where("user_id = ? AND clock_out IS NULL", userID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &session, nil
}

// refreshGauge recounts open sessions for the active_sessions gauge.
func (s *workSessionService) refreshGauge() {
	var open int64
	if err := s.db.Model(&models.WorkSession{}).Where("clock_out IS NULL").Count(&open).Error; err == nil {
		metrics.ActiveWorkSessions.Set(float64(open))
	}
}

// sessionWriteError maps a hit on the one-open-session unique index, which
// only a concurrent writer can reach past the explicit checks.
func sessionWriteError(err error) error {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return apperrors.ErrSessionAlreadyActive
	}
	return apperrors.Wrap(apperrors.ErrInternalServer, err)
}

func insertSession(tx *gorm.DB, session *models.WorkSession) error {
	if err := tx.Create(session).Error; err != nil {
		return sessionWriteError(err)
	}
	return nil
}

// ClockIn opens a session starting now.
func (s *workSessionService) ClockIn(userID, notes string) (*models.WorkSession, error) {
	session := &models.WorkSession{UserID: userID, ClockIn: s.now(), Notes: notes}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		active, err := findActiveSession(tx, userID)
		if err != nil {
			return err
		}
		if active != nil {
			return apperrors.ErrSessionAlreadyActive
		}
		return insertSession(tx, session)
	})
	if err != nil {
		return nil, err
	}

	s.refreshGauge()
	return session, nil
}

// ClockOut closes the open session at now.
func (s *workSessionService) ClockOut(userID string) (*WorkSessionView, error) {
	var session *models.WorkSession
	err := s.db.Transaction(func(tx *gorm.DB) error {
		active, err := findActiveSession(tx, userID)
		if err != nil {
			return err
		}
		if active == nil {
			return apperrors.ErrNoActiveSession
		}
		now := s.now()
		if now.Before(active.ClockIn) {
			now = active.ClockIn
		}
		if err := tx.Model(active).Update("clock_out", now).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		active.ClockOut = &now
		session = active
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.refreshGauge()
	v := s.view(*session)
	s.notifications.Notify(fmt.Sprintf("<b>Clocked out</b>: worked %s", v.Duration))
	return &v, nil
}

// GetActive returns the open session, or nil when the user is clocked out.
func (s *workSessionService) GetActive(userID string) (*WorkSessionView, error) {
	active, err := findActiveSession(s.db, userID)
	if err != nil || active == nil {
		return nil, err
	}
	v := s.view(*active)
	return &v, nil
}

// GetSessions lists sessions, most recent clock-in first.
func (s *workSessionService) GetSessions(userID string, page pagination.PageRequest) (*pagination.PageResponse[WorkSessionView], error) {
	page.Defaults()

	base := s.db.Model(&models.WorkSession{}).Where("user_id = ?", userID).Session(&gorm.Session{})

	var totalItems int64
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var sessions []models.WorkSession
	if err := base.Scopes(pagination.Paginate(page)).Order("clock_in DESC").Find(&sessions).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	views := make([]WorkSessionView, 0, len(sessions))
	for _, session := range sessions {
		views = append(views, s.view(session))
	}

	result := pagination.NewPageResponse(views, page.Page, page.PageSize, totalItems)
	return &result, nil
}

func findWorkSession(db *gorm.DB, userID, sessionID string) (*models.WorkSession, error) {
	var session models.WorkSession
	if err := db.Where("id = ? AND user_id = ?", sessionID, userID).First(&session).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrWorkSessionNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &session, nil
}

// UpdateSession corrects a session's times or notes. Reopening a session is
// refused while another one is open.
func (s *workSessionService) UpdateSession(userID, sessionID string, update WorkSessionUpdate) (*WorkSessionView, error) {
	var session *models.WorkSession
	err := s.db.Transaction(func(tx *gorm.DB) error {
		found, err := findWorkSession(tx, userID, sessionID)
		if err != nil {
			return err
		}

		if update.ClockIn != nil {
			found.ClockIn = *update.ClockIn
		}
		if update.ClearClockOut {
			found.ClockOut = nil
		} else if update.ClockOut != nil {
			clockOut := *update.ClockOut
			found.ClockOut = &clockOut
		}
		if update.Notes != nil {
			found.Notes = *update.Notes
		}

		if found.ClockOut != nil && !found.ClockOut.After(found.ClockIn) {
			return apperrors.ErrInvalidSessionRange
		}
		if found.ClockOut == nil {
			var others int64
			err := tx.Model(&models.WorkSession{}).
				Where("user_id = ? AND clock_out IS NULL AND id <> ?", userID, found.ID).
				Count(&others).Error
			if err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
			if others > 0 {
				return apperrors.ErrSessionAlreadyActive
			}
		}

		err = tx.Model(found).Select("clock_in", "clock_out", "notes").Updates(map[string]interface{}{
			"clock_in":  found.ClockIn,
			"clock_out": found.ClockOut,
			"notes":     found.Notes,
		}).Error
		if err != nil {
			return sessionWriteError(err)
		}
		session = found
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.refreshGauge()
	v := s.view(*session)
	return &v, nil
}

// DeleteSession soft-deletes a session.
func (s *workSessionService) DeleteSession(userID, sessionID string) error {
	session, err := findWorkSession(s.db, userID, sessionID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(session).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	s.refreshGauge()
	return nil
}

// GetSummary totals completed work for today and for the week starting on
// Sunday. The open session is not counted.
func (s *workSessionService) GetSummary(userID string) (*WorkSummary, error) {
	now := s.now()
	dayStart := ledger.StartOfDay(now)
	weekStart := ledger.StartOfWeek(now)

	var sessions []models.WorkSession
	err := s.db.Where("user_id = ? AND clock_out IS NOT NULL AND clock_out > ?", userID, weekStart).
		Find(&sessions).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	today := ledger.WorkedSince(sessions, dayStart)
	week := ledger.WorkedSince(sessions, weekStart)
	return &WorkSummary{
		TodaySeconds: int64(today / time.Second),
		Today:        ledger.FormatDuration(today),
		WeekSeconds:  int64(week / time.Second),
		Week:         ledger.FormatDuration(week),
		WeekStart:    weekStart.Format("2006-01-02"),
	}, nil
}
