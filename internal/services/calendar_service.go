package services

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/models"
	"pocketbook/internal/pagination"
)

// calendarService handles calendar events and tasks.
type calendarService struct {
	db *gorm.DB
}

// NewCalendarService creates a new CalendarServicer.
func NewCalendarService(db *gorm.DB) CalendarServicer {
	return &calendarService{db: db}
}

func requireTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.WithMessage(apperrors.ErrInvalidInput, "title is required")
	}
	return nil
}

// CreateEvent adds a calendar event.
func (s *calendarService) CreateEvent(userID, title, description string, date time.Time, isReminder bool) (*models.CalendarEvent, error) {
	if err := requireTitle(title); err != nil {
		return nil, err
	}
	if date.IsZero() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "date is required")
	}
	event := &models.CalendarEvent{
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Date:        date,
		IsReminder:  isReminder,
	}
	if err := s.db.Create(event).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return event, nil
}

// GetEvents lists events in the optional date range, earliest first.
func (s *calendarService) GetEvents(userID string, from, to *time.Time) ([]models.CalendarEvent, error) {
	var events []models.CalendarEvent
	err := s.db.Where("user_id = ?", userID).
		Scopes(pagination.DateRange("date", from, to)).
		Order("date ASC").
		Find(&events).Error
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return events, nil
}

// GetEventByID retrieves one event.
func (s *calendarService) GetEventByID(userID, eventID string) (*models.CalendarEvent, error) {
	var event models.CalendarEvent
	if err := s.db.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrEventNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &event, nil
}

// UpdateEvent applies the non-nil fields of update.
func (s *calendarService) UpdateEvent(userID, eventID string, update EventUpdate) (*models.CalendarEvent, error) {
	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		if err := requireTitle(*update.Title); err != nil {
			return nil, err
		}
		event.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		event.Description = *update.Description
	}
	if update.Date != nil {
		event.Date = *update.Date
	}
	if update.IsReminder != nil {
		event.IsReminder = *update.IsReminder
	}
	if err := s.db.Save(event).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return event, nil
}

// DeleteEvent soft-deletes an event.
func (s *calendarService) DeleteEvent(userID, eventID string) error {
	event, err := s.GetEventByID(userID, eventID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(event).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}

// CreateTask adds an open task, dated today when date is zero.
func (s *calendarService) CreateTask(userID, title, description string, date time.Time) (*models.Task, error) {
	if err := requireTitle(title); err != nil {
		return nil, err
	}
	if date.IsZero() {
		date = time.Now()
	}
	task := &models.Task{
		UserID:      userID,
		Title:       strings.TrimSpace(title),
		Description: description,
		Date:        date,
	}
	if err := s.db.Create(task).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return task, nil
}

// GetTasks lists tasks in the optional date range, open tasks first.
func (s *calendarService) GetTasks(userID string, from, to *time.Time, completed *bool) ([]models.Task, error) {
	q := s.db.Where("user_id = ?", userID).Scopes(pagination.DateRange("date", from, to))
	if completed != nil {
		q = q.Where("completed = ?", *completed)
	}

	var tasks []models.Task
	if err := q.Order("completed ASC").Order("date ASC").Find(&tasks).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return tasks, nil
}

// GetTaskByID retrieves one task.
func (s *calendarService) GetTaskByID(userID, taskID string) (*models.Task, error) {
	var task models.Task
	if err := s.db.Where("id = ? AND user_id = ?", taskID, userID).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrTaskNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &task, nil
}

// UpdateTask applies the non-nil fields of update.
func (s *calendarService) UpdateTask(userID, taskID string, update TaskUpdate) (*models.Task, error) {
	task, err := s.GetTaskByID(userID, taskID)
	if err != nil {
		return nil, err
	}
	if update.Title != nil {
		if err := requireTitle(*update.Title); err != nil {
			return nil, err
		}
		task.Title = strings.TrimSpace(*update.Title)
	}
	if update.Description != nil {
		task.Description = *update.Description
	}
	if update.Date != nil {
		task.Date = *update.Date
	}
	if update.Completed != nil {
		task.Completed = *update.Completed
	}
	if err := s.db.Save(task).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return task, nil
}

// ToggleTask flips a task's completed flag.
func (s *calendarService) ToggleTask(userID, taskID string) (*models.Task, error) {
	task, err := s.GetTaskByID(userID, taskID)
	if err != nil {
		return nil, err
	}
	task.Completed = !task.Completed
	if err := s.db.Model(task).Update("completed", task.Completed).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return task, nil
}

// DeleteTask soft-deletes a task.
func (s *calendarService) DeleteTask(userID, taskID string) error {
	task, err := s.GetTaskByID(userID, taskID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(task).Error; err != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return nil
}
