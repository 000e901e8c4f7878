package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/ledger"
	"pocketbook/internal/services"
)

// CalendarHandler handles calendar event and task requests.
type CalendarHandler struct {
	calendarService services.CalendarServicer
	auditService    services.AuditServicer
}

// NewCalendarHandler creates a new CalendarHandler.
func NewCalendarHandler(calendarService services.CalendarServicer, auditService services.AuditServicer) *CalendarHandler {
	return &CalendarHandler{calendarService: calendarService, auditService: auditService}
}

// CreateEventRequest is the payload for a new calendar event.
type CreateEventRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"max=1000"`
	Date        string `json:"date" binding:"required"`
	IsReminder  bool   `json:"is_reminder"`
}

// UpdateEventRequest holds editable event fields.
type UpdateEventRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Date        *string `json:"date"`
	IsReminder  *bool   `json:"is_reminder"`
}

// CreateTaskRequest is the payload for a new task. The date defaults to now.
type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Description string  `json:"description" binding:"max=1000"`
	Date        *string `json:"date"`
}

// UpdateTaskRequest holds editable task fields.
type UpdateTaskRequest struct {
	Title       *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,max=1000"`
	Date        *string `json:"date"`
	Completed   *bool   `json:"completed"`
}

// CalendarQuery selects a date window, either as from/to or as a YYYY-MM month.
type CalendarQuery struct {
	Month     string `form:"month" binding:"omitempty,year_month"`
	Completed *bool  `form:"completed"`
}

// parseCalendarWindow resolves month or from/to into a date range. Month
// takes precedence.
func parseCalendarWindow(c *gin.Context, month string) (*time.Time, *time.Time, error) {
	if month != "" {
		start, end, err := ledger.MonthRange(month, time.UTC)
		if err != nil {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
		}
		return &start, &end, nil
	}
	return parseDateRange(c, "from", "to")
}

// CreateEvent adds an event
// @Summary     Create a calendar event
// @Tags        calendar
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateEventRequest true "Event details"
// @Success     201 {object} models.CalendarEvent "Event created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /calendar/events [post]
func (h *CalendarHandler) CreateEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	date, err := parseOptionalTime(&req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.calendarService.CreateEvent(userID, req.Title, req.Description, *date, req.IsReminder)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"event": event})
}

// GetEvents lists events
// @Summary     List calendar events
// @Description Events ordered by date. Filter with month=YYYY-MM or with from/to.
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       month query string false "Month (YYYY-MM)"
// @Param       from  query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to    query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Success     200 {array}  models.CalendarEvent "Events"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /calendar/events [get]
func (h *CalendarHandler) GetEvents(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query CalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	from, to, err := parseCalendarWindow(c, query.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	events, err := h.calendarService.GetEvents(userID, from, to)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"events": events})
}

// GetEventByID returns one event
// @Summary     Get calendar event
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Event ID"
// @Success     200 {object} models.CalendarEvent "Event"
// @Failure     400 {object} ErrorResponse "Invalid event ID"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /calendar/events/{id} [get]
func (h *CalendarHandler) GetEventByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.calendarService.GetEventByID(userID, eventID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// UpdateEvent edits an event
// @Summary     Update calendar event
// @Tags        calendar
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Event ID"
// @Param       request body UpdateEventRequest true "Fields to update"
// @Success     200 {object} models.CalendarEvent "Updated event"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /calendar/events/{id} [put]
func (h *CalendarHandler) UpdateEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	date, err := parseOptionalTime(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	event, err := h.calendarService.UpdateEvent(userID, eventID, services.EventUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		IsReminder:  req.IsReminder,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"event": event})
}

// DeleteEvent deletes an event
// @Summary     Delete calendar event
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Event ID"
// @Success     200 {object} MessageResponse "Event deleted"
// @Failure     400 {object} ErrorResponse "Invalid event ID"
// @Failure     404 {object} ErrorResponse "Event not found"
// @Router      /calendar/events/{id} [delete]
func (h *CalendarHandler) DeleteEvent(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	eventID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.calendarService.DeleteEvent(userID, eventID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "calendar_event", eventID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Event deleted successfully"})
}

// CreateTask adds a task
// @Summary     Create a task
// @Tags        calendar
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateTaskRequest true "Task details"
// @Success     201 {object} models.Task "Task created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /calendar/tasks [post]
func (h *CalendarHandler) CreateTask(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	date, err := parseOptionalTime(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}
	var when time.Time
	if date != nil {
		when = *date
	}

	task, err := h.calendarService.CreateTask(userID, req.Title, req.Description, when)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"task": task})
}

// GetTasks lists tasks
// @Summary     List tasks
// @Description Open tasks first, then by date. Filter with month=YYYY-MM or from/to, and by completed.
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       month     query string false "Month (YYYY-MM)"
// @Param       from      query string false "Start date (RFC3339 or YYYY-MM-DD)"
// @Param       to        query string false "End date (RFC3339 or YYYY-MM-DD)"
// @Param       completed query bool   false "Filter by completion"
// @Success     200 {array}  models.Task "Tasks"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /calendar/tasks [get]
func (h *CalendarHandler) GetTasks(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var query CalendarQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	from, to, err := parseCalendarWindow(c, query.Month)
	if err != nil {
		respondWithError(c, err)
		return
	}

	tasks, err := h.calendarService.GetTasks(userID, from, to, query.Completed)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tasks": tasks})
}

// GetTaskByID returns one task
// @Summary     Get task
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Task ID"
// @Success     200 {object} models.Task "Task"
// @Failure     400 {object} ErrorResponse "Invalid task ID"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Router      /calendar/tasks/{id} [get]
func (h *CalendarHandler) GetTaskByID(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	task, err := h.calendarService.GetTaskByID(userID, taskID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// UpdateTask edits a task
// @Summary     Update task
// @Tags        calendar
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Task ID"
// @Param       request body UpdateTaskRequest true "Fields to update"
// @Success     200 {object} models.Task "Updated task"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Router      /calendar/tasks/{id} [put]
func (h *CalendarHandler) UpdateTask(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}
	date, err := parseOptionalTime(req.Date)
	if err != nil {
		respondWithError(c, err)
		return
	}

	task, err := h.calendarService.UpdateTask(userID, taskID, services.TaskUpdate{
		Title:       req.Title,
		Description: req.Description,
		Date:        date,
		Completed:   req.Completed,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// ToggleTask flips a task's completion
// @Summary     Toggle task completion
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Task ID"
// @Success     200 {object} models.Task "Toggled task"
// @Failure     400 {object} ErrorResponse "Invalid task ID"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Router      /calendar/tasks/{id}/toggle [patch]
func (h *CalendarHandler) ToggleTask(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	task, err := h.calendarService.ToggleTask(userID, taskID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"task": task})
}

// DeleteTask deletes a task
// @Summary     Delete task
// @Tags        calendar
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Task ID"
// @Success     200 {object} MessageResponse "Task deleted"
// @Failure     400 {object} ErrorResponse "Invalid task ID"
// @Failure     404 {object} ErrorResponse "Task not found"
// @Router      /calendar/tasks/{id} [delete]
func (h *CalendarHandler) DeleteTask(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	taskID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.calendarService.DeleteTask(userID, taskID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "task", taskID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Task deleted successfully"})
}
