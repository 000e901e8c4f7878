package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/pagination"
	"pocketbook/internal/services"
)

// WorkSessionHandler handles clock-in/clock-out requests.
type WorkSessionHandler struct {
	workService  services.WorkSessionServicer
	auditService services.AuditServicer
}

// NewWorkSessionHandler creates a new WorkSessionHandler.
func NewWorkSessionHandler(workService services.WorkSessionServicer, auditService services.AuditServicer) *WorkSessionHandler {
	return &WorkSessionHandler{workService: workService, auditService: auditService}
}

// ClockInRequest is the optional clock-in payload.
type ClockInRequest struct {
	Notes string `json:"notes" binding:"max=500"`
}

// UpdateSessionRequest holds editable session fields. An empty clock_out
// string reopens the session.
type UpdateSessionRequest struct {
	ClockIn  *string `json:"clock_in"`
	ClockOut *string `json:"clock_out"`
	Notes    *string `json:"notes" binding:"omitempty,max=500"`
}

// ClockIn opens a work session
// @Summary     Clock in
// @Tags        work
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body ClockInRequest false "Optional notes"
// @Success     201 {object} models.WorkSession "Session opened"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "A session is already active"
// @Router      /work-sessions/clock-in [post]
func (h *WorkSessionHandler) ClockIn(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req ClockInRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
			return
		}
	}

	session, err := h.workService.ClockIn(userID, req.Notes)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// ClockOut closes the active session
// @Summary     Clock out
// @Tags        work
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.WorkSessionView "Closed session with its duration"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     409 {object} ErrorResponse "No active session"
// @Router      /work-sessions/clock-out [post]
func (h *WorkSessionHandler) ClockOut(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	session, err := h.workService.ClockOut(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// GetActive returns the open session
// @Summary     Active session
// @Description The running session with its elapsed time, or null when clocked out.
// @Tags        work
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.WorkSessionView "Active session or null"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /work-sessions/active [get]
func (h *WorkSessionHandler) GetActive(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	session, err := h.workService.GetActive(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// GetSessions lists sessions
// @Summary     List work sessions
// @Tags        work
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[services.WorkSessionView] "Paginated sessions"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /work-sessions [get]
func (h *WorkSessionHandler) GetSessions(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	result, err := h.workService.GetSessions(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// UpdateSession edits a session
// @Summary     Update work session
// @Tags        work
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string               true "Session ID"
// @Param       request body UpdateSessionRequest true "Fields to update"
// @Success     200 {object} services.WorkSessionView "Updated session"
// @Failure     400 {object} ErrorResponse "Invalid input or clock_out before clock_in"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Session not found"
// @Failure     409 {object} ErrorResponse "Another session is already active"
// @Router      /work-sessions/{id} [put]
func (h *WorkSessionHandler) UpdateSession(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	sessionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	update := services.WorkSessionUpdate{Notes: req.Notes}
	if update.ClockIn, err = parseOptionalTime(req.ClockIn); err != nil {
		respondWithError(c, err)
		return
	}
	if req.ClockOut != nil && *req.ClockOut == "" {
		update.ClearClockOut = true
	} else if update.ClockOut, err = parseOptionalTime(req.ClockOut); err != nil {
		respondWithError(c, err)
		return
	}

	session, err := h.workService.UpdateSession(userID, sessionID, update)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"session": session})
}

// DeleteSession deletes a session
// @Summary     Delete work session
// @Tags        work
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Session ID"
// @Success     200 {object} MessageResponse "Session deleted"
// @Failure     400 {object} ErrorResponse "Invalid session ID"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Session not found"
// @Router      /work-sessions/{id} [delete]
func (h *WorkSessionHandler) DeleteSession(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	sessionID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.workService.DeleteSession(userID, sessionID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditDelete, "work_session", sessionID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, MessageResponse{Message: "Work session deleted successfully"})
}

// GetSummary totals worked time
// @Summary     Work summary
// @Description Completed time today and since the start of the week (Sunday).
// @Tags        work
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.WorkSummary "Work totals"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /work-sessions/summary [get]
func (h *WorkSessionHandler) GetSummary(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.workService.GetSummary(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"summary": summary})
}
