package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/logger"
	"pocketbook/internal/uuid"
)

const dateLayout = "2006-01-02"

// getUserID extracts the authenticated user ID from the Gin context.
// Returns ErrUnauthorized if not present.
func getUserID(c *gin.Context) (string, error) {
	userID, ok := c.Get("userID")
	if !ok {
		return "", apperrors.ErrUnauthorized
	}
	id, ok := userID.(string)
	if !ok || id == "" {
		return "", apperrors.ErrUnauthorized
	}
	return id, nil
}

// parsePathID reads a UUID path parameter.
//
//nolint:unparam // every route currently names it "id"
func parsePathID(c *gin.Context, param string) (string, error) {
	id, err := uuid.Parse(c.Param(param))
	if err != nil {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "Invalid "+param)
	}
	return id, nil
}

// parseFlexibleTime accepts RFC3339 or a bare YYYY-MM-DD date (midnight UTC).
func parseFlexibleTime(value string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	t, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use RFC3339 or YYYY-MM-DD", value)
	}
	return t, nil
}

// parseOptionalTime parses value when it is set. A nil or empty value yields
// nil.
func parseOptionalTime(value *string) (*time.Time, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	t, err := parseFlexibleTime(*value)
	if err != nil {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error())
	}
	return &t, nil
}

// parseDateRange reads two query parameters as an inclusive range. A bare
// date in the upper bound covers the whole day.
func parseDateRange(c *gin.Context, fromKey, toKey string) (*time.Time, *time.Time, error) {
	var from, to *time.Time
	if v := c.Query(fromKey); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+fromKey+" format, use RFC3339 or YYYY-MM-DD")
		}
		from = &t
	}
	if v := c.Query(toKey); v != "" {
		t, err := parseFlexibleTime(v)
		if err != nil {
			return nil, nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid "+toKey+" format, use RFC3339 or YYYY-MM-DD")
		}
		if len(v) == len(dateLayout) {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		to = &t
	}
	return from, to, nil
}

// respondWithError writes a consistent JSON error response. If the error is an
// *AppError it uses the error's status code, code, and message. Otherwise it
// logs the unexpected error and returns a generic internal server error.
func respondWithError(c *gin.Context, err error) {
	var appErr *apperrors.AppError
	if !errors.As(err, &appErr) {
		logger.Get().Errorw("unexpected error",
			"error", err.Error(),
			"path", c.Request.URL.Path,
			"method", c.Request.Method,
		)
		appErr = apperrors.ErrInternalServer
	} else if appErr.Internal != nil {
		logger.Get().Errorw("app error",
			"code", appErr.Code,
			"internal", appErr.Internal.Error(),
			"path", c.Request.URL.Path,
		)
	}

	c.JSON(appErr.StatusCode, ErrorResponse{Error: ErrorDetail{Code: appErr.Code, Message: appErr.Message}})
}

// ErrorDetail represents the inner error object in an error response.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// MessageResponse represents a simple message response
type MessageResponse struct {
	Message string `json:"message"`
}
