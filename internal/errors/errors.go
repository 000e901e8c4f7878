// Package errors provides the application error type returned by services.
// Handlers translate an AppError into a JSON body carrying only its code and
// message; the wrapped internal error is logged and never sent to clients.
package errors

import "net/http"

// AppError is a structured application error with a stable code, a
// human-readable message, the HTTP status to answer with, and an optional
// internal cause.
type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Internal   error  `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap exposes the internal cause to errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Wrap copies a sentinel and attaches an internal cause.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage copies a sentinel with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// Authentication errors.
var (
	ErrUnauthorized        = &AppError{Code: "UNAUTHORIZED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrInvalidCredentials  = &AppError{Code: "INVALID_CREDENTIALS", Message: "Invalid username or password", StatusCode: http.StatusUnauthorized}
	ErrInvalidRefreshToken = &AppError{Code: "INVALID_REFRESH_TOKEN", Message: "Invalid or expired refresh token", StatusCode: http.StatusUnauthorized}
	ErrAccountLocked       = &AppError{Code: "ACCOUNT_LOCKED", Message: "Account is temporarily locked", StatusCode: http.StatusLocked}
)

// General errors.
var (
	ErrInvalidInput   = &AppError{Code: "INVALID_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrInternalServer = &AppError{Code: "INTERNAL_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound      = &AppError{Code: "USER_NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrDuplicateUsername = &AppError{Code: "DUPLICATE_USERNAME", Message: "A user with this username already exists", StatusCode: http.StatusConflict}
)

// Ledger errors.
var (
	ErrIncomeNotFound  = &AppError{Code: "INCOME_NOT_FOUND", Message: "Income not found", StatusCode: http.StatusNotFound}
	ErrExpenseNotFound = &AppError{Code: "EXPENSE_NOT_FOUND", Message: "Expense not found", StatusCode: http.StatusNotFound}
)

// Inventory errors.
var (
	ErrProductNotFound   = &AppError{Code: "PRODUCT_NOT_FOUND", Message: "Product not found", StatusCode: http.StatusNotFound}
	ErrInsufficientStock = &AppError{Code: "INSUFFICIENT_STOCK", Message: "Not enough stock", StatusCode: http.StatusBadRequest}
)

// Debt errors.
var (
	ErrDebtNotFound       = &AppError{Code: "DEBT_NOT_FOUND", Message: "Debt not found", StatusCode: http.StatusNotFound}
	ErrPaymentExceedsDebt = &AppError{Code: "PAYMENT_EXCEEDS_DEBT", Message: "Payment exceeds debt amount", StatusCode: http.StatusBadRequest}
	ErrDebtAlreadyPaid    = &AppError{Code: "DEBT_ALREADY_PAID", Message: "Debt is already fully paid", StatusCode: http.StatusConflict}
)

// Work session errors.
var (
	ErrWorkSessionNotFound  = &AppError{Code: "WORK_SESSION_NOT_FOUND", Message: "Work session not found", StatusCode: http.StatusNotFound}
	ErrSessionAlreadyActive = &AppError{Code: "SESSION_ALREADY_ACTIVE", Message: "A work session is already in progress", StatusCode: http.StatusConflict}
	ErrNoActiveSession      = &AppError{Code: "NO_ACTIVE_SESSION", Message: "No work session is in progress", StatusCode: http.StatusConflict}
	ErrInvalidSessionRange  = &AppError{Code: "INVALID_SESSION_RANGE", Message: "Clock-out must be after clock-in", StatusCode: http.StatusBadRequest}
)

// Calendar errors.
var (
	ErrEventNotFound = &AppError{Code: "EVENT_NOT_FOUND", Message: "Calendar event not found", StatusCode: http.StatusNotFound}
	ErrTaskNotFound  = &AppError{Code: "TASK_NOT_FOUND", Message: "Task not found", StatusCode: http.StatusNotFound}
)

// Notification errors.
var (
	ErrWebhookNotConfigured  = &AppError{Code: "WEBHOOK_NOT_CONFIGURED", Message: "Webhook secret is not configured", StatusCode: http.StatusServiceUnavailable}
	ErrInvalidWebhookSecret  = &AppError{Code: "INVALID_WEBHOOK_SECRET", Message: "Unauthorized", StatusCode: http.StatusUnauthorized}
	ErrNotifierNotConfigured = &AppError{Code: "NOTIFIER_NOT_CONFIGURED", Message: "Telegram bot not configured", StatusCode: http.StatusInternalServerError}
	ErrNotificationFailed    = &AppError{Code: "NOTIFICATION_FAILED", Message: "Failed to send message", StatusCode: http.StatusBadGateway}
)
