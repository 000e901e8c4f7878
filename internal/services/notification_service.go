package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/logger"
	"pocketbook/internal/metrics"
	"pocketbook/internal/notifier"
)

// notificationService relays messages to the configured Telegram chat.
type notificationService struct {
	client  *notifier.Client
	enabled bool
	timeout time.Duration
	wg      sync.WaitGroup
}

// NewNotificationService creates a new NotificationServicer. Event
// notifications are only sent when enabled is true; Forward always sends.
func NewNotificationService(client *notifier.Client, enabled bool, timeout time.Duration) NotificationServicer {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &notificationService{client: client, enabled: enabled, timeout: timeout}
}

// Forward sends message and returns the Bot API reply body.
func (s *notificationService) Forward(ctx context.Context, message string) (map[string]any, error) {
	if strings.TrimSpace(message) == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "message is required")
	}

	result, err := s.client.Send(ctx, message)
	if err != nil {
		metrics.Notifications.WithLabelValues("failed").Inc()
		return nil, mapNotifierError(err)
	}
	metrics.Notifications.WithLabelValues("sent").Inc()
	return result.Raw, nil
}

func mapNotifierError(err error) error {
	if errors.Is(err, notifier.ErrNotConfigured) {
		return apperrors.ErrNotifierNotConfigured
	}
	var apiErr *notifier.APIError
	if errors.As(err, &apiErr) && apiErr.Description != "" {
		appErr := apperrors.WithMessage(apperrors.ErrNotificationFailed, apiErr.Description)
		appErr.Internal = err
		return appErr
	}
	return apperrors.Wrap(apperrors.ErrNotificationFailed, err)
}

// Notify sends text in the background.
func (s *notificationService) Notify(text string) {
	if !s.enabled || !s.client.Configured() {
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		defer cancel()

		if _, err := s.client.Send(ctx, text); err != nil {
			metrics.Notifications.WithLabelValues("failed").Inc()
			logger.Get().Warnw("Event notification failed", "error", err)
			return
		}
		metrics.Notifications.WithLabelValues("sent").Inc()
	}()
}

// Wait blocks until background notifications have finished.
func (s *notificationService) Wait() {
	s.wg.Wait()
}
