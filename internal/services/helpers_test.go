package services

import (
	"context"
	"sync"
)

// recordingNotifier captures event notifications instead of sending them.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

var _ NotificationServicer = (*recordingNotifier)(nil)

func (r *recordingNotifier) Forward(_ context.Context, message string) (map[string]any, error) {
	r.Notify(message)
	return map[string]any{"ok": true}, nil
}

func (r *recordingNotifier) Notify(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, text)
}

func (r *recordingNotifier) sent() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

func int64Ptr(v int64) *int64 { return &v }
func strPtr(v string) *string  { return &v }
func boolPtr(v bool) *bool     { return &v }
