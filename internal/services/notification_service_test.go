package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"pocketbook/internal/notifier"
	"pocketbook/internal/testutil"
)

func botServer(t *testing.T, status int, body string, calls *atomic.Int32) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls != nil {
			calls.Add(1)
		}
		var payload map[string]string
		_ = json.NewDecoder(r.Body).Decode(&payload)
		if payload["parse_mode"] != "HTML" {
			t.Errorf("expected HTML parse mode, got %q", payload["parse_mode"])
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestForward(t *testing.T) {
	t.Run("success_returns_reply", func(t *testing.T) {
		server := botServer(t, http.StatusOK, `{"ok":true,"result":{"message_id":7}}`, nil)
		svc := NewNotificationService(notifier.NewClient(server.URL, "tok", "42", server.Client()), false, time.Second)

		reply, err := svc.Forward(context.Background(), "hello")
		testutil.AssertNoError(t, err)
		if ok, _ := reply["ok"].(bool); !ok {
			t.Errorf("expected ok reply, got %v", reply)
		}
	})

	t.Run("api_error_carries_description", func(t *testing.T) {
		server := botServer(t, http.StatusBadRequest, `{"ok":false,"description":"Bad Request: chat not found"}`, nil)
		svc := NewNotificationService(notifier.NewClient(server.URL, "tok", "42", server.Client()), false, time.Second)

		_, err := svc.Forward(context.Background(), "hello")
		testutil.AssertAppError(t, err, "NOTIFICATION_FAILED")
		if err.Error() != "Bad Request: chat not found" {
			t.Errorf("expected bot description as message, got %q", err.Error())
		}
	})

	t.Run("not_configured", func(t *testing.T) {
		svc := NewNotificationService(notifier.NewClient("", "", "", nil), true, time.Second)
		_, err := svc.Forward(context.Background(), "hello")
		testutil.AssertAppError(t, err, "NOTIFIER_NOT_CONFIGURED")
	})

	t.Run("empty_message", func(t *testing.T) {
		svc := NewNotificationService(notifier.NewClient("", "tok", "42", nil), true, time.Second)
		_, err := svc.Forward(context.Background(), "   ")
		testutil.AssertAppError(t, err, "INVALID_INPUT")
	})
}

func TestNotify(t *testing.T) {
	t.Run("enabled_sends_in_background", func(t *testing.T) {
		var calls atomic.Int32
		server := botServer(t, http.StatusOK, `{"ok":true,"result":{"message_id":1}}`, &calls)
		svc := NewNotificationService(notifier.NewClient(server.URL, "tok", "42", server.Client()), true, time.Second)

		svc.Notify("sold something")
		svc.(*notificationService).Wait()

		if calls.Load() != 1 {
			t.Errorf("expected 1 request, got %d", calls.Load())
		}
	})

	t.Run("disabled_sends_nothing", func(t *testing.T) {
		var calls atomic.Int32
		server := botServer(t, http.StatusOK, `{"ok":true}`, &calls)
		svc := NewNotificationService(notifier.NewClient(server.URL, "tok", "42", server.Client()), false, time.Second)

		svc.Notify("sold something")
		svc.(*notificationService).Wait()

		if calls.Load() != 0 {
			t.Errorf("expected no requests, got %d", calls.Load())
		}
	})

	t.Run("failure_is_swallowed", func(t *testing.T) {
		server := botServer(t, http.StatusInternalServerError, `{"ok":false,"description":"boom"}`, nil)
		svc := NewNotificationService(notifier.NewClient(server.URL, "tok", "42", server.Client()), true, time.Second)

		svc.Notify("sold something")
		svc.(*notificationService).Wait()
	})
}
