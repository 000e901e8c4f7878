package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient_Send_Success(t *testing.T) {
	var got map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/botTOKEN/sendMessage" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Content-Type") != "application/json" {
			t.Errorf("expected JSON content type")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":77,"chat":{"id":42},"text":"hi"}}`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", "TOKEN", "42", server.Client())
	res, err := c.Send(context.Background(), "<b>hi</b>")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.MessageID != 77 {
		t.Errorf("expected message id 77, got %d", res.MessageID)
	}
	if res.Raw["ok"] != true {
		t.Errorf("expected raw body to be kept, got %v", res.Raw)
	}
	if got["chat_id"] != "42" || got["parse_mode"] != "HTML" || got["text"] != "<b>hi</b>" {
		t.Errorf("unexpected payload %v", got)
	}
}

func TestClient_Send_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`))
	}))
	defer server.Close()

	c := NewClient(server.URL, "TOKEN", "1", server.Client())
	_, err := c.Send(context.Background(), "hello")

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", apiErr.StatusCode)
	}
	if apiErr.Description != "Bad Request: chat not found" {
		t.Errorf("unexpected description %q", apiErr.Description)
	}
}

func TestClient_Send_NonJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	c := NewClient(server.URL, "TOKEN", "1", server.Client())
	_, err := c.Send(context.Background(), "hello")

	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusBadGateway {
		t.Fatalf("expected APIError with 502, got %v", err)
	}
}

func TestClient_Send_NotConfigured(t *testing.T) {
	c := NewClient("", "", "42", nil)
	if c.Configured() {
		t.Fatal("client without token should not be configured")
	}
	if _, err := c.Send(context.Background(), "x"); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestClient_Send_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1}}`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(server.URL, "TOKEN", "1", server.Client())
	if _, err := c.Send(ctx, "x"); err == nil {
		t.Fatal("expected error for canceled context")
	}
}

func TestEscape(t *testing.T) {
	if got := Escape("<Tom & Jerry>"); got != "&lt;Tom &amp; Jerry&gt;" {
		t.Errorf("unexpected escape %q", got)
	}
}
