// Package notifier sends messages through the Telegram Bot API.
package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"html"
	"net/http"
	"strings"

	"github.com/PaesslerAG/jsonpath"
)

// DefaultBaseURL is the public Bot API endpoint.
const DefaultBaseURL = "https://api.telegram.org"

// ErrNotConfigured is returned when the bot token or chat id is missing.
var ErrNotConfigured = errors.New("telegram bot not configured")

// APIError is a non-ok reply from the Bot API.
type APIError struct {
	StatusCode  int
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram: unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("telegram: %s (status %d)", e.Description, e.StatusCode)
}

// Result is a successful sendMessage reply.
type Result struct {
	MessageID int64
	// Raw is the decoded response body, returned to webhook callers as-is.
	Raw map[string]any
}

// Client posts messages to one chat.
type Client struct {
	baseURL    string
	token      string
	chatID     string
	httpClient *http.Client
}

// NewClient creates a Bot API client. An empty baseURL uses DefaultBaseURL.
func NewClient(baseURL, token, chatID string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		token:      token,
		chatID:     chatID,
		httpClient: httpClient,
	}
}

// Configured reports whether both the token and chat id are set.
func (c *Client) Configured() bool {
	return c.token != "" && c.chatID != ""
}

// Send posts text to the configured chat using HTML parse mode.
func (c *Client) Send(ctx context.Context, text string) (*Result, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(map[string]string{
		"chat_id":    c.chatID,
		"text":       text,
		"parse_mode": "HTML",
	})
	if err != nil {
		return nil, fmt.Errorf("marshaling message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.baseURL, c.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	var body map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, &APIError{StatusCode: resp.StatusCode}
	}

	if ok, _ := body["ok"].(bool); resp.StatusCode != http.StatusOK || !ok {
		desc, _ := lookup(body, "$.description").(string)
		return nil, &APIError{StatusCode: resp.StatusCode, Description: desc}
	}

	result := &Result{Raw: body}
	if id, ok := lookup(body, "$.result.message_id").(float64); ok {
		result.MessageID = int64(id)
	}
	return result, nil
}

// lookup evaluates a JSONPath expression, unwrapping single-element lists.
func lookup(obj any, path string) any {
	v, err := jsonpath.Get(path, obj)
	if err != nil {
		return nil
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return nil
		}
		return list[0]
	}
	return v
}

// Escape makes s safe to embed in an HTML-mode message.
func Escape(s string) string {
	return html.EscapeString(s)
}
