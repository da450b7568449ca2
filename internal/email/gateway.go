// Package email integrates the email-automation gateway (fetch, send, label)
// and the LLM-backed draft composer.
package email

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/voxmail/voxmail/pkg/models"
)

// Message is one email as returned by the gateway's read API.
type Message struct {
	ID         string    `json:"id"`
	From       string    `json:"from"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	Snippet    string    `json:"snippet"`
	Unread     bool      `json:"unread"`
	ReceivedAt time.Time `json:"received_at"`
}

// SendError reports a failed send attempt. Retryable failures (transient
// network errors, gateway 5xx) move the workflow to ERROR where the user can
// retry; terminal failures (4xx such as a malformed recipient) should not be
// retried with the same draft.
type SendError struct {
	StatusCode int
	Msg        string
	Retryable  bool
}

func (e *SendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("send failed (status %d): %s", e.StatusCode, e.Msg)
	}
	return fmt.Sprintf("send failed: %s", e.Msg)
}

// Gateway is a client for the email-automation REST API.
type Gateway struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewGateway creates a gateway client. baseURL is the API root without a
// trailing slash.
func NewGateway(baseURL, apiKey string) *Gateway {
	return &Gateway{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// Fetch searches messages matching the free-form query.
func (g *Gateway) Fetch(ctx context.Context, query string) ([]Message, error) {
	u := g.baseURL + "/v1/messages?q=" + url.QueryEscape(query)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}

	var out struct {
		Messages []Message `json:"messages"`
	}
	if err := g.do(req, &out); err != nil {
		return nil, fmt.Errorf("fetch messages: %w", err)
	}
	return out.Messages, nil
}

// Send transmits the draft. On success it returns the provider message ID;
// on failure it returns a SendError classified as retryable or terminal.
func (g *Gateway) Send(ctx context.Context, draft *models.Draft) (string, error) {
	if draft == nil {
		return "", &SendError{Msg: "no draft to send", Retryable: false}
	}
	if draft.Recipient == "" {
		return "", &SendError{Msg: "draft has no recipient", Retryable: false}
	}

	body, err := json.Marshal(map[string]string{
		"to":      draft.Recipient,
		"subject": draft.Subject,
		"body":    draft.Body,
	})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+"/v1/messages/send", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	var out struct {
		MessageID string `json:"message_id"`
	}
	if err := g.do(req, &out); err != nil {
		return "", err
	}
	return out.MessageID, nil
}

// Label applies a label to a message.
func (g *Gateway) Label(ctx context.Context, messageID, label string) error {
	return g.action(ctx, messageID, "label", map[string]string{"label": label})
}

// Archive moves a message out of the inbox.
func (g *Gateway) Archive(ctx context.Context, messageID string) error {
	return g.action(ctx, messageID, "archive", nil)
}

// Delete moves a message to the trash.
func (g *Gateway) Delete(ctx context.Context, messageID string) error {
	return g.action(ctx, messageID, "delete", nil)
}

// MarkRead marks a message as read or unread.
func (g *Gateway) MarkRead(ctx context.Context, messageID string, read bool) error {
	return g.action(ctx, messageID, "read", map[string]bool{"read": read})
}

func (g *Gateway) action(ctx context.Context, messageID, verb string, payload any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	u := fmt.Sprintf("%s/v1/messages/%s/%s", g.baseURL, url.PathEscape(messageID), verb)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if err := g.do(req, nil); err != nil {
		return fmt.Errorf("%s message %s: %w", verb, messageID, err)
	}
	return nil
}

// do executes the request, classifies failures, and decodes the response
// into out when non-nil.
func (g *Gateway) do(req *http.Request, out any) error {
	if g.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.apiKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		// Network-level failures are worth retrying.
		return &SendError{Msg: err.Error(), Retryable: true}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &SendError{
			StatusCode: resp.StatusCode,
			Msg:        string(data),
			Retryable:  resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests,
		}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
