// Package chat is the messaging transport: it carries user messages in and
// assistant replies out over a websocket connection to the chat bridge.
package chat

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// MessageKind distinguishes text from recorded audio.
type MessageKind string

const (
	KindText  MessageKind = "text"
	KindAudio MessageKind = "audio"
)

// Message is one chat message in either direction.
type Message struct {
	ConversationID string      `json:"conversation_id"`
	Sender         string      `json:"sender"` // "user" or "assistant"
	Kind           MessageKind `json:"kind"`
	Text           string      `json:"text,omitempty"`
	Audio          []byte      `json:"audio,omitempty"`
	Filename       string      `json:"filename,omitempty"`
	SentAt         time.Time   `json:"sent_at"`
}

// Client is a websocket connection to the chat bridge. Reads are expected
// from a single goroutine; writes are serialized internally.
type Client struct {
	url           string
	reconnectWait time.Duration

	mu   sync.Mutex
	conn *websocket.Conn
}

// Dial connects to the chat bridge.
func Dial(wsURL string, reconnectWait time.Duration) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial chat bridge: %w", err)
	}
	if reconnectWait <= 0 {
		reconnectWait = 5 * time.Second
	}
	return &Client{url: wsURL, reconnectWait: reconnectWait, conn: conn}, nil
}

// Read blocks until the next message arrives.
func (c *Client) Read() (*Message, error) {
	_, data, err := c.conn.ReadMessage()
	if err != nil {
		return nil, err
	}

	var m Message
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode chat message: %w", err)
	}
	return &m, nil
}

// Send writes a message to the bridge.
func (c *Client) Send(m *Message) error {
	if m.SentAt.IsZero() {
		m.SentAt = time.Now()
	}
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encode chat message: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// SendText is a convenience for plain assistant replies.
func (c *Client) SendText(conversationID, text string) error {
	return c.Send(&Message{
		ConversationID: conversationID,
		Sender:         "assistant",
		Kind:           KindText,
		Text:           text,
	})
}

// Reconnect re-dials until it succeeds or the context is cancelled.
func (c *Client) Reconnect(ctx context.Context) error {
	for {
		conn, _, err := websocket.DefaultDialer.Dial(c.url, nil)
		if err == nil {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(c.reconnectWait):
		}
	}
}

// Close closes the connection.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.Close()
}

// IsClosed reports whether the error means the peer closed the connection.
func IsClosed(err error) bool {
	return websocket.IsCloseError(err,
		websocket.CloseNormalClosure,
		websocket.CloseGoingAway,
		websocket.CloseAbnormalClosure)
}
