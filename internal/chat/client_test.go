package chat

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

// echoServer upgrades connections and echoes every message back.
func echoServer(t *testing.T) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			mt, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(mt, data); err != nil {
				return
			}
		}
	}))
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestClient_RoundTrip(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	c, err := Dial(wsURL(srv), time.Second)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	sent := &Message{
		ConversationID: "conv-1",
		Sender:         "user",
		Kind:           KindText,
		Text:           "check my inbox",
	}
	if err := c.Send(sent); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	got, err := c.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.ConversationID != "conv-1" || got.Text != "check my inbox" || got.Kind != KindText {
		t.Errorf("Read = %+v", got)
	}
	if got.SentAt.IsZero() {
		t.Error("SentAt not stamped by Send")
	}
}

func TestClient_SendText(t *testing.T) {
	srv := echoServer(t)
	defer srv.Close()

	c, err := Dial(wsURL(srv), time.Second)
	if err != nil {
		t.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	if err := c.SendText("conv-1", "Your email has been sent."); err != nil {
		t.Fatalf("SendText failed: %v", err)
	}

	got, err := c.Read()
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Sender != "assistant" || got.Text != "Your email has been sent." {
		t.Errorf("Read = %+v", got)
	}
}

func TestDial_Failure(t *testing.T) {
	if _, err := Dial("ws://127.0.0.1:1/nope", time.Second); err == nil {
		t.Error("expected dial error")
	}
}
