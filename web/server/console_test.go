package server

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// newTestLogger returns a logger that writes its server copy into buf
func newTestLogger(renderID string, messageChan chan ConsoleMessage, buf *bytes.Buffer) *WebLogger {
	logger := NewWebLogger(renderID, messageChan).(*WebLogger)
	logger.out = buf
	return logger
}

func TestWebLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	var serverLog bytes.Buffer
	logger := newTestLogger("test-render-123", messageChan, &serverLog)

	testMessage := "Pass 1 completed"
	logger.Printf("%s\n", testMessage)

	select {
	case msg := <-messageChan:
		expectedMessage := testMessage + "\n"
		if msg.Message != expectedMessage {
			t.Errorf("Expected message '%s', got '%s'", expectedMessage, msg.Message)
		}
		if msg.Level != "info" {
			t.Errorf("Expected level 'info', got '%s'", msg.Level)
		}
		if msg.RenderID != "test-render-123" {
			t.Errorf("Expected render ID 'test-render-123', got '%s'", msg.RenderID)
		}
		if time.Since(msg.Timestamp) > time.Second {
			t.Errorf("Timestamp seems too old: %v", msg.Timestamp)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("Timeout waiting for console message")
	}

	if got := serverLog.String(); got != "[test-render-123] Pass 1 completed\n" {
		t.Errorf("Unexpected server log %q", got)
	}
}

func TestWebLogger_MultipleMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := newTestLogger("test-render-456", messageChan, &bytes.Buffer{})

	messages := []string{"Message 1", "Message 2", "Message 3"}
	for _, msg := range messages {
		logger.Printf("%s\n", msg)
	}

	for i, expected := range messages {
		select {
		case msg := <-messageChan:
			if msg.Message != expected+"\n" {
				t.Errorf("Message %d: expected '%s', got '%s'", i, expected+"\n", msg.Message)
			}
		case <-time.After(200 * time.Millisecond):
			t.Fatalf("Timeout waiting for message %d", i+1)
		}
	}
}

func TestWebLogger_ChannelFull(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := newTestLogger("test-render-789", messageChan, &bytes.Buffer{})

	// The second and third messages must be dropped rather than block
	logger.Printf("Message 1\n")
	logger.Printf("Message 2\n")
	logger.Printf("Message 3\n")

	msg := <-messageChan
	if msg.Message != "Message 1\n" {
		t.Errorf("Expected first message to be kept, got '%s'", msg.Message)
	}
	select {
	case extra := <-messageChan:
		t.Errorf("Expected later messages to be dropped, got '%s'", extra.Message)
	default:
	}
}

func TestWebLogger_NilChannel(t *testing.T) {
	var serverLog bytes.Buffer
	logger := newTestLogger("test-render-nil", nil, &serverLog)

	logger.Printf("Test message with nil channel\n")
	if !strings.Contains(serverLog.String(), "Test message with nil channel") {
		t.Errorf("Expected server copy of message, got %q", serverLog.String())
	}
}

func TestMessageLevel(t *testing.T) {
	tests := []struct {
		message  string
		expected string
	}{
		{"Pass 3: Target 3 samples per pixel\n", "info"},
		{"Warning: failed to parse metadata\n", "warning"},
		{"Rendering cancelled before pass 2\n", "warning"},
		{"Error: unknown scene\n", "error"},
	}

	for _, tt := range tests {
		if got := messageLevel(tt.message); got != tt.expected {
			t.Errorf("messageLevel(%q) = %s, expected %s", tt.message, got, tt.expected)
		}
	}
}

func TestConsoleMessage_JSON(t *testing.T) {
	msg := ConsoleMessage{
		RenderID:  "render-1",
		Message:   "Test message",
		Timestamp: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Level:     "info",
	}

	data, err := json.Marshal(msg)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for _, key := range []string{`"renderId":"render-1"`, `"message":"Test message"`, `"level":"info"`} {
		if !strings.Contains(string(data), key) {
			t.Errorf("Expected %s in %s", key, data)
		}
	}
}
