package server

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsoleLogger_BasicLogging(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	var serverLog bytes.Buffer
	logger := NewConsoleLogger("test-render-123", messageChan, slog.NewTextHandler(&serverLog, nil))

	logger.Info("pass completed", "pass", 2)

	select {
	case msg := <-messageChan:
		assert.Equal(t, "pass completed pass=2", msg.Message)
		assert.Equal(t, "info", msg.Level)
		assert.WithinDuration(t, time.Now(), msg.Timestamp, time.Second)
	case <-time.After(100 * time.Millisecond):
		t.Fatal("Timeout waiting for console message")
	}

	assert.Contains(t, serverLog.String(), "render=test-render-123")
	assert.Contains(t, serverLog.String(), "pass=2")
}

func TestConsoleLogger_MultipleMessages(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewConsoleLogger("test-render-456", messageChan, slog.NewTextHandler(&bytes.Buffer{}, nil))

	messages := []string{"Message 1", "Message 2", "Message 3"}
	for _, msg := range messages {
		logger.Info(msg)
	}

	require.Len(t, messageChan, len(messages))
	for _, want := range messages {
		assert.Equal(t, want, (<-messageChan).Message)
	}
}

func TestConsoleLogger_WithAttrsAndLevels(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 10)
	logger := NewConsoleLogger("r", messageChan, slog.NewTextHandler(&bytes.Buffer{}, nil)).
		With("scene", "sphere")

	logger.Debug("hidden")
	logger.Warn("slow", "ms", 10)

	require.Len(t, messageChan, 1)
	msg := <-messageChan
	assert.Equal(t, "slow scene=sphere ms=10", msg.Message)
	assert.Equal(t, "warn", msg.Level)
}

func TestConsoleLogger_FullChannelDoesNotBlock(t *testing.T) {
	messageChan := make(chan ConsoleMessage, 1)
	logger := NewConsoleLogger("r", messageChan, slog.NewTextHandler(&bytes.Buffer{}, nil))

	done := make(chan struct{})
	go func() {
		for i := 0; i < 5; i++ {
			logger.Info("message")
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("logger blocked on a full channel")
	}
	assert.Len(t, messageChan, 1)
}

func TestConsoleLogger_NilChannel(t *testing.T) {
	var serverLog bytes.Buffer
	logger := NewConsoleLogger("r", nil, slog.NewTextHandler(&serverLog, nil))
	logger.Info("still logged")
	assert.Contains(t, serverLog.String(), "still logged")
}
