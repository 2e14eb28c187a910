package server

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "warn", "error"
}

// consoleHandler forwards log records to a render's web console and to the
// server log
type consoleHandler struct {
	renderID    string
	consoleChan chan<- ConsoleMessage
	next        slog.Handler
	attrs       []slog.Attr
}

// NewConsoleLogger creates a logger for a single render. Records go to next
// and, without blocking, to consoleChan.
func NewConsoleLogger(renderID string, consoleChan chan<- ConsoleMessage, next slog.Handler) *slog.Logger {
	return slog.New(&consoleHandler{
		renderID:    renderID,
		consoleChan: consoleChan,
		next:        next.WithAttrs([]slog.Attr{slog.String("render", renderID)}),
	})
}

func (h *consoleHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= slog.LevelInfo || h.next.Enabled(ctx, level)
}

func (h *consoleHandler) Handle(ctx context.Context, r slog.Record) error {
	if h.consoleChan != nil && r.Level >= slog.LevelInfo {
		var b strings.Builder
		b.WriteString(r.Message)
		writeAttr := func(a slog.Attr) bool {
			fmt.Fprintf(&b, " %s=%v", a.Key, a.Value)
			return true
		}
		for _, a := range h.attrs {
			writeAttr(a)
		}
		r.Attrs(writeAttr)

		select {
		case h.consoleChan <- ConsoleMessage{
			Message:   b.String(),
			Timestamp: r.Time,
			Level:     strings.ToLower(r.Level.String()),
		}:
		default:
			// channel full, skip
		}
	}
	if h.next.Enabled(ctx, r.Level) {
		return h.next.Handle(ctx, r)
	}
	return nil
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append(append([]slog.Attr(nil), h.attrs...), attrs...)
	c.next = h.next.WithAttrs(attrs)
	return &c
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	c := *h
	c.next = h.next.WithGroup(name)
	return &c
}
