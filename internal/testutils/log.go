package testutils

import (
	"context"
	"log/slog"
	"sync"
)

// MockHandler is a slog handler recording every handled record.
type MockHandler struct {
	level slog.Level

	mu      sync.Mutex
	records []slog.Record
}

// NewMockHandler returns a new MockHandler handling records from level.
func NewMockHandler(level slog.Level) *MockHandler {
	return &MockHandler{level: level}
}

// Enabled implements Handler.Enabled.
func (h *MockHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

// Handle implements Handler.Handle.
func (h *MockHandler) Handle(_ context.Context, record slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.records = append(h.records, record)
	return nil
}

// WithAttrs implements Handler.WithAttrs.
func (h *MockHandler) WithAttrs([]slog.Attr) slog.Handler {
	return h
}

// WithGroup implements Handler.WithGroup.
func (h *MockHandler) WithGroup(string) slog.Handler {
	return h
}

// Messages returns the messages of the handled records, in order.
func (h *MockHandler) Messages() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	msgs := make([]string, 0, len(h.records))
	for _, r := range h.records {
		msgs = append(msgs, r.Message)
	}
	return msgs
}
