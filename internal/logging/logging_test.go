package logging

import (
	"context"
	"log/slog"
	"testing"
)

func TestNewLevels(t *testing.T) {
	debug := New("debug", "text")
	if !debug.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug level should be enabled")
	}

	errOnly := New("error", "json")
	if errOnly.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at error level")
	}

	// Unknown level falls back to info.
	def := New("whatever", "text")
	if def.Enabled(context.Background(), slog.LevelDebug) {
		t.Error("debug should be disabled at default level")
	}
	if !def.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be enabled at default level")
	}
}

func TestRequestIDRoundTrip(t *testing.T) {
	ctx := context.Background()
	if RequestID(ctx) != "" {
		t.Error("expected empty request ID on fresh context")
	}

	ctx = WithRequestID(ctx, "req-123")
	if got := RequestID(ctx); got != "req-123" {
		t.Errorf("request ID = %q, want req-123", got)
	}
}

func TestLReturnsContextLogger(t *testing.T) {
	logger := New("info", "text")
	ctx := WithLogger(context.Background(), logger)
	ctx = WithRequestID(ctx, "req-456")
	if L(ctx) == nil {
		t.Fatal("expected non-nil logger")
	}
}
