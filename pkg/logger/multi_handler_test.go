package logger

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"
)

type recordingHandler struct {
	handled int
	err     error
}

func (h *recordingHandler) Enabled(context.Context, slog.Level) bool  { return true }
func (h *recordingHandler) WithAttrs([]slog.Attr) slog.Handler        { return h }
func (h *recordingHandler) WithGroup(string) slog.Handler             { return h }
func (h *recordingHandler) Handle(context.Context, slog.Record) error { h.handled++; return h.err }

func TestMultiHandler_DeliversToAllAndReportsFirstError(t *testing.T) {
	failing := &recordingHandler{err: errors.New("sink unavailable")}
	healthy := &recordingHandler{}
	m := newMultiHandler(failing, healthy)

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "hello", 0)
	err := m.Handle(context.Background(), r)
	if err == nil || err.Error() != "sink unavailable" {
		t.Fatalf("Handle: want first error reported, got %v", err)
	}
	if failing.handled != 1 || healthy.handled != 1 {
		t.Fatalf("Handle: want both handlers invoked, got %d and %d", failing.handled, healthy.handled)
	}
}

func TestMultiHandler_EnabledIfAnyEnabled(t *testing.T) {
	quiet := newPlainHandler(nil, slog.LevelError)
	loud := &recordingHandler{}
	m := newMultiHandler(quiet, loud)

	if !m.Enabled(context.Background(), slog.LevelDebug) {
		t.Fatalf("Enabled: want true when any handler accepts the level")
	}
}
