package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
	if GetOrDiscard() == nil {
		t.Fatal("GetOrDiscard returned nil after initialization")
	}
}

func TestInitWriter(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWriter(&buf); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() { _ = Init() }()

	Named("cli").Info(context.Background(), "to the buffer")
	if !strings.Contains(buf.String(), "to the buffer") {
		t.Fatalf("expected record in buffer, got %q", buf.String())
	}
	if !errors.Is(InitWriter(nil), ErrNilWriter) {
		t.Fatal("expected ErrNilWriter for a nil writer")
	}
}

func TestLoggerNamed(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}

	namedLogger := Named("test")
	if namedLogger == nil {
		t.Fatal("named logger is nil")
	}
	namedLogger.Info(context.Background(), "test message")
}

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelDebug).Named("scoring")
	ctx := context.Background()

	l.Debug(ctx, "scored outfit",
		String("key", "shirt:s1"),
		Int("items", 3),
		Float64("formality", 66.5),
		Bool("valid", true),
		Duration("took", time.Millisecond),
		Any("tags", []string{"refined"}),
		Error(errors.New("boom")),
	)

	out := buf.String()
	for _, want := range []string{"scored outfit", "scoring.key=shirt:s1", "scoring.items=3", "scoring.valid=true", "boom", "logger_test.go"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got %q", want, out)
		}
	}
}

func TestNewWithWriter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, slog.LevelWarn)
	ctx := context.Background()

	l.Info(ctx, "hidden")
	l.Warn(ctx, "shown")

	if strings.Contains(buf.String(), "hidden") {
		t.Errorf("info record should be filtered at warn level: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("warn record missing: %q", buf.String())
	}
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Error(context.Background(), "nothing to see", Error(errors.New("x")))
}

func TestSetLevelString(t *testing.T) {
	cases := map[string]bool{
		"debug":   true,
		"INFO":    true,
		"":        true,
		"warning": true,
		"error":   true,
		"verbose": false,
	}
	for level, ok := range cases {
		err := SetLevelString(level)
		if ok && err != nil {
			t.Errorf("level %q: unexpected error %v", level, err)
		}
		if !ok && err == nil {
			t.Errorf("level %q: expected error", level)
		}
	}
	_ = SetLevelString("info")
}
