package shared

import (
	"bytes"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := WithLogger(NewLogger(&buf), "component", "test")
	logger.Info("hello")

	out := buf.String()
	if !strings.Contains(out, "hello") || !strings.Contains(out, "component=test") {
		t.Errorf("unexpected log output %q", out)
	}
}

func TestApplyLogLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf)

	if err := ApplyLogLevel(logger, "warn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if logger.GetLevel() != log.WarnLevel {
		t.Errorf("expected warn level, got %v", logger.GetLevel())
	}

	logger.Info("suppressed")
	if buf.Len() != 0 {
		t.Errorf("info should be suppressed at warn level, got %q", buf.String())
	}

	if err := ApplyLogLevel(logger, ""); err != nil {
		t.Errorf("empty level should be ignored, got %v", err)
	}

	if err := ApplyLogLevel(logger, "loud"); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestNewFileLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tui.log")

	logger, closer, err := NewFileLogger(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Info("written to file")
	if err := closer.Close(); err != nil {
		t.Fatalf("failed to close log file: %v", err)
	}

	if !strings.Contains(string(mustRead(t, path)), "written to file") {
		t.Error("expected message in log file")
	}
}

func TestGenerateID(t *testing.T) {
	a, b := GenerateID(), GenerateID()
	if a == b {
		t.Error("expected unique ids")
	}
	if _, err := uuid.Parse(a); err != nil {
		t.Errorf("expected valid uuid, got %q: %v", a, err)
	}
}
