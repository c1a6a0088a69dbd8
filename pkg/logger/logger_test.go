package logger

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func TestNewLogger(t *testing.T) {
	// Create a new logger without webhooks
	l := NewLoggerInDir(t.TempDir(), "", "")
	if l == nil {
		t.Fatal("Expected logger to be created, got nil")
	}
	l.SetConsole(nil)

	// Test that logger methods don't panic
	l.Info("Test info message", "TEST")
	l.Warn("Test warning message", "TEST")
	l.Debug("Test debug message", "TEST")
	l.System("Test system message", "TEST")
	l.Success("Test success message", "TEST")

	l.Close()
}

func TestLogLevelString(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LevelCritical, "CRITICAL"},
		{LevelError, "ERROR"},
		{LevelWarn, "WARN"},
		{LevelSuccess, "SUCCESS"},
		{LevelInfo, "INFO"},
		{LevelDebug, "DEBUG"},
		{LevelSystem, "SYSTEM"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			if got := tt.level.String(); got != tt.expected {
				t.Errorf("LogLevel.String() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestLogLevelColor(t *testing.T) {
	levels := []LogLevel{
		LevelCritical,
		LevelError,
		LevelWarn,
		LevelSuccess,
		LevelInfo,
		LevelDebug,
		LevelSystem,
	}

	for _, level := range levels {
		t.Run(level.String(), func(t *testing.T) {
			color := level.Color()
			if color == "" {
				t.Error("Expected color to be non-empty")
			}
		})
	}
}

func TestLogLevelDiscordColor(t *testing.T) {
	tests := []struct {
		level LogLevel
		color int
	}{
		{LevelCritical, 0xFF0000},
		{LevelError, 0xFF0000},
		{LevelWarn, 0xFFFF00},
		{LevelSuccess, 0x00FF00},
		{LevelInfo, 0x0000FF},
		{LevelDebug, 0x800080},
		{LevelSystem, 0x808080},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			if got := tt.level.DiscordColor(); got != tt.color {
				t.Errorf("LogLevel.DiscordColor() = %v, want %v", got, tt.color)
			}
		})
	}
}

func TestLogFileCreation(t *testing.T) {
	dir := t.TempDir()

	l := NewLoggerInDir(dir, "", "")
	l.SetConsole(nil)
	defer l.Close()

	for _, name := range []string{"combined.log", "error.log"} {
		if _, err := os.Stat(filepath.Join(dir, name)); os.IsNotExist(err) {
			t.Errorf("Expected %s to be created", name)
		}
	}
}

func TestLogRouting(t *testing.T) {
	dir := t.TempDir()

	l := NewLoggerInDir(dir, "", "")
	l.SetConsole(nil)
	l.Info("case 12 issued", "Warnings")
	l.Error("rcon timed out", "RCON")
	l.Close()

	combined, err := os.ReadFile(filepath.Join(dir, "combined.log"))
	if err != nil {
		t.Fatal(err)
	}
	errs, err := os.ReadFile(filepath.Join(dir, "error.log"))
	if err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(string(combined), "case 12 issued") || !strings.Contains(string(combined), "rcon timed out") {
		t.Errorf("combined.log = %q, want both entries", combined)
	}
	if strings.Contains(string(errs), "case 12 issued") {
		t.Errorf("error.log = %q, should not contain info entries", errs)
	}
	if !strings.Contains(string(errs), "rcon timed out") {
		t.Errorf("error.log = %q, want the error entry", errs)
	}
}

func TestWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewLoggerInDir(t.TempDir(), "", "")
	l.SetConsole(&buf)
	defer l.Close()

	fmt.Fprint(l.Writer(LevelInfo, "GIN"), "GET /api/status 200\n\nPOST /api/live 101\n")

	out := buf.String()
	if got := strings.Count(out, "[GIN]"); got != 2 {
		t.Errorf("Writer lines = %d, want %d (output %q)", got, 2, out)
	}
}

func TestGlobalLoggerInit(t *testing.T) {
	// Reset the global logger for this test
	logger = nil
	once = sync.Once{}

	l := Init("", "")
	if l == nil {
		t.Fatal("Expected Init to return a logger")
	}

	// Calling Init again should return the same logger
	l2 := Init("different", "different")
	if l != l2 {
		t.Error("Expected Init to return the same logger on subsequent calls")
	}

	// Get should return the same logger
	l3 := Get()
	if l != l3 {
		t.Error("Expected Get to return the same logger")
	}

	l.Close()
}
