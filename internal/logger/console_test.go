package logger

import (
	"bytes"
	"regexp"
	"strings"
	"sync"
	"testing"
)

var linePattern = regexp.MustCompile(`^\[\d{2}:\d{2}:\d{2}\] \[(TRACE|DEBUG|INFO|WARN|ERROR)\] `)

// TestNewConsoleLogger verifies the constructor normalizes the level.
func TestNewConsoleLogger(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"info", "info"},
		{"DEBUG", "debug"},
		{"  warn ", "warn"},
		{"", "info"},
		{"verbose", "info"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			logger := NewConsoleLogger(&bytes.Buffer{}, tt.input)
			if logger.logLevel != tt.want {
				t.Errorf("logLevel = %q, want %q", logger.logLevel, tt.want)
			}
			if logger.colorOutput {
				t.Error("color enabled for a non-terminal writer")
			}
		})
	}
}

// TestConsoleLoggerNilWriter verifies nil writers discard output without panicking.
func TestConsoleLoggerNilWriter(t *testing.T) {
	logger := NewConsoleLogger(nil, "trace")
	logger.LogInfo("dropped")
	logger.LogProgress("adhd", 1, 18)
}

// TestConsoleLoggerFormat verifies the timestamped line format.
func TestConsoleLoggerFormat(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "trace")

	logger.LogWarn("progress store unavailable")

	line := buf.String()
	if !linePattern.MatchString(line) {
		t.Fatalf("line %q does not match %s", line, linePattern)
	}
	if !strings.HasSuffix(line, "[WARN] progress store unavailable\n") {
		t.Errorf("unexpected line %q", line)
	}
}

// TestConsoleLoggerLevelFiltering verifies messages below the level are dropped.
func TestConsoleLoggerLevelFiltering(t *testing.T) {
	tests := []struct {
		level string
		want  []string
	}{
		{"trace", []string{"TRACE", "DEBUG", "INFO", "WARN", "ERROR"}},
		{"debug", []string{"DEBUG", "INFO", "WARN", "ERROR"}},
		{"info", []string{"INFO", "WARN", "ERROR"}},
		{"warn", []string{"WARN", "ERROR"}},
		{"error", []string{"ERROR"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := NewConsoleLogger(buf, tt.level)

			logger.LogTrace("m")
			logger.LogDebug("m")
			logger.LogInfo("m")
			logger.LogWarn("m")
			logger.LogError("m")

			lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
			if len(lines) != len(tt.want) {
				t.Fatalf("got %d lines, want %d: %q", len(lines), len(tt.want), buf.String())
			}
			for i, level := range tt.want {
				if !strings.Contains(lines[i], "["+level+"]") {
					t.Errorf("line %d = %q, want level %s", i, lines[i], level)
				}
			}
		})
	}
}

// TestConsoleLoggerColor verifies forced color wraps the level only.
func TestConsoleLoggerColor(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")
	logger.SetColor(true)

	logger.LogError("boom")

	out := buf.String()
	if !strings.HasSuffix(out, "] boom\n") {
		t.Errorf("message altered: %q", out)
	}
	if !strings.Contains(out, "ERROR") {
		t.Errorf("level missing: %q", out)
	}
}

// TestLogProgress verifies the progress line and its level gate.
func TestLogProgress(t *testing.T) {
	buf := &bytes.Buffer{}
	NewConsoleLogger(buf, "info").LogProgress("autism", 5, 10)

	if !strings.Contains(buf.String(), "Progress autism: [=====     ] 5/10 (50%)") {
		t.Errorf("unexpected progress line %q", buf.String())
	}

	buf.Reset()
	NewConsoleLogger(buf, "warn").LogProgress("autism", 5, 10)
	if buf.Len() != 0 {
		t.Errorf("progress logged below level: %q", buf.String())
	}
}

// TestConsoleLoggerConcurrent verifies lines are never interleaved.
func TestConsoleLoggerConcurrent(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := NewConsoleLogger(buf, "info")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.LogInfo("answer saved")
		}()
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20", len(lines))
	}
	for _, line := range lines {
		if !linePattern.MatchString(line) {
			t.Errorf("malformed line %q", line)
		}
	}
}

type recordingLogger struct {
	NoOpLogger
	warnings []string
}

func (r *recordingLogger) LogWarn(msg string) { r.warnings = append(r.warnings, msg) }

// TestTee verifies messages reach every logger and nil entries are skipped.
func TestTee(t *testing.T) {
	a, b := &recordingLogger{}, &recordingLogger{}
	tee := Tee(a, nil, b, NewNoOpLogger())

	tee.LogWarn("fallback to memory")
	tee.LogInfo("ignored by recorders")

	for i, r := range []*recordingLogger{a, b} {
		if len(r.warnings) != 1 || r.warnings[0] != "fallback to memory" {
			t.Errorf("logger %d got %v", i, r.warnings)
		}
	}
}
