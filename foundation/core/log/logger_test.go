// File: logger_test.go
// Title: Logger Tests
// Description: Tests for levels, formatters, context handling, error
//              logging and timers.
// Author: msto63
// Version: v0.2.0
// Created: 2025-01-24
// Modified: 2025-10-02
//
// Change History:
// - 2025-01-24 v0.1.0: Initial implementation with comprehensive logger tests
// - 2025-10-02 v0.2.0: Session and severity mapping tests

package log

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	mdwerror "github.com/msto63/hl7view/foundation/core/error"
)

func newBufferLogger(level Level, format Format) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewWithConfig(Config{Level: level, Format: format, Output: &buf}), &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	var data map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatalf("output is not valid JSON: %v (%q)", err, buf.String())
	}
	return data
}

func TestNew(t *testing.T) {
	logger := New()
	if logger == nil {
		t.Fatal("New() should not return nil")
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Errorf("New() level = %v, want %v", logger.GetLevel(), DefaultLevel())
	}
	if logger.contextFields == nil {
		t.Error("New() should initialize context fields")
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input   string
		want    Level
		wantErr bool
	}{
		{"trace", LevelTrace, false},
		{"DEBUG", LevelDebug, false},
		{"", LevelInfo, false},
		{" warning ", LevelWarn, false},
		{"error", LevelError, false},
		{"fatal", LevelFatal, false},
		{"loud", LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseLevel(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseLevel(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseLevel(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	if f, err := ParseFormat("JSON"); err != nil || f != FormatJSON {
		t.Errorf("ParseFormat(JSON) = %v, %v", f, err)
	}
	if f, err := ParseFormat("text"); err != nil || f != FormatText {
		t.Errorf("ParseFormat(text) = %v, %v", f, err)
	}
	_, err := ParseFormat("xml")
	var pe *ParseError
	if !errors.As(err, &pe) || pe.Type != "format" {
		t.Errorf("ParseFormat(xml) error = %v, want format ParseError", err)
	}
}

func TestLevelFiltering(t *testing.T) {
	logger, buf := newBufferLogger(LevelWarn, FormatText)

	logger.Debug("hidden")
	logger.Info("hidden too")
	if buf.Len() != 0 {
		t.Fatalf("messages below the minimum level were written: %q", buf.String())
	}

	logger.Warn("visible")
	if !strings.Contains(buf.String(), "[WRN] visible") {
		t.Errorf("warn output = %q", buf.String())
	}
}

func TestWithMethodsDoNotModifyOriginal(t *testing.T) {
	logger := New()
	derived := logger.WithLevel(LevelDebug).WithField("k", "v").WithSession("s1")

	if derived == logger {
		t.Fatal("With* should return a new logger instance")
	}
	if logger.GetLevel() != DefaultLevel() {
		t.Error("WithLevel() modified the original logger")
	}
	if _, ok := logger.contextFields["k"]; ok {
		t.Error("WithField() modified the original logger")
	}
	if logger.session != "" {
		t.Error("WithSession() modified the original logger")
	}
}

func TestJSONOutput(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)
	logger = logger.WithName("parser").WithSession("abc").WithField("segments", 4)

	logger.Info("message decoded", Field("path", "/PID-5-1"))

	data := decodeLine(t, buf)
	checks := map[string]interface{}{
		"level":    "info",
		"message":  "message decoded",
		"logger":   "parser",
		"session":  "abc",
		"segments": float64(4),
		"path":     "/PID-5-1",
	}
	for k, want := range checks {
		if data[k] != want {
			t.Errorf("field %s = %v, want %v", k, data[k], want)
		}
	}
}

func TestTextOutputSortedFields(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)
	logger.formatter = &TextFormatter{DisableTimestamp: true}

	logger.Info("loaded", Fields{"zeta": 1, "alpha": 2, "mid": 3})

	want := "[INF] loaded alpha=2 mid=3 zeta=1\n"
	if buf.String() != want {
		t.Errorf("text output = %q, want %q", buf.String(), want)
	}
}

func TestErrorWithErr(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)

	logger.ErrorWithErr("read failed", errors.New("disk gone"))

	data := decodeLine(t, buf)
	if data["error"] != "disk gone" {
		t.Errorf("error = %v, want disk gone", data["error"])
	}
	if _, ok := data["error_details"]; ok {
		t.Error("plain errors should not carry error_details")
	}
}

func TestLogErrorSeverityMapping(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		level string
	}{
		{"low severity", mdwerror.New("bad path").WithCode(mdwerror.CodeInvalidPath), "info"},
		{"medium severity", mdwerror.New("unreadable").WithCode(mdwerror.CodeMappingRead), "warn"},
		{"high severity", mdwerror.New("bad config").WithCode(mdwerror.CodeInvalidConfig), "error"},
		{"plain error", errors.New("boom"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := newBufferLogger(LevelTrace, FormatJSON)
			logger.LogError(tt.err)

			data := decodeLine(t, buf)
			if data["level"] != tt.level {
				t.Errorf("level = %v, want %v", data["level"], tt.level)
			}
		})
	}
}

func TestLogErrorDetails(t *testing.T) {
	logger, buf := newBufferLogger(LevelTrace, FormatJSON)
	err := mdwerror.New("invalid path").
		WithCode(mdwerror.CodeInvalidPath).
		WithOperation("terser.Parse").
		WithDetail("path", "PID-x")

	logger.LogError(err)

	data := decodeLine(t, buf)
	if data["error_code"] != string(mdwerror.CodeInvalidPath) {
		t.Errorf("error_code = %v", data["error_code"])
	}
	if data["error_operation"] != "terser.Parse" {
		t.Errorf("error_operation = %v", data["error_operation"])
	}
	if data["error_path"] != "PID-x" {
		t.Errorf("error_path = %v", data["error_path"])
	}
	if _, ok := data["error_details"]; !ok {
		t.Error("structured errors should carry error_details")
	}
}

func TestLogErrorNil(t *testing.T) {
	logger, buf := newBufferLogger(LevelTrace, FormatJSON)
	logger.LogError(nil)
	if buf.Len() != 0 {
		t.Errorf("LogError(nil) wrote %q", buf.String())
	}
}

func TestTimer(t *testing.T) {
	logger, buf := newBufferLogger(LevelDebug, FormatJSON)

	timer := logger.StartTimer("decode").WithField("bytes", 120)
	time.Sleep(time.Millisecond)
	elapsed := timer.Stop()

	if elapsed <= 0 {
		t.Errorf("Stop() elapsed = %v, want > 0", elapsed)
	}

	data := decodeLine(t, buf)
	if data["message"] != "decode completed" {
		t.Errorf("message = %v", data["message"])
	}
	if data["operation"] != "decode" {
		t.Errorf("operation = %v", data["operation"])
	}
	if _, ok := data["duration_ms"]; !ok {
		t.Error("timer entry should carry duration_ms")
	}

	buf.Reset()
	if timer.Stop() != 0 || buf.Len() != 0 {
		t.Error("second Stop() should be a no-op")
	}
}

func TestTimerStopWithError(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)

	logger.StartTimer("load").StopWithError(errors.New("missing"))

	out := buf.String()
	if !strings.Contains(out, "[ERR] load failed") || !strings.Contains(out, `error="missing"`) {
		t.Errorf("output = %q", out)
	}
}

func TestTimerBelowLevel(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatText)
	logger.StartTimer("quiet").Stop()
	if buf.Len() != 0 {
		t.Errorf("debug timer should not log at info level, got %q", buf.String())
	}
}

func TestIsLevelEnabled(t *testing.T) {
	logger, _ := newBufferLogger(LevelWarn, FormatText)
	if logger.IsLevelEnabled(LevelInfo) {
		t.Error("info should be disabled at warn")
	}
	if !logger.IsLevelEnabled(LevelError) {
		t.Error("error should be enabled at warn")
	}
	logger.SetLevel(LevelTrace)
	if !logger.IsLevelEnabled(LevelTrace) {
		t.Error("SetLevel(trace) should enable trace")
	}
}

func TestCallerInformation(t *testing.T) {
	logger, buf := newBufferLogger(LevelInfo, FormatJSON)
	logger = logger.WithCaller(0)

	logger.Info("where")

	data := decodeLine(t, buf)
	caller, _ := data["caller"].(string)
	if !strings.Contains(caller, "logger_test.go") {
		t.Errorf("caller = %q, want logger_test.go", caller)
	}
}
