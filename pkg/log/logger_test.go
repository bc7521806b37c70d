package log

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)
	defer SetLevel(Notice)

	logger := New("logtest")

	tests := []struct {
		name     string
		level    Level
		expected []string
		dropped  []string
	}{
		{"notice", Notice, []string{"notice message", "error message"}, []string{"info message", "debug message"}},
		{"info", Info, []string{"info message", "notice message"}, []string{"debug message"}},
		{"debug", Debug, []string{"debug message", "info message"}, nil},
		{"error", Error, []string{"error message"}, []string{"notice message", "warning message"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			SetLevel(tt.level)

			logger.Debugf("debug %s", "message")
			logger.Infof("info %s", "message")
			logger.Noticef("notice %s", "message")
			logger.Warningf("warning %s", "message")
			logger.Errorf("error %s", "message")

			out := buf.String()
			for _, msg := range tt.expected {
				if !strings.Contains(out, msg) {
					t.Errorf("Expected output to contain %q, got %q", msg, out)
				}
			}
			for _, msg := range tt.dropped {
				if strings.Contains(out, msg) {
					t.Errorf("Expected output to omit %q, got %q", msg, out)
				}
			}
		})
	}
}

func TestLogger_ModuleInFormat(t *testing.T) {
	var buf bytes.Buffer
	SetSink(&buf)
	defer SetSink(os.Stdout)

	New("pathtracer").Notice("hello")
	if !strings.Contains(buf.String(), "[pathtracer]") {
		t.Errorf("Expected module name in output, got %q", buf.String())
	}
	if !Enabled(Notice, "pathtracer") {
		t.Error("Expected notice level to be enabled")
	}
}
