package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLogger_Levels(t *testing.T) {
	tests := []struct {
		level     log.Level
		wantDebug bool
		wantInfo  bool
	}{
		{log.DebugLevel, true, true},
		{log.InfoLevel, false, true},
		{log.WarnLevel, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.level.String(), func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)

			logger.Debug("resolved breadcrumb")
			if got := strings.Contains(buf.String(), "resolved breadcrumb"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}

			buf.Reset()
			logger.Info("loaded nodes")
			if got := strings.Contains(buf.String(), "loaded nodes"); got != tt.wantInfo {
				t.Errorf("info logged = %v, want %v", got, tt.wantInfo)
			}
		})
	}
}

func TestNewLogger_Timestamp(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("x")

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).MatchString(buf.String()) {
		t.Errorf("log line %q does not start with HH:MM:SS.ms", buf.String())
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	prog.done("Loaded 4 nodes from file:nav.json")

	out := buf.String()
	if !strings.Contains(out, "Loaded 4 nodes from file:nav.json (") {
		t.Errorf("done() output = %q, want message with elapsed time", out)
	}
	if !strings.Contains(out, "s)") {
		t.Errorf("done() output = %q, want a duration suffix", out)
	}

	buf.Reset()
	prog.done("Imported nav.json", "nodes", 4)
	if !strings.Contains(buf.String(), "nodes=4") {
		t.Errorf("done() output = %q, want structured field nodes=4", buf.String())
	}
}

func TestLoggerContext(t *testing.T) {
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext() without a logger should return log.Default()")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.DebugLevel)
	ctx := withLogger(context.Background(), custom)
	if got := loggerFromContext(ctx); got != custom {
		t.Error("loggerFromContext() did not return the attached logger")
	}
}
