package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/oxy-outline/engine"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestInstallLogger(t *testing.T) {
	t.Cleanup(func() {
		engine.SetLogger(nil)
		outline.SetLogger(nil)
	})

	var buf bytes.Buffer
	installLogger(newLogger(&buf, log.DebugLevel))

	outline.Logger().Info("from outline")
	engine.Logger().Debug("from engine")
	for _, want := range []string{"from outline", "from engine"} {
		if !strings.Contains(buf.String(), want) {
			t.Errorf("log output missing %q:\n%s", want, buf.String())
		}
	}
}

func TestProgressDone(t *testing.T) {
	var buf bytes.Buffer
	newProgress(newLogger(&buf, log.InfoLevel)).done("finished", "edges", 3)

	out := buf.String()
	for _, want := range []string{"finished", "edges=3", "elapsed="} {
		if !strings.Contains(out, want) {
			t.Errorf("done() output missing %q:\n%s", want, out)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	logger := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if got := loggerFromContext(withLogger(context.Background(), logger)); got != logger {
		t.Error("loggerFromContext() did not return the attached logger")
	}
	if got := loggerFromContext(context.Background()); got != log.Default() {
		t.Error("loggerFromContext() without a logger should return log.Default()")
	}
}
