// Package cli implements the outline command-line interface.
//
// # Commands
//
//   - render: run the CPU outline kernel over a synthetic scene and write a PNG
//   - graph: print the frame graph with the outline node, as DOT or SVG
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The charmbracelet logger is
// carried through context.Context and installed as the slog handler of the engine and
// outline packages, so library logs share the CLI's level and format.
package cli

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Carmen-Shannon/oxy-outline/engine"
	"github.com/Carmen-Shannon/oxy-outline/engine/outline"
	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w at the given level, with "HH:MM:SS.ms" timestamps.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// installLogger routes the engine and outline package logs through l.
func installLogger(l *log.Logger) {
	sl := slog.New(l)
	engine.SetLogger(sl)
	outline.SetLogger(sl)
}

// progress logs the completion of an operation with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg and keyvals with the elapsed time rounded to the millisecond.
func (p *progress) done(msg string, keyvals ...any) {
	keyvals = append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))
	p.logger.Info(msg, keyvals...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
