package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
)

// levelRouter sends records below ERROR to out and the rest to errOut. Both
// sides share the same minimum level and base attributes.
type levelRouter struct {
	min    slog.Level
	out    slog.Handler
	errOut slog.Handler
}

func newLevelRouter(out, errOut io.Writer, min slog.Level, attrs ...slog.Attr) *levelRouter {
	opts := &slog.HandlerOptions{Level: min}
	return &levelRouter{
		min:    min,
		out:    slog.NewTextHandler(out, opts).WithAttrs(attrs),
		errOut: slog.NewTextHandler(errOut, opts).WithAttrs(attrs),
	}
}

func (lr *levelRouter) Enabled(_ context.Context, level slog.Level) bool {
	return level >= lr.min
}

func (lr *levelRouter) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelError {
		return lr.errOut.Handle(ctx, r)
	}
	return lr.out.Handle(ctx, r)
}

func (lr *levelRouter) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelRouter{min: lr.min, out: lr.out.WithAttrs(attrs), errOut: lr.errOut.WithAttrs(attrs)}
}

func (lr *levelRouter) WithGroup(name string) slog.Handler {
	return &levelRouter{min: lr.min, out: lr.out.WithGroup(name), errOut: lr.errOut.WithGroup(name)}
}

// setupLogger installs the default logger for component. When logPath is
// set, every record is also appended to that file. The returned function
// closes the file.
func setupLogger(component, logPath string, stdout, stderr io.Writer) (func(), error) {
	cleanup := func() {}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("opening log file: %w", err)
		}
		cleanup = func() { f.Close() }
		stdout = io.MultiWriter(stdout, f)
		stderr = io.MultiWriter(stderr, f)
	}

	h := newLevelRouter(stdout, stderr, slog.LevelInfo, slog.String("component", component))
	slog.SetDefault(slog.New(h))
	return cleanup, nil
}
