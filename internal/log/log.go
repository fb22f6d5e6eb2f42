// Package log configures the process-wide slog logger for devboot.
//
// Output fans out to two sinks: stderr (text or JSON, warnings and above
// unless verbose) and an always-on JSON debug file under the devboot config
// directory. The debug file keeps a full record of every subprocess the
// bootstrapper ran, which is the first thing to look at when a setup run
// misbehaves on someone else's machine.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

var fileWriter *FileWriter

// Options configures the logger.
type Options struct {
	// Verbose enables debug/info output on stderr.
	Verbose bool
	// JSONFormat switches stderr output to JSON.
	JSONFormat bool
	// DebugDir is the directory for debug log files. Empty disables file logging.
	DebugDir string
	// RetentionDays is how many days of debug files to keep (0 = no cleanup).
	RetentionDays int
	// Stderr overrides the stderr writer (for testing).
	Stderr io.Writer
}

// Init installs the global logger.
func Init(opts Options) error {
	stderr := opts.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	stderrLevel := slog.LevelWarn
	if opts.Verbose {
		stderrLevel = slog.LevelDebug
	}

	var handlers []slog.Handler
	stderrOpts := &slog.HandlerOptions{Level: stderrLevel}
	if opts.JSONFormat {
		handlers = append(handlers, slog.NewJSONHandler(stderr, stderrOpts))
	} else {
		handlers = append(handlers, slog.NewTextHandler(stderr, stderrOpts))
	}

	if opts.DebugDir != "" {
		if opts.RetentionDays > 0 {
			Cleanup(opts.DebugDir, opts.RetentionDays)
		}
		fw, err := NewFileWriter(opts.DebugDir)
		if err != nil {
			return err
		}
		fileWriter = fw
		handlers = append(handlers, slog.NewJSONHandler(fw, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	slog.SetDefault(slog.New(&multiHandler{handlers: handlers}))
	return nil
}

// Close closes the debug file writer if one was created.
func Close() {
	if fileWriter != nil {
		fileWriter.Close()
		fileWriter = nil
	}
}

// multiHandler fans out log records to multiple handlers.
type multiHandler struct {
	handlers []slog.Handler
}

func (m *multiHandler) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.handlers {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m.handlers {
		if h.Enabled(ctx, r.Level) {
			if err := h.Handle(ctx, r); err != nil {
				return err
			}
		}
	}
	return nil
}

func (m *multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithAttrs(attrs)
	}
	return &multiHandler{handlers: hs}
}

func (m *multiHandler) WithGroup(name string) slog.Handler {
	hs := make([]slog.Handler, len(m.handlers))
	for i, h := range m.handlers {
		hs[i] = h.WithGroup(name)
	}
	return &multiHandler{handlers: hs}
}
