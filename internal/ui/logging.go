package ui

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Logger is the printf-style front used across the CLI, backed by slog.
type Logger struct {
	Debug bool
	l     *slog.Logger
	out   *switchWriter
}

// switchWriter lets every logger derived with With follow Redirect.
type switchWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *switchWriter) Write(b []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(b)
}

func NewLogger(debug bool, w io.Writer) *Logger {
	if w == nil {
		w = os.Stdout
	}

	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}

	out := &switchWriter{w: w}
	h := slog.NewTextHandler(out, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// terminal output, timestamps are noise next to progress bars
			if len(groups) == 0 && a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	})

	return &Logger{Debug: debug, l: slog.New(h), out: out}
}

// With returns a logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Debug: l.Debug, l: l.l.With(args...), out: l.out}
}

// Redirect sends further output of l, and of every logger sharing its
// root, to w.
func (l *Logger) Redirect(w io.Writer) {
	l.out.mu.Lock()
	l.out.w = w
	l.out.mu.Unlock()
}

func (l *Logger) Debugf(format string, args ...any) {
	if l.Debug {
		l.l.Debug(fmt.Sprintf(format, args...))
	}
}

func (l *Logger) Infof(format string, args ...any) {
	l.l.Info(fmt.Sprintf(format, args...))
}

func (l *Logger) Warnf(format string, args ...any) {
	l.l.Warn(fmt.Sprintf(format, args...))
}

func (l *Logger) Errorf(format string, args ...any) {
	l.l.Error(fmt.Sprintf(format, args...))
}
