// Package logging builds the slog logger used by the CLI. Console records go
// to the provided writer as text or JSON; when a file is configured, records
// are also written as JSON to a size-rotated log file.
package logging

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"

	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Options controls logger construction.
type Options struct {
	Level  string
	Format string // "console" or "json"
	File   string
}

// New returns a logger writing to w and, if opts.File is set, to a rotating
// file. The returned closer releases the file and must be called once the
// logger is no longer used.
func New(w io.Writer, opts Options) (*slog.Logger, io.Closer) {
	lvl := ParseLevel(opts.Level)
	hopts := &slog.HandlerOptions{Level: lvl}

	var console slog.Handler
	if strings.EqualFold(strings.TrimSpace(opts.Format), "json") {
		console = slog.NewJSONHandler(w, hopts)
	} else {
		console = slog.NewTextHandler(w, hopts)
	}

	if strings.TrimSpace(opts.File) == "" {
		return slog.New(console), nopCloser{}
	}
	fw := &lj.Logger{Filename: opts.File, MaxSize: 10, MaxBackups: 3, MaxAge: 28, Compress: true}
	h := &multi{hs: []slog.Handler{console, slog.NewJSONHandler(fw, hopts)}}
	return slog.New(h), fw
}

// Discard returns a logger that drops every record.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError + 1}))
}

// ParseLevel maps debug, info, warn and error to slog levels. Anything else
// is treated as info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// multi fans records out to every handler.
type multi struct{ hs []slog.Handler }

func (m *multi) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range m.hs {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (m *multi) Handle(ctx context.Context, r slog.Record) error {
	var errs []error
	for _, h := range m.hs {
		if !h.Enabled(ctx, r.Level) {
			continue
		}
		if err := h.Handle(ctx, r.Clone()); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m *multi) WithAttrs(attrs []slog.Attr) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithAttrs(attrs)
	}
	return &multi{hs: res}
}

func (m *multi) WithGroup(name string) slog.Handler {
	res := make([]slog.Handler, len(m.hs))
	for i, h := range m.hs {
		res[i] = h.WithGroup(name)
	}
	return &multi{hs: res}
}
