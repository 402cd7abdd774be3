// SPDX-License-Identifier: Apache-2.0
// SPDX-FileCopyrightText: 2025 The Linux Foundation

// Package logger provides a context-aware logger built on [slog].
package logger

import (
	"context"
	"io"
	"log/slog"
	"strings"
)

// Logf is a simple printf-style logging function.
type Logf func(format string, args ...any)

// Write implements [io.Writer], allowing a Logf to be used as a log sink for
// code that expects a writer. Trailing newlines are trimmed, since Logf
// implementations append their own.
func (f Logf) Write(p []byte) (n int, err error) {
	f("%s", strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

type ctxKey string

const loggerKey ctxKey = "logger"

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

// Put returns a new context with the provided [slog.Logger].
func Put(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// Get retrieves the [slog.Logger] from the context.
//
// If the context has no logger, it returns a logger that discards all
// messages.
func Get(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey).(*slog.Logger); ok {
		return l
	}
	return discard
}

// Debug logs a debug message to the context logger.
func Debug(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

// Info logs an info message to the context logger.
func Info(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

// Warn logs a warning message to the context logger.
func Warn(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
}

// Error logs an error message to the context logger.
func Error(ctx context.Context, msg string, attrs ...slog.Attr) {
	Get(ctx).LogAttrs(ctx, slog.LevelError, msg, attrs...)
}
