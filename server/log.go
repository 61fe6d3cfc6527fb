package main

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gofiber/fiber/v3"
)

// newLogger creates a logger with timestamp formatting that writes to w and
// filters messages below level.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default().
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// requestLogger logs every request at debug level and failed ones at warn.
func requestLogger(l *log.Logger) fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		status := c.Response().StatusCode()
		kv := []any{"method", c.Method(), "path", c.Path(), "status", status,
			"elapsed", time.Since(start).Round(time.Microsecond)}
		if err != nil || status >= fiber.StatusInternalServerError {
			l.Warn("request failed", append(kv, "err", err)...)
			return err
		}
		l.Debug("request", kv...)
		return nil
	}
}
