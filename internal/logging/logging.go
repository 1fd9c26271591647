package logging

import (
	"context"
	"io"
	"os"
	"strings"
	"sync/atomic"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"
)

var std atomic.Pointer[logrus.Logger]

func init() {
	std.Store(logrus.StandardLogger())
}

// New builds a logger writing to out. format is "json" or "text"; level is any logrus level name.
func New(level, format string, out io.Writer) (*logrus.Logger, error) {
	if out == nil {
		out = os.Stdout
	}
	logger := logrus.New()
	logger.SetOutput(out)

	lvl := logrus.InfoLevel
	if level != "" {
		parsed, err := logrus.ParseLevel(level)
		if err != nil {
			return nil, err
		}
		lvl = parsed
	}
	logger.SetLevel(lvl)

	if strings.EqualFold(format, "json") {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger, nil
}

// SetDefault replaces the logger returned by L and WithContext.
func SetDefault(l *logrus.Logger) {
	if l != nil {
		std.Store(l)
	}
}

// L returns the process logger.
func L() *logrus.Logger {
	return std.Load()
}

type fieldsKey struct{}

// WithFields attaches log fields to ctx; WithContext includes them in every entry.
func WithFields(ctx context.Context, fields logrus.Fields) context.Context {
	merged := logrus.Fields{}
	if existing, ok := ctx.Value(fieldsKey{}).(logrus.Fields); ok {
		for k, v := range existing {
			merged[k] = v
		}
	}
	for k, v := range fields {
		merged[k] = v
	}
	return context.WithValue(ctx, fieldsKey{}, merged)
}

// WithContext returns an entry carrying the request id and any fields stored in ctx.
func WithContext(ctx context.Context) *logrus.Entry {
	entry := logrus.NewEntry(L())
	if ctx == nil {
		return entry
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		entry = entry.WithField("request_id", reqID)
	}
	if fields, ok := ctx.Value(fieldsKey{}).(logrus.Fields); ok {
		entry = entry.WithFields(fields)
	}
	return entry
}
