package logger

import (
	"context"
	"sync"
)

// contextKey is a private type for context keys to avoid collisions.
type contextKey struct{}

var loggerKey = contextKey{}

var (
	defaultLogger   *Logger
	defaultLoggerMu sync.RWMutex
)

func init() {
	defaultLogger = New(nil)
}

// GetDefault returns the default logger (thread-safe).
func GetDefault() *Logger {
	defaultLoggerMu.RLock()
	defer defaultLoggerMu.RUnlock()
	return defaultLogger
}

func getDefaultLogger() *Logger {
	return GetDefault()
}

// SetDefaultLogger sets the logger used when no logger is found in context.
func SetDefaultLogger(l *Logger) {
	if l != nil {
		defaultLoggerMu.Lock()
		defaultLogger = l
		defaultLoggerMu.Unlock()
	}
}

// WithContext returns a new context with the logger attached.
func (l *Logger) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// FromContext extracts the logger from context, falling back to the default.
func FromContext(ctx context.Context) *Logger {
	if ctx != nil {
		if l, ok := ctx.Value(loggerKey).(*Logger); ok {
			return l
		}
	}
	return GetDefault()
}

// WithField creates a new context with a single additional logger field.
func WithField(ctx context.Context, key string, value interface{}) context.Context {
	l := FromContext(ctx).WithField(key, value)
	return l.WithContext(ctx)
}

// WithFields creates a new context with additional logger fields.
func WithFields(ctx context.Context, fields Fields) context.Context {
	l := FromContext(ctx).WithFields(fields)
	return l.WithContext(ctx)
}

// SetRequestID sets the request ID field in context.
func SetRequestID(ctx context.Context, id string) context.Context {
	return WithField(ctx, FieldRequestID, id)
}

// SetBatchID sets the generation batch ID field in context.
func SetBatchID(ctx context.Context, id string) context.Context {
	return WithField(ctx, FieldBatchID, id)
}

// SetComponent sets the component name field in context.
func SetComponent(ctx context.Context, name string) context.Context {
	return WithField(ctx, FieldComponent, name)
}

// GetField extracts a field value from the context's logger.
func GetField(ctx context.Context, key string) (interface{}, bool) {
	log := FromContext(ctx)
	val, ok := log.Data[key]
	return val, ok
}

// GetFieldString extracts a string field value from the context's logger.
func GetFieldString(ctx context.Context, key string) string {
	val, ok := GetField(ctx, key)
	if !ok {
		return ""
	}
	str, _ := val.(string)
	return str
}

// GetRequestID extracts the request ID from context.
func GetRequestID(ctx context.Context) string {
	return GetFieldString(ctx, FieldRequestID)
}

// GetBatchID extracts the generation batch ID from context.
func GetBatchID(ctx context.Context) string {
	return GetFieldString(ctx, FieldBatchID)
}
