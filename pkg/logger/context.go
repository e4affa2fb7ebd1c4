package logger

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

type contextKey string

const (
	logContextKey  contextKey = "log_context"
	correlationKey contextKey = "correlation_id"
)

// Field names used by the canonical request log line and the helpers in
// logger_helpers.go.
const (
	FieldRequestID = "request_id"
	FieldOperation = "operation"
	FieldSiteID    = "site_id"
	FieldSiteURL   = "site_url"
	FieldCategory  = "category"
	FieldSuccess   = "success"
	FieldHTTPCode  = "http_code"
	FieldAuthCode  = "auth_code"

	// batch outcomes (plugin/theme updates, check-all)
	FieldItemCount    = "item_count"
	FieldSuccessCount = "success_count"
	FieldFailedCount  = "failed_count"
)

// LogContext collects fields during a request; the canonical logger emits
// them as one line when the request completes.
type LogContext struct {
	mu     sync.RWMutex
	fields []zap.Field
}

func NewLogContext() *LogContext {
	return &LogContext{
		fields: make([]zap.Field, 0, 10),
	}
}

func (lc *LogContext) AddField(field zap.Field) {
	if lc == nil {
		return
	}
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.fields = append(lc.fields, field)
}

func (lc *LogContext) AddFields(fields ...zap.Field) {
	if lc == nil {
		return
	}
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.fields = append(lc.fields, fields...)
}

func (lc *LogContext) Fields() []zap.Field {
	if lc == nil {
		return nil
	}
	lc.mu.RLock()
	defer lc.mu.RUnlock()

	result := make([]zap.Field, len(lc.fields))
	copy(result, lc.fields)
	return result
}

func WithLogContext(ctx context.Context, lc *LogContext) context.Context {
	return context.WithValue(ctx, logContextKey, lc)
}

func GetLogContext(ctx context.Context) *LogContext {
	if ctx == nil {
		return nil
	}
	lc, ok := ctx.Value(logContextKey).(*LogContext)
	if !ok {
		return nil
	}
	return lc
}

// AddToContext is a no-op outside a request, so usecases can call it from
// CLI and background paths too.
func AddToContext(ctx context.Context, fields ...zap.Field) {
	lc := GetLogContext(ctx)
	if lc != nil {
		lc.AddFields(fields...)
	}
}

// WithCorrelationID tags ctx with the request id that is forwarded to agents
// and stamped on published update-log events.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationKey, id)
}

func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(correlationKey).(string); ok {
		return v
	}
	return ""
}
