package ctxutil

import (
	"context"

	"github.com/google/uuid"
)

type traceDataKey struct{}

// TraceData correlates one HTTP request across logs, spans and responses.
type TraceData struct {
	TraceID   string
	RequestID string
}

func WithTraceData(ctx context.Context, td *TraceData) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, traceDataKey{}, td)
}

func GetTraceData(ctx context.Context) *TraceData {
	if ctx == nil {
		return nil
	}
	td, _ := ctx.Value(traceDataKey{}).(*TraceData)
	return td
}

// LogFields returns the trace, request and user ids present on ctx as
// logger key/value pairs.
func LogFields(ctx context.Context) []interface{} {
	var out []interface{}
	if td := GetTraceData(ctx); td != nil {
		if td.TraceID != "" {
			out = append(out, "trace_id", td.TraceID)
		}
		if td.RequestID != "" {
			out = append(out, "request_id", td.RequestID)
		}
	}
	if rd := GetRequestData(ctx); rd != nil && rd.UserID != uuid.Nil {
		out = append(out, "user_id", rd.UserID.String())
	}
	return out
}
