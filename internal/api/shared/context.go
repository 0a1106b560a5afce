package shared

import (
	"context"
	"encoding/hex"

	"github.com/google/uuid"
)

type traceIDKey struct{}

// SetTraceID returns ctx carrying a new trace ID. Error responses echo it
// back so clients can quote it when reporting a problem.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, traceIDKey{}, newTraceID())
}

// GetTraceID returns the trace ID stored by SetTraceID, or "".
func GetTraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// newTraceID returns 16 random bytes as lowercase hex.
func newTraceID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}
