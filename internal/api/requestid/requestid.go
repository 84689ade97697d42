// Package requestid carries the per-request id through the context so
// handlers can attach it to error payloads.
package requestid

import "context"

type requestIDKeyType struct{}

var requestIDKey requestIDKeyType

// InjectRequestID stores the request id in the context. The id is minted
// by the request-id middleware from the ULID assigned to the request.
func InjectRequestID(ctx context.Context, requestID uint64) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// ExtractRequestID returns the request id from the context, or 0 when the
// middleware did not run.
func ExtractRequestID(ctx context.Context) uint64 {
	if v, ok := ctx.Value(requestIDKey).(uint64); ok {
		return v
	}
	return 0
}
