package context

import "context"

// Origin describes where a storage operation was triggered from.
// It is attached to log lines so HTTP and CLI writes can be told apart.
type Origin string

const (
	OriginHTTP Origin = "http"
	OriginCLI  Origin = "cli"
)

type originKey struct{}

// WithOrigin stores the operation origin in context.
func WithOrigin(ctx context.Context, origin Origin) context.Context {
	return context.WithValue(ctx, originKey{}, origin)
}

// GetOrigin returns the operation origin or empty string.
func GetOrigin(ctx context.Context) Origin {
	if v, ok := ctx.Value(originKey{}).(Origin); ok {
		return v
	}
	return ""
}
