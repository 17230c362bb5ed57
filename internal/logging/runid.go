package logging

import (
	"context"
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

type runIDKey struct{}

//nolint:gochecknoglobals // ulid entropy source must be shared and guarded
var (
	entropyMu sync.Mutex
	entropy   = ulid.Monotonic(rand.Reader, 0)
)

// NewRunID returns a fresh, time-ordered run identifier.
func NewRunID() string {
	entropyMu.Lock()
	defer entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// ContextWithRunID stores id on ctx.
func ContextWithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey{}, id)
}

// RunIDFromContext returns the run ID stored on ctx, or "".
func RunIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(runIDKey{}).(string)
	return id
}

// GetOrGenerateRunID returns the run ID on ctx, generating one if absent.
func GetOrGenerateRunID(ctx context.Context) string {
	if id := RunIDFromContext(ctx); id != "" {
		return id
	}
	return NewRunID()
}

// WithRunID stores a run ID on ctx and attaches it to the context logger, so
// every log line written through FromContext carries it.
func WithRunID(ctx context.Context) (context.Context, string) {
	id := GetOrGenerateRunID(ctx)
	ctx = ContextWithRunID(ctx, id)
	l := FromContext(ctx).With().Str("run_id", id).Logger()
	return l.WithContext(ctx), id
}
