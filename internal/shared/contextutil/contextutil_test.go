package contextutil_test

import (
	"context"
	"testing"

	"leavedesk/internal/shared/contextutil"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestRequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, contextutil.GetRequestID(ctx))

	ctx = contextutil.WithRequestID(ctx, "req-1")
	assert.Equal(t, "req-1", contextutil.GetRequestID(ctx))
}

func TestActorID(t *testing.T) {
	ctx := context.Background()
	assert.Zero(t, contextutil.GetActorID(ctx))

	ctx = contextutil.WithActorID(ctx, 42)
	assert.Equal(t, int64(42), contextutil.GetActorID(ctx))
}

func TestGetLogger(t *testing.T) {
	fallback := zap.NewNop()

	t.Run("prefers the request-scoped logger", func(t *testing.T) {
		scoped := zap.NewNop()
		ctx := contextutil.WithLogger(context.Background(), scoped)
		assert.Same(t, scoped, contextutil.GetLogger(ctx, fallback))
	})

	t.Run("falls back to the given default", func(t *testing.T) {
		assert.Same(t, fallback, contextutil.GetLogger(context.Background(), fallback))
	})

	t.Run("never returns nil", func(t *testing.T) {
		assert.NotNil(t, contextutil.GetLogger(context.Background(), nil))
	})
}
