package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	l := zap.NewExample()
	assert.Same(t, l, FromContext(WithContext(context.Background(), l)))
}

func TestRequestIDAndActor(t *testing.T) {
	ctx := WithActor(WithRequestID(context.Background(), "req-1"), "cashier-7")

	assert.Equal(t, "req-1", RequestID(ctx))
	assert.Equal(t, "cashier-7", Actor(ctx))
	assert.Empty(t, RequestID(context.Background()))
	assert.Empty(t, Actor(context.Background()))
}

func TestL_EnrichesWithCorrelationFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = WithRequestID(ctx, "req-42")
	ctx = WithActor(ctx, "ana")

	tp := sdktrace.NewTracerProvider()
	ctx, span := tp.Tracer("test").Start(ctx, "op")
	defer span.End()

	L(ctx).Info("movement recorded")

	require.Len(t, recorded.All(), 1)
	fields := recorded.All()[0].ContextMap()
	assert.Equal(t, "req-42", fields["request_id"])
	assert.Equal(t, "ana", fields["actor"])
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
}

func TestTraceFields_NoSpan(t *testing.T) {
	assert.Nil(t, TraceFields(context.Background()))
}

func TestEnrich_NilBase(t *testing.T) {
	assert.NotNil(t, Enrich(context.Background(), nil))
}
