package otel

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"storefront/pkg/logger"
)

func TestAddSpanUsesInjectedTracer(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	t.Cleanup(func() { tp.Shutdown(context.Background()) })

	ctx := InjectTracing(context.Background(), tp.Tracer("test"))
	ctx, span := AddSpan(ctx, "loginHandler")
	id := GetTraceID(ctx)
	span.End()

	require.Len(t, rec.Ended(), 1)
	assert.Equal(t, "loginHandler", rec.Ended()[0].Name())
	assert.Equal(t, rec.Ended()[0].SpanContext().TraceID().String(), id)
	assert.Len(t, id, 32)
}

func TestAddSpanWithoutTracer(t *testing.T) {
	ctx, span := AddSpan(context.Background(), "noop")
	defer span.End()
	assert.Empty(t, GetTraceID(ctx))
}

func TestInitTracingWithoutExporter(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "test", nil)
	tp, shutdown, err := InitTracing(log, Config{ServiceName: "test", Probability: 1})
	require.NoError(t, err)
	t.Cleanup(func() { shutdown(context.Background()) })

	ctx := InjectTracing(context.Background(), tp.Tracer("test"))
	ctx, span := AddSpan(ctx, "op")
	defer span.End()
	assert.NotEmpty(t, GetTraceID(ctx))
}
