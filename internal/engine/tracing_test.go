package engine

import (
	"context"
	"testing"

	"github.com/annel0/masonry/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestEngine_RecordsSpans(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec))
	defer tp.Shutdown(context.Background())

	cfg := config.Default()
	opts := OptionsFromConfig(cfg.Masonry, config.NewThicknessTable(cfg.Masonry.Joints))
	opts.Tracer = tp.Tracer("test")
	e := New(opts)
	ctx := context.Background()

	res, err := e.Place(ctx, brick(0, 0, 0))
	require.NoError(t, err)
	_, err = e.Place(ctx, Request{Type: "joint"})
	require.Error(t, err)
	_, err = e.Remove(ctx, res.Unit.ID)
	require.NoError(t, err)
	_, err = e.Load(ctx, nil)
	require.NoError(t, err)

	spans := rec.Ended()
	names := make([]string, 0, len(spans))
	for _, s := range spans {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"engine.Place", "engine.Place", "engine.Remove", "engine.Load"}, names)
	assert.Equal(t, "Error", spans[1].Status().Code.String())
}
