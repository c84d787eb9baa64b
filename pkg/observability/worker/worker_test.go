package worker

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	metricnoop "go.opentelemetry.io/otel/metric/noop"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

func TestJobInstrumenterPassesThroughResult(t *testing.T) {
	inst, err := NewJobInstrumenter(tracenoop.NewTracerProvider().Tracer("t"), metricnoop.NewMeterProvider().Meter("t"), "salon")
	require.NoError(t, err)

	ran := false
	require.NoError(t, inst.Run(context.Background(), "ok", func(context.Context) error {
		ran = true
		return nil
	}))
	assert.True(t, ran)

	boom := errors.New("boom")
	assert.ErrorIs(t, inst.Run(context.Background(), "fail", func(context.Context) error { return boom }), boom)
}
