package tracer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitTracerDisabledIsNoop(t *testing.T) {
	shutdown := InitTracer(false, ServiceName)
	assert.NoError(t, shutdown(context.Background()))
}

func TestInitTracerEnabledReturnsShutdown(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "127.0.0.1:1")

	// the exporter connects lazily, so construction succeeds without a collector
	shutdown := InitTracer(true, ServiceName)
	assert.NotNil(t, shutdown)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
