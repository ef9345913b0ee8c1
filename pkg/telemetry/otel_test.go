package telemetry_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/jhoicas/Stockmaster-api/pkg/telemetry"
)

func TestSetup_SinEndpointSoloPropagador(t *testing.T) {
	shutdown, err := telemetry.Setup(context.Background(), telemetry.Config{ServiceName: "stockmaster-test"})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	fields := otel.GetTextMapPropagator().Fields()
	assert.Contains(t, fields, "traceparent")
	assert.NoError(t, shutdown(context.Background()))
}
