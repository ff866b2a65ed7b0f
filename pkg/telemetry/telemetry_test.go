package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/shopledger/internal/config"
)

func TestSetup_DisabledWithoutEndpoint(t *testing.T) {
	shutdown, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "shopledger"}, nil)

	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
}

func TestSetup_InstallsProviders(t *testing.T) {
	// Exporters connect lazily, so an unreachable endpoint is fine here.
	shutdown, err := Setup(context.Background(), config.TelemetryConfig{ServiceName: "shopledger", OTLPEndpoint: "127.0.0.1:1"}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
