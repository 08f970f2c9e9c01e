package mcp

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewServer(t *testing.T) {
	t.Run("nil batch service returns error", func(t *testing.T) {
		server, err := NewServer(&Ports{Settings: newMockSettings()})
		require.Error(t, err)
		assert.Nil(t, server)
		assert.ErrorIs(t, err, ErrMissingBatchService)
	})

	t.Run("valid ports creates server", func(t *testing.T) {
		server, err := NewServer(&Ports{Batch: &mockBatchService{}, Settings: newMockSettings()})
		require.NoError(t, err)
		assert.NotNil(t, server)
	})
}

func TestPorts_Validate(t *testing.T) {
	tests := []struct {
		name    string
		ports   *Ports
		wantErr error
	}{
		{"nil ports", nil, ErrMissingBatchService},
		{"missing batch", &Ports{Settings: newMockSettings()}, ErrMissingBatchService},
		{"missing settings", &Ports{Batch: &mockBatchService{}}, ErrMissingSettingsService},
		{"results optional", &Ports{Batch: &mockBatchService{}, Settings: newMockSettings()}, nil},
		{"all ports", &Ports{Batch: &mockBatchService{}, Settings: newMockSettings(), Results: &mockResultService{}}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.ports.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestServer_ServeHTTPStopsOnCancel(t *testing.T) {
	server, err := NewServer(&Ports{Batch: &mockBatchService{}, Settings: newMockSettings()})
	require.NoError(t, err)

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- server.ServeHTTP(ctx, ln) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop")
	}
}

func TestServer_RunHTTPInvalidAddress(t *testing.T) {
	server, err := NewServer(&Ports{Batch: &mockBatchService{}, Settings: newMockSettings()})
	require.NoError(t, err)

	assert.Error(t, server.RunHTTP(context.Background(), "not-an-address"))
}
