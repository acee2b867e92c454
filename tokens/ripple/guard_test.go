package ripple

import (
	"context"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworkFallbackWithoutAlternate(t *testing.T) {
	b, _, _, _ := newTestBridge(t)
	b.Config.AlternateNetwork = ""
	calls := 0
	gateway, found, err := b.withNetworkFallback(context.Background(), "test", testOwner,
		func(ctx context.Context, gateway *Gateway) (bool, error) {
			calls++
			return false, nil
		})
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, "testnet", gateway.Network)
	assert.Equal(t, 1, calls)
}

func TestNetworkFallbackPrimaryErrorStops(t *testing.T) {
	b, _, _, _ := newTestBridge(t)
	var networks []string
	_, _, err := b.withNetworkFallback(context.Background(), "test", testOwner,
		func(ctx context.Context, gateway *Gateway) (bool, error) {
			networks = append(networks, gateway.Network)
			return false, errTransport
		})
	require.ErrorIs(t, err, errTransport)
	assert.Equal(t, []string{"testnet"}, networks)
}

func TestNetworkFallbackCountsMismatch(t *testing.T) {
	b, _, _, _ := newTestBridge(t)
	counter := networkMismatchCounter.WithLabelValues("account_lookup", "testnet", "mainnet")
	before := testutil.ToFloat64(counter)
	gateway, found, err := b.withNetworkFallback(context.Background(), "account_lookup", testOwner,
		func(ctx context.Context, gateway *Gateway) (bool, error) {
			return gateway.Network == "mainnet", nil
		})
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "mainnet", gateway.Network)
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
