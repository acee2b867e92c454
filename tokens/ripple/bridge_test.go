package ripple

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/anyswap/Escrow-Bridge/tokens/ripple/websockets"
	"github.com/stretchr/testify/require"
)

const (
	testOwner       = "rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh"
	testDestination = "rGWrZyQqhTp9Xu7G5Pkayo7bXjH4k4QYpf"
	testIssuer      = "rvYAfWj5gh67oV6fW32ZzP3Aw4Eubs59B"
	testIssuer2     = "rPMh7Pi9ct699iZUTWaytJUoHcJ7cgyziK"

	testnetEndpoint = "wss://testnet.example"
	mainnetEndpoint = "wss://mainnet.example"
)

var errTransport = errors.New("transport broken")

// fakeLedger an in memory node answering the Conn methods
type fakeLedger struct {
	mu sync.Mutex

	accounts map[string]*websockets.AccountData
	lines    map[string][]websockets.TrustLine // by peer
	lineErr  map[string]error                  // by peer
	objects  map[string][]websockets.Object
	txs      map[string]*websockets.TxResult
	history  map[string][]*websockets.TxResult
	submit   func(txBlob string) (*websockets.SubmitResult, error)
	txErr    error
	pageSize int

	dials    int
	closed   int
	txCalls  int
	histCall int
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{
		accounts: make(map[string]*websockets.AccountData),
		lines:    make(map[string][]websockets.TrustLine),
		lineErr:  make(map[string]error),
		objects:  make(map[string][]websockets.Object),
		txs:      make(map[string]*websockets.TxResult),
		history:  make(map[string][]*websockets.TxResult),
		pageSize: 2,
	}
}

type fakeConn struct {
	ledger *fakeLedger
}

func (c *fakeConn) AccountInfo(_ context.Context, account string) (*websockets.AccountInfoResult, error) {
	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()
	data, exist := c.ledger.accounts[account]
	if !exist {
		return nil, &websockets.CommandError{Name: websockets.ErrNameAccountNotFound, Code: 19, Message: "Account not found."}
	}
	return &websockets.AccountInfoResult{AccountData: *data, Validated: true}, nil
}

func pageOf(total, pageSize int, marker interface{}) (start, end int, next interface{}) {
	if m, ok := marker.(int); ok {
		start = m
	}
	end = start + pageSize
	if end >= total {
		return start, total, nil
	}
	return start, end, end
}

func (c *fakeConn) AccountLines(_ context.Context, account, peer string, marker interface{}) (*websockets.AccountLinesResult, error) {
	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()
	if err := c.ledger.lineErr[peer]; err != nil {
		return nil, err
	}
	lines := c.ledger.lines[peer]
	start, end, next := pageOf(len(lines), c.ledger.pageSize, marker)
	return &websockets.AccountLinesResult{Account: account, Lines: lines[start:end], Marker: next}, nil
}

func (c *fakeConn) AccountObjects(_ context.Context, account, _ string, _ int, marker interface{}) (*websockets.AccountObjectsResult, error) {
	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()
	if _, exist := c.ledger.accounts[account]; !exist {
		return nil, &websockets.CommandError{Name: websockets.ErrNameAccountNotFound, Code: 19}
	}
	objects := c.ledger.objects[account]
	start, end, next := pageOf(len(objects), c.ledger.pageSize, marker)
	return &websockets.AccountObjectsResult{Account: account, AccountObjects: objects[start:end], Marker: next}, nil
}

func (c *fakeConn) AccountTx(_ context.Context, params websockets.AccountTxParams) (*websockets.AccountTxResult, error) {
	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()
	c.ledger.histCall++
	var txs []*websockets.TxResult
	for _, txr := range c.ledger.history[params.Account] {
		if params.MinLedger < 0 || int64(txr.LedgerIndex) >= params.MinLedger {
			txs = append(txs, txr)
		}
	}
	pageSize := c.ledger.pageSize
	if params.Limit > 0 && params.Limit < pageSize {
		pageSize = params.Limit
	}
	start, end, next := pageOf(len(txs), pageSize, params.Marker)
	return &websockets.AccountTxResult{Account: params.Account, Transactions: txs[start:end], Marker: next}, nil
}

func (c *fakeConn) Tx(_ context.Context, hash string) (*websockets.TxResult, error) {
	c.ledger.mu.Lock()
	defer c.ledger.mu.Unlock()
	c.ledger.txCalls++
	if c.ledger.txErr != nil {
		return nil, c.ledger.txErr
	}
	txr, exist := c.ledger.txs[hash]
	if !exist {
		return nil, &websockets.CommandError{Name: websockets.ErrNameTxNotFound, Code: 29, Message: "Transaction not found."}
	}
	return txr, nil
}

func (c *fakeConn) Submit(_ context.Context, txBlob string) (*websockets.SubmitResult, error) {
	if c.ledger.submit == nil {
		return nil, errTransport
	}
	return c.ledger.submit(txBlob)
}

func (c *fakeConn) Close() {
	c.ledger.mu.Lock()
	c.ledger.closed++
	c.ledger.mu.Unlock()
}

type fakeNetworks struct {
	ledgers map[string]*fakeLedger // by endpoint
	down    map[string]bool
}

func (n *fakeNetworks) dial(_ context.Context, endpoint string) (Conn, error) {
	if n.down[endpoint] {
		return nil, errTransport
	}
	ledger, exist := n.ledgers[endpoint]
	if !exist {
		return nil, errTransport
	}
	ledger.mu.Lock()
	ledger.dials++
	ledger.mu.Unlock()
	return &fakeConn{ledger: ledger}, nil
}

func testLedgerConfig(alternate string) *tokens.LedgerConfig {
	return &tokens.LedgerConfig{
		Network:          "testnet",
		AlternateNetwork: alternate,
		SubmitTimeout:    5,
		Networks: map[string]*tokens.NetworkConfig{
			"testnet": {
				APIAddress: []string{testnetEndpoint},
				Assets: []*tokens.AssetConfig{
					{Name: "USD", Currency: "USD", Issuer: testIssuer},
					{Name: "EUR", Currency: "EUR", Issuer: testIssuer2},
				},
			},
			"mainnet": {
				APIAddress: []string{mainnetEndpoint},
				Assets: []*tokens.AssetConfig{
					{Name: "USD", Currency: "USD", Issuer: testIssuer},
				},
			},
		},
	}
}

// newTestBridge bridge on testnet with mainnet as alternate network
func newTestBridge(t *testing.T) (b *Bridge, testnet, mainnet *fakeLedger, networks *fakeNetworks) {
	testnet, mainnet = newFakeLedger(), newFakeLedger()
	networks = &fakeNetworks{
		ledgers: map[string]*fakeLedger{testnetEndpoint: testnet, mainnetEndpoint: mainnet},
		down:    make(map[string]bool),
	}
	b, err := NewBridge(testLedgerConfig("mainnet"), networks.dial)
	require.NoError(t, err)
	b.Now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }
	return b, testnet, mainnet, networks
}

func TestNewBridgeChecksConfig(t *testing.T) {
	cfg := testLedgerConfig("testnet")
	_, err := NewBridge(cfg, nil)
	require.Error(t, err)

	cfg = testLedgerConfig("")
	b, err := NewBridge(cfg, nil)
	require.NoError(t, err)
	require.Equal(t, "testnet", b.Network())
	require.Nil(t, b.alternateGateway())

	gateway, err := b.GetGateway("mainnet")
	require.NoError(t, err)
	require.Equal(t, []string{mainnetEndpoint}, gateway.APIAddress)

	_, err = b.GetGateway("devnet")
	require.ErrorIs(t, err, tokens.ErrUnknownNetwork)
}

func TestGatewayTriesEndpointsInOrder(t *testing.T) {
	ledger := newFakeLedger()
	networks := &fakeNetworks{
		ledgers: map[string]*fakeLedger{"wss://b": ledger},
		down:    map[string]bool{"wss://a": true},
	}
	gateway := NewGateway("testnet", []string{"wss://a", "wss://b"}, networks.dial)

	called := false
	err := gateway.Do(context.Background(), func(conn Conn) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	require.True(t, called)
	require.Equal(t, 1, ledger.dials)
	require.Equal(t, 1, ledger.closed)
}

func TestGatewayAllEndpointsDown(t *testing.T) {
	networks := &fakeNetworks{down: map[string]bool{"wss://a": true}}
	gateway := NewGateway("testnet", []string{"wss://a"}, networks.dial)
	err := gateway.Do(context.Background(), func(conn Conn) error {
		t.Fatal("fn must not run without connection")
		return nil
	})
	require.ErrorIs(t, err, tokens.ErrRPCQueryError)

	gateway = NewGateway("testnet", nil, networks.dial)
	err = gateway.Do(context.Background(), func(conn Conn) error { return nil })
	require.ErrorIs(t, err, tokens.ErrRPCQueryError)
}

func TestGatewayMapsConnectionClosed(t *testing.T) {
	ledger := newFakeLedger()
	networks := &fakeNetworks{ledgers: map[string]*fakeLedger{"wss://a": ledger}}
	gateway := NewGateway("testnet", []string{"wss://a"}, networks.dial)

	err := gateway.Do(context.Background(), func(conn Conn) error {
		return websockets.ErrConnectionClosed
	})
	require.ErrorIs(t, err, tokens.ErrRPCQueryError)

	err = gateway.Do(context.Background(), func(conn Conn) error { return errTransport })
	require.ErrorIs(t, err, errTransport)
	require.Equal(t, 2, ledger.closed)
}
