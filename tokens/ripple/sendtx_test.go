package ripple

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/anyswap/Escrow-Bridge/tokens/ripple/websockets"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	submitHash = strings.Repeat("5E", 32)
	signedBlob = "12000022800000002400000001" + strings.Repeat("AB", 60)
)

func init() {
	submitPollInterval = 10 * time.Millisecond
}

func acceptSubmit(engineResult string) func(string) (*websockets.SubmitResult, error) {
	return func(txBlob string) (*websockets.SubmitResult, error) {
		return &websockets.SubmitResult{
			EngineResult: engineResult,
			TxBlob:       txBlob,
			Tx:           websockets.Object{"hash": submitHash},
		}, nil
	}
}

func TestSubmitCompleted(t *testing.T) {
	b, testnet, _, _ := newTestBridge(t)
	testnet.submit = acceptSubmit("terQUEUED")
	testnet.txs[submitHash] = txResult(submitHash, TxTypePayment, 555, true, ResultSuccess, nil)

	res, err := b.Submit(context.Background(), signedBlob)
	require.NoError(t, err)
	assert.Equal(t, tokens.TxCompleted, res.Status)
	assert.Equal(t, submitHash, res.Hash)
	assert.Equal(t, ResultSuccess, res.ResultCode)
	assert.Equal(t, uint32(555), res.LedgerIndex)
	assert.Equal(t, FormatHex, res.Format)
	assert.Equal(t, "testnet", res.Network)
	assert.Equal(t, strings.ToUpper(signedBlob), res.TxBlob)
}

func TestSubmitRejectedInLedger(t *testing.T) {
	b, testnet, _, _ := newTestBridge(t)
	testnet.submit = acceptSubmit(ResultSuccess)
	testnet.txs[submitHash] = txResult(submitHash, TxTypePayment, 556, true, "tecNO_DST", nil)

	res, err := b.Submit(context.Background(), map[string]interface{}{"tx_blob": signedBlob})
	require.Error(t, err)
	var rejected *tokens.LedgerRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "tecNO_DST", rejected.Code)
	assert.Equal(t, "destination account does not exist", rejected.Message)
	assert.Equal(t, submitHash, rejected.Hash)
	require.NotNil(t, res)
	assert.Equal(t, tokens.TxFailed, res.Status)
	assert.Equal(t, FormatHex, res.Format)
}

func TestSubmitLocalRejection(t *testing.T) {
	b, testnet, _, _ := newTestBridge(t)
	testnet.submit = acceptSubmit("temBAD_FEE")

	res, err := b.Submit(context.Background(), signedBlob)
	var rejected *tokens.LedgerRejectedError
	require.True(t, errors.As(err, &rejected))
	assert.Equal(t, "temBAD_FEE", rejected.Code)
	assert.Equal(t, tokens.TxFailed, res.Status)
	assert.Zero(t, testnet.txCalls, "local rejection must not wait for validation")
}

func TestSubmitTimeout(t *testing.T) {
	b, testnet, _, _ := newTestBridge(t)
	b.Config.SubmitTimeout = 1
	testnet.submit = acceptSubmit("terQUEUED")
	testnet.txs[submitHash] = txResult(submitHash, TxTypePayment, 0, false, "", nil)

	res, err := b.Submit(context.Background(), signedBlob)
	require.ErrorIs(t, err, tokens.ErrSubmitTimeout)
	var timeout *tokens.SubmitTimeoutError
	require.True(t, errors.As(err, &timeout))
	assert.Equal(t, submitHash, timeout.Hash)
	require.NotNil(t, res)
	assert.Equal(t, tokens.TxProcessing, res.Status)
	assert.Equal(t, "terQUEUED", res.ResultCode)
}

func TestSubmitCallerCancelled(t *testing.T) {
	b, testnet, _, _ := newTestBridge(t)
	testnet.submit = acceptSubmit("terQUEUED")

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	res, err := b.Submit(ctx, signedBlob)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	require.NotErrorIs(t, err, tokens.ErrSubmitTimeout)
	assert.Nil(t, res)
}

func TestSubmitTransportError(t *testing.T) {
	b, testnet, _, networks := newTestBridge(t)

	_, err := b.Submit(context.Background(), signedBlob)
	require.ErrorIs(t, err, errTransport)

	testnet.submit = acceptSubmit(ResultSuccess)
	testnet.txErr = errTransport
	_, err = b.Submit(context.Background(), signedBlob)
	require.ErrorIs(t, err, errTransport)

	networks.down[testnetEndpoint] = true
	_, err = b.Submit(context.Background(), signedBlob)
	require.ErrorIs(t, err, tokens.ErrRPCQueryError)
}

func TestSubmitInvalidPayload(t *testing.T) {
	b, testnet, _, _ := newTestBridge(t)
	testnet.submit = acceptSubmit(ResultSuccess)

	_, err := b.Submit(context.Background(), "3f2b8c1e-4d5a-4b6c-8d7e-9f0a1b2c3d4e")
	require.True(t, tokens.IsPayloadError(err))
	assert.Zero(t, testnet.dials, "invalid payload must not reach the network")
}

func TestIsLocalRejection(t *testing.T) {
	for _, code := range []string{"temBAD_FEE", "tefPAST_SEQ", "telINSUF_FEE_P"} {
		assert.True(t, IsLocalRejection(code), code)
	}
	for _, code := range []string{ResultSuccess, "tecNO_DST", "terQUEUED", ""} {
		assert.False(t, IsLocalRejection(code), code)
	}
}

func TestDescribeResult(t *testing.T) {
	assert.Equal(t, "destination account does not exist", DescribeResult("tecNO_DST"))
	assert.Equal(t, "insufficient balance to send this amount", DescribeResult("tecUNFUNDED_PAYMENT"))
	assert.Equal(t, "the transaction was applied", DescribeResult(ResultSuccess))
	assert.Equal(t, "tecSOMETHING_NEW", DescribeResult("tecSOMETHING_NEW"))
}
