package ripple

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/anyswap/Escrow-Bridge/tokens/ripple/websockets"
)

// Conn is one open connection to a ledger node
type Conn interface {
	AccountInfo(ctx context.Context, account string) (*websockets.AccountInfoResult, error)
	AccountLines(ctx context.Context, account, peer string, marker interface{}) (*websockets.AccountLinesResult, error)
	AccountObjects(ctx context.Context, account, objType string, limit int, marker interface{}) (*websockets.AccountObjectsResult, error)
	AccountTx(ctx context.Context, params websockets.AccountTxParams) (*websockets.AccountTxResult, error)
	Tx(ctx context.Context, hash string) (*websockets.TxResult, error)
	Submit(ctx context.Context, txBlob string) (*websockets.SubmitResult, error)
	Close()
}

// DialFunc opens a connection to endpoint
type DialFunc func(ctx context.Context, endpoint string) (Conn, error)

// DialWebsocket dial a node websocket endpoint
func DialWebsocket(ctx context.Context, endpoint string) (Conn, error) {
	remote, err := websockets.NewRemote(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return remote, nil
}

// Gateway talks to the nodes of one network
type Gateway struct {
	Network    string
	APIAddress []string

	dial DialFunc
}

// NewGateway new gateway, a nil dial uses DialWebsocket
func NewGateway(network string, apiAddress []string, dial DialFunc) *Gateway {
	if dial == nil {
		dial = DialWebsocket
	}
	return &Gateway{
		Network:    network,
		APIAddress: apiAddress,
		dial:       dial,
	}
}

// Do opens a connection to the first reachable node, runs fn and closes the connection.
func (g *Gateway) Do(ctx context.Context, fn func(conn Conn) error) error {
	conn, err := g.connect(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()
	err = fn(conn)
	if errors.Is(err, websockets.ErrConnectionClosed) {
		return fmt.Errorf("%w: %v network: %v", tokens.ErrRPCQueryError, g.Network, err)
	}
	return err
}

func (g *Gateway) connect(ctx context.Context) (conn Conn, err error) {
	for _, endpoint := range g.APIAddress {
		conn, err = g.dial(ctx, endpoint)
		if err == nil {
			return conn, nil
		}
		log.Warn("cannot connect to ledger node", "network", g.Network, "endpoint", endpoint, "err", err)
		if ctx.Err() != nil {
			break
		}
	}
	if err == nil {
		err = errors.New("no api address")
	}
	return nil, fmt.Errorf("%w: %v network: %v", tokens.ErrRPCQueryError, g.Network, err)
}

// interval between finality checks of a submitted transaction
var submitPollInterval = time.Second

// SubmitOutcome final or last seen result of a submitted transaction
type SubmitOutcome struct {
	Hash        string
	Result      string
	Message     string
	LedgerIndex uint32
	Validated   bool
}

// IsLocalRejection checks whether code is a final rejection made before
// the transaction could be applied to any ledger.
func IsLocalRejection(code string) bool {
	return strings.HasPrefix(code, "tem") ||
		strings.HasPrefix(code, "tef") ||
		strings.HasPrefix(code, "tel")
}

// submitAndWait submits blob and waits until it is in a validated ledger.
// On context expiry the last seen outcome is returned with the context error.
func submitAndWait(ctx context.Context, conn Conn, txBlob string) (*SubmitOutcome, error) {
	res, err := conn.Submit(ctx, txBlob)
	if err != nil {
		return nil, err
	}
	outcome := &SubmitOutcome{
		Hash:    res.Hash(),
		Result:  res.EngineResult,
		Message: res.EngineResultMessage,
	}
	log.Debug("transaction submitted", "hash", outcome.Hash, "engineResult", res.EngineResult)
	if IsLocalRejection(res.EngineResult) {
		outcome.Validated = true
		return outcome, nil
	}
	if outcome.Hash == "" {
		return outcome, errors.New("submit response without transaction hash")
	}

	ticker := time.NewTicker(submitPollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return outcome, ctx.Err()
		case <-ticker.C:
		}
		txr, err := conn.Tx(ctx, outcome.Hash)
		switch {
		case err == nil:
		case websockets.IsTxNotFound(err):
			continue
		case ctx.Err() != nil:
			return outcome, ctx.Err()
		default:
			return outcome, err
		}
		if !txr.Validated {
			continue
		}
		outcome.Validated = true
		outcome.LedgerIndex = txr.LedgerIndex
		if result := txr.Result(); result != "" {
			outcome.Result = result
			outcome.Message = ""
		}
		return outcome, nil
	}
}
