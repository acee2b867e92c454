// Package websockets is a client for the ledger node websocket API.
package websockets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Time allowed to connect to server.
	dialTimeout = 5 * time.Second
)

// ErrConnectionClosed command failed because the connection is gone
var ErrConnectionClosed = errors.New("websocket connection closed")

// Remote is a session connected to one node endpoint.
// Commands may be issued from several goroutines.
type Remote struct {
	Endpoint string

	outgoing chan Syncer
	quit     chan struct{}
	done     chan struct{}
	ws       *websocket.Conn

	closeOnce sync.Once
}

// NewRemote returns a new remote session connected to the specified
// server endpoint URI. To close the connection, use Close().
func NewRemote(ctx context.Context, endpoint string) (*Remote, error) {
	dialer := websocket.Dialer{
		Proxy:            websocket.DefaultDialer.Proxy,
		HandshakeTimeout: dialTimeout,
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
	}
	ws, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, err
	}
	r := &Remote{
		Endpoint: endpoint,
		outgoing: make(chan Syncer, 10),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
		ws:       ws,
	}
	go r.run()
	return r, nil
}

// Close shuts down the Remote session and blocks until all internal
// goroutines have been cleaned up.
// Any commands that are pending a response will return with an error.
func (r *Remote) Close() {
	r.closeOnce.Do(func() {
		close(r.quit)
	})
	<-r.done
}

// run spawns the read/write pumps and then runs until Close() is called.
func (r *Remote) run() {
	outbound := make(chan interface{})
	inbound := make(chan []byte)
	pending := make(map[uint64]Syncer)

	defer func() {
		close(outbound) // Shuts down the writePump

		for _, c := range pending {
			c.Fail(ErrConnectionClosed)
		}

		// Drain the inbound channel and block until it is closed,
		// indicating that the readPump has returned.
		for range inbound {
		}
		close(r.done)
	}()

	go func() {
		r.writePump(outbound)
		r.ws.Close()
		for range outbound {
		}
	}()
	go func() {
		defer close(inbound)
		r.readPump(inbound)
	}()

	for {
		select {
		case <-r.quit:
			return

		case command := <-r.outgoing:
			pending[command.GetID()] = command
			outbound <- command

		case in, ok := <-inbound:
			if !ok {
				log.Warn("[websockets] connection closed by server", "endpoint", r.Endpoint)
				return
			}
			var response Command
			if err := json.Unmarshal(in, &response); err != nil {
				log.Warn("[websockets] unmarshal response failed", "endpoint", r.Endpoint, "err", err)
				continue
			}
			cmd, exist := pending[response.ID]
			if !exist {
				log.Debug("[websockets] unexpected message", "endpoint", r.Endpoint, "type", response.Type, "id", response.ID)
				continue
			}
			delete(pending, response.ID)
			if err := json.Unmarshal(in, cmd); err != nil {
				cmd.Fail(err)
				continue
			}
			cmd.Done()
		}
	}
}

// request sends cmd and waits for its response.
func (r *Remote) request(ctx context.Context, cmd Syncer) error {
	select {
	case r.outgoing <- cmd:
	case <-r.done:
		return ErrConnectionClosed
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-cmd.Wait():
	case <-r.done:
		select {
		case <-cmd.Wait():
		default:
			return ErrConnectionClosed
		}
	case <-ctx.Done():
		return ctx.Err()
	}
	return cmd.Err()
}

// readPump reads from the websocket and sends to inbound channel.
// Expects to receive PONGs at specified interval, or logs an error and returns.
func (r *Remote) readPump(inbound chan<- []byte) {
	_ = r.ws.SetReadDeadline(time.Now().Add(pongWait))
	r.ws.SetPongHandler(func(string) error { return r.ws.SetReadDeadline(time.Now().Add(pongWait)) })
	for {
		_, message, err := r.ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				log.Debug("[websockets] read message failed", "endpoint", r.Endpoint, "err", err)
			}
			return
		}
		log.Trace("[websockets] received", "endpoint", r.Endpoint, "message", string(message))
		_ = r.ws.SetReadDeadline(time.Now().Add(pongWait))
		inbound <- message
	}
}

// Consumes from the outbound channel and sends them over the websocket.
// Also sends PING messages at the specified interval.
// Returns when outbound channel is closed, or an error is encountered.
func (r *Remote) writePump(outbound <-chan interface{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-outbound:
			_ = r.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = r.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			b, err := json.Marshal(message)
			if err != nil {
				log.Warn("[websockets] marshal request failed", "endpoint", r.Endpoint, "err", err)
				continue
			}
			log.Trace("[websockets] send", "endpoint", r.Endpoint, "message", string(b))
			if err := r.ws.WriteMessage(websocket.TextMessage, b); err != nil {
				log.Debug("[websockets] write message failed", "endpoint", r.Endpoint, "err", err)
				return
			}

		case <-ticker.C:
			_ = r.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := r.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				log.Debug("[websockets] ping failed", "endpoint", r.Endpoint, "err", err)
				return
			}
		}
	}
}

const validatedLedger = "validated"

func errEmptyResult(command string) error {
	return fmt.Errorf("%v response without result", command)
}

// AccountInfo requests the account root of a validated ledger
func (r *Remote) AccountInfo(ctx context.Context, account string) (*AccountInfoResult, error) {
	cmd := &AccountInfoCommand{
		Command:     newCommand("account_info"),
		Account:     account,
		LedgerIndex: validatedLedger,
		Strict:      true,
	}
	if err := r.request(ctx, cmd); err != nil {
		return nil, err
	}
	if cmd.Result == nil {
		return nil, errEmptyResult(cmd.Name)
	}
	return cmd.Result, nil
}

// AccountLines requests one page of trust lines, optionally only those with peer
func (r *Remote) AccountLines(ctx context.Context, account, peer string, marker interface{}) (*AccountLinesResult, error) {
	cmd := &AccountLinesCommand{
		Command:     newCommand("account_lines"),
		Account:     account,
		Peer:        peer,
		Marker:      marker,
		LedgerIndex: validatedLedger,
	}
	if err := r.request(ctx, cmd); err != nil {
		return nil, err
	}
	if cmd.Result == nil {
		return nil, errEmptyResult(cmd.Name)
	}
	return cmd.Result, nil
}

// AccountObjects requests one page of ledger objects owned by account
func (r *Remote) AccountObjects(ctx context.Context, account, objType string, limit int, marker interface{}) (*AccountObjectsResult, error) {
	cmd := &AccountObjectsCommand{
		Command:     newCommand("account_objects"),
		Account:     account,
		Type:        objType,
		Limit:       limit,
		Marker:      marker,
		LedgerIndex: validatedLedger,
	}
	if err := r.request(ctx, cmd); err != nil {
		return nil, err
	}
	if cmd.Result == nil {
		return nil, errEmptyResult(cmd.Name)
	}
	return cmd.Result, nil
}

// AccountTx requests one page of account transaction history
func (r *Remote) AccountTx(ctx context.Context, params AccountTxParams) (*AccountTxResult, error) {
	cmd := &AccountTxCommand{
		Command:         newCommand("account_tx"),
		AccountTxParams: params,
	}
	if err := r.request(ctx, cmd); err != nil {
		return nil, err
	}
	if cmd.Result == nil {
		return nil, errEmptyResult(cmd.Name)
	}
	return cmd.Result, nil
}

// Tx requests a single transaction by hash
func (r *Remote) Tx(ctx context.Context, hash string) (*TxResult, error) {
	cmd := &TxCommand{
		Command:     newCommand("tx"),
		Transaction: hash,
	}
	if err := r.request(ctx, cmd); err != nil {
		return nil, err
	}
	if cmd.Result == nil {
		return nil, errEmptyResult(cmd.Name)
	}
	return cmd.Result, nil
}

// Submit submits a signed transaction blob
func (r *Remote) Submit(ctx context.Context, txBlob string) (*SubmitResult, error) {
	cmd := &SubmitCommand{
		Command: newCommand("submit"),
		TxBlob:  txBlob,
	}
	if err := r.request(ctx, cmd); err != nil {
		return nil, err
	}
	if cmd.Result == nil {
		return nil, errEmptyResult(cmd.Name)
	}
	return cmd.Result, nil
}
