// Package signer coordinates sign requests with a remote wallet signing service.
package signer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/anyswap/Escrow-Bridge/rpc/client"
)

// signer errors
var (
	ErrSignRequestNotFound = errors.New("sign request not found")
	ErrEmptyTxJSON         = errors.New("empty transaction json")
	ErrEmptyRequestID      = errors.New("empty sign request id")
	ErrWrongSignerResponse = errors.New("wrong signer response")
)

// Coordinator creates sign requests and polls them until terminal.
// Terminal results are cached and never queried again.
type Coordinator struct {
	cfg *Config

	mu       sync.Mutex
	terminal map[string]*SignRequest
}

// NewCoordinator new coordinator
func NewCoordinator(cfg *Config) (*Coordinator, error) {
	if err := cfg.CheckConfig(); err != nil {
		return nil, err
	}
	return &Coordinator{
		cfg:      cfg,
		terminal: make(map[string]*SignRequest),
	}, nil
}

func (c *Coordinator) requestOptions() *client.RequestOptions {
	return &client.RequestOptions{
		Headers: map[string]string{
			"X-API-Key":    c.cfg.APIKey,
			"X-API-Secret": c.cfg.APISecret,
		},
		Timeout: c.cfg.GetTimeout(),
	}
}

// CreateSignRequest hands txJSON to the remote signer
func (c *Coordinator) CreateSignRequest(ctx context.Context, txJSON json.RawMessage, instruction string) (*SignRequest, error) {
	if len(txJSON) == 0 {
		return nil, ErrEmptyTxJSON
	}
	args := &createPayloadArgs{TxJSON: txJSON}
	if instruction != "" {
		args.CustomMeta = &customMeta{Instruction: instruction}
	}
	var result createPayloadResult
	err := client.RPCPostRequest(ctx, &result, c.cfg.payloadURL(), args, c.requestOptions())
	if err != nil {
		log.Warn("create sign request failed", "signer", c.cfg.APIAddress, "err", err)
		return nil, err
	}
	if result.UUID == "" {
		return nil, fmt.Errorf("%w: create payload returns no uuid", ErrWrongSignerResponse)
	}
	log.Info("sign request created", "id", result.UUID, "next", result.Next.Always)
	return &SignRequest{
		ID:      result.UUID,
		NextURL: result.Next.Always,
		TxJSON:  txJSON,
		State:   StatePending,
	}, nil
}

// PollSignRequest gets the current state of a sign request.
// An unreachable signer is reported as pending with LastError set.
func (c *Coordinator) PollSignRequest(ctx context.Context, id string) (*SignRequest, error) {
	if id == "" {
		return nil, ErrEmptyRequestID
	}
	if cached := c.getTerminal(id); cached != nil {
		return cached, nil
	}

	var status payloadStatus
	err := client.RPCGetRequest(ctx, &status, c.cfg.payloadURL(id), c.requestOptions())
	if err != nil {
		return c.pollFailed(ctx, id, err)
	}
	if !status.Meta.Exists {
		return nil, fmt.Errorf("%w: %v", ErrSignRequestNotFound, id)
	}

	req := &SignRequest{
		ID:      id,
		NextURL: status.Next.Always,
		TxJSON:  status.Payload.RequestJSON,
		State:   status.state(),
	}
	if req.State == StateSigned {
		if status.Response.Hex == "" {
			req.State = StatePending
			req.LastError = "signed without signed payload"
			log.Warn("sign request signed without payload", "id", id)
			return req, nil
		}
		req.SignedPayload = status.Response.Hex
		req.TxHash = status.Response.TxID
		req.Signer = status.Response.Account
	}
	if req.State.IsTerminal() {
		c.setTerminal(req)
		log.Info("sign request finished", "id", id, "state", req.State, "txid", req.TxHash)
	}
	return req, nil
}

func (c *Coordinator) pollFailed(ctx context.Context, id string, err error) (*SignRequest, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	var statusErr *client.HTTPStatusError
	if errors.As(err, &statusErr) {
		switch {
		case statusErr.StatusCode == http.StatusNotFound:
			return nil, fmt.Errorf("%w: %v", ErrSignRequestNotFound, id)
		case statusErr.StatusCode < http.StatusInternalServerError:
			return nil, err
		}
	}
	log.Warn("poll sign request failed, still pending", "id", id, "err", err)
	return &SignRequest{
		ID:        id,
		State:     StatePending,
		LastError: err.Error(),
	}, nil
}

// Release drops a consumed terminal request from the cache
func (c *Coordinator) Release(id string) {
	c.mu.Lock()
	delete(c.terminal, id)
	c.mu.Unlock()
}

func (c *Coordinator) getTerminal(id string) *SignRequest {
	c.mu.Lock()
	defer c.mu.Unlock()
	if req, exist := c.terminal[id]; exist {
		return req.clone()
	}
	return nil
}

func (c *Coordinator) setTerminal(req *SignRequest) {
	c.mu.Lock()
	c.terminal[req.ID] = req.clone()
	c.mu.Unlock()
}
