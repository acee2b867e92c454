package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anyswap/Escrow-Bridge/params"
	"github.com/anyswap/Escrow-Bridge/signer"
	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/anyswap/Escrow-Bridge/tokens/ripple"
	"golang.org/x/time/rate"
)

const jobName = "signAndSubmit"

// worker errors
var (
	ErrSignRejected = errors.New("sign request rejected by wallet owner")
	ErrSignExpired  = errors.New("sign request expired")
	ErrSignTimeout  = errors.New("timeout waiting for signature")
	ErrEmptyJob     = errors.New("empty sign and submit job")
)

// SignRequester creates and polls sign requests
type SignRequester interface {
	CreateSignRequest(ctx context.Context, txJSON json.RawMessage, instruction string) (*signer.SignRequest, error)
	PollSignRequest(ctx context.Context, id string) (*signer.SignRequest, error)
	Release(id string)
}

// Submitter submits signed payloads
type Submitter interface {
	Submit(ctx context.Context, input interface{}) (*tokens.SubmittedTransaction, error)
}

// Job a prepared transaction to sign and submit
type Job struct {
	Tx *ripple.PreparedTx

	// zero values take the worker defaults
	PollInterval time.Duration
	SignTimeout  time.Duration
}

// JobResult the final sign request and submission of a job
type JobResult struct {
	Request   *signer.SignRequest
	Submitted *tokens.SubmittedTransaction
}

// Worker drives jobs through signing and submission
type Worker struct {
	signer    SignRequester
	submitter Submitter
	store     Store
	cfg       *params.WorkerConfig
}

// NewWorker new worker, store may be nil
func NewWorker(signReq SignRequester, submitter Submitter, store Store, cfg *params.WorkerConfig) *Worker {
	if cfg == nil {
		cfg = &params.WorkerConfig{}
	}
	if store == nil {
		store = nopStore{}
	}
	return &Worker{
		signer:    signReq,
		submitter: submitter,
		store:     store,
		cfg:       cfg,
	}
}

// SignAndSubmit creates a sign request for the job, waits until it is resolved
// and submits the signed payload. A submission that was rejected or timed out
// returns the result together with the submission error.
func (w *Worker) SignAndSubmit(ctx context.Context, job *Job) (*JobResult, error) {
	if job == nil || job.Tx == nil || len(job.Tx.TxJSON) == 0 {
		return nil, ErrEmptyJob
	}
	req, err := w.signer.CreateSignRequest(ctx, job.Tx.TxJSON, job.Tx.Instruction)
	if err != nil {
		logWorkerError(jobName, "create sign request failed", err, "type", txType(job.Tx))
		return nil, err
	}
	logWorker(jobName, "sign request created", "id", req.ID, "type", txType(job.Tx), "next", req.NextURL)
	w.store.AddSignRequest(req, job.Tx.Instruction)

	req, err = w.waitSigned(ctx, job, req.ID)
	if err != nil {
		return &JobResult{Request: req}, err
	}

	result := &JobResult{Request: req}
	result.Submitted, err = w.submitter.Submit(ctx, req.SignedPayload)
	if result.Submitted != nil {
		w.store.AddSubmittedTx(req.ID, result.Submitted)
	}
	if err != nil {
		logWorkerError(jobName, "submit signed transaction failed", err, "id", req.ID, "txid", req.TxHash)
		return result, err
	}
	logWorker(jobName, "sign and submit finished", "id", req.ID, "hash", result.Submitted.Hash, "status", result.Submitted.Status)
	return result, nil
}

func (w *Worker) waitSigned(ctx context.Context, job *Job, id string) (req *signer.SignRequest, err error) {
	interval, timeout := job.PollInterval, job.SignTimeout
	if interval <= 0 {
		interval = w.cfg.GetPollInterval()
	}
	if timeout <= 0 {
		timeout = w.cfg.GetSignTimeout()
	}
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	limiter := rate.NewLimiter(rate.Every(interval), 1)
	for {
		if err = limiter.Wait(waitCtx); err != nil {
			return req, w.waitFailed(ctx, id, timeout, err)
		}
		var polled *signer.SignRequest
		polled, err = w.signer.PollSignRequest(waitCtx, id)
		if err != nil {
			if waitCtx.Err() != nil {
				return req, w.waitFailed(ctx, id, timeout, err)
			}
			logWorkerError(jobName, "poll sign request failed", err, "id", id)
			return req, err
		}
		req = polled
		if req.LastError != "" {
			logWorkerWarn(jobName, "sign request still pending", errors.New(req.LastError), "id", id)
		} else {
			logWorkerTrace(jobName, "sign request polled", "id", id, "state", req.State)
		}
		if !req.State.IsTerminal() {
			continue
		}
		w.store.UpdateSignRequest(req)
		w.signer.Release(id)
		switch req.State {
		case signer.StateSigned:
			logWorker(jobName, "sign request signed", "id", id, "txid", req.TxHash, "signer", req.Signer)
			return req, nil
		case signer.StateExpired:
			return req, fmt.Errorf("%w: %v", ErrSignExpired, id)
		default:
			return req, fmt.Errorf("%w: %v", ErrSignRejected, id)
		}
	}
}

func (w *Worker) waitFailed(ctx context.Context, id string, timeout time.Duration, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	logWorkerWarn(jobName, "stop waiting for signature", err, "id", id, "timeout", timeout)
	return fmt.Errorf("%w: %v after %v", ErrSignTimeout, id, timeout)
}

func txType(tx *ripple.PreparedTx) string {
	if tx.Tx == nil {
		return ""
	}
	return tx.Tx.TransactionType
}
