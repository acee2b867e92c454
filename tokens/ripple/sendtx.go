package ripple

import (
	"context"
	"errors"

	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/anyswap/Escrow-Bridge/tokens"
)

// Submit submits a signed payload and waits for its final result.
// A rejected transaction returns the result together with a *tokens.LedgerRejectedError,
// a timeout returns the processing result together with a *tokens.SubmitTimeoutError.
func (b *Bridge) Submit(ctx context.Context, input interface{}) (*tokens.SubmittedTransaction, error) {
	payload, err := ParseSignedPayload(input)
	if err != nil {
		return nil, err
	}
	txBlob, err := payload.TxBlob()
	if err != nil {
		return nil, err
	}

	gateway := b.primaryGateway()
	result := &tokens.SubmittedTransaction{
		TxBlob:  txBlob,
		Format:  payload.Format(),
		Status:  tokens.TxProcessing,
		Network: gateway.Network,
	}

	timeout := b.Config.GetSubmitTimeout()
	submitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var outcome *SubmitOutcome
	err = gateway.Do(submitCtx, func(conn Conn) (err error) {
		outcome, err = submitAndWait(submitCtx, conn, txBlob)
		return err
	})
	if outcome != nil {
		result.Hash = outcome.Hash
		result.ResultCode = outcome.Result
		result.LedgerIndex = outcome.LedgerIndex
	}
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			log.Warn("submit transaction timeout", "hash", result.Hash, "timeout", timeout, "lastResult", result.ResultCode)
			result.Message = "no final result yet, check again later"
			return result, &tokens.SubmitTimeoutError{Hash: result.Hash, Timeout: timeout.String()}
		}
		log.Warn("submit transaction failed", "hash", result.Hash, "format", result.Format, "err", err)
		return nil, err
	}

	result.Message = DescribeResult(outcome.Result)
	if outcome.Result != ResultSuccess {
		result.Status = tokens.TxFailed
		log.Info("transaction rejected", "hash", result.Hash, "result", outcome.Result, "message", result.Message)
		return result, &tokens.LedgerRejectedError{
			Code:    outcome.Result,
			Message: result.Message,
			Hash:    result.Hash,
		}
	}
	result.Status = tokens.TxCompleted
	log.Info("transaction completed", "hash", result.Hash, "ledger", result.LedgerIndex, "network", result.Network)
	return result, nil
}
