package worker

import (
	"github.com/anyswap/Escrow-Bridge/mongodb"
	"github.com/anyswap/Escrow-Bridge/signer"
	"github.com/anyswap/Escrow-Bridge/tokens"
)

// Store records job progress, failures are logged and never stop a job
type Store interface {
	AddSignRequest(req *signer.SignRequest, instruction string)
	UpdateSignRequest(req *signer.SignRequest)
	AddSubmittedTx(signRequestID string, tx *tokens.SubmittedTransaction)
}

type nopStore struct{}

func (nopStore) AddSignRequest(*signer.SignRequest, string)          {}
func (nopStore) UpdateSignRequest(*signer.SignRequest)               {}
func (nopStore) AddSubmittedTx(string, *tokens.SubmittedTransaction) {}

// MongoStore records jobs in mongodb, requires mongodb.MongoServerInit
type MongoStore struct{}

// AddSignRequest impl Store
func (MongoStore) AddSignRequest(req *signer.SignRequest, instruction string) {
	err := mongodb.AddSignRequest(&mongodb.MgoSignRequest{
		Key:         req.ID,
		TxJSON:      string(req.TxJSON),
		Instruction: instruction,
		NextURL:     req.NextURL,
		State:       string(req.State),
	})
	if err != nil {
		logWorkerError(jobName, "record sign request failed", err, "id", req.ID)
	}
}

// UpdateSignRequest impl Store
func (MongoStore) UpdateSignRequest(req *signer.SignRequest) {
	err := mongodb.UpdateSignRequestState(req.ID, &mongodb.SignRequestUpdateItems{
		State:         string(req.State),
		SignedPayload: req.SignedPayload,
		TxHash:        req.TxHash,
		Signer:        req.Signer,
		LastError:     req.LastError,
	})
	if err != nil {
		logWorkerError(jobName, "update sign request failed", err, "id", req.ID, "state", req.State)
	}
}

// AddSubmittedTx impl Store
func (MongoStore) AddSubmittedTx(signRequestID string, tx *tokens.SubmittedTransaction) {
	if tx.Hash == "" {
		return
	}
	err := mongodb.AddSubmittedTx(&mongodb.MgoSubmittedTx{
		Key:         tx.Hash,
		SignRequest: signRequestID,
		Network:     tx.Network,
		Format:      tx.Format,
		ResultCode:  tx.ResultCode,
		Status:      string(tx.Status),
		Message:     tx.Message,
		LedgerIndex: tx.LedgerIndex,
	})
	if err != nil {
		logWorkerError(jobName, "record submitted tx failed", err, "hash", tx.Hash)
	}
}
