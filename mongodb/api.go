package mongodb

import (
	"github.com/anyswap/Escrow-Bridge/common"
	"github.com/anyswap/Escrow-Bridge/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// --------------- sign request --------------------------------

// AddSignRequest add sign request
func AddSignRequest(mr *MgoSignRequest) error {
	if !HasClient() {
		return ErrNotConnected
	}
	mr.App = appIdentifier
	mr.InitTime = common.NowMilli()
	mr.Timestamp = common.Now()
	ctx, cancel := withTimeout()
	defer cancel()
	_, err := collSignRequest.InsertOne(ctx, mr)
	if err == nil {
		log.Info("mongodb add sign request", "id", mr.Key)
	} else {
		log.Debug("mongodb add sign request failed", "id", mr.Key, "err", err)
	}
	return mgoError(err)
}

// UpdateSignRequestState update sign request state
func UpdateSignRequestState(id string, items *SignRequestUpdateItems) error {
	if !HasClient() {
		return ErrNotConnected
	}
	updates := signRequestUpdates(items)
	updates["timestamp"] = common.Now()
	ctx, cancel := withTimeout()
	defer cancel()
	res, err := collSignRequest.UpdateByID(ctx, id, bson.M{"$set": updates})
	if err != nil {
		log.Debug("mongodb update sign request failed", "id", id, "state", items.State, "err", err)
		return mgoError(err)
	}
	if res.MatchedCount == 0 {
		return ErrItemNotFound
	}
	log.Info("mongodb update sign request", "id", id, "state", items.State)
	return nil
}

func signRequestUpdates(items *SignRequestUpdateItems) bson.M {
	updates := bson.M{"state": items.State, "lasterror": items.LastError}
	if items.SignedPayload != "" {
		updates["signedpayload"] = items.SignedPayload
	}
	if items.TxHash != "" {
		updates["txhash"] = items.TxHash
	}
	if items.Signer != "" {
		updates["signer"] = items.Signer
	}
	return updates
}

// FindSignRequest find sign request
func FindSignRequest(id string) (*MgoSignRequest, error) {
	if !HasClient() {
		return nil, ErrNotConnected
	}
	result := &MgoSignRequest{}
	ctx, cancel := withTimeout()
	defer cancel()
	err := collSignRequest.FindOne(ctx, bson.M{"_id": id}).Decode(result)
	if err != nil {
		return nil, mgoError(err)
	}
	return result, nil
}

// --------------- submitted tx --------------------------------

// AddSubmittedTx add or replace submitted tx, keyed by hash
func AddSubmittedTx(mt *MgoSubmittedTx) error {
	if !HasClient() {
		return ErrNotConnected
	}
	mt.App = appIdentifier
	mt.Timestamp = common.Now()
	ctx, cancel := withTimeout()
	defer cancel()
	opts := options.Replace().SetUpsert(true)
	_, err := collSubmittedTx.ReplaceOne(ctx, bson.M{"_id": mt.Key}, mt, opts)
	if err == nil {
		log.Info("mongodb add submitted tx", "hash", mt.Key, "status", mt.Status)
	} else {
		log.Debug("mongodb add submitted tx failed", "hash", mt.Key, "err", err)
	}
	return mgoError(err)
}

// FindSubmittedTx find submitted tx
func FindSubmittedTx(hash string) (*MgoSubmittedTx, error) {
	if !HasClient() {
		return nil, ErrNotConnected
	}
	result := &MgoSubmittedTx{}
	ctx, cancel := withTimeout()
	defer cancel()
	err := collSubmittedTx.FindOne(ctx, bson.M{"_id": hash}).Decode(result)
	if err != nil {
		return nil, mgoError(err)
	}
	return result, nil
}

// FindSubmittedTxsWithStatus find submitted txs with status since septime (unix seconds)
func FindSubmittedTxsWithStatus(status string, septime int64, limit int64) ([]*MgoSubmittedTx, error) {
	if !HasClient() {
		return nil, ErrNotConnected
	}
	filter := bson.M{"status": status, "timestamp": bson.M{"$gte": septime}}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: 1}}).SetLimit(limit)
	ctx, cancel := withTimeout()
	defer cancel()
	cur, err := collSubmittedTx.Find(ctx, filter, opts)
	if err != nil {
		return nil, mgoError(err)
	}
	result := make([]*MgoSubmittedTx, 0, 20)
	if err = cur.All(ctx, &result); err != nil {
		return nil, mgoError(err)
	}
	return result, nil
}

// --------------- reconciliation --------------------------------

// UpdateReconciliation record the last reconciled state of an escrow
func UpdateReconciliation(mr *MgoReconciliation) error {
	if !HasClient() {
		return ErrNotConnected
	}
	mr.Timestamp = common.Now()
	ctx, cancel := withTimeout()
	defer cancel()
	_, err := collReconciliation.ReplaceOne(ctx, bson.M{"_id": mr.Key}, mr, options.Replace().SetUpsert(true))
	return mgoError(err)
}

// FindReconciliation find the last reconciled state of an escrow
func FindReconciliation(createTxHash string) (*MgoReconciliation, error) {
	if !HasClient() {
		return nil, ErrNotConnected
	}
	result := &MgoReconciliation{}
	ctx, cancel := withTimeout()
	defer cancel()
	err := collReconciliation.FindOne(ctx, bson.M{"_id": createTxHash}).Decode(result)
	if err != nil {
		return nil, mgoError(err)
	}
	return result, nil
}
