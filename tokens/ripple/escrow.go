package ripple

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anyswap/Escrow-Bridge/common"
	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/anyswap/Escrow-Bridge/tokens/ripple/websockets"
)

// EscrowState reconciled state of an escrow
type EscrowState string

// escrow states
const (
	EscrowStateActive    EscrowState = "active"
	EscrowStateFinished  EscrowState = "finished"
	EscrowStateCancelled EscrowState = "cancelled"
	EscrowStateUnknown   EscrowState = "unknown"
)

// reasons of unknown escrow state
const (
	ReasonNotFound        = "creation transaction not found"
	ReasonWrongType       = "transaction is not an escrow creation"
	ReasonOwnerMismatch   = "escrow creation was sent by another account"
	ReasonNotValidated    = "creation transaction is not yet validated"
	ReasonCreationFailed  = "creation transaction failed"
	ReasonNotResolved     = "escrow object absent and no resolving transaction found"
	escrowLedgerEntryType = "escrow"
)

// EscrowDetail a live escrow object
type EscrowDetail struct {
	Owner          string     `json:"owner"`
	Destination    string     `json:"destination"`
	Amount         *Amount    `json:"amount"`
	FinishAfter    *time.Time `json:"finishAfter,omitempty"`
	CancelAfter    *time.Time `json:"cancelAfter,omitempty"`
	Condition      string     `json:"condition,omitempty"`
	DestinationTag *uint32    `json:"destinationTag,omitempty"`
	// ObjectSequence the escrow object's own sequence field, informational only
	ObjectSequence uint32 `json:"objectSequence,omitempty"`
	// OfferSequence the sequence finish and cancel transactions must reference
	OfferSequence uint32 `json:"offerSequence"`
	CreateTxHash  string `json:"createTxHash"`
	LedgerEntryID string `json:"ledgerEntryId,omitempty"`
}

// ReconcileInfo common fields of reconciliation results
type ReconcileInfo struct {
	CreateTxHash    string `json:"createTxHash"`
	Owner           string `json:"owner"`
	Network         string `json:"network"`
	NetworkMismatch bool   `json:"networkMismatch"`
}

// ReconciliationResult is one of *EscrowActive, *EscrowFinished, *EscrowCancelled or *EscrowUnknown
type ReconciliationResult interface {
	State() EscrowState
	info() *ReconcileInfo
}

// EscrowActive the escrow object still exists
type EscrowActive struct {
	ReconcileInfo
	Detail    *EscrowDetail `json:"detail"`
	CanFinish bool          `json:"canFinish"`
	CanCancel bool          `json:"canCancel"`
}

// EscrowResolved the escrow was finished or cancelled by ResolvingTxHash
type EscrowResolved struct {
	ReconcileInfo
	OfferSequence   uint32    `json:"offerSequence"`
	ResolvingTxHash string    `json:"resolvingTxHash"`
	ResolvedAt      time.Time `json:"resolvedAt"`
	LedgerIndex     uint32    `json:"ledgerIndex"`
}

// EscrowFinished funds were released to the destination
type EscrowFinished struct {
	EscrowResolved
}

// EscrowCancelled funds were returned to the owner
type EscrowCancelled struct {
	EscrowResolved
}

// EscrowUnknown the state could not be determined
type EscrowUnknown struct {
	ReconcileInfo
	Reason string `json:"reason"`
}

// State impl
func (r *EscrowActive) State() EscrowState { return EscrowStateActive }

// State impl
func (r *EscrowFinished) State() EscrowState { return EscrowStateFinished }

// State impl
func (r *EscrowCancelled) State() EscrowState { return EscrowStateCancelled }

// State impl
func (r *EscrowUnknown) State() EscrowState { return EscrowStateUnknown }

func (r *ReconcileInfo) info() *ReconcileInfo { return r }

// InfoOf get the common fields of a reconciliation result
func InfoOf(result ReconciliationResult) ReconcileInfo {
	return *result.info()
}

// ReconcileEscrow determines the state of the escrow created by createTxHash.
// It reads the live escrow objects of owner first, then scans the owner history
// from the creation ledger for the finish or cancel transaction.
func (b *Bridge) ReconcileEscrow(ctx context.Context, createTxHash, owner string) (ReconciliationResult, error) {
	createTxHash = strings.ToUpper(strings.TrimSpace(createTxHash))
	if len(createTxHash) != 64 || !common.IsHexString(createTxHash) {
		return nil, fmt.Errorf("%w: wrong transaction hash %v", tokens.ErrMissingParameter, createTxHash)
	}
	if err := checkAddress("owner", owner); err != nil {
		return nil, err
	}

	var result ReconciliationResult
	gateway, found, err := b.withNetworkFallback(ctx, "reconcile", createTxHash,
		func(ctx context.Context, gateway *Gateway) (bool, error) {
			res, err := b.reconcileOn(ctx, gateway, createTxHash, owner)
			if err != nil || res == nil {
				return false, err
			}
			result = res
			return true, nil
		})
	if err != nil {
		return nil, err
	}
	if !found {
		log.Debug("escrow creation not found", "hash", createTxHash, "owner", owner, "network", gateway.Network)
		result = &EscrowUnknown{Reason: ReasonNotFound}
	}
	info := result.info()
	info.CreateTxHash = createTxHash
	info.Owner = owner
	info.Network = gateway.Network
	info.NetworkMismatch = found && gateway != b.primaryGateway()
	log.Info("escrow reconciled", "hash", createTxHash, "owner", owner, "state", result.State(), "network", info.Network)
	return result, nil
}

// reconcileOn returns nil result if the creation transaction is not on the gateway network
func (b *Bridge) reconcileOn(ctx context.Context, gateway *Gateway, createTxHash, owner string) (result ReconciliationResult, err error) {
	err = gateway.Do(ctx, func(conn Conn) error {
		createTx, err := conn.Tx(ctx, createTxHash)
		if websockets.IsTxNotFound(err) {
			return nil
		}
		if err != nil {
			return err
		}

		switch {
		case createTx.TransactionType() != TxTypeEscrowCreate:
			result = &EscrowUnknown{Reason: ReasonWrongType}
			return nil
		case createTx.Tx.String("Account") != owner:
			result = &EscrowUnknown{Reason: ReasonOwnerMismatch}
			return nil
		case !createTx.Validated:
			result = &EscrowUnknown{Reason: ReasonNotValidated}
			return nil
		case createTx.Result() != "" && createTx.Result() != ResultSuccess:
			result = &EscrowUnknown{Reason: ReasonCreationFailed + ": " + createTx.Result()}
			return nil
		}
		offerSequence := escrowOfferSequence(createTx)

		object, err := b.findEscrowObject(ctx, conn, owner, createTxHash)
		if err != nil {
			return err
		}
		if object != nil {
			detail, err := parseEscrowDetail(object, offerSequence, createTxHash)
			if err != nil {
				return err
			}
			result = b.newEscrowActive(detail)
			return nil
		}

		result, err = b.scanEscrowHistory(ctx, conn, owner, offerSequence, createTx.LedgerIndex)
		return err
	})
	return result, err
}

// escrowOfferSequence the account sequence of the creation, or its ticket sequence
func escrowOfferSequence(createTx *websockets.TxResult) uint32 {
	sequence, _ := createTx.Tx.Uint32("Sequence")
	if sequence == 0 {
		sequence, _ = createTx.Tx.Uint32("TicketSequence")
	}
	return sequence
}

func (b *Bridge) findEscrowObject(ctx context.Context, conn Conn, owner, createTxHash string) (websockets.Object, error) {
	var marker interface{}
	for {
		res, err := conn.AccountObjects(ctx, owner, escrowLedgerEntryType, b.Config.GetPageSize(), marker)
		if websockets.IsAccountNotFound(err) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		for _, object := range res.AccountObjects {
			if strings.EqualFold(object.String("PreviousTxnID"), createTxHash) {
				return object, nil
			}
		}
		if res.Marker == nil {
			return nil, nil
		}
		marker = res.Marker
	}
}

func parseEscrowDetail(object websockets.Object, offerSequence uint32, createTxHash string) (*EscrowDetail, error) {
	amount, err := parseLedgerAmount(object["Amount"])
	if err != nil {
		return nil, err
	}
	detail := &EscrowDetail{
		Owner:         object.String("Account"),
		Destination:   object.String("Destination"),
		Amount:        amount,
		Condition:     object.String("Condition"),
		OfferSequence: offerSequence,
		CreateTxHash:  createTxHash,
		LedgerEntryID: object.String("index"),
	}
	if finishAfter, ok := object.Uint32("FinishAfter"); ok {
		t := FromRippleTime(finishAfter)
		detail.FinishAfter = &t
	}
	if cancelAfter, ok := object.Uint32("CancelAfter"); ok {
		t := FromRippleTime(cancelAfter)
		detail.CancelAfter = &t
	}
	if tag, ok := object.Uint32("DestinationTag"); ok {
		detail.DestinationTag = &tag
	}
	detail.ObjectSequence, _ = object.Uint32("Sequence")
	return detail, nil
}

func (b *Bridge) newEscrowActive(detail *EscrowDetail) *EscrowActive {
	now := b.now()
	return &EscrowActive{
		Detail:    detail,
		CanFinish: detail.FinishAfter == nil || now.After(*detail.FinishAfter),
		CanCancel: detail.CancelAfter != nil && now.After(*detail.CancelAfter),
	}
}

// scanEscrowHistory looks for a successful finish or cancel referencing owner and offerSequence
func (b *Bridge) scanEscrowHistory(ctx context.Context, conn Conn, owner string, offerSequence, fromLedger uint32) (ReconciliationResult, error) {
	limit := b.Config.GetHistoryLimit()
	pageSize := b.Config.GetPageSize()
	params := websockets.AccountTxParams{
		Account:   owner,
		MinLedger: int64(fromLedger),
		MaxLedger: -1,
		Forward:   true,
	}
	if fromLedger == 0 {
		params.MinLedger = -1
	}

	scanned := 0
	for scanned < limit {
		params.Limit = pageSize
		if remain := limit - scanned; remain < pageSize {
			params.Limit = remain
		}
		page, err := conn.AccountTx(ctx, params)
		if err != nil {
			return nil, err
		}
		for _, txr := range page.Transactions {
			scanned++
			if resolved := matchEscrowResolution(txr, owner, offerSequence); resolved != nil {
				return resolved, nil
			}
		}
		if page.Marker == nil || len(page.Transactions) == 0 {
			break
		}
		params.Marker = page.Marker
	}
	log.Debug("no escrow resolution in history", "owner", owner, "offerSequence", offerSequence,
		"fromLedger", fromLedger, "scanned", scanned)
	return &EscrowUnknown{Reason: ReasonNotResolved}, nil
}

func matchEscrowResolution(txr *websockets.TxResult, owner string, offerSequence uint32) ReconciliationResult {
	txType := txr.TransactionType()
	if txType != TxTypeEscrowFinish && txType != TxTypeEscrowCancel {
		return nil
	}
	if !txr.Validated || txr.Result() != ResultSuccess {
		return nil
	}
	if txr.Tx.String("Owner") != owner {
		return nil
	}
	if seq, ok := txr.Tx.Uint32("OfferSequence"); !ok || seq != offerSequence {
		return nil
	}
	resolved := EscrowResolved{
		OfferSequence:   offerSequence,
		ResolvingTxHash: txr.Hash,
		LedgerIndex:     txr.LedgerIndex,
	}
	resolved.ResolvedAt, _ = txr.CloseTime()
	if txType == TxTypeEscrowFinish {
		return &EscrowFinished{EscrowResolved: resolved}
	}
	return &EscrowCancelled{EscrowResolved: resolved}
}
