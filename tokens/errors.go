package tokens

import (
	"errors"
	"fmt"
)

// common errors
var (
	ErrNotFound        = errors.New("not found")
	ErrTxNotFound      = errors.New("tx not found")
	ErrAccountNotFound = errors.New("account not found")
	ErrRPCQueryError   = errors.New("rpc query error")
	ErrSubmitTimeout   = errors.New("submit timeout")

	ErrWrongAddress      = errors.New("wrong address")
	ErrWrongAmount       = errors.New("wrong amount")
	ErrWrongCurrency     = errors.New("wrong currency")
	ErrWrongTimeBounds   = errors.New("cancel time must be after finish time")
	ErrMissingParameter  = errors.New("missing parameter")
	ErrUnknownNetwork    = errors.New("unknown network")
	ErrUnknownAsset      = errors.New("unknown asset")
	ErrRateCacheClosed   = errors.New("rate cache closed")
	ErrRateLoaderMissing = errors.New("rate loader not configured")
)

// PayloadErrorKind classify malformed signed payloads
type PayloadErrorKind string

// payload error kinds
const (
	PayloadIdentifier  PayloadErrorKind = "identifier"
	PayloadTooShort    PayloadErrorKind = "too_short"
	PayloadNotHex      PayloadErrorKind = "not_hex"
	PayloadMissingType PayloadErrorKind = "missing_transaction_type"
	PayloadUnsupported PayloadErrorKind = "unsupported"
)

// PayloadError is returned for a signed payload that cannot be submitted.
// It is never retryable, the caller must supply a different payload.
type PayloadError struct {
	Kind   PayloadErrorKind
	Format string
	Detail string
}

func (e *PayloadError) Error() string {
	var msg string
	switch e.Kind {
	case PayloadIdentifier:
		msg = "payload looks like a sign request identifier, not a signed transaction; poll the request and submit its signed hex"
	case PayloadTooShort:
		msg = "payload is too short to be a signed transaction blob"
	case PayloadNotHex:
		msg = "payload is neither JSON nor a hex encoded transaction blob"
	case PayloadMissingType:
		msg = "transaction object has no TransactionType field"
	default:
		msg = "unsupported payload"
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

// IsPayloadError checks whether err is a malformed payload error
func IsPayloadError(err error) bool {
	var perr *PayloadError
	return errors.As(err, &perr)
}

// LedgerRejectedError is returned when the ledger gives a final non-success result.
type LedgerRejectedError struct {
	Code    string
	Message string
	Hash    string
}

func (e *LedgerRejectedError) Error() string {
	if e.Message == "" || e.Message == e.Code {
		return fmt.Sprintf("transaction rejected by ledger: %v", e.Code)
	}
	return fmt.Sprintf("transaction rejected by ledger: %v (%v)", e.Message, e.Code)
}

// SubmitTimeoutError is returned when no final result arrives in time.
// The transaction may still be applied later.
type SubmitTimeoutError struct {
	Hash    string
	Timeout string
}

func (e *SubmitTimeoutError) Error() string {
	return fmt.Sprintf("no final result for %v within %v, status is still processing", e.Hash, e.Timeout)
}

func (e *SubmitTimeoutError) Unwrap() error {
	return ErrSubmitTimeout
}

// IsNotFoundError is not found error, ledger error responses match by name
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrTxNotFound) ||
		errors.Is(err, ErrAccountNotFound)
}
