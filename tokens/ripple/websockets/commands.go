package websockets

import (
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/shopspring/decimal"
)

var counter uint64

// Syncer is a command waiting for its response
type Syncer interface {
	GetID() uint64
	Done()
	Fail(err error)
	Wait() <-chan struct{}
	Err() error
}

// CommandError error response of a command
type CommandError struct {
	Name    string `json:"error"`
	Code    int    `json:"error_code,omitempty"`
	Message string `json:"error_message,omitempty"`
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s %d %s", e.Name, e.Code, e.Message)
}

// not found error names
const (
	ErrNameAccountNotFound = "actNotFound"
	ErrNameTxNotFound      = "txnNotFound"
	ErrNameEntryNotFound   = "entryNotFound"
	ErrNameObjectNotFound  = "objectNotFound"
)

// Is maps not found error names to the tokens not found errors
func (e *CommandError) Is(target error) bool {
	switch e.Name {
	case ErrNameAccountNotFound:
		return target == tokens.ErrAccountNotFound || target == tokens.ErrNotFound
	case ErrNameTxNotFound:
		return target == tokens.ErrTxNotFound || target == tokens.ErrNotFound
	case ErrNameEntryNotFound, ErrNameObjectNotFound:
		return target == tokens.ErrNotFound
	default:
		return false
	}
}

// IsNotFound is account, transaction or ledger entry not found error
func IsNotFound(err error) bool {
	return tokens.IsNotFoundError(err)
}

// IsAccountNotFound is account not found error
func IsAccountNotFound(err error) bool {
	return errors.Is(err, tokens.ErrAccountNotFound)
}

// IsTxNotFound is transaction not found error
func IsTxNotFound(err error) bool {
	return errors.Is(err, tokens.ErrTxNotFound)
}

// Command common part of request and response
type Command struct {
	*CommandError
	ID     uint64 `json:"id"`
	Name   string `json:"command,omitempty"`
	Type   string `json:"type,omitempty"`
	Status string `json:"status,omitempty"`

	ready chan struct{}
	err   error
}

func newCommand(command string) *Command {
	return &Command{
		ID:    atomic.AddUint64(&counter, 1),
		Name:  command,
		ready: make(chan struct{}, 1),
	}
}

// GetID get command id
func (c *Command) GetID() uint64 {
	return c.ID
}

// Done response arrived
func (c *Command) Done() {
	c.ready <- struct{}{}
}

// Fail command failed without response
func (c *Command) Fail(err error) {
	c.err = err
	c.ready <- struct{}{}
}

// Wait returns a channel notified when the command finishes
func (c *Command) Wait() <-chan struct{} {
	return c.ready
}

// Err returns the command error
func (c *Command) Err() error {
	switch {
	case c.err != nil:
		return c.err
	case c.CommandError != nil:
		return c.CommandError
	case c.Status == "error":
		return &CommandError{Name: "unknownError", Message: "error status without error details"}
	default:
		return nil
	}
}

// AccountInfoCommand account_info
type AccountInfoCommand struct {
	*Command
	Account     string             `json:"account"`
	LedgerIndex string             `json:"ledger_index,omitempty"`
	Strict      bool               `json:"strict,omitempty"`
	Result      *AccountInfoResult `json:"result,omitempty"`
}

// AccountInfoResult account_info result
type AccountInfoResult struct {
	AccountData AccountData `json:"account_data"`
	LedgerIndex uint32      `json:"ledger_index,omitempty"`
	Validated   bool        `json:"validated"`
}

// AccountData account root fields
type AccountData struct {
	Account    string `json:"Account"`
	Balance    string `json:"Balance"` // drops
	Sequence   uint32 `json:"Sequence"`
	OwnerCount uint32 `json:"OwnerCount"`
	Flags      uint32 `json:"Flags"`
}

// AccountLinesCommand account_lines
type AccountLinesCommand struct {
	*Command
	Account     string              `json:"account"`
	Peer        string              `json:"peer,omitempty"`
	Limit       int                 `json:"limit,omitempty"`
	Marker      interface{}         `json:"marker,omitempty"`
	LedgerIndex string              `json:"ledger_index,omitempty"`
	Result      *AccountLinesResult `json:"result,omitempty"`
}

// AccountLinesResult account_lines result
type AccountLinesResult struct {
	Account string      `json:"account"`
	Lines   []TrustLine `json:"lines"`
	Marker  interface{} `json:"marker,omitempty"`
}

// TrustLine one trust line from the perspective of the queried account.
// Balance may be negative when the account owes the peer.
type TrustLine struct {
	Account   string          `json:"account"`
	Balance   decimal.Decimal `json:"balance"`
	Currency  string          `json:"currency"`
	Limit     decimal.Decimal `json:"limit"`
	LimitPeer decimal.Decimal `json:"limit_peer"`
}

// AccountObjectsCommand account_objects
type AccountObjectsCommand struct {
	*Command
	Account     string                `json:"account"`
	Type        string                `json:"type,omitempty"`
	Limit       int                   `json:"limit,omitempty"`
	Marker      interface{}           `json:"marker,omitempty"`
	LedgerIndex string                `json:"ledger_index,omitempty"`
	Result      *AccountObjectsResult `json:"result,omitempty"`
}

// AccountObjectsResult account_objects result
type AccountObjectsResult struct {
	Account        string      `json:"account"`
	AccountObjects []Object    `json:"account_objects"`
	Marker         interface{} `json:"marker,omitempty"`
}

// AccountTxParams account_tx request parameters.
// Use MinLedger -1 for the earliest ledger available and
// MaxLedger -1 for the most recent validated ledger.
type AccountTxParams struct {
	Account   string      `json:"account"`
	MinLedger int64       `json:"ledger_index_min"`
	MaxLedger int64       `json:"ledger_index_max"`
	Forward   bool        `json:"forward,omitempty"`
	Limit     int         `json:"limit,omitempty"`
	Marker    interface{} `json:"marker,omitempty"`
}

// AccountTxCommand account_tx
type AccountTxCommand struct {
	*Command
	AccountTxParams
	Result *AccountTxResult `json:"result,omitempty"`
}

// AccountTxResult account_tx result
type AccountTxResult struct {
	Account      string      `json:"account"`
	Transactions []*TxResult `json:"transactions"`
	Marker       interface{} `json:"marker,omitempty"`
}

// TxCommand tx
type TxCommand struct {
	*Command
	Transaction string    `json:"transaction"`
	Result      *TxResult `json:"result,omitempty"`
}

// SubmitCommand submit
type SubmitCommand struct {
	*Command
	TxBlob string        `json:"tx_blob"`
	Result *SubmitResult `json:"result,omitempty"`
}

// SubmitResult submit result, the engine result is provisional
type SubmitResult struct {
	EngineResult        string `json:"engine_result"`
	EngineResultCode    int    `json:"engine_result_code"`
	EngineResultMessage string `json:"engine_result_message"`
	TxBlob              string `json:"tx_blob"`
	Tx                  Object `json:"tx_json"`
	Accepted            bool   `json:"accepted"`
	Applied             bool   `json:"applied"`
	Queued              bool   `json:"queued"`
}

// Hash get submitted transaction hash
func (r *SubmitResult) Hash() string {
	return r.Tx.String("hash")
}
