package ripple

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/anyswap/Escrow-Bridge/common"
	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/shopspring/decimal"
)

// transaction types
const (
	TxTypePayment      = "Payment"
	TxTypeEscrowCreate = "EscrowCreate"
	TxTypeEscrowFinish = "EscrowFinish"
	TxTypeEscrowCancel = "EscrowCancel"
)

// Memo transaction memo
type Memo struct {
	Memo MemoFields `json:"Memo"`
}

// MemoFields memo content, hex encoded
type MemoFields struct {
	MemoType string `json:"MemoType,omitempty"`
	MemoData string `json:"MemoData,omitempty"`
}

// UnsignedTx transaction envelope handed to the external signer
type UnsignedTx struct {
	TransactionType    string      `json:"TransactionType"`
	Account            string      `json:"Account"`
	Destination        string      `json:"Destination,omitempty"`
	Amount             interface{} `json:"Amount,omitempty"`
	DestinationTag     *uint32     `json:"DestinationTag,omitempty"`
	FinishAfter        uint32      `json:"FinishAfter,omitempty"`
	CancelAfter        uint32      `json:"CancelAfter,omitempty"`
	Condition          string      `json:"Condition,omitempty"`
	Fulfillment        string      `json:"Fulfillment,omitempty"`
	Owner              string      `json:"Owner,omitempty"`
	OfferSequence      uint32      `json:"OfferSequence,omitempty"`
	Fee                string      `json:"Fee,omitempty"`
	Sequence           uint32      `json:"Sequence,omitempty"`
	LastLedgerSequence uint32      `json:"LastLedgerSequence,omitempty"`
	Memos              []Memo      `json:"Memos,omitempty"`
}

// PreparedTx an unsigned transaction ready for signing
type PreparedTx struct {
	Tx          *UnsignedTx     `json:"tx"`
	TxJSON      json.RawMessage `json:"txJson"`
	TxBlob      string          `json:"txBlob"`
	Instruction string          `json:"instruction"`
}

// TxOptions optional fields usually filled by the signer
type TxOptions struct {
	Fee                string // drops
	Sequence           uint32
	LastLedgerSequence uint32
}

// PaymentArgs payment arguments, Currency empty or XRP means native
type PaymentArgs struct {
	TxOptions
	Account        string
	Destination    string
	Amount         string // display units
	Currency       string
	Issuer         string
	DestinationTag *uint32
	Memo           string
}

// EscrowCreateArgs escrow create arguments, amount is native
type EscrowCreateArgs struct {
	TxOptions
	Account        string
	Destination    string
	Amount         string // display units
	FinishAfter    *time.Time
	CancelAfter    *time.Time
	Condition      string // hex
	DestinationTag *uint32
	Memo           string
}

// EscrowFinishArgs escrow finish arguments, Account defaults to Owner
type EscrowFinishArgs struct {
	TxOptions
	Owner         string
	Account       string
	OfferSequence uint32
	Condition     string // hex
	Fulfillment   string // hex
}

// EscrowCancelArgs escrow cancel arguments, Account defaults to Owner
type EscrowCancelArgs struct {
	TxOptions
	Owner         string
	Account       string
	OfferSequence uint32
}

// BuildPayment build unsigned payment
func BuildPayment(args *PaymentArgs) (*PreparedTx, error) {
	if err := checkAddress("Account", args.Account); err != nil {
		return nil, err
	}
	if err := checkAddress("Destination", args.Destination); err != nil {
		return nil, err
	}
	tx := &UnsignedTx{
		TransactionType: TxTypePayment,
		Account:         args.Account,
		Destination:     args.Destination,
		DestinationTag:  args.DestinationTag,
		Memos:           buildMemos(args.Memo),
	}
	if err := applyOptions(tx, &args.TxOptions); err != nil {
		return nil, err
	}

	var display string
	if args.Currency == "" || strings.EqualFold(args.Currency, NativeCurrency) {
		drops, err := ToDrops(args.Amount)
		if err != nil {
			return nil, err
		}
		if drops == 0 {
			return nil, fmt.Errorf("%w: zero amount", tokens.ErrWrongAmount)
		}
		tx.Amount = strconv.FormatInt(drops, 10)
		display = DropsToDisplay(drops).String() + " " + NativeCurrency
	} else {
		amount, err := buildIssuedAmount(args.Amount, args.Currency, args.Issuer)
		if err != nil {
			return nil, err
		}
		tx.Amount = amount
		display = fmt.Sprintf("%v %v issued by %v", amount.Value, args.Currency, args.Issuer)
	}

	instruction := fmt.Sprintf("Send %v from %v to %v", display, args.Account, args.Destination)
	if args.DestinationTag != nil {
		instruction += fmt.Sprintf(" (destination tag %d)", *args.DestinationTag)
	}
	return prepare(tx, instruction)
}

func buildIssuedAmount(amount, currency, issuer string) (*IssuedAmount, error) {
	if err := checkAddress("Issuer", issuer); err != nil {
		return nil, err
	}
	code, err := EncodeCurrency(currency)
	if err != nil {
		return nil, err
	}
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil || !value.IsPositive() {
		return nil, fmt.Errorf("%w: %v", tokens.ErrWrongAmount, amount)
	}
	return &IssuedAmount{Currency: code, Issuer: issuer, Value: value.String()}, nil
}

// BuildEscrowCreate build unsigned escrow create
func BuildEscrowCreate(args *EscrowCreateArgs) (*PreparedTx, error) {
	if err := checkAddress("Account", args.Account); err != nil {
		return nil, err
	}
	if err := checkAddress("Destination", args.Destination); err != nil {
		return nil, err
	}
	drops, err := ToDrops(args.Amount)
	if err != nil {
		return nil, err
	}
	if drops == 0 {
		return nil, fmt.Errorf("%w: zero amount", tokens.ErrWrongAmount)
	}
	tx := &UnsignedTx{
		TransactionType: TxTypeEscrowCreate,
		Account:         args.Account,
		Destination:     args.Destination,
		Amount:          strconv.FormatInt(drops, 10),
		DestinationTag:  args.DestinationTag,
		Memos:           buildMemos(args.Memo),
	}
	if err = applyOptions(tx, &args.TxOptions); err != nil {
		return nil, err
	}

	instruction := fmt.Sprintf("Lock %v %v in escrow from %v to %v", DropsToDisplay(drops), NativeCurrency, args.Account, args.Destination)
	if args.FinishAfter != nil {
		if tx.FinishAfter, err = ToRippleTime(*args.FinishAfter); err != nil {
			return nil, err
		}
		instruction += ", releasable after " + args.FinishAfter.UTC().Format(time.RFC3339)
	}
	if args.CancelAfter != nil {
		if tx.CancelAfter, err = ToRippleTime(*args.CancelAfter); err != nil {
			return nil, err
		}
		instruction += ", cancellable after " + args.CancelAfter.UTC().Format(time.RFC3339)
	}
	if tx.FinishAfter != 0 && tx.CancelAfter != 0 && tx.CancelAfter <= tx.FinishAfter {
		return nil, tokens.ErrWrongTimeBounds
	}
	if args.Condition != "" {
		if tx.Condition, err = checkHexField("Condition", args.Condition); err != nil {
			return nil, err
		}
		instruction += ", on fulfillment of a crypto-condition"
	}
	return prepare(tx, instruction)
}

// BuildEscrowFinish build unsigned escrow finish
func BuildEscrowFinish(args *EscrowFinishArgs) (*PreparedTx, error) {
	tx, err := buildEscrowResolve(TxTypeEscrowFinish, args.Owner, args.Account, args.OfferSequence, &args.TxOptions)
	if err != nil {
		return nil, err
	}
	if (args.Condition == "") != (args.Fulfillment == "") {
		return nil, fmt.Errorf("%w: Condition and Fulfillment must be given together", tokens.ErrMissingParameter)
	}
	if args.Condition != "" {
		if tx.Condition, err = checkHexField("Condition", args.Condition); err != nil {
			return nil, err
		}
		if tx.Fulfillment, err = checkHexField("Fulfillment", args.Fulfillment); err != nil {
			return nil, err
		}
	}
	instruction := fmt.Sprintf("Release escrow %v:%d to its destination", tx.Owner, tx.OfferSequence)
	return prepare(tx, instruction)
}

// BuildEscrowCancel build unsigned escrow cancel
func BuildEscrowCancel(args *EscrowCancelArgs) (*PreparedTx, error) {
	tx, err := buildEscrowResolve(TxTypeEscrowCancel, args.Owner, args.Account, args.OfferSequence, &args.TxOptions)
	if err != nil {
		return nil, err
	}
	instruction := fmt.Sprintf("Cancel escrow %v:%d and return the funds to the owner", tx.Owner, tx.OfferSequence)
	return prepare(tx, instruction)
}

func buildEscrowResolve(txType, owner, account string, offerSequence uint32, opts *TxOptions) (*UnsignedTx, error) {
	if account == "" {
		account = owner
	}
	if err := checkAddress("Owner", owner); err != nil {
		return nil, err
	}
	if err := checkAddress("Account", account); err != nil {
		return nil, err
	}
	if offerSequence == 0 {
		return nil, fmt.Errorf("%w: OfferSequence", tokens.ErrMissingParameter)
	}
	tx := &UnsignedTx{
		TransactionType: txType,
		Account:         account,
		Owner:           owner,
		OfferSequence:   offerSequence,
	}
	if err := applyOptions(tx, opts); err != nil {
		return nil, err
	}
	return tx, nil
}

func applyOptions(tx *UnsignedTx, opts *TxOptions) error {
	if opts.Fee != "" {
		if _, err := strconv.ParseUint(opts.Fee, 10, 64); err != nil {
			return fmt.Errorf("%w: fee %v", tokens.ErrWrongAmount, opts.Fee)
		}
		tx.Fee = opts.Fee
	}
	tx.Sequence = opts.Sequence
	tx.LastLedgerSequence = opts.LastLedgerSequence
	return nil
}

func checkHexField(field, value string) (string, error) {
	if !common.IsHexString(value) {
		return "", fmt.Errorf("%v must be hex: %v", field, value)
	}
	return strings.ToUpper(value), nil
}

func buildMemos(memo string) []Memo {
	if memo == "" {
		return nil
	}
	return []Memo{{Memo: MemoFields{MemoData: strings.ToUpper(hex.EncodeToString([]byte(memo)))}}}
}

func prepare(tx *UnsignedTx, instruction string) (*PreparedTx, error) {
	txJSON, err := json.Marshal(tx)
	if err != nil {
		return nil, err
	}
	fields, err := decodeTxJSON(txJSON)
	if err != nil {
		return nil, err
	}
	txBlob, err := encodeTx(fields)
	if err != nil {
		return nil, err
	}
	return &PreparedTx{
		Tx:          tx,
		TxJSON:      txJSON,
		TxBlob:      txBlob,
		Instruction: instruction,
	}, nil
}
