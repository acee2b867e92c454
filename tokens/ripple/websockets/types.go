package websockets

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// RippleEpoch ledger times are seconds since 2000-01-01T00:00:00Z
const RippleEpoch int64 = 946684800

// Object is a JSON object (transaction or ledger entry) with numbers kept exact.
type Object map[string]interface{}

// UnmarshalJSON decode keeping numbers as json.Number
func (o *Object) UnmarshalJSON(b []byte) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var m map[string]interface{}
	if err := dec.Decode(&m); err != nil {
		return err
	}
	*o = m
	return nil
}

// Has checks whether key exists
func (o Object) Has(key string) bool {
	_, exist := o[key]
	return exist
}

// String get string field, empty if missing or not a string
func (o Object) String(key string) string {
	s, _ := o[key].(string)
	return s
}

// Uint32 get unsigned 32 bit integer field
func (o Object) Uint32(key string) (uint32, bool) {
	return toUint32(o[key])
}

// Object get nested object field
func (o Object) Object(key string) Object {
	switch v := o[key].(type) {
	case Object:
		return v
	case map[string]interface{}:
		return v
	default:
		return nil
	}
}

func toUint32(value interface{}) (uint32, bool) {
	var (
		n   uint64
		err error
	)
	switch v := value.(type) {
	case json.Number:
		n, err = strconv.ParseUint(v.String(), 10, 32)
	case string:
		n, err = strconv.ParseUint(v, 10, 32)
	case float64:
		if v < 0 || v > 0xFFFFFFFF || v != float64(uint32(v)) {
			return 0, false
		}
		return uint32(v), true
	case uint32:
		return v, true
	case int:
		if v < 0 || v > 0xFFFFFFFF {
			return 0, false
		}
		return uint32(v), true
	case int64:
		if v < 0 || v > 0xFFFFFFFF {
			return 0, false
		}
		return uint32(v), true
	case uint64:
		if v > 0xFFFFFFFF {
			return 0, false
		}
		return uint32(v), true
	default:
		return 0, false
	}
	if err != nil {
		return 0, false
	}
	return uint32(n), true
}

// TxMeta transaction metadata
type TxMeta struct {
	TransactionResult string      `json:"TransactionResult"`
	TransactionIndex  uint32      `json:"TransactionIndex"`
	DeliveredAmount   interface{} `json:"delivered_amount,omitempty"`
}

// TxResult a transaction with its ledger outcome.
// It accepts both the flat `tx` layout and the `tx_json` layout.
type TxResult struct {
	Hash         string
	LedgerIndex  uint32
	Validated    bool
	Date         uint32 // seconds since RippleEpoch
	CloseTimeISO string
	Tx           Object
	Meta         *TxMeta
}

// fields of the response envelope, not of the transaction
var envelopeFields = []string{
	"meta", "metaData", "validated", "ledger_index", "ledger_hash", "hash",
	"date", "inLedger", "ctid", "close_time_iso", "warnings",
}

// UnmarshalJSON decode tx / account_tx transaction entries
func (txr *TxResult) UnmarshalJSON(b []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return err
	}

	var tx Object
	var err error
	switch {
	case isJSONObject(fields["tx_json"]):
		err = json.Unmarshal(fields["tx_json"], &tx)
	case isJSONObject(fields["tx"]):
		err = json.Unmarshal(fields["tx"], &tx)
	default:
		err = json.Unmarshal(b, &tx)
		for _, key := range envelopeFields {
			delete(tx, key)
		}
	}
	if err != nil {
		return err
	}
	txr.Tx = tx

	txr.Hash = rawString(fields["hash"])
	if txr.Hash == "" {
		txr.Hash = tx.String("hash")
	}
	txr.LedgerIndex, _ = rawUint32(fields["ledger_index"])
	if txr.LedgerIndex == 0 {
		txr.LedgerIndex, _ = tx.Uint32("ledger_index")
	}
	txr.Date, _ = rawUint32(fields["date"])
	if txr.Date == 0 {
		txr.Date, _ = tx.Uint32("date")
	}
	txr.CloseTimeISO = rawString(fields["close_time_iso"])
	if validated, exist := fields["validated"]; exist {
		_ = json.Unmarshal(validated, &txr.Validated)
	}

	meta := fields["meta"]
	if meta == nil {
		meta = fields["metaData"]
	}
	if isJSONObject(meta) {
		txr.Meta = new(TxMeta)
		if err := json.Unmarshal(meta, txr.Meta); err != nil {
			return err
		}
	}
	return nil
}

// TransactionType get transaction type
func (txr *TxResult) TransactionType() string {
	return txr.Tx.String("TransactionType")
}

// Result get final engine result, empty if not yet applied
func (txr *TxResult) Result() string {
	if txr.Meta == nil {
		return ""
	}
	return txr.Meta.TransactionResult
}

// CloseTime get the close time of the containing ledger
func (txr *TxResult) CloseTime() (time.Time, bool) {
	if txr.Date != 0 {
		return time.Unix(RippleEpoch+int64(txr.Date), 0).UTC(), true
	}
	if txr.CloseTimeISO != "" {
		t, err := time.Parse(time.RFC3339, txr.CloseTimeISO)
		if err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

func isJSONObject(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '{'
}

func rawString(raw json.RawMessage) string {
	var s string
	if len(raw) == 0 || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

func rawUint32(raw json.RawMessage) (uint32, bool) {
	if len(raw) == 0 {
		return 0, false
	}
	return toUint32(json.Number(strings.Trim(string(bytes.TrimSpace(raw)), `"`)))
}
