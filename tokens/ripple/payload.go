package ripple

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/anyswap/Escrow-Bridge/common"
	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/google/uuid"
)

// payload formats
const (
	FormatHex    = "hex"
	FormatJSON   = "json"
	FormatObject = "object"
)

// a serialized signed transaction is never shorter than this
const minSignedBlobLength = 100

// keys under which signers commonly nest the signed transaction
var wrapperKeys = []string{"tx_blob", "signedTransaction", "transaction"}

// SignedPayload a signed transaction in one of the accepted shapes
type SignedPayload interface {
	// Format reports the detected input format
	Format() string
	// TxBlob returns the hex serialization to submit
	TxBlob() (string, error)

	isSignedPayload()
}

// HexPayload a hex encoded signed transaction blob
type HexPayload struct {
	Blob    string
	Wrapper string // key the blob was nested under, if any
}

// Format impl
func (p *HexPayload) Format() string { return FormatHex }

// TxBlob impl
func (p *HexPayload) TxBlob() (string, error) { return p.Blob, nil }

// Decode decodes the blob into transaction fields
func (p *HexPayload) Decode() (map[string]interface{}, error) {
	return decodeTxBlob(p.Blob)
}

func (p *HexPayload) isSignedPayload() {}

// ObjectPayload a signed transaction given as fields
type ObjectPayload struct {
	Tx       map[string]interface{}
	Wrapper  string
	FromJSON bool // given as a JSON text rather than a native object
}

// Format impl
func (p *ObjectPayload) Format() string {
	if p.FromJSON {
		return FormatJSON
	}
	return FormatObject
}

// TxBlob impl, serializes the fields
func (p *ObjectPayload) TxBlob() (string, error) {
	txBlob, err := encodeTx(p.Tx)
	if err != nil {
		return "", &tokens.PayloadError{Kind: tokens.PayloadUnsupported, Format: p.Format(), Detail: err.Error()}
	}
	return txBlob, nil
}

func (p *ObjectPayload) isSignedPayload() {}

// ParseSignedPayload detects the shape of a signed payload.
// Accepted inputs are hex strings, JSON text, decoded JSON objects and
// native structs, each optionally wrapped under tx_blob, signedTransaction or transaction.
func ParseSignedPayload(input interface{}) (SignedPayload, error) {
	switch v := input.(type) {
	case nil:
		return nil, &tokens.PayloadError{Kind: tokens.PayloadUnsupported, Detail: "empty payload"}
	case SignedPayload:
		return v, nil
	case string:
		return parseStringPayload(v, "", true)
	case []byte:
		return parseStringPayload(string(v), "", true)
	case json.RawMessage:
		return parseStringPayload(string(v), "", true)
	case map[string]interface{}:
		return parseObjectPayload(v, "", false, true)
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, &tokens.PayloadError{Kind: tokens.PayloadUnsupported, Format: FormatObject, Detail: err.Error()}
		}
		fields, err := decodeTxJSON(data)
		if err != nil {
			return nil, &tokens.PayloadError{Kind: tokens.PayloadUnsupported, Format: FormatObject,
				Detail: fmt.Sprintf("%T is not an object", input)}
		}
		return parseObjectPayload(fields, "", false, true)
	}
}

func parseStringPayload(s, wrapper string, allowUnwrap bool) (SignedPayload, error) {
	s = strings.TrimSpace(s)
	if isCanonicalUUID(s) {
		return nil, &tokens.PayloadError{Kind: tokens.PayloadIdentifier, Format: FormatHex, Detail: s}
	}
	switch {
	case strings.HasPrefix(s, "{"):
		fields, err := decodeTxJSON([]byte(s))
		if err != nil {
			return nil, &tokens.PayloadError{Kind: tokens.PayloadNotHex, Format: FormatJSON, Detail: "invalid JSON: " + err.Error()}
		}
		return parseObjectPayload(fields, wrapper, true, allowUnwrap)
	case strings.HasPrefix(s, `"`):
		unquoted, err := strconv.Unquote(s)
		if err == nil {
			return parseStringPayload(unquoted, wrapper, allowUnwrap)
		}
	}
	if len(s) < minSignedBlobLength {
		return nil, &tokens.PayloadError{Kind: tokens.PayloadTooShort, Format: FormatHex,
			Detail: fmt.Sprintf("%d characters", len(s))}
	}
	if !common.IsHexString(s) {
		return nil, &tokens.PayloadError{Kind: tokens.PayloadNotHex, Format: FormatHex}
	}
	return &HexPayload{Blob: strings.ToUpper(s), Wrapper: wrapper}, nil
}

func parseObjectPayload(fields map[string]interface{}, wrapper string, fromJSON, allowUnwrap bool) (SignedPayload, error) {
	if allowUnwrap {
		for _, key := range wrapperKeys {
			inner, exist := fields[key]
			if !exist {
				continue
			}
			switch v := inner.(type) {
			case string:
				return parseStringPayload(v, key, false)
			case map[string]interface{}:
				return parseObjectPayload(v, key, fromJSON, false)
			default:
				return nil, &tokens.PayloadError{Kind: tokens.PayloadUnsupported, Format: FormatObject,
					Detail: fmt.Sprintf("unexpected %T under %v", inner, key)}
			}
		}
	}
	format := FormatObject
	if fromJSON {
		format = FormatJSON
	}
	if txType, _ := fields["TransactionType"].(string); txType == "" {
		return nil, &tokens.PayloadError{Kind: tokens.PayloadMissingType, Format: format}
	}
	return &ObjectPayload{Tx: fields, Wrapper: wrapper, FromJSON: fromJSON}, nil
}

func isCanonicalUUID(s string) bool {
	if len(s) != 36 || s[8] != '-' || s[13] != '-' || s[18] != '-' || s[23] != '-' {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
