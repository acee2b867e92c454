package ripple

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/anyswap/Escrow-Bridge/common"
	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/anyswap/Escrow-Bridge/tokens/ripple/websockets"
	"github.com/shopspring/decimal"
)

// NativeCurrency native asset code
const NativeCurrency = "XRP"

const (
	dropsDecimals = 6
	maxDrops      = int64(100_000_000_000) * 1_000_000
)

// ToDrops converts a display amount (eg. "10.5") into drops exactly.
func ToDrops(amount string) (int64, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return 0, fmt.Errorf("%w: %v", tokens.ErrWrongAmount, amount)
	}
	return DecimalToDrops(value)
}

// DecimalToDrops converts a display amount into drops exactly.
func DecimalToDrops(value decimal.Decimal) (int64, error) {
	if value.IsNegative() {
		return 0, fmt.Errorf("%w: negative amount %v", tokens.ErrWrongAmount, value)
	}
	drops := value.Shift(dropsDecimals)
	if !drops.Equal(drops.Truncate(0)) {
		return 0, fmt.Errorf("%w: more than %d decimals in %v", tokens.ErrWrongAmount, dropsDecimals, value)
	}
	if drops.GreaterThan(decimal.NewFromInt(maxDrops)) {
		return 0, fmt.Errorf("%w: amount %v exceeds supply", tokens.ErrWrongAmount, value)
	}
	return drops.IntPart(), nil
}

// DropsToDisplay converts drops into display units
func DropsToDisplay(drops int64) decimal.Decimal {
	return decimal.New(drops, -dropsDecimals)
}

// ParseDrops parses a drops string as returned by the ledger
func ParseDrops(drops string) (decimal.Decimal, error) {
	n, err := strconv.ParseInt(drops, 10, 64)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: drops %v", tokens.ErrWrongAmount, drops)
	}
	return DropsToDisplay(n), nil
}

// Amount a ledger amount in display units
type Amount struct {
	Currency string          `json:"currency"`
	Issuer   string          `json:"issuer,omitempty"`
	Value    decimal.Decimal `json:"value"`
}

// IsNative is native amount
func (a *Amount) IsNative() bool {
	return a.Currency == NativeCurrency
}

func (a *Amount) String() string {
	if a.IsNative() {
		return a.Value.String() + " " + NativeCurrency
	}
	return fmt.Sprintf("%v %v/%v", a.Value.String(), DisplayCurrency(a.Currency), a.Issuer)
}

// parseLedgerAmount parses the ledger form of an amount,
// a drops string or an object with currency, issuer and value.
func parseLedgerAmount(value interface{}) (*Amount, error) {
	switch v := value.(type) {
	case string:
		display, err := ParseDrops(v)
		if err != nil {
			return nil, err
		}
		return &Amount{Currency: NativeCurrency, Value: display}, nil
	case map[string]interface{}:
		obj := websockets.Object(v)
		val, err := decimal.NewFromString(obj.String("value"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", tokens.ErrWrongAmount, v)
		}
		return &Amount{Currency: obj.String("currency"), Issuer: obj.String("issuer"), Value: val}, nil
	default:
		return nil, fmt.Errorf("%w: unknown amount %v", tokens.ErrWrongAmount, value)
	}
}

// IssuedAmount ledger form of an issued asset amount
type IssuedAmount struct {
	Currency string `json:"currency"`
	Issuer   string `json:"issuer"`
	Value    string `json:"value"`
}

// EncodeCurrency converts a currency code to its ledger form.
// Three character codes are kept, longer codes are hex encoded into 40 hex digits.
func EncodeCurrency(code string) (string, error) {
	switch {
	case len(code) == 3:
		if strings.EqualFold(code, NativeCurrency) {
			return "", fmt.Errorf("%w: %v is reserved for the native asset", tokens.ErrWrongCurrency, code)
		}
		return code, nil
	case len(code) == 40 && common.IsHexString(code):
		if strings.HasPrefix(code, "00") {
			return "", fmt.Errorf("%w: %v", tokens.ErrWrongCurrency, code)
		}
		return strings.ToUpper(code), nil
	case len(code) > 3 && len(code) <= 20:
		encoded := strings.ToUpper(hex.EncodeToString([]byte(code)))
		return encoded + strings.Repeat("0", 40-len(encoded)), nil
	default:
		return "", fmt.Errorf("%w: %v", tokens.ErrWrongCurrency, code)
	}
}

// DisplayCurrency converts a ledger currency code back to a readable code if possible
func DisplayCurrency(code string) string {
	if len(code) != 40 || !common.IsHexString(code) {
		return code
	}
	raw, _ := hex.DecodeString(code)
	trimmed := strings.TrimRight(string(raw), "\x00")
	if trimmed == "" {
		return code
	}
	for _, c := range trimmed {
		if c < 0x20 || c > 0x7e {
			return code
		}
	}
	return trimmed
}

// ToRippleTime converts t into seconds since the ledger epoch
func ToRippleTime(t time.Time) (uint32, error) {
	secs := t.Unix() - websockets.RippleEpoch
	if secs < 0 || secs > 0xFFFFFFFF {
		return 0, fmt.Errorf("time %v out of ledger time range", t)
	}
	return uint32(secs), nil
}

// FromRippleTime converts seconds since the ledger epoch into time
func FromRippleTime(secs uint32) time.Time {
	return time.Unix(websockets.RippleEpoch+int64(secs), 0).UTC()
}
