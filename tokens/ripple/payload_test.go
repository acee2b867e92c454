package ripple

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedPaymentFields() map[string]interface{} {
	return map[string]interface{}{
		"TransactionType": TxTypePayment,
		"Account":         testOwner,
		"Destination":     testDestination,
		"Amount":          "1000000",
		"Fee":             "12",
		"Sequence":        json.Number("5"),
		"Flags":           json.Number("0"),
		"SigningPubKey":   "0330E7FC9D56BB25D6893BA3F317AE5BCF33B3291BD63DB32654A313222F7FD020",
		"TxnSignature":    "3045022100D184EB4AE5956FF600E7536EE459345C7BBCF097A84CC61A93B9AF7197EDB98702201CEA8009B7BEEBAA2AACC0359B41C427C1C5B550A4CA4B80CF2174AF2D6D5DCE",
	}
}

func payloadErrorKind(t *testing.T, err error) tokens.PayloadErrorKind {
	t.Helper()
	var payloadErr *tokens.PayloadError
	require.True(t, errors.As(err, &payloadErr), "not a payload error: %v", err)
	return payloadErr.Kind
}

func TestParseSignedPayloadHex(t *testing.T) {
	lower := strings.ToLower(signedBlob)
	inputs := []interface{}{
		signedBlob,
		"  " + lower + "\n",
		[]byte(signedBlob),
		json.RawMessage(`"` + signedBlob + `"`),
		`{"tx_blob":"` + signedBlob + `"}`,
		map[string]interface{}{"signedTransaction": signedBlob},
		struct {
			TxBlob string `json:"tx_blob"`
		}{TxBlob: signedBlob},
	}
	for i, input := range inputs {
		payload, err := ParseSignedPayload(input)
		require.NoError(t, err, "input %d", i)
		assert.Equal(t, FormatHex, payload.Format(), "input %d", i)
		blob, err := payload.TxBlob()
		require.NoError(t, err)
		assert.Equal(t, strings.ToUpper(signedBlob), blob, "input %d", i)
	}
}

func TestParseSignedPayloadLongHex(t *testing.T) {
	payload, err := ParseSignedPayload(strings.Repeat("ab", 600))
	require.NoError(t, err)
	assert.Equal(t, FormatHex, payload.Format())
	blob, err := payload.TxBlob()
	require.NoError(t, err)
	assert.Equal(t, strings.Repeat("AB", 600), blob)
}

func TestParseSignedPayloadObject(t *testing.T) {
	fields := signedPaymentFields()
	data, err := json.Marshal(fields)
	require.NoError(t, err)

	payload, err := ParseSignedPayload(string(data))
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, payload.Format())
	fromJSON, err := payload.TxBlob()
	require.NoError(t, err)

	payload, err = ParseSignedPayload(map[string]interface{}{"transaction": fields})
	require.NoError(t, err)
	assert.Equal(t, FormatObject, payload.Format())
	assert.Equal(t, "transaction", payload.(*ObjectPayload).Wrapper)
	fromObject, err := payload.TxBlob()
	require.NoError(t, err)
	assert.Equal(t, fromJSON, fromObject)

	hexPayload, err := ParseSignedPayload(fromObject)
	require.NoError(t, err)
	decoded, err := hexPayload.(*HexPayload).Decode()
	require.NoError(t, err)
	assert.Equal(t, testDestination, decoded["Destination"])
	assert.Equal(t, "1000000", decoded["Amount"])
}

func TestParseSignedPayloadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		kind  tokens.PayloadErrorKind
	}{
		{"identifier", "3f2b8c1e-4d5a-4b6c-8d7e-9f0a1b2c3d4e", tokens.PayloadIdentifier},
		{"wrapped identifier", `{"tx_blob":"3F2B8C1E-4D5A-4B6C-8D7E-9F0A1B2C3D4E"}`, tokens.PayloadIdentifier},
		{"too short", "1200002280", tokens.PayloadTooShort},
		{"short non hex", strings.Repeat("g", 40), tokens.PayloadTooShort},
		{"not hex", strings.Repeat("zz", 60), tokens.PayloadNotHex},
		{"bad json", `{"TransactionType":`, tokens.PayloadNotHex},
		{"missing type", map[string]interface{}{"Account": testOwner}, tokens.PayloadMissingType},
		{"nil", nil, tokens.PayloadUnsupported},
		{"number", 42, tokens.PayloadUnsupported},
		{"wrapped number", map[string]interface{}{"tx_blob": 1}, tokens.PayloadUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSignedPayload(tt.input)
			require.Error(t, err)
			assert.True(t, tokens.IsPayloadError(err))
			assert.Equal(t, tt.kind, payloadErrorKind(t, err))
		})
	}
}

func TestParseSignedPayloadUnencodable(t *testing.T) {
	fields := signedPaymentFields()
	fields["Sequence"] = "not a number"
	payload, err := ParseSignedPayload(fields)
	require.NoError(t, err)
	_, err = payload.TxBlob()
	assert.Equal(t, tokens.PayloadUnsupported, payloadErrorKind(t, err))
}

func TestPayloadErrorMessagesDiffer(t *testing.T) {
	kinds := []tokens.PayloadErrorKind{
		tokens.PayloadIdentifier, tokens.PayloadTooShort, tokens.PayloadNotHex,
		tokens.PayloadMissingType, tokens.PayloadUnsupported,
	}
	seen := make(map[string]bool)
	for _, kind := range kinds {
		msg := (&tokens.PayloadError{Kind: kind}).Error()
		assert.False(t, seen[msg], msg)
		seen[msg] = true
	}
}
