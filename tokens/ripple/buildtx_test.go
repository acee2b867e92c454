package ripple

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildEscrowCreate(t *testing.T) {
	finishAfter := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	cancelAfter := finishAfter.Add(24 * time.Hour)
	prepared, err := BuildEscrowCreate(&EscrowCreateArgs{
		Account:     testOwner,
		Destination: testDestination,
		Amount:      "10",
		FinishAfter: &finishAfter,
		CancelAfter: &cancelAfter,
	})
	require.NoError(t, err)

	var fields map[string]interface{}
	require.NoError(t, json.Unmarshal(prepared.TxJSON, &fields))
	assert.Equal(t, TxTypeEscrowCreate, fields["TransactionType"])
	assert.Equal(t, "10000000", fields["Amount"])
	assert.NotContains(t, fields, "Condition")
	assert.NotContains(t, fields, "Fee")
	assert.NotContains(t, fields, "Sequence")

	finishSecs, _ := ToRippleTime(finishAfter)
	assert.Equal(t, float64(finishSecs), fields["FinishAfter"])
	assert.Equal(t, float64(finishSecs+86400), fields["CancelAfter"])
	assert.Contains(t, prepared.Instruction, "Lock 10 XRP in escrow")
	assert.NotEmpty(t, prepared.TxBlob)

	decoded, err := decodeTxBlob(prepared.TxBlob)
	require.NoError(t, err)
	assert.Equal(t, testOwner, decoded["Account"])
	assert.Equal(t, testDestination, decoded["Destination"])
}

func TestBuildEscrowCreateErrors(t *testing.T) {
	finishAfter := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	early := finishAfter.Add(-time.Hour)
	tests := []struct {
		name string
		args EscrowCreateArgs
		want error
	}{
		{"zero amount", EscrowCreateArgs{Account: testOwner, Destination: testDestination, Amount: "0"}, tokens.ErrWrongAmount},
		{"negative amount", EscrowCreateArgs{Account: testOwner, Destination: testDestination, Amount: "-1"}, tokens.ErrWrongAmount},
		{"too precise", EscrowCreateArgs{Account: testOwner, Destination: testDestination, Amount: "0.0000001"}, tokens.ErrWrongAmount},
		{"bad destination", EscrowCreateArgs{Account: testOwner, Destination: "rBad", Amount: "1"}, tokens.ErrWrongAddress},
		{"missing account", EscrowCreateArgs{Destination: testDestination, Amount: "1"}, tokens.ErrMissingParameter},
		{"cancel before finish", EscrowCreateArgs{
			Account: testOwner, Destination: testDestination, Amount: "1",
			FinishAfter: &finishAfter, CancelAfter: &early,
		}, tokens.ErrWrongTimeBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := tt.args
			_, err := BuildEscrowCreate(&args)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := BuildEscrowCreate(&EscrowCreateArgs{
		Account: testOwner, Destination: testDestination, Amount: "1", Condition: "not hex",
	})
	require.Error(t, err)
}

func TestBuildEscrowFinishAndCancel(t *testing.T) {
	prepared, err := BuildEscrowFinish(&EscrowFinishArgs{Owner: testOwner, OfferSequence: 7})
	require.NoError(t, err)
	assert.Equal(t, testOwner, prepared.Tx.Account)
	assert.Equal(t, uint32(7), prepared.Tx.OfferSequence)
	assert.Empty(t, prepared.Tx.Fulfillment)

	prepared, err = BuildEscrowFinish(&EscrowFinishArgs{
		Owner:         testOwner,
		Account:       testDestination,
		OfferSequence: 7,
		Condition:     "a0258020e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855810100",
		Fulfillment:   "a0028000",
		TxOptions:     TxOptions{Fee: "12", Sequence: 3},
	})
	require.NoError(t, err)
	assert.Equal(t, testDestination, prepared.Tx.Account)
	assert.Equal(t, "A0028000", prepared.Tx.Fulfillment)
	assert.Equal(t, "12", prepared.Tx.Fee)

	_, err = BuildEscrowFinish(&EscrowFinishArgs{Owner: testOwner, OfferSequence: 7, Fulfillment: "A0028000"})
	require.ErrorIs(t, err, tokens.ErrMissingParameter)
	_, err = BuildEscrowFinish(&EscrowFinishArgs{Owner: testOwner})
	require.ErrorIs(t, err, tokens.ErrMissingParameter)

	prepared, err = BuildEscrowCancel(&EscrowCancelArgs{Owner: testOwner, OfferSequence: 7})
	require.NoError(t, err)
	assert.Equal(t, TxTypeEscrowCancel, prepared.Tx.TransactionType)
	assert.Contains(t, prepared.Instruction, "Cancel escrow")

	_, err = BuildEscrowCancel(&EscrowCancelArgs{Owner: testOwner, OfferSequence: 7, TxOptions: TxOptions{Fee: "0.1"}})
	require.ErrorIs(t, err, tokens.ErrWrongAmount)
}

func TestBuildPayment(t *testing.T) {
	tag := uint32(99)
	prepared, err := BuildPayment(&PaymentArgs{
		Account:        testOwner,
		Destination:    testDestination,
		Amount:         "1.5",
		DestinationTag: &tag,
		Memo:           "invoice 1",
	})
	require.NoError(t, err)
	assert.Equal(t, "1500000", prepared.Tx.Amount)
	assert.Contains(t, prepared.Instruction, "destination tag 99")
	require.Len(t, prepared.Tx.Memos, 1)

	prepared, err = BuildPayment(&PaymentArgs{
		Account:     testOwner,
		Destination: testDestination,
		Amount:      "25.10",
		Currency:    "USD",
		Issuer:      testIssuer,
	})
	require.NoError(t, err)
	amount, ok := prepared.Tx.Amount.(*IssuedAmount)
	require.True(t, ok)
	assert.Equal(t, "USD", amount.Currency)
	assert.Equal(t, "25.1", amount.Value)

	_, err = BuildPayment(&PaymentArgs{Account: testOwner, Destination: testDestination, Amount: "1", Currency: "USD"})
	require.ErrorIs(t, err, tokens.ErrMissingParameter)
	_, err = BuildPayment(&PaymentArgs{Account: testOwner, Destination: testDestination, Amount: "0"})
	require.ErrorIs(t, err, tokens.ErrWrongAmount)
}
