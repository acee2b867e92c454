package ripple

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	binarycodec "github.com/Peersyst/xrpl-go/binary-codec"
	"github.com/anyswap/Escrow-Bridge/tokens/ripple/websockets"
)

// fields serialized as unsigned 32 bit integers
var uint32Fields = map[string]bool{
	"Flags":              true,
	"Sequence":           true,
	"TicketSequence":     true,
	"OfferSequence":      true,
	"LastLedgerSequence": true,
	"DestinationTag":     true,
	"SourceTag":          true,
	"FinishAfter":        true,
	"CancelAfter":        true,
	"NetworkID":          true,
	"OperationLimit":     true,
}

// decodeTxJSON decodes a transaction object keeping numbers exact
func decodeTxJSON(data []byte) (map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var tx map[string]interface{}
	if err := dec.Decode(&tx); err != nil {
		return nil, err
	}
	return tx, nil
}

// normalizeTxFields converts numeric fields into the types the binary codec expects
func normalizeTxFields(tx map[string]interface{}) error {
	for key, value := range tx {
		switch {
		case uint32Fields[key]:
			n, ok := websockets.Object(tx).Uint32(key)
			if !ok {
				return fmt.Errorf("field %v is not an unsigned 32 bit integer: %v", key, value)
			}
			tx[key] = n
		case key == "Fee" || key == "Amount" || key == "SendMax" || key == "DeliverMin":
			if num, ok := value.(json.Number); ok {
				tx[key] = num.String()
			}
		}
	}
	return nil
}

// encodeTx serializes a transaction object into an upper case hex blob
func encodeTx(tx map[string]interface{}) (txBlob string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("encode transaction failed: %v", r)
		}
	}()
	normalized := make(map[string]interface{}, len(tx))
	for key, value := range tx {
		normalized[key] = value
	}
	if err = normalizeTxFields(normalized); err != nil {
		return "", err
	}
	txBlob, err = binarycodec.Encode(normalized)
	if err != nil {
		return "", fmt.Errorf("encode transaction failed: %w", err)
	}
	return strings.ToUpper(txBlob), nil
}

// decodeTxBlob deserializes a hex blob into a transaction object
func decodeTxBlob(txBlob string) (tx map[string]interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("decode transaction failed: %v", r)
		}
	}()
	tx, err = binarycodec.Decode(txBlob)
	if err != nil {
		return nil, fmt.Errorf("decode transaction failed: %w", err)
	}
	return tx, nil
}
