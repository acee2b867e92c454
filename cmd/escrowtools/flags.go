package main

import (
	"github.com/urfave/cli/v2"
)

var (
	addressFlag = &cli.StringFlag{
		Name:  "address",
		Usage: "account address",
	}
	assetFlag = &cli.StringFlag{
		Name:  "asset",
		Usage: "asset name, empty for all configured assets",
	}
	accountFlag = &cli.StringFlag{
		Name:  "account",
		Usage: "sending account, defaults to owner for finish and cancel",
	}
	destinationFlag = &cli.StringFlag{
		Name:  "to",
		Usage: "destination address",
	}
	amountFlag = &cli.StringFlag{
		Name:  "amount",
		Usage: "amount in display units, ie. 10.5",
	}
	currencyFlag = &cli.StringFlag{
		Name:  "currency",
		Usage: "currency code, empty or XRP for native",
	}
	issuerFlag = &cli.StringFlag{
		Name:  "issuer",
		Usage: "issuer of the currency",
	}
	destTagFlag = &cli.Uint64Flag{
		Name:  "destTag",
		Usage: "destination tag",
	}
	memoFlag = &cli.StringFlag{
		Name:  "memo",
		Usage: "tx memo",
	}
	finishAfterFlag = &cli.StringFlag{
		Name:  "finishAfter",
		Usage: "escrow finish after time (RFC3339)",
	}
	cancelAfterFlag = &cli.StringFlag{
		Name:  "cancelAfter",
		Usage: "escrow cancel after time (RFC3339)",
	}
	conditionFlag = &cli.StringFlag{
		Name:  "condition",
		Usage: "crypto condition (hex)",
	}
	fulfillmentFlag = &cli.StringFlag{
		Name:  "fulfillment",
		Usage: "crypto condition fulfillment (hex)",
	}
	ownerFlag = &cli.StringFlag{
		Name:  "owner",
		Usage: "escrow owner address",
	}
	offerSequenceFlag = &cli.Uint64Flag{
		Name:  "offerSequence",
		Usage: "sequence of the escrow create transaction",
	}
	feeFlag = &cli.StringFlag{
		Name:  "fee",
		Usage: "fee in drops, usually filled by the signer",
	}
	sequenceFlag = &cli.Uint64Flag{
		Name:  "sequence",
		Usage: "account sequence, usually filled by the signer",
	}

	txJSONFlag = &cli.StringFlag{
		Name:  "tx",
		Usage: "prepared transaction json, or @file to read from file",
	}
	instructionFlag = &cli.StringFlag{
		Name:  "instruction",
		Usage: "instruction shown to the wallet owner",
	}
	requestIDFlag = &cli.StringFlag{
		Name:  "id",
		Usage: "sign request id",
	}
	payloadFlag = &cli.StringFlag{
		Name:  "payload",
		Usage: "signed payload (hex or json), or @file to read from file",
	}
	hashFlag = &cli.StringFlag{
		Name:  "hash",
		Usage: "escrow create transaction hash",
	}
	pairFlag = &cli.StringFlag{
		Name:  "pair",
		Usage: "currency pair, ie. XRP/USD",
		Value: "XRP/USD",
	}
	metricsFlag = &cli.BoolFlag{
		Name:  "metrics",
		Usage: "print ledger metrics to stderr when done",
	}
)
