package main

import (
	"github.com/anyswap/Escrow-Bridge/cmd/utils"
	"github.com/anyswap/Escrow-Bridge/tokens/ripple"
	"github.com/urfave/cli/v2"
)

var (
	prepareCommand = &cli.Command{
		Name:  "prepare",
		Usage: "prepare unsigned transactions",
		Description: `
prepare unsigned transactions for the external signer,
fee and sequence are left to the signer unless specified.
`,
		Subcommands: []*cli.Command{
			preparePaymentCommand,
			prepareEscrowCreateCommand,
			prepareEscrowFinishCommand,
			prepareEscrowCancelCommand,
		},
	}

	txOptionFlags = []cli.Flag{feeFlag, sequenceFlag}

	preparePaymentCommand = &cli.Command{
		Action:    preparePayment,
		Name:      "payment",
		Usage:     "prepare payment",
		ArgsUsage: " ",
		Description: `
Example:

./escrowtools prepare payment --account rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh --to rGWrZyQqhTp9Xu7G5Pkayo7bXjH4k4QYpf --amount 10 --currency USD --issuer rvYAfWj5gh67oV6fW32ZzP3Aw4Eubs59B
`,
		Flags: append([]cli.Flag{
			utils.VerbosityFlag,
			accountFlag,
			destinationFlag,
			amountFlag,
			currencyFlag,
			issuerFlag,
			destTagFlag,
			memoFlag,
		}, txOptionFlags...),
	}

	prepareEscrowCreateCommand = &cli.Command{
		Action:    prepareEscrowCreate,
		Name:      "create",
		Usage:     "prepare escrow create",
		ArgsUsage: " ",
		Description: `
Example:

./escrowtools prepare create --account rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh --to rGWrZyQqhTp9Xu7G5Pkayo7bXjH4k4QYpf --amount 10 --finishAfter 2024-07-01T00:00:00Z --cancelAfter 2024-08-01T00:00:00Z
`,
		Flags: append([]cli.Flag{
			utils.VerbosityFlag,
			accountFlag,
			destinationFlag,
			amountFlag,
			finishAfterFlag,
			cancelAfterFlag,
			conditionFlag,
			destTagFlag,
			memoFlag,
		}, txOptionFlags...),
	}

	prepareEscrowFinishCommand = &cli.Command{
		Action:    prepareEscrowFinish,
		Name:      "finish",
		Usage:     "prepare escrow finish",
		ArgsUsage: " ",
		Flags: append([]cli.Flag{
			utils.VerbosityFlag,
			ownerFlag,
			accountFlag,
			offerSequenceFlag,
			conditionFlag,
			fulfillmentFlag,
		}, txOptionFlags...),
	}

	prepareEscrowCancelCommand = &cli.Command{
		Action:    prepareEscrowCancel,
		Name:      "cancel",
		Usage:     "prepare escrow cancel",
		ArgsUsage: " ",
		Flags: append([]cli.Flag{
			utils.VerbosityFlag,
			ownerFlag,
			accountFlag,
			offerSequenceFlag,
		}, txOptionFlags...),
	}
)

func preparePayment(ctx *cli.Context) error {
	opts, err := txOptions(ctx)
	if err != nil {
		return err
	}
	destTag, err := destinationTag(ctx)
	if err != nil {
		return err
	}
	prepared, err := ripple.BuildPayment(&ripple.PaymentArgs{
		TxOptions:      opts,
		Account:        ctx.String(accountFlag.Name),
		Destination:    ctx.String(destinationFlag.Name),
		Amount:         ctx.String(amountFlag.Name),
		Currency:       ctx.String(currencyFlag.Name),
		Issuer:         ctx.String(issuerFlag.Name),
		DestinationTag: destTag,
		Memo:           ctx.String(memoFlag.Name),
	})
	if err != nil {
		return err
	}
	return printJSON(ctx, prepared)
}

func prepareEscrowCreate(ctx *cli.Context) error {
	finishAfter, err := parseTimeFlag(ctx, finishAfterFlag)
	if err != nil {
		return err
	}
	cancelAfter, err := parseTimeFlag(ctx, cancelAfterFlag)
	if err != nil {
		return err
	}
	opts, err := txOptions(ctx)
	if err != nil {
		return err
	}
	destTag, err := destinationTag(ctx)
	if err != nil {
		return err
	}
	prepared, err := ripple.BuildEscrowCreate(&ripple.EscrowCreateArgs{
		TxOptions:      opts,
		Account:        ctx.String(accountFlag.Name),
		Destination:    ctx.String(destinationFlag.Name),
		Amount:         ctx.String(amountFlag.Name),
		FinishAfter:    finishAfter,
		CancelAfter:    cancelAfter,
		Condition:      ctx.String(conditionFlag.Name),
		DestinationTag: destTag,
		Memo:           ctx.String(memoFlag.Name),
	})
	if err != nil {
		return err
	}
	return printJSON(ctx, prepared)
}

func prepareEscrowFinish(ctx *cli.Context) error {
	opts, err := txOptions(ctx)
	if err != nil {
		return err
	}
	offerSequence, err := uint32Flag(ctx, offerSequenceFlag)
	if err != nil {
		return err
	}
	prepared, err := ripple.BuildEscrowFinish(&ripple.EscrowFinishArgs{
		TxOptions:     opts,
		Owner:         ctx.String(ownerFlag.Name),
		Account:       ctx.String(accountFlag.Name),
		OfferSequence: offerSequence,
		Condition:     ctx.String(conditionFlag.Name),
		Fulfillment:   ctx.String(fulfillmentFlag.Name),
	})
	if err != nil {
		return err
	}
	return printJSON(ctx, prepared)
}

func prepareEscrowCancel(ctx *cli.Context) error {
	opts, err := txOptions(ctx)
	if err != nil {
		return err
	}
	offerSequence, err := uint32Flag(ctx, offerSequenceFlag)
	if err != nil {
		return err
	}
	prepared, err := ripple.BuildEscrowCancel(&ripple.EscrowCancelArgs{
		TxOptions:     opts,
		Owner:         ctx.String(ownerFlag.Name),
		Account:       ctx.String(accountFlag.Name),
		OfferSequence: offerSequence,
	})
	if err != nil {
		return err
	}
	return printJSON(ctx, prepared)
}
