package main

import (
	"github.com/anyswap/Escrow-Bridge/cmd/utils"
	"github.com/urfave/cli/v2"
)

var (
	signCommand = &cli.Command{
		Name:  "sign",
		Usage: "create and poll sign requests of the external signer",
		Subcommands: []*cli.Command{
			signCreateCommand,
			signPollCommand,
		},
	}

	signCreateCommand = &cli.Command{
		Action:    signCreate,
		Name:      "create",
		Usage:     "create sign request",
		ArgsUsage: " ",
		Description: `
Example:

./escrowtools sign create -c config.toml --tx @prepared.json --instruction "finish escrow"
`,
		Flags: withConfigFlags(txJSONFlag, instructionFlag),
	}

	signPollCommand = &cli.Command{
		Action:    signPoll,
		Name:      "poll",
		Usage:     "poll sign request state",
		ArgsUsage: " ",
		Flags:     withConfigFlags(requestIDFlag),
	}
)

func signCreate(ctx *cli.Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	prepared, err := readPreparedTx(ctx)
	if err != nil {
		return err
	}
	coordinator, err := newCoordinator(config)
	if err != nil {
		return err
	}
	runCtx, cancel := utils.TopContext(ctx.Context)
	defer cancel()
	req, err := coordinator.CreateSignRequest(runCtx, prepared.TxJSON, prepared.Instruction)
	if err != nil {
		return err
	}
	return printJSON(ctx, req)
}

func signPoll(ctx *cli.Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	id, err := requireString(ctx, requestIDFlag)
	if err != nil {
		return err
	}
	coordinator, err := newCoordinator(config)
	if err != nil {
		return err
	}
	runCtx, cancel := utils.TopContext(ctx.Context)
	defer cancel()
	req, err := coordinator.PollSignRequest(runCtx, id)
	if err != nil {
		return err
	}
	return printJSON(ctx, req)
}
