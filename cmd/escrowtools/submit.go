package main

import (
	"errors"

	"github.com/anyswap/Escrow-Bridge/cmd/utils"
	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/urfave/cli/v2"
)

var submitCommand = &cli.Command{
	Action:    submit,
	Name:      "submit",
	Usage:     "submit signed transaction and wait for its final result",
	ArgsUsage: " ",
	Description: `
submit a signed payload (hex blob, json or wrapped json) to the configured network.

Example:

./escrowtools submit -c config.toml --payload 12000222800000002400000001...
./escrowtools submit -c config.toml --payload @signed.json
`,
	Flags: withConfigFlags(payloadFlag),
}

func submit(ctx *cli.Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	payload, err := requireString(ctx, payloadFlag)
	if err != nil {
		return err
	}
	if payload, err = readArgument(payload); err != nil {
		return err
	}
	bridge, err := newBridge(config)
	if err != nil {
		return err
	}
	runCtx, cancel := utils.TopContext(ctx.Context)
	defer cancel()

	result, err := bridge.Submit(runCtx, payload)
	if result != nil {
		if perr := printJSON(ctx, result); perr != nil {
			return perr
		}
	}
	if errors.Is(err, tokens.ErrSubmitTimeout) {
		log.Warn("transaction is still processing, reconcile or check again later", "hash", result.Hash)
	}
	return err
}
