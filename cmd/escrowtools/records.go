package main

import (
	"fmt"
	"time"

	"github.com/anyswap/Escrow-Bridge/cmd/utils"
	"github.com/anyswap/Escrow-Bridge/common"
	"github.com/anyswap/Escrow-Bridge/mongodb"
	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/urfave/cli/v2"
)

var (
	recordsCommand = &cli.Command{
		Name:  "records",
		Usage: "read recorded sign requests, submissions and reconciliations",
		Description: `
read the records written by send and reconcile, requires [MongoDB] in config.
`,
		Subcommands: []*cli.Command{
			recordsSubmittedCommand,
			recordsSignCommand,
			recordsEscrowCommand,
		},
	}

	recordsSubmittedCommand = &cli.Command{
		Action:    recordsSubmitted,
		Name:      "submitted",
		Usage:     "list submitted transactions by status, or get one by hash",
		ArgsUsage: " ",
		Description: `
list submissions that timed out so they can be checked again.

Example:

./escrowtools records submitted -c config.toml --status processing --since 24h
./escrowtools records submitted -c config.toml --txhash <hash>
`,
		Flags: withConfigFlags(statusFlag, sinceFlag, limitFlag, txHashFlag),
	}

	recordsSignCommand = &cli.Command{
		Action:    recordsSign,
		Name:      "sign",
		Usage:     "get recorded sign request",
		ArgsUsage: " ",
		Flags:     withConfigFlags(requestIDFlag),
	}

	recordsEscrowCommand = &cli.Command{
		Action:    recordsEscrow,
		Name:      "escrow",
		Usage:     "get last reconciled state of an escrow",
		ArgsUsage: " ",
		Flags:     withConfigFlags(hashFlag),
	}

	statusFlag = &cli.StringFlag{
		Name:  "status",
		Usage: "submission status (completed, failed, processing)",
		Value: string(tokens.TxProcessing),
	}
	sinceFlag = &cli.DurationFlag{
		Name:  "since",
		Usage: "only records updated within this duration",
		Value: 24 * time.Hour,
	}
	limitFlag = &cli.Int64Flag{
		Name:  "limit",
		Usage: "max number of records",
		Value: 100,
	}
	txHashFlag = &cli.StringFlag{
		Name:  "txhash",
		Usage: "submitted transaction hash",
	}
)

func withRecords(ctx *cli.Context, read func() (interface{}, error)) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if config.MongoDB == nil {
		return fmt.Errorf("no [MongoDB] in config")
	}
	runCtx, cancel := utils.TopContext(ctx.Context)
	defer cancel()
	if _, err = initMongoDB(runCtx, config); err != nil {
		return err
	}
	defer mongodb.MongoServerClose(runCtx)

	result, err := read()
	if err != nil {
		return err
	}
	return printJSON(ctx, result)
}

func checkTxStatus(status string) error {
	switch tokens.TxStatus(status) {
	case tokens.TxCompleted, tokens.TxFailed, tokens.TxProcessing:
		return nil
	default:
		return fmt.Errorf("unknown status %q", status)
	}
}

// sepTime unix seconds of now minus since
func sepTime(since time.Duration) int64 {
	return common.Now() - int64(since/time.Second)
}

func recordsSubmitted(ctx *cli.Context) error {
	status := ctx.String(statusFlag.Name)
	if err := checkTxStatus(status); err != nil {
		return err
	}
	since, limit := ctx.Duration(sinceFlag.Name), ctx.Int64(limitFlag.Name)
	if since <= 0 || limit <= 0 {
		return fmt.Errorf("--since and --limit must be positive")
	}
	return withRecords(ctx, func() (interface{}, error) {
		if hash := ctx.String(txHashFlag.Name); hash != "" {
			return mongodb.FindSubmittedTx(hash)
		}
		return mongodb.FindSubmittedTxsWithStatus(status, sepTime(since), limit)
	})
}

func recordsSign(ctx *cli.Context) error {
	id, err := requireString(ctx, requestIDFlag)
	if err != nil {
		return err
	}
	return withRecords(ctx, func() (interface{}, error) {
		return mongodb.FindSignRequest(id)
	})
}

func recordsEscrow(ctx *cli.Context) error {
	hash, err := requireString(ctx, hashFlag)
	if err != nil {
		return err
	}
	return withRecords(ctx, func() (interface{}, error) {
		return mongodb.FindReconciliation(hash)
	})
}
