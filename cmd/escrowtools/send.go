package main

import (
	"github.com/anyswap/Escrow-Bridge/cmd/utils"
	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/anyswap/Escrow-Bridge/mongodb"
	"github.com/anyswap/Escrow-Bridge/worker"
	"github.com/urfave/cli/v2"
)

var (
	sendCommand = &cli.Command{
		Action:    send,
		Name:      "send",
		Usage:     "sign a prepared transaction with the external signer and submit it",
		ArgsUsage: " ",
		Description: `
create a sign request, wait for the wallet owner to sign and submit the signed transaction.
sign requests and submitted transactions are recorded if [MongoDB] is configed.

Example:

./escrowtools prepare finish --owner rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh --offerSequence 7 > finish.json
./escrowtools send -c config.toml --tx @finish.json --instruction "finish escrow"
`,
		Flags: withConfigFlags(txJSONFlag, instructionFlag, signTimeoutFlag, metricsFlag),
	}

	signTimeoutFlag = &cli.DurationFlag{
		Name:  "signTimeout",
		Usage: "how long to wait for the signature, overrides [Worker] SignTimeout",
	}
)

func send(ctx *cli.Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if merr := printMetrics(ctx); merr != nil {
			log.Warn("print metrics failed", "err", merr)
		}
	}()
	prepared, err := readPreparedTx(ctx)
	if err != nil {
		return err
	}
	bridge, err := newBridge(config)
	if err != nil {
		return err
	}
	coordinator, err := newCoordinator(config)
	if err != nil {
		return err
	}
	runCtx, cancel := utils.TopContext(ctx.Context)
	defer cancel()

	var store worker.Store
	hasDB, err := initMongoDB(runCtx, config)
	if err != nil {
		log.Warn("run without recording", "err", err)
	} else if hasDB {
		defer mongodb.MongoServerClose(runCtx)
		store = worker.MongoStore{}
	}

	w := worker.NewWorker(coordinator, bridge, store, config.Worker)
	result, err := w.SignAndSubmit(runCtx, &worker.Job{
		Tx:          prepared,
		SignTimeout: ctx.Duration(signTimeoutFlag.Name),
	})
	if result != nil {
		if perr := printJSON(ctx, result); perr != nil {
			return perr
		}
	}
	return err
}

