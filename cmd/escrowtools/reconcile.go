package main

import (
	"github.com/anyswap/Escrow-Bridge/cmd/utils"
	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/anyswap/Escrow-Bridge/mongodb"
	"github.com/anyswap/Escrow-Bridge/tokens/ripple"
	"github.com/urfave/cli/v2"
)

var reconcileCommand = &cli.Command{
	Action:    reconcile,
	Name:      "reconcile",
	Usage:     "reconcile escrow state from its creation transaction",
	ArgsUsage: " ",
	Description: `
report whether an escrow is active, finished, cancelled or unknown.

Example:

./escrowtools reconcile -c config.toml --hash <escrow create tx hash> --owner rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh
`,
	Flags: withConfigFlags(hashFlag, ownerFlag, metricsFlag),
}

type reconcileOutput struct {
	State  ripple.EscrowState          `json:"state"`
	Result ripple.ReconciliationResult `json:"result"`
}

func reconcile(ctx *cli.Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	hash, err := requireString(ctx, hashFlag)
	if err != nil {
		return err
	}
	owner, err := requireString(ctx, ownerFlag)
	if err != nil {
		return err
	}
	bridge, err := newBridge(config)
	if err != nil {
		return err
	}
	runCtx, cancel := utils.TopContext(ctx.Context)
	defer cancel()

	result, err := bridge.ReconcileEscrow(runCtx, hash, owner)
	if err != nil {
		return err
	}
	hasDB, err := initMongoDB(runCtx, config)
	if err != nil {
		log.Warn("skip recording reconciliation", "err", err)
	} else if hasDB {
		defer mongodb.MongoServerClose(runCtx)
		recordReconciliation(hash, owner, result)
	}
	if err = printMetrics(ctx); err != nil {
		return err
	}
	return printJSON(ctx, &reconcileOutput{State: result.State(), Result: result})
}

func recordReconciliation(hash, owner string, result ripple.ReconciliationResult) {
	info := ripple.InfoOf(result)
	record := &mongodb.MgoReconciliation{
		Key:             hash,
		Owner:           owner,
		Network:         info.Network,
		State:           string(result.State()),
		NetworkMismatch: info.NetworkMismatch,
	}
	switch r := result.(type) {
	case *ripple.EscrowFinished:
		record.ResolvingTxHash = r.ResolvingTxHash
	case *ripple.EscrowCancelled:
		record.ResolvingTxHash = r.ResolvingTxHash
	case *ripple.EscrowUnknown:
		record.Reason = r.Reason
	}
	if err := mongodb.UpdateReconciliation(record); err != nil {
		log.Warn("record reconciliation failed", "hash", hash, "err", err)
	}
}
