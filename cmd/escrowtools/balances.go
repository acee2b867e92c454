package main

import (
	"github.com/anyswap/Escrow-Bridge/cmd/utils"
	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/urfave/cli/v2"
)

var balancesCommand = &cli.Command{
	Action:    balances,
	Name:      "balances",
	Usage:     "query native and issued asset balances",
	ArgsUsage: " ",
	Description: `
query balances of an account on the configured network,
falls back to the alternate network if the account is missing.

Example:

./escrowtools balances -c config.toml --address rHb9CJAWyB4rj91VRWn96DkukG4bwdtyTh
`,
	Flags: withConfigFlags(addressFlag, assetFlag, metricsFlag),
}

func balances(ctx *cli.Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	address, err := requireString(ctx, addressFlag)
	if err != nil {
		return err
	}
	bridge, err := newBridge(config)
	if err != nil {
		return err
	}
	runCtx, cancel := utils.TopContext(ctx.Context)
	defer cancel()
	defer func() {
		if merr := printMetrics(ctx); merr != nil {
			log.Warn("print metrics failed", "err", merr)
		}
	}()

	if asset := ctx.String(assetFlag.Name); asset != "" {
		balance, err := bridge.GetBalance(runCtx, address, asset)
		if err != nil {
			return err
		}
		return printJSON(ctx, map[string]interface{}{"address": address, "asset": asset, "balance": balance})
	}
	result, err := bridge.GetAllBalances(runCtx, address)
	if err != nil {
		return err
	}
	return printJSON(ctx, result)
}
