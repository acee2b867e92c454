package main

import (
	"fmt"
	"time"

	"github.com/anyswap/Escrow-Bridge/cmd/utils"
	"github.com/anyswap/Escrow-Bridge/tokens"
	"github.com/urfave/cli/v2"
)

var rateCommand = &cli.Command{
	Action:    rate,
	Name:      "rate",
	Usage:     "query exchange rate of a currency pair",
	ArgsUsage: " ",
	Description: `
Example:

./escrowtools rate -c config.toml --pair XRP/USD
`,
	Flags: withConfigFlags(pairFlag),
}

func rate(ctx *cli.Context) error {
	config, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	cacheConfig := config.RateCache
	if cacheConfig == nil {
		return fmt.Errorf("no [RateCache] in config")
	}
	loader := tokens.NewHTTPRateLoader(cacheConfig.APIAddress, cacheConfig.Timeout)
	cache := tokens.NewRateCache(time.Duration(cacheConfig.TTL)*time.Second, loader, nil)
	defer cache.Close()

	runCtx, cancel := utils.TopContext(ctx.Context)
	defer cancel()
	pair := ctx.String(pairFlag.Name)
	value, err := cache.Get(runCtx, pair)
	if err != nil {
		return err
	}
	return printJSON(ctx, map[string]interface{}{"pair": pair, "rate": value})
}
