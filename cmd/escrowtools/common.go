package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/anyswap/Escrow-Bridge/cmd/utils"
	"github.com/anyswap/Escrow-Bridge/mongodb"
	"github.com/anyswap/Escrow-Bridge/params"
	"github.com/anyswap/Escrow-Bridge/signer"
	"github.com/anyswap/Escrow-Bridge/tokens/ripple"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v2"
)

const metricsPrefix = "escrow_bridge_"

func withConfigFlags(flags ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{utils.ConfigFileFlag}, flags...)
}

func loadConfig(ctx *cli.Context) (*params.EscrowConfig, error) {
	if err := utils.SetLogger(ctx); err != nil {
		return nil, err
	}
	return params.LoadConfigFile(utils.GetConfigFilePath(ctx))
}

func newBridge(config *params.EscrowConfig) (*ripple.Bridge, error) {
	if err := ripple.RegisterMetrics(prometheus.DefaultRegisterer); err != nil {
		return nil, err
	}
	return ripple.NewBridge(config.Ledger, nil)
}

// dumpMetrics writes the escrow bridge metrics gathered from g, one sample per line
func dumpMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return err
	}
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), metricsPrefix) {
			continue
		}
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%v=%q", l.GetName(), l.GetValue()))
			}
			fmt.Fprintf(w, "%v{%v} %v\n", mf.GetName(), strings.Join(labels, ","), m.GetCounter().GetValue())
		}
	}
	return nil
}

func printMetrics(ctx *cli.Context) error {
	if !ctx.Bool(metricsFlag.Name) {
		return nil
	}
	w := ctx.App.ErrWriter
	if w == nil {
		w = os.Stderr
	}
	return dumpMetrics(w, prometheus.DefaultGatherer)
}

func newCoordinator(config *params.EscrowConfig) (*signer.Coordinator, error) {
	if config.Signer == nil {
		return nil, fmt.Errorf("no [Signer] in config")
	}
	return signer.NewCoordinator(config.Signer)
}

func initMongoDB(ctx context.Context, config *params.EscrowConfig) (bool, error) {
	dbConfig := config.MongoDB
	if dbConfig == nil {
		return false, nil
	}
	err := mongodb.MongoServerInit(ctx, config.Identifier, dbConfig.GetURLs(), dbConfig.DBName, dbConfig.UserName, dbConfig.Password)
	if err != nil {
		return false, err
	}
	return true, nil
}

func printJSON(ctx *cli.Context, v interface{}) error {
	bs, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.App.Writer, string(bs))
	return nil
}

// readArgument reads `@file` arguments from file
func readArgument(value string) (string, error) {
	if !strings.HasPrefix(value, "@") {
		return value, nil
	}
	bs, err := os.ReadFile(value[1:])
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bs)), nil
}

func requireString(ctx *cli.Context, flag *cli.StringFlag) (string, error) {
	value := ctx.String(flag.Name)
	if value == "" {
		return "", fmt.Errorf("missing flag --%v", flag.Name)
	}
	return value, nil
}

func parseTimeFlag(ctx *cli.Context, flag *cli.StringFlag) (*time.Time, error) {
	value := ctx.String(flag.Name)
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, fmt.Errorf("wrong --%v: %w", flag.Name, err)
	}
	return &t, nil
}

func uint32Flag(ctx *cli.Context, flag *cli.Uint64Flag) (uint32, error) {
	value := ctx.Uint64(flag.Name)
	if value > math.MaxUint32 {
		return 0, fmt.Errorf("--%v %v overflows uint32", flag.Name, value)
	}
	return uint32(value), nil
}

func destinationTag(ctx *cli.Context) (*uint32, error) {
	if !ctx.IsSet(destTagFlag.Name) {
		return nil, nil
	}
	tag, err := uint32Flag(ctx, destTagFlag)
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func txOptions(ctx *cli.Context) (ripple.TxOptions, error) {
	sequence, err := uint32Flag(ctx, sequenceFlag)
	if err != nil {
		return ripple.TxOptions{}, err
	}
	return ripple.TxOptions{
		Fee:      ctx.String(feeFlag.Name),
		Sequence: sequence,
	}, nil
}

func readPreparedTx(ctx *cli.Context) (*ripple.PreparedTx, error) {
	value, err := requireString(ctx, txJSONFlag)
	if err != nil {
		return nil, err
	}
	if value, err = readArgument(value); err != nil {
		return nil, err
	}
	var prepared ripple.PreparedTx
	if err = json.Unmarshal([]byte(value), &prepared); err != nil {
		return nil, fmt.Errorf("wrong prepared tx: %w", err)
	}
	if len(prepared.TxJSON) == 0 {
		// plain transaction json
		prepared.TxJSON = json.RawMessage(value)
	}
	if instruction := ctx.String(instructionFlag.Name); instruction != "" {
		prepared.Instruction = instruction
	}
	return &prepared, nil
}
