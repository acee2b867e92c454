package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/anyswap/Escrow-Bridge/cmd/utils"
	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/urfave/cli/v2"
)

var (
	clientIdentifier = "escrowtools"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the escrowtools command line interface")
)

func initApp() {
	app.Action = escrowtools
	app.HideVersion = true // we have a command to print the version
	app.Commands = []*cli.Command{
		balancesCommand,
		prepareCommand,
		signCommand,
		submitCommand,
		sendCommand,
		reconcileCommand,
		recordsCommand,
		rateCommand,
		utils.VersionCommand,
	}
	app.Flags = utils.CommonLogFlags
	sort.Sort(cli.CommandsByName(app.Commands))
}

func main() {
	initApp()
	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func escrowtools(ctx *cli.Context) error {
	if err := utils.SetLogger(ctx); err != nil {
		return err
	}
	if ctx.NArg() > 0 {
		return fmt.Errorf("invalid command: %q", ctx.Args().Get(0))
	}
	return cli.ShowAppHelp(ctx)
}
