// Package cmd implements the CLI application to back-test strategies.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/percy-xu/xquant"
)

// Commands lists all the subcommands of the application. A main package
// registers them on a commander and executes the user-selected one.
var Commands = []subcommands.Command{
	subcommands.HelpCommand(),
	subcommands.FlagsCommand(),
	subcommands.CommandsCommand(),
	&backtestCmd{},
	&reportCmd{},
	&holdingsCmd{},
	&fetchCmd{},
	&tickerCmd{},
	&topicCmd{},
	&AssistCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var marketFile = flag.String("market-file", "market.jsonl", "Path to the market data file (JSONL format)")
var holdingsFile = flag.String("holdings-file", "holdings.jsonl", "Path to the holdings history file (JSONL format)")
var Verbose = flag.Bool("v", false, "Verbose output")

// DecodeMarket loads the market from the app market file. A missing file
// yields an empty market.
func DecodeMarket() (*xquant.Market, error) {
	return xquant.DecodeMarketFile(*marketFile)
}

// EncodeMarket persists the market into the app market file.
func EncodeMarket(m *xquant.Market) error {
	return xquant.EncodeMarketFile(*marketFile, m)
}

// DecodeHoldings loads the holdings history from the app holdings file.
func DecodeHoldings() (*xquant.Holdings, error) {
	return xquant.ImportHoldings(*holdingsFile)
}

// EncodeHoldings persists the holdings history into the app holdings file.
func EncodeHoldings(h *xquant.Holdings) subcommands.ExitStatus {
	f, err := os.Create(*holdingsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating holdings file %q: %v\n", *holdingsFile, err)
		return subcommands.ExitFailure
	}
	defer f.Close()

	if err := xquant.EncodeHoldings(f, h); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing holdings file %q: %v\n", *holdingsFile, err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully wrote holdings to %s\n", *holdingsFile)
	return subcommands.ExitSuccess
}
