package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/percy-xu/xquant"
)

type reportCmd struct {
	config string
	name   string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "compute the performance report of saved holdings" }
func (*reportCmd) Usage() string {
	return `report -config <file>

Recompute the performance report of a previously saved holdings history,
using the same YAML run configuration.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "backtest.yaml", "Path to the YAML run configuration")
	f.StringVar(&c.name, "name", "strategy", "Name to title the report with")
}

func (c *reportCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cf, err := os.Open(c.config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening config %q: %v\n", c.config, err)
		return subcommands.ExitFailure
	}
	defer cf.Close()
	cfg, err := xquant.DecodeConfig(cf)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	m, err := DecodeMarket()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	holdings, err := DecodeHoldings()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	md, err := reportMarkdown(c.name, cfg, holdings, m)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(md)
	return subcommands.ExitSuccess
}
