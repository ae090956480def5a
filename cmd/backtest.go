package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/percy-xu/xquant"
	"github.com/percy-xu/xquant/renderer"
)

type backtestCmd struct {
	config   string
	universe string
	save     bool
}

func (*backtestCmd) Name() string     { return "backtest" }
func (*backtestCmd) Synopsis() string { return "run a strategy against historical prices" }
func (*backtestCmd) Usage() string {
	return `backtest -config <file> -universe <tickers>

Run an equal-weight strategy over the given universe, following the YAML
run configuration, and print its performance report.
`
}

func (c *backtestCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "backtest.yaml", "Path to the YAML run configuration")
	f.StringVar(&c.universe, "universe", "", "Comma-separated tickers of the strategy universe")
	f.BoolVar(&c.save, "save", false, "Save the holdings history to the holdings file")
}

func (c *backtestCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	if c.universe == "" {
		fmt.Fprintln(os.Stderr, "Error: -universe is required")
		return subcommands.ExitUsageError
	}
	universe := strings.Split(c.universe, ",")

	m, err := DecodeMarket()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	strategy, err := xquant.NewEqualWeight(m, universe...)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	res, err := xquant.Run(ctx, cfg, m, strategy)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	rep, err := xquant.NewReport(res, m)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderReport(renderer.NewReport(strategy.Name(), rep)))

	if c.save {
		return EncodeHoldings(res.Holdings)
	}
	return subcommands.ExitSuccess
}
