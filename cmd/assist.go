package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"
	"github.com/percy-xu/xquant"
	"github.com/percy-xu/xquant/agent"
	"github.com/percy-xu/xquant/date"
	"google.golang.org/genai"
)

// AssistCmd is the subcommand for the AI assistant.
type AssistCmd struct {
	config string
	name   string
}

// Name returns the name of the command.
func (*AssistCmd) Name() string { return "assist" }

// Synopsis returns a short one-line synopsis of the command.
func (*AssistCmd) Synopsis() string { return "Start an interactive session with the AI assistant." }

// Usage returns a long-form usage string.
func (*AssistCmd) Usage() string {
	return `assist [question]:
  Start an interactive session with the AI assistant about the saved run.
`
}

// SetFlags sets the flags for the command.
func (c *AssistCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.config, "config", "backtest.yaml", "Path to the YAML run configuration")
	f.StringVar(&c.name, "name", "strategy", "Name of the strategy the run is about")
}

// Execute executes the command.
func (c *AssistCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	initialPrompt := ""
	if f.NArg() > 0 {
		initialPrompt = strings.Join(f.Args(), " ")
	}

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
	equity, err := xquant.EquityCurve(holdings, m, date.Range{From: cfg.Start, To: cfg.End})
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	res := &xquant.Result{Config: cfg, Holdings: holdings, Equity: equity}

	client, err := genai.NewClient(ctx, nil)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error initializing Gemini's client:", err)
		return subcommands.ExitFailure
	}

	market := agent.NewMarketExpert()
	analyst := agent.NewAnalyst(c.name, res, m)
	a := agent.New(os.Stdout, os.Stdin, market, analyst)

	if err := a.Run(ctx, client, initialPrompt); err != nil {
		fmt.Fprintln(os.Stderr, "Agent failed:", err)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
