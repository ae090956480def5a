package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/percy-xu/xquant"
	"github.com/percy-xu/xquant/date"
	"github.com/percy-xu/xquant/renderer"
)

type holdingsCmd struct {
	export string
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "show the saved holdings history" }
func (*holdingsCmd) Usage() string {
	return `holdings [-export <dir>]

Show the saved holdings history, one portfolio per rebalancing period, with
its value at the end of each period. With -export, also write a copy under
a unique file name in the given directory.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.export, "export", "", "Directory to export a uniquely named copy of the holdings to")
}

func (c *holdingsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	view, err := renderer.NewHoldings("", holdings, m)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.RenderHoldings(view))

	if c.export != "" {
		path, err := xquant.ExportHoldings(c.export, holdings)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
		fmt.Printf("Exported holdings to %s\n", path)
	}
	return subcommands.ExitSuccess
}

// reportMarkdown computes the report of a holdings history and renders it.
func reportMarkdown(name string, cfg xquant.Config, h *xquant.Holdings, m *xquant.Market) (string, error) {
	equity, err := xquant.EquityCurve(h, m, date.Range{From: cfg.Start, To: cfg.End})
	if err != nil {
		return "", err
	}
	res := &xquant.Result{Config: cfg, Holdings: h, Equity: equity}
	rep, err := xquant.NewReport(res, m)
	if err != nil {
		return "", err
	}
	return renderer.RenderReport(renderer.NewReport(name, rep)), nil
}
