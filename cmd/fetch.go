package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/percy-xu/xquant"
	"github.com/percy-xu/xquant/date"
)

type fetchCmd struct {
	from, to string
}

func (*fetchCmd) Name() string     { return "fetch" }
func (*fetchCmd) Synopsis() string { return "fetch daily closes from Tushare" }
func (*fetchCmd) Usage() string {
	return `fetch -from <date> -to <date> [tickers...]

Fetch the daily closes of the given tickers over a date range and store
them in the market file. Without tickers, every security already in the
market is updated. New tickers are declared on the fly.
`
}

func (c *fetchCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day to fetch (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", date.Today().String(), "Last day to fetch (YYYY-MM-DD)")
}

func (c *fetchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	from, err := date.Parse(c.from)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: invalid -from:", err)
		return subcommands.ExitUsageError
	}
	to, err := date.Parse(c.to)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error: invalid -to:", err)
		return subcommands.ExitUsageError
	}
	r := date.Range{From: from, To: to}

	m, err := DecodeMarket()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	for _, ticker := range f.Args() {
		if m.Has(ticker) {
			continue
		}
		if err := m.Add(xquant.NewSecurity(ticker, "")); err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			return subcommands.ExitFailure
		}
	}

	if err := xquant.UpdateMarket(ctx, m, r); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}

	if err := EncodeMarket(m); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Successfully updated %s\n", *marketFile)
	return subcommands.ExitSuccess
}
