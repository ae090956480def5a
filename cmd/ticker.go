package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"
	"github.com/percy-xu/xquant"
)

type tickerCmd struct{}

func (*tickerCmd) Name() string     { return "ticker" }
func (*tickerCmd) Synopsis() string { return "convert and repair A-share tickers" }
func (*tickerCmd) Usage() string {
	return `ticker convert <tickers...>
ticker suffix <codes...>

convert translates tickers between the exchange style (600036.SH) and the
long style (600036.XSHG). suffix repairs raw numeric codes by zero-padding
to six digits and adding the exchange suffix.
`
}

func (c *tickerCmd) SetFlags(f *flag.FlagSet) {}

func (c *tickerCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() < 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	var op func(string) (string, error)
	switch verb := f.Arg(0); verb {
	case "convert":
		op = xquant.ConvertTicker
	case "suffix":
		op = xquant.AddSuffix
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown verb %q\n", verb)
		return subcommands.ExitUsageError
	}

	status := subcommands.ExitSuccess
	for _, arg := range f.Args()[1:] {
		out, err := op(arg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %q: %v\n", arg, err)
			status = subcommands.ExitFailure
			continue
		}
		fmt.Println(out)
	}
	return status
}
