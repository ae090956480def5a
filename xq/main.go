package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/percy-xu/xquant/cmd"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

func main() {
	// Shell completion, a no-op outside of a completion context.
	completion().Complete("xq")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()

	// Unknown subcommands fall back to xq-<subcommand> extensions in PATH.
	if args := flag.Args(); len(args) > 0 {
		known := false
		for _, c := range cmd.Commands {
			if c.Name() == args[0] {
				known = true
				break
			}
		}
		if !known {
			if ran, code := cmd.RunExtension(args[0], args[1:]); ran {
				os.Exit(code)
			}
		}
	}

	os.Exit(int(commander.Execute(context.Background())))
}

// completion describes the command tree for shell completion.
func completion() *complete.Command {
	files := predict.Files("*")
	sub := make(map[string]*complete.Command)
	for _, c := range cmd.Commands {
		sub[c.Name()] = &complete.Command{Args: files}
	}
	sub["topic"] = &complete.Command{Args: predict.Set{"readme", "backtest", "market", "metrics", "tickers", "*"}}
	sub["ticker"] = &complete.Command{Args: predict.Set{"convert", "suffix"}}

	return &complete.Command{
		Sub: sub,
		Flags: map[string]complete.Predictor{
			"market-file":   predict.Files("*.jsonl"),
			"holdings-file": predict.Files("*.jsonl"),
			"v":             predict.Nothing,
		},
	}
}
