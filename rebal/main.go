// Command rebal answers how to split a lump sum across the asset classes
// of a GnuCash portfolio.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"

	"github.com/mkrall/rebal/cmd"
)

func main() {
	// Shell completion runs and exits here when invoked by the shell;
	// otherwise it is a no-op. It must happen before flag.Parse.
	completion().Complete("rebal")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	for _, c := range cmd.Commands {
		commander.Register(c, "")
	}

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}

func completion() *complete.Command {
	appFlags := map[string]complete.Predictor{
		"config":          predict.Files("*.toml"),
		"classifications": predict.Files("*.csv"),
	}
	return &complete.Command{
		Flags: appFlags,
		Sub: map[string]*complete.Command{
			"status": {Flags: map[string]complete.Predictor{
				"apy":       predict.Something,
				"prospects": predict.Nothing,
				"stats":     predict.Nothing,
			}},
			"minimum": {},
			"rebalance": {Flags: map[string]complete.Predictor{
				"amount": predict.Something,
			}},
			"update": {Flags: map[string]complete.Predictor{
				"source": predict.Set{"helper", "alphavantage"},
				"helper": predict.Files("*"),
			}},
			"topic": {Args: predict.Set{"readme", "rebalancing", "strategy", "gnucash", "configuration", "*"}},
		},
	}
}
