package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mkrall/rebal/renderer"
)

// statusCmd holds the flags for the 'status' subcommand.
type statusCmd struct {
	apy       float64
	prospects bool
	stats     bool
}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "display holdings and their distance from target" }
func (*statusCmd) Usage() string {
	return `rebal status [-apy <rate>] [-prospects] [-stats]

  Displays every asset class with its current value, share of the
  portfolio, target share, and deviation from target, plus the holdings
  behind them. -prospects adds net worth projected to candidate
  retirement ages; -stats adds lifetime income figures (sqlite3 books
  only).
`
}

func (c *statusCmd) SetFlags(f *flag.FlagSet) {
	f.Float64Var(&c.apy, "apy", 0.07, "Assumed real annual growth rate for projections")
	f.BoolVar(&c.prospects, "prospects", true, "Project net worth to retirement ages")
	f.BoolVar(&c.stats, "stats", true, "Show lifetime income and giving (sqlite3 books only)")
}

func (c *statusCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	conf, book, store, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if store != nil {
		defer store.Close()
	}

	portfolio, err := buildPortfolio(conf, book)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.StatusMarkdown(portfolio))

	if c.prospects {
		birthday, err := conf.User.BirthdayDate()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.ProspectsMarkdown(birthday, portfolio.CurrentValue(), c.apy))
	}

	if c.stats && store != nil {
		afterTax, err := store.AfterTaxIncome()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		charity, err := store.CharitableGiving()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
		printMarkdown(renderer.StatsMarkdown(afterTax, charity))
	}

	return subcommands.ExitSuccess
}
