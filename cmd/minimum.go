package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/google/subcommands"

	"github.com/mkrall/rebal/renderer"
)

type minimumCmd struct{}

func (*minimumCmd) Name() string { return "minimum" }
func (*minimumCmd) Synopsis() string {
	return "smallest deposit that brings every class back to target"
}
func (*minimumCmd) Usage() string {
	return `rebal minimum

  Computes the smallest deposit after which every asset class sits at or
  under its target weight, without selling anything. Deposit that amount
  and 'rebal rebalance' will bring the portfolio exactly to target.
`
}

func (c *minimumCmd) SetFlags(f *flag.FlagSet) {}

func (c *minimumCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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
	printMarkdown(renderer.MinimumMarkdown(portfolio.MinimumAdditionToBalance()))
	return subcommands.ExitSuccess
}
