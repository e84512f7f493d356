package cmd

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	rebal "github.com/mkrall/rebal"
	"github.com/mkrall/rebal/renderer"
)

// rebalanceCmd holds the flags for the 'rebalance' subcommand.
type rebalanceCmd struct {
	amount string
}

func (*rebalanceCmd) Name() string { return "rebalance" }
func (*rebalanceCmd) Synopsis() string {
	return "split a contribution or withdrawal across asset classes"
}
func (*rebalanceCmd) Usage() string {
	return `rebal rebalance [-amount <sum>]

  Splits a lump sum across asset classes so the portfolio lands as close
  to its target allocation as possible. A negative sum is a withdrawal.
  Without -amount, the sum is read from standard input.

Usage Examples:
$ rebal rebalance -amount 1000
$ rebal rebalance -amount -250.50
`
}

func (c *rebalanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Sum to contribute (negative to withdraw); prompts when omitted")
}

func (c *rebalanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	contribution, err := c.contribution()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

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

	if err := rebal.OptimallyAllocate(portfolio, contribution); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.ContributionsMarkdown(portfolio))
	return subcommands.ExitSuccess
}

func (c *rebalanceCmd) contribution() (rebal.Money, error) {
	s := c.amount
	if s == "" {
		fmt.Println("How much to contribute or withdraw?")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return rebal.Money{}, fmt.Errorf("reading amount: %w", err)
		}
		s = line
	}
	amount, err := rebal.ParseMoney(strings.TrimSpace(s))
	if err != nil {
		return rebal.Money{}, fmt.Errorf("invalid amount %q: %w", strings.TrimSpace(s), err)
	}
	return amount, nil
}
