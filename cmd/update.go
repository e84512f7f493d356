package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/subcommands"

	"github.com/mkrall/rebal/quote"
)

// updateCmd holds the flags for the 'update' subcommand.
type updateCmd struct {
	source string
	helper string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "fetch fresh quotes for stale funds" }
func (*updateCmd) Usage() string {
	return `rebal update [-source helper|alphavantage] [-helper <path>]

  Finds funds flagged for quoting whose last price is over a day old,
  fetches fresh quotes, and writes them back to the book's price table.
  Only sqlite3 books can be updated.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.source, "source", "helper", "Quote source: 'helper' shells out to gnc-fq-helper, 'alphavantage' queries the HTTP API directly")
	f.StringVar(&c.helper, "helper", quote.DefaultHelperPath, "Path to the gnc-fq-helper binary")
}

func (c *updateCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	var src quote.Source
	switch c.source {
	case "helper":
		src = &quote.FinanceQuote{HelperPath: c.helper}
	case "alphavantage":
		src = &quote.AlphaVantage{}
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown quote source %q\n", c.source)
		return subcommands.ExitUsageError
	}

	_, book, store, err := openBook()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	if store == nil {
		fmt.Fprintln(os.Stderr, "Error: price updates need a sqlite3 book")
		return subcommands.ExitFailure
	}
	defer store.Close()

	saved, err := store.UpdatePrices(book, src, time.Now())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	fmt.Printf("Saved %d fresh price(s)\n", saved)
	return subcommands.ExitSuccess
}
