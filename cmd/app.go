// Package cmd implements the rebal CLI.
package cmd

import (
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"

	rebal "github.com/mkrall/rebal"
	"github.com/mkrall/rebal/gnucash"
	"github.com/mkrall/rebal/quote"
)

// Commands is the full set of subcommands, in help order.
var Commands = []subcommands.Command{
	&statusCmd{},
	&minimumCmd{},
	&rebalanceCmd{},
	&updateCmd{},
	&topicCmd{},
}

// The rule of thumb behind the default target allocation: hold your age
// in bonds, against a working horizon of 120.
const bondDenominatorYears = 120

// As a CLI application, its lifecycle is very short lived, so it is ok to
// use global variables for app-wide flags.

var configPath = flag.String("config", "config.toml", "Path to the configuration file")
var classificationsPath = flag.String("classifications", "data/classified.csv", "Path to the CSV table mapping fund symbols to asset classes")

// openBook loads the configuration and the book it points at. The store
// is nil for XML books. When the config asks for it, stale prices are
// refreshed before the book is returned.
func openBook() (rebal.Config, *gnucash.Book, *gnucash.Store, error) {
	conf, err := rebal.LoadConfig(*configPath)
	if err != nil {
		return rebal.Config{}, nil, nil, err
	}
	book, store, err := gnucash.Open(conf.GnuCash)
	if err != nil {
		return rebal.Config{}, nil, nil, err
	}
	if conf.GnuCash.UpdatePrices && store != nil {
		src := &quote.FinanceQuote{}
		if _, err := store.UpdatePrices(book, src, time.Now()); err != nil {
			store.Close()
			return rebal.Config{}, nil, nil, fmt.Errorf("updating prices: %w", err)
		}
	}
	return conf, book, store, nil
}

// buildPortfolio derives the target allocation from the configured
// birthday and groups the book's holdings into it.
func buildPortfolio(conf rebal.Config, book *gnucash.Book) (*rebal.Portfolio, error) {
	birthday, err := conf.User.BirthdayDate()
	if err != nil {
		return nil, fmt.Errorf("invalid birthday in config: %w", err)
	}
	bonds, err := rebal.BondAllocation(birthday, bondDenominatorYears)
	if err != nil {
		return nil, err
	}
	targets, err := rebal.CoreFour(bonds)
	if err != nil {
		return nil, err
	}

	classifications, err := rebal.OpenClassifications(*classificationsPath)
	if err != nil {
		return nil, err
	}
	return book.PortfolioStatus(classifications, targets)
}
