package quote

import (
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// helperTimeFormat is how gnc-fq-helper stamps quotes: local time, no zone.
const helperTimeFormat = "2006-01-02 15:04:05"

// DefaultHelperPath is where a stock GnuCash install puts its
// Finance::Quote wrapper on most Linux systems.
const DefaultHelperPath = "gnc-fq-helper"

// FinanceQuote fetches quotes through GnuCash's gnc-fq-helper subprocess,
// the same channel GnuCash itself uses. Requires GnuCash (and its
// Finance::Quote setup) to be installed.
type FinanceQuote struct {
	// HelperPath is the gnc-fq-helper binary; DefaultHelperPath if empty.
	HelperPath string
}

// Fetch asks the helper for the latest alphavantage quote of one symbol.
//
//	echo '(alphavantage "VTSAX")' | gnc-fq-helper
func (f *FinanceQuote) Fetch(symbol string) (Quote, error) {
	helper := f.HelperPath
	if helper == "" {
		helper = DefaultHelperPath
	}

	cmd := exec.Command(helper)
	cmd.Stdin = strings.NewReader(fmt.Sprintf("(alphavantage %q)", symbol))
	out, err := cmd.Output()
	if err != nil {
		return Quote{}, fmt.Errorf("gnc-fq-helper failed for %q: %w", symbol, err)
	}
	return parseHelperReply(string(out))
}

// parseHelperReply decodes the helper's S-expression into a Quote.
func parseHelperReply(reply string) (Quote, error) {
	root, err := parseSexpr(reply)
	if err != nil {
		return Quote{}, err
	}
	// The reply is a one-element list: ((SYMBOL (symbol . ...) ...)).
	if root.isAtom() || len(root.list) == 0 || root.list[0].isAtom() {
		return Quote{}, fmt.Errorf("unexpected quote reply shape: %s", strings.TrimSpace(reply))
	}
	body := root.list[0]

	symbol, ok := body.field("symbol")
	if !ok {
		return Quote{}, fmt.Errorf("quote reply has no symbol")
	}
	last, ok := body.field("last")
	if !ok {
		return Quote{}, fmt.Errorf("quote reply for %q has no last price", symbol)
	}
	price, err := decimal.NewFromString(last)
	if err != nil {
		return Quote{}, fmt.Errorf("invalid last price %q for %q: %w", last, symbol, err)
	}
	currency, _ := body.field("currency")

	var at time.Time
	if ts, ok := body.field("gnc:time-no-zone"); ok {
		at, err = time.ParseInLocation(helperTimeFormat, ts, time.Local)
		if err != nil {
			return Quote{}, fmt.Errorf("invalid quote timestamp %q: %w", ts, err)
		}
	}

	return Quote{Symbol: symbol, Last: price, Currency: currency, Time: at}, nil
}
