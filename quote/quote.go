// Package quote fetches live market quotes for fund commodities.
//
// Two sources are available: FinanceQuote drives GnuCash's own
// gnc-fq-helper subprocess, and AlphaVantage queries the same upstream
// provider directly over HTTP. Both produce the same Quote value.
package quote

import (
	"time"

	"github.com/shopspring/decimal"
)

// Quote is the last known price of one commodity.
type Quote struct {
	Symbol   string
	Last     decimal.Decimal
	Currency string
	Time     time.Time
}

// Source fetches the latest quote for a fund symbol.
type Source interface {
	Fetch(symbol string) (Quote, error)
}
