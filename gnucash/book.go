// Package gnucash extracts investment holdings and prices from a GnuCash
// book, in either its SQLite or its XML file format.
//
// Only what the rebalancer needs is read: FUND-commodity accounts, their
// split quantities, and the most recent USD price per commodity. The full
// double-entry machinery of the book stays untouched.
package gnucash

import (
	"fmt"
	"time"

	rebal "github.com/mkrall/rebal"
	"github.com/shopspring/decimal"
)

// Commodity identifies a traded instrument or a currency.
type Commodity struct {
	ID    string // mnemonic, e.g. "VTSAX"
	Space string // namespace: "FUND", "CURRENCY", ...
	Name  string // full name, falls back to the ID when the book has none
}

func newCommodity(id, space, name string) Commodity {
	if name == "" {
		name = id
	}
	return Commodity{ID: id, Space: space, Name: name}
}

// IsInvestment reports whether the commodity is a fund holding.
func (c Commodity) IsInvestment() bool { return c.Space == "FUND" }

// Price is one quoted price of a commodity in a currency.
type Price struct {
	Commodity Commodity // what is priced
	Currency  Commodity // what it is priced in
	Value     decimal.Decimal
	Time      time.Time
}

// InUSD reports whether the price is quoted in US dollars.
func (p Price) InUSD() bool {
	return p.Currency.Space == "CURRENCY" && p.Currency.ID == "USD"
}

// priceDB keeps the most recent price per commodity.
type priceDB struct {
	lastByCommodity map[string]Price
}

func newPriceDB() priceDB {
	return priceDB{lastByCommodity: make(map[string]Price)}
}

func (db *priceDB) add(p Price) {
	if existing, ok := db.lastByCommodity[p.Commodity.ID]; ok && p.Time.Before(existing.Time) {
		return
	}
	db.lastByCommodity[p.Commodity.ID] = p
}

func (db *priceDB) lastFor(commodityID string) (Price, bool) {
	p, ok := db.lastByCommodity[commodityID]
	return p, ok
}

// Split is one leg of a transaction touching an account: the quantity is
// in the account's commodity, the value in the transaction currency.
type Split struct {
	Account  string // account guid
	Value    decimal.Decimal
	Quantity decimal.Decimal
}

// Account is one commodity-bearing account of the book.
type Account struct {
	GUID      string
	Name      string
	Commodity Commodity
	splits    []Split
}

func (a *Account) addSplit(s Split) { a.splits = append(a.splits, s) }

// CurrentQuantity sums the split quantities: the number of shares held.
func (a *Account) CurrentQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, s := range a.splits {
		total = total.Add(s.Quantity)
	}
	return total
}

// CurrentValue prices the held quantity at the last known price.
func (a *Account) CurrentValue(last Price) (decimal.Decimal, error) {
	if a.Commodity.ID != last.Commodity.ID {
		return decimal.Decimal{}, fmt.Errorf("price for %q cannot value account %q holding %q",
			last.Commodity.ID, a.Name, a.Commodity.ID)
	}
	return a.CurrentQuantity().Mul(last.Value), nil
}

// Book is the slice of a GnuCash book the rebalancer cares about:
// investment accounts and the price database.
type Book struct {
	prices        priceDB
	accountByGUID map[string]*Account
}

func newBook() *Book {
	return &Book{prices: newPriceDB(), accountByGUID: make(map[string]*Account)}
}

func (b *Book) addInvestment(a *Account) { b.accountByGUID[a.GUID] = a }

// addSplit routes a split to its account; splits of non-investment
// accounts are dropped.
func (b *Book) addSplit(s Split) {
	if account, ok := b.accountByGUID[s.Account]; ok {
		account.addSplit(s)
	}
}

// LastPrice returns the most recent known price for a commodity.
func (b *Book) LastPrice(commodityID string) (Price, bool) {
	return b.prices.lastFor(commodityID)
}

// Holdings returns every investment account worth more than $0 as an
// asset, classified through the given table.
func (b *Book) Holdings(classifications *rebal.Classifications) ([]rebal.Asset, error) {
	var holdings []rebal.Asset
	for _, account := range b.accountByGUID {
		last, ok := b.prices.lastFor(account.Commodity.ID)
		if !ok {
			return nil, fmt.Errorf("no last price found for %q", account.Commodity.ID)
		}
		value, err := account.CurrentValue(last)
		if err != nil {
			return nil, err
		}
		if value.IsZero() {
			// empty or closed accounts are ignored
			continue
		}

		class, err := classifications.Classify(account.Commodity.ID)
		if err != nil {
			return nil, err
		}
		holdings = append(holdings, rebal.Asset{
			Name:     account.Name,
			Symbol:   account.Commodity.ID,
			Value:    rebal.M(value),
			Class:    class,
			Quantity: account.CurrentQuantity(),
			Price:    rebal.M(last.Value),
			PricedAt: last.Time,
		})
	}
	return holdings, nil
}

// PortfolioStatus groups the book's holdings into the given target
// allocations and returns the resulting snapshot. Holdings of classes
// absent from the target table are ignored.
func (b *Book) PortfolioStatus(classifications *rebal.Classifications, targets []*rebal.Allocation) (*rebal.Portfolio, error) {
	byClass := make(map[rebal.AssetClass]*rebal.Allocation, len(targets))
	for _, allocation := range targets {
		byClass[allocation.Class()] = allocation
	}

	holdings, err := b.Holdings(classifications)
	if err != nil {
		return nil, err
	}
	for _, asset := range holdings {
		allocation, ok := byClass[asset.Class]
		if !ok {
			continue
		}
		if err := allocation.AddAsset(asset); err != nil {
			return nil, err
		}
	}
	return rebal.NewPortfolio(targets)
}

// Open reads the book named by the configuration. The returned Store is
// nil for XML books: price updates and income statistics need SQLite.
func Open(conf rebal.GnuCashConfig) (*Book, *Store, error) {
	switch conf.FileFormat {
	case "sqlite3":
		store, err := OpenSQLite(conf.PathToBook)
		if err != nil {
			return nil, nil, err
		}
		book, err := store.Book()
		if err != nil {
			store.Close()
			return nil, nil, err
		}
		return book, store, nil
	case "xml":
		book, err := ReadXMLFile(conf.PathToBook)
		return book, nil, err
	default:
		return nil, nil, fmt.Errorf("unsupported book format %q (want sqlite3 or xml)", conf.FileFormat)
	}
}
