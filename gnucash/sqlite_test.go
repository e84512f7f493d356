package gnucash

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mkrall/rebal/quote"
)

// openTestStore builds a minimal GnuCash-shaped SQLite book: one fund
// account with ten shares, two historical prices, and enough of an
// account tree for the income stats.
func openTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := OpenSQLite(filepath.Join(t.TempDir(), "test.gnucash"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })

	schema := []string{
		`CREATE TABLE commodities (
			guid TEXT PRIMARY KEY, namespace TEXT, mnemonic TEXT,
			fullname TEXT, quote_flag INTEGER, quote_source TEXT)`,
		`CREATE TABLE accounts (
			guid TEXT PRIMARY KEY, name TEXT, account_type TEXT,
			parent_guid TEXT, commodity_guid TEXT)`,
		`CREATE TABLE splits (
			account_guid TEXT,
			value_num INTEGER, value_denom INTEGER,
			quantity_num INTEGER, quantity_denom INTEGER)`,
		`CREATE TABLE prices (
			guid TEXT PRIMARY KEY, commodity_guid TEXT, currency_guid TEXT,
			date TEXT, source TEXT, type TEXT,
			value_num INTEGER, value_denom INTEGER)`,
	}
	inserts := []string{
		`INSERT INTO commodities VALUES
			('usd-guid',   'CURRENCY', 'USD',   'US Dollar', 0, NULL),
			('vtsax-guid', 'FUND',     'VTSAX', 'Vanguard Total Stock Market Index Fund', 1, 'alphavantage'),
			('vbtlx-guid', 'FUND',     'VBTLX', 'Vanguard Total Bond Market Index Fund', 0, NULL)`,
		`INSERT INTO accounts VALUES
			('root-guid',      'Root Account',    'ROOT',    NULL,             'usd-guid'),
			('expenses-guid',  'Expenses',        'EXPENSE', 'root-guid',      'usd-guid'),
			('taxes-guid',     'Taxes',           'EXPENSE', 'expenses-guid',  'usd-guid'),
			('fed-guid',       'Federal',         'EXPENSE', 'taxes-guid',     'usd-guid'),
			('charity-guid',   'Charity',         'EXPENSE', 'expenses-guid',  'usd-guid'),
			('salary-guid',    'Salary',          'INCOME',  'root-guid',      'usd-guid'),
			('brokerage-guid', 'Brokerage VTSAX', 'STOCK',   'root-guid',      'vtsax-guid')`,
		`INSERT INTO splits VALUES
			('brokerage-guid',  78126, 100,  60000, 10000),
			('brokerage-guid',  52084, 100,  40000, 10000),
			('salary-guid',   -100000, 100, -100000, 100),
			('fed-guid',        20000, 100,  20000, 100),
			('charity-guid',     5000, 100,   5000, 100)`,
		`INSERT INTO prices VALUES
			('p1', 'vtsax-guid', 'usd-guid', '2024-03-01 12:00:00', 'Finance::Quote', 'last', 1280000, 10000),
			('p2', 'vtsax-guid', 'usd-guid', '2024-03-08 12:00:00', 'Finance::Quote', 'last', 1302100, 10000)`,
	}
	for _, stmt := range append(schema, inserts...) {
		if _, err := store.db.Exec(stmt); err != nil {
			t.Fatalf("setup %q: %v", stmt[:30], err)
		}
	}
	return store
}

func TestStoreBook(t *testing.T) {
	store := openTestStore(t)

	book, err := store.Book()
	if err != nil {
		t.Fatal(err)
	}

	account, ok := book.accountByGUID["brokerage-guid"]
	if !ok {
		t.Fatal("brokerage account not loaded")
	}
	if got := account.CurrentQuantity().String(); got != "10" {
		t.Errorf("quantity: got %s, want 10", got)
	}

	// the GROUP BY must surface the latest of the two prices
	price, ok := book.LastPrice("VTSAX")
	if !ok {
		t.Fatal("no price for VTSAX")
	}
	if got := price.Value.String(); got != "130.21" {
		t.Errorf("price: got %s, want 130.21", got)
	}

	value, err := account.CurrentValue(price)
	if err != nil {
		t.Fatal(err)
	}
	if got := value.String(); got != "1302.1" {
		t.Errorf("value: got %s, want 1302.1", got)
	}
}

func TestStaleCommodities(t *testing.T) {
	store := openTestStore(t)
	book, err := store.Book()
	if err != nil {
		t.Fatal(err)
	}

	// days after the last price: VTSAX is stale, VBTLX is not flagged
	now := time.Date(2024, time.March, 12, 9, 0, 0, 0, time.UTC)
	stale, err := store.StaleCommodities(book, now)
	if err != nil {
		t.Fatal(err)
	}
	if len(stale) != 1 || stale[0].ID != "VTSAX" {
		t.Fatalf("got %v, want just VTSAX", stale)
	}

	// right after the last price: nothing is stale
	fresh, err := store.StaleCommodities(book, book.prices.lastByCommodity["VTSAX"].Time.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != 0 {
		t.Fatalf("got %v, want none", fresh)
	}
}

func TestSavePrice(t *testing.T) {
	store := openTestStore(t)
	book, err := store.Book()
	if err != nil {
		t.Fatal(err)
	}

	q := quote.Quote{
		Symbol:   "VTSAX",
		Last:     decimal.RequireFromString("131.55"),
		Currency: "USD",
		Time:     time.Date(2024, time.March, 12, 12, 0, 0, 0, time.UTC),
	}
	if err := store.SavePrice(newCommodity("VTSAX", "FUND", ""), q); err != nil {
		t.Fatal(err)
	}

	// a reloaded book must surface the saved price as the latest
	book, err = store.Book()
	if err != nil {
		t.Fatal(err)
	}
	price, ok := book.LastPrice("VTSAX")
	if !ok {
		t.Fatal("no price for VTSAX")
	}
	if got := price.Value.String(); got != "131.55" {
		t.Errorf("price: got %s, want 131.55", got)
	}
}

func TestSavePriceUnknownCommodity(t *testing.T) {
	store := openTestStore(t)
	q := quote.Quote{Symbol: "NOPE", Last: decimal.NewFromInt(1), Time: time.Now()}
	if err := store.SavePrice(newCommodity("NOPE", "FUND", ""), q); err == nil {
		t.Error("expected an error for a commodity missing from the book")
	}
}

func TestIncomeStats(t *testing.T) {
	store := openTestStore(t)

	afterTax, err := store.AfterTaxIncome()
	if err != nil {
		t.Fatal(err)
	}
	// 1000 earned, 200 of taxes
	if got := afterTax.Decimal().String(); got != "800" {
		t.Errorf("after-tax income: got %s, want 800", got)
	}

	charity, err := store.CharitableGiving()
	if err != nil {
		t.Fatal(err)
	}
	if got := charity.Decimal().String(); got != "50" {
		t.Errorf("charitable giving: got %s, want 50", got)
	}
}
