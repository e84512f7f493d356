package gnucash

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/mkrall/rebal/quote"
)

// sqliteTimeFormat is how GnuCash stamps datetimes in its SQLite books.
// They are all UTC.
const sqliteTimeFormat = "2006-01-02 15:04:05"

// Store is an open GnuCash SQLite book. Unlike the XML reader it can also
// write: new prices fetched from a quote source go back into the prices
// table where GnuCash will pick them up.
type Store struct {
	db *sql.DB
}

// OpenSQLite opens a GnuCash book saved in the sqlite3 format.
func OpenSQLite(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cannot open book %q: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("cannot open book %q: %w", path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Book reads the investment accounts, their splits, and the price
// database out of the store.
func (s *Store) Book() (*Book, error) {
	book := newBook()

	accounts, err := s.investmentAccounts()
	if err != nil {
		return nil, err
	}
	for _, account := range accounts {
		if err := s.readSplits(account); err != nil {
			return nil, err
		}
		book.addInvestment(account)
	}

	if err := s.readPrices(book); err != nil {
		return nil, err
	}
	return book, nil
}

// investmentAccounts lists every account denominated in a FUND commodity.
func (s *Store) investmentAccounts() ([]*Account, error) {
	rows, err := s.db.Query(`
		SELECT a.guid, a.name,
		       c.mnemonic, c.namespace, c.fullname
		  FROM accounts a
		       JOIN commodities c ON a.commodity_guid = c.guid
		 WHERE c.namespace = 'FUND'`)
	if err != nil {
		return nil, fmt.Errorf("reading investment accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*Account
	for rows.Next() {
		var guid, name, mnemonic, namespace string
		var fullname sql.NullString
		if err := rows.Scan(&guid, &name, &mnemonic, &namespace, &fullname); err != nil {
			return nil, err
		}
		accounts = append(accounts, &Account{
			GUID:      guid,
			Name:      name,
			Commodity: newCommodity(mnemonic, namespace, fullname.String),
		})
	}
	return accounts, rows.Err()
}

// readSplits loads an account's splits. Values and quantities are stored
// as integer fractions.
func (s *Store) readSplits(account *Account) error {
	rows, err := s.db.Query(`
		SELECT value_num, value_denom,
		       quantity_num, quantity_denom
		  FROM splits
		 WHERE account_guid = ?`, account.GUID)
	if err != nil {
		return fmt.Errorf("reading splits of %q: %w", account.Name, err)
	}
	defer rows.Close()

	for rows.Next() {
		var valueNum, valueDenom, quantityNum, quantityDenom int64
		if err := rows.Scan(&valueNum, &valueDenom, &quantityNum, &quantityDenom); err != nil {
			return err
		}
		value, err := fracValue(valueNum, valueDenom)
		if err != nil {
			return fmt.Errorf("split of %q: %w", account.Name, err)
		}
		quantity, err := fracValue(quantityNum, quantityDenom)
		if err != nil {
			return fmt.Errorf("split of %q: %w", account.Name, err)
		}
		account.addSplit(Split{Account: account.GUID, Value: value, Quantity: quantity})
	}
	return rows.Err()
}

// readPrices loads the last known price per FUND commodity.
//
// The GROUP BY leans on a SQLite quirk: selecting non-aggregate columns
// alongside max(p.date) yields the row holding the maximum.
func (s *Store) readPrices(book *Book) error {
	rows, err := s.db.Query(`
		SELECT p.value_num, p.value_denom,
		       max(p.date),
		       from_c.mnemonic, from_c.namespace, from_c.fullname,
		       to_c.mnemonic, to_c.namespace, to_c.fullname
		  FROM prices p
		       JOIN commodities from_c ON p.commodity_guid = from_c.guid
		       JOIN commodities to_c   ON p.currency_guid = to_c.guid
		 WHERE from_c.namespace = 'FUND'
		 GROUP BY p.commodity_guid`)
	if err != nil {
		return fmt.Errorf("reading prices: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var num, denom int64
		var stamp string
		var fromID, fromSpace, toID, toSpace string
		var fromName, toName sql.NullString
		if err := rows.Scan(&num, &denom, &stamp,
			&fromID, &fromSpace, &fromName,
			&toID, &toSpace, &toName); err != nil {
			return err
		}
		value, err := fracValue(num, denom)
		if err != nil {
			return fmt.Errorf("price of %q: %w", fromID, err)
		}
		at, err := time.ParseInLocation(sqliteTimeFormat, stamp, time.UTC)
		if err != nil {
			return fmt.Errorf("price of %q: invalid date %q: %w", fromID, stamp, err)
		}
		book.prices.add(Price{
			Commodity: newCommodity(fromID, fromSpace, fromName.String),
			Currency:  newCommodity(toID, toSpace, toName.String),
			Value:     value,
			Time:      at.Local(),
		})
	}
	return rows.Err()
}

// StaleCommodities lists the commodities flagged for alphavantage quoting
// whose last known price is over a day old. A missing price always counts
// as stale.
//
// It could be the weekend or a trading holiday, in which case fetching a
// quote is fruitless. That's fine: the fresh quote will still be stale
// tomorrow and we try again.
func (s *Store) StaleCommodities(book *Book, now time.Time) ([]Commodity, error) {
	rows, err := s.db.Query(`
		SELECT mnemonic, namespace, fullname
		  FROM commodities
		 WHERE namespace = 'FUND'
		   AND quote_flag
		   AND quote_source = 'alphavantage'`)
	if err != nil {
		return nil, fmt.Errorf("reading quoted commodities: %w", err)
	}
	defer rows.Close()

	var stale []Commodity
	for rows.Next() {
		var mnemonic, namespace string
		var fullname sql.NullString
		if err := rows.Scan(&mnemonic, &namespace, &fullname); err != nil {
			return nil, err
		}
		commodity := newCommodity(mnemonic, namespace, fullname.String)

		last, ok := book.prices.lastFor(commodity.ID)
		if !ok || now.Sub(last.Time) > 24*time.Hour {
			stale = append(stale, commodity)
		}
	}
	return stale, rows.Err()
}

// SavePrice records a fetched quote in the prices table, where GnuCash
// itself will find it. The price is stamped at noon UTC of the trading
// day, matching what GnuCash's own quote update writes.
func (s *Store) SavePrice(commodity Commodity, q quote.Quote) error {
	commodityGUID, err := s.commodityGUID(commodity.ID, commodity.Space)
	if err != nil {
		return err
	}
	currency := q.Currency
	if currency == "" {
		currency = "USD"
	}
	currencyGUID, err := s.commodityGUID(currency, "CURRENCY")
	if err != nil {
		return err
	}

	num, denom := fracFromDecimal(q.Last)
	stamp := time.Date(q.Time.Year(), q.Time.Month(), q.Time.Day(), 12, 0, 0, 0, time.UTC)
	guid := strings.ReplaceAll(uuid.NewString(), "-", "")

	_, err = s.db.Exec(`
		INSERT INTO prices (guid, commodity_guid, currency_guid,
		                    date, source, type, value_num, value_denom)
		VALUES (?, ?, ?, ?, 'Finance::Quote', 'last', ?, ?)`,
		guid, commodityGUID, currencyGUID,
		stamp.Format(sqliteTimeFormat), num, denom)
	if err != nil {
		return fmt.Errorf("saving price for %q: %w", commodity.ID, err)
	}
	return nil
}

func (s *Store) commodityGUID(mnemonic, namespace string) (string, error) {
	var guid string
	err := s.db.QueryRow(`
		SELECT guid FROM commodities
		 WHERE mnemonic = ? AND namespace = ?`, mnemonic, namespace).Scan(&guid)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("no commodity %s:%s in this book", namespace, mnemonic)
	}
	if err != nil {
		return "", err
	}
	return guid, nil
}

// fracValue converts a GnuCash num/denom pair to a decimal.
func fracValue(num, denom int64) (decimal.Decimal, error) {
	if denom == 0 {
		return decimal.Decimal{}, fmt.Errorf("fraction %d/0 has a zero denominator", num)
	}
	return decimal.NewFromInt(num).Div(decimal.NewFromInt(denom)), nil
}

// fracFromDecimal renders a decimal as the num/denom pair GnuCash stores.
func fracFromDecimal(d decimal.Decimal) (num, denom int64) {
	denom = 1
	for exp := d.Exponent(); exp < 0; exp++ {
		denom *= 10
	}
	num = d.Coefficient().Int64()
	for exp := d.Exponent(); exp > 0; exp-- {
		num *= 10
	}
	return num, denom
}
