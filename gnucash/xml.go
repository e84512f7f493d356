package gnucash

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"time"

	rebal "github.com/mkrall/rebal"
)

// xmlTimeFormat is how GnuCash stamps datetimes in its XML books: local
// time with an explicit offset.
const xmlTimeFormat = "2006-01-02 15:04:05 -0700"

// The struct tags below use local names only ("id", not "act:id"): the
// decoder then matches regardless of namespace, and nesting keeps
// act:id, cmdty:id and friends apart.

type xmlCommodity struct {
	Space string `xml:"space"`
	ID    string `xml:"id"`
	Name  string `xml:"name"`
}

func (c xmlCommodity) commodity() Commodity { return newCommodity(c.ID, c.Space, c.Name) }

type xmlAccount struct {
	ID        string        `xml:"id"`
	Name      string        `xml:"name"`
	Commodity *xmlCommodity `xml:"commodity"`
}

type xmlPrice struct {
	Commodity xmlCommodity `xml:"commodity"`
	Currency  xmlCommodity `xml:"currency"`
	Time      string       `xml:"time>date"`
	Value     string       `xml:"value"`
}

type xmlPriceDB struct {
	Prices []xmlPrice `xml:"price"`
}

type xmlSplit struct {
	Value    string `xml:"value"`
	Quantity string `xml:"quantity"`
	Account  string `xml:"account"`
}

type xmlTransaction struct {
	Splits []xmlSplit `xml:"splits>split"`
}

// ReadXMLFile parses an uncompressed GnuCash XML book.
//
// This can be sluggish on larger books; consider the sqlite3 format.
func ReadXMLFile(path string) (*Book, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open book %q: %w", path, err)
	}
	defer f.Close()
	return readXML(f)
}

// readXML streams through the book decoding only the elements the
// rebalancer needs. Accounts come before transactions in a GnuCash file,
// so splits always find their account.
func readXML(r io.Reader) (*Book, error) {
	book := newBook()
	decoder := xml.NewDecoder(r)

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			return book, nil
		}
		if err != nil {
			return nil, fmt.Errorf("malformed book: %w", err)
		}
		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}

		switch start.Name.Local {
		case "pricedb":
			var db xmlPriceDB
			if err := decoder.DecodeElement(&db, &start); err != nil {
				return nil, fmt.Errorf("malformed pricedb: %w", err)
			}
			for _, p := range db.Prices {
				price, err := p.price()
				if err != nil {
					return nil, err
				}
				if !price.InUSD() {
					continue
				}
				book.prices.add(price)
			}

		case "account":
			var a xmlAccount
			if err := decoder.DecodeElement(&a, &start); err != nil {
				return nil, fmt.Errorf("malformed account: %w", err)
			}
			// Parent and ROOT accounts carry no commodity.
			if a.Commodity == nil || !a.Commodity.commodity().IsInvestment() {
				continue
			}
			book.addInvestment(&Account{
				GUID:      a.ID,
				Name:      a.Name,
				Commodity: a.Commodity.commodity(),
			})

		case "transaction":
			var t xmlTransaction
			if err := decoder.DecodeElement(&t, &start); err != nil {
				return nil, fmt.Errorf("malformed transaction: %w", err)
			}
			for _, s := range t.Splits {
				split, err := s.split()
				if err != nil {
					return nil, err
				}
				book.addSplit(split)
			}
		}
	}
}

func (p xmlPrice) price() (Price, error) {
	value, err := rebal.ParseFraction(p.Value)
	if err != nil {
		return Price{}, fmt.Errorf("price of %q: %w", p.Commodity.ID, err)
	}
	at, err := time.Parse(xmlTimeFormat, p.Time)
	if err != nil {
		return Price{}, fmt.Errorf("price of %q: invalid date %q: %w", p.Commodity.ID, p.Time, err)
	}
	return Price{
		Commodity: p.Commodity.commodity(),
		Currency:  p.Currency.commodity(),
		Value:     value,
		Time:      at.Local(),
	}, nil
}

func (s xmlSplit) split() (Split, error) {
	value, err := rebal.ParseFraction(s.Value)
	if err != nil {
		return Split{}, fmt.Errorf("split value: %w", err)
	}
	quantity, err := rebal.ParseFraction(s.Quantity)
	if err != nil {
		return Split{}, fmt.Errorf("split quantity: %w", err)
	}
	return Split{Account: s.Account, Value: value, Quantity: quantity}, nil
}
