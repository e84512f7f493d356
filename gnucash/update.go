package gnucash

import (
	"log"
	"time"

	"github.com/mkrall/rebal/quote"
)

// UpdatePrices fetches fresh quotes for every stale commodity and writes
// the fresher ones back to the book. The in-memory price database is
// refreshed too, so valuations after the update see the new prices.
//
// A failed fetch for one symbol is logged and skipped; the other symbols
// still update. Returns how many prices were saved.
func (s *Store) UpdatePrices(book *Book, src quote.Source, now time.Time) (int, error) {
	stale, err := s.StaleCommodities(book, now)
	if err != nil {
		return 0, err
	}

	saved := 0
	for _, commodity := range stale {
		q, err := src.Fetch(commodity.ID)
		if err != nil {
			log.Printf("skipping %s: %v", commodity.ID, err)
			continue
		}
		if !shouldUpdate(book, commodity, q) {
			continue
		}
		if err := s.SavePrice(commodity, q); err != nil {
			return saved, err
		}
		book.prices.add(Price{
			Commodity: commodity,
			Currency:  newCommodity(q.Currency, "CURRENCY", ""),
			Value:     q.Last,
			Time:      q.Time,
		})
		saved++
	}
	return saved, nil
}

// shouldUpdate reports whether a quote is news: a later trading day than
// the last known price, or the same day with a different value.
func shouldUpdate(book *Book, commodity Commodity, q quote.Quote) bool {
	last, ok := book.prices.lastFor(commodity.ID)
	if !ok {
		return true
	}
	lastDay := last.Time.Format("2006-01-02")
	quoteDay := q.Time.Format("2006-01-02")
	if lastDay < quoteDay {
		return true
	}
	return lastDay == quoteDay && !last.Value.Equal(q.Last)
}
