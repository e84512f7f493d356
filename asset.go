package rebal

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// AssetClass is a categorical bucket for investments. The set is closed:
// every fund the accounting store can surface maps to exactly one of these.
type AssetClass int

const (
	USBonds AssetClass = iota
	USStocks
	USSmall
	IntlBonds
	IntlStocks
	REIT
	TargetDate
	Cash
)

var assetClassNames = map[AssetClass]string{
	USBonds:    "US Bonds",
	USStocks:   "US Stocks",
	USSmall:    "US Small/Mid Cap",
	IntlBonds:  "International Bonds",
	IntlStocks: "International Stocks",
	REIT:       "REIT",
	TargetDate: "Target Date",
	Cash:       "Cash",
}

func (c AssetClass) String() string {
	if name, ok := assetClassNames[c]; ok {
		return name
	}
	return fmt.Sprintf("AssetClass(%d)", int(c))
}

// ParseAssetClass reads an asset class from its classification-table spelling.
func ParseAssetClass(s string) (AssetClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "us bonds", "usbonds", "us_bonds":
		return USBonds, nil
	case "us stocks", "usstocks", "us_stocks", "us total", "ustotal":
		return USStocks, nil
	case "us small/mid cap", "ussmall", "us_small":
		return USSmall, nil
	case "international bonds", "intlbonds", "intl_bonds":
		return IntlBonds, nil
	case "international stocks", "intlstocks", "intl_stocks":
		return IntlStocks, nil
	case "reit":
		return REIT, nil
	case "target date", "target", "targetdate", "target_date":
		return TargetDate, nil
	case "cash":
		return Cash, nil
	}
	return 0, fmt.Errorf("unknown asset class %q", s)
}

// Asset is one priced position contributing value to an asset class.
// It is immutable once constructed; quantity, price and timestamp are
// display-only metadata.
type Asset struct {
	Name     string
	Symbol   string // ticker, may be empty
	Value    Money
	Class    AssetClass
	Quantity decimal.Decimal // zero when unknown
	Price    Money           // last known unit price, zero when unknown
	PricedAt time.Time       // zero when unknown
}

// NewAsset builds a plain holding with a known value.
func NewAsset(name string, value Money, class AssetClass) Asset {
	return Asset{Name: name, Value: value, Class: class}
}

// less orders assets for display: by name ascending, then value descending.
func (a Asset) less(b Asset) bool {
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.Value.GreaterThan(b.Value)
}

// sortAssets sorts a slice of assets into display order.
func sortAssets(assets []Asset) {
	sort.SliceStable(assets, func(i, j int) bool { return assets[i].less(assets[j]) })
}

// Classifications maps fund symbols to asset classes. It is authored by
// hand as a CSV table (symbol,class) next to the accounting book.
type Classifications struct {
	bySymbol map[string]AssetClass
}

// ReadClassifications parses a "symbol,class" CSV table.
// A header line "symbol,class" or "fund,class" is skipped if present.
func ReadClassifications(r io.Reader) (*Classifications, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 2
	cr.TrimLeadingSpace = true

	c := &Classifications{bySymbol: make(map[string]AssetClass)}
	for line := 1; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("invalid classification table: %w", err)
		}
		symbol := strings.TrimSpace(record[0])
		if line == 1 && (strings.EqualFold(symbol, "symbol") || strings.EqualFold(symbol, "fund")) {
			continue
		}
		class, err := ParseAssetClass(record[1])
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		c.bySymbol[symbol] = class
	}
	return c, nil
}

// OpenClassifications reads the classification table from a file.
func OpenClassifications(path string) (*Classifications, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadClassifications(f)
}

// Classify returns the asset class of a fund symbol.
// Unknown symbols are a configuration error, not a default bucket.
func (c *Classifications) Classify(symbol string) (AssetClass, error) {
	class, ok := c.bySymbol[symbol]
	if !ok {
		return 0, fmt.Errorf("unclassified fund %q: add it to the classification table", symbol)
	}
	return class, nil
}
