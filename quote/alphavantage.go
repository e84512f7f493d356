package quote

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"github.com/shopspring/decimal"
)

const alphavantageAPIKey = "ALPHAVANTAGE_API_KEY"

var alphavantageFlag = flag.String("alphavantage-api-key", "", "Alpha Vantage API key for fetching quotes over HTTP.\n If missing it will read the environment variable \""+alphavantageAPIKey+"\". You can get one at https://www.alphavantage.co/")

func apiKey() string {
	if *alphavantageFlag == "" {
		*alphavantageFlag = os.Getenv(alphavantageAPIKey)
	}
	return *alphavantageFlag
}

// AlphaVantage fetches quotes straight from the provider's HTTP API,
// skipping the GnuCash helper. Responses are cached on disk for a day, so
// repeated runs don't burn through the free request quota.
//
//	{
//	    "Global Quote": {
//	        "01. symbol": "VTSAX",
//	        "05. price": "130.2100",
//	        "07. latest trading day": "2024-03-08",
//	        ...
//	    }
//	}
type AlphaVantage struct {
	// APIKey overrides the -alphavantage-api-key flag and environment.
	APIKey string
}

// Fetch retrieves the GLOBAL_QUOTE for one symbol.
func (a *AlphaVantage) Fetch(symbol string) (Quote, error) {
	key := a.APIKey
	if key == "" {
		key = apiKey()
	}
	if key == "" {
		return Quote{}, fmt.Errorf("no Alpha Vantage API key configured")
	}

	addr := fmt.Sprintf("https://www.alphavantage.co/query?function=GLOBAL_QUOTE&symbol=%s&apikey=%s",
		url.QueryEscape(symbol), url.QueryEscape(key))

	var jobj any
	if err := jwget(daily(), addr, &jobj); err != nil {
		return Quote{}, fmt.Errorf("error retrieving quote for %q: %w", symbol, err)
	}
	return parseGlobalQuote(symbol, jobj)
}

// parseGlobalQuote extracts the quote fields from the decoded JSON payload.
func parseGlobalQuote(symbol string, jobj any) (Quote, error) {
	price, err := stringAt(jobj, "$[\"Global Quote\"][\"05. price\"]")
	if err != nil {
		// an exhausted quota returns 200 with a "Note" payload instead
		return Quote{}, fmt.Errorf("no price in quote reply for %q: %w", symbol, err)
	}
	last, err := decimal.NewFromString(price)
	if err != nil {
		return Quote{}, fmt.Errorf("invalid price %q for %q: %w", price, symbol, err)
	}

	var at time.Time
	if day, err := stringAt(jobj, "$[\"Global Quote\"][\"07. latest trading day\"]"); err == nil {
		// quotes carry only the trading day; stamp them at noon like the
		// accounting store does for day-resolution prices
		at, err = time.ParseInLocation("2006-01-02 15:04:05", day+" 12:00:00", time.Local)
		if err != nil {
			return Quote{}, fmt.Errorf("invalid trading day %q for %q: %w", day, symbol, err)
		}
	}

	// Alpha Vantage quotes US funds in USD; the payload has no currency field.
	return Quote{Symbol: symbol, Last: last, Currency: "USD", Time: at}, nil
}

// stringAt evaluates a jsonpath expression expecting a single string.
func stringAt(jobj any, path string) (string, error) {
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return "", err
	}
	// jsonpath is never clear about whether it returns a list of 1 answer
	// or a single answer; keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	s, ok := jval.(string)
	if !ok {
		return "", fmt.Errorf("%s: not a string: %v", path, jval)
	}
	return s, nil
}
