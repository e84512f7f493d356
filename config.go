package rebal

import (
	"fmt"
	"os"

	"github.com/mkrall/rebal/date"
	"github.com/pelletier/go-toml/v2"
)

// Config is the operator-authored configuration, read from config.toml:
//
//	[user]
//	birthday = '1985-01-01'
//
//	[gnucash]
//	path_to_book = '/path/to/database.gnucash'
//	file_format = 'sqlite3'   # or 'xml'
//	update_prices = false
type Config struct {
	User    UserConfig    `toml:"user"`
	GnuCash GnuCashConfig `toml:"gnucash"`
}

type UserConfig struct {
	Birthday string `toml:"birthday"` // YYYY-MM-DD
}

type GnuCashConfig struct {
	PathToBook   string `toml:"path_to_book"`
	FileFormat   string `toml:"file_format"` // "sqlite3" or "xml"
	UpdatePrices bool   `toml:"update_prices"`
}

// BirthdayDate parses the configured birthday.
func (u UserConfig) BirthdayDate() (date.Date, error) {
	return date.Parse(u.Birthday)
}

// DefaultConfig returns settings suitable for the sample data.
func DefaultConfig() Config {
	return Config{
		User: UserConfig{Birthday: "1985-01-01"},
		GnuCash: GnuCashConfig{
			PathToBook: "example/sqlite3.gnucash",
			FileFormat: "sqlite3",
			// Updating prices shells out to GnuCash's quote helper, so
			// keep it off until the operator opts in.
			UpdatePrices: false,
		},
	}
}

// LoadConfig reads a config file, falling back silently to the defaults
// when the file does not exist. A file that exists but cannot be parsed is
// an error.
func LoadConfig(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return Config{}, err
	}

	var conf Config
	if err := toml.Unmarshal(content, &conf); err != nil {
		return Config{}, fmt.Errorf("invalid config %q: %w", path, err)
	}
	return conf, nil
}
