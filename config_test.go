package rebal

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	content := `
[user]
birthday = '1990-06-15'

[gnucash]
path_to_book = '/home/me/books/accounting.gnucash'
file_format = 'sqlite3'
update_prices = true
`
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	conf, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := conf.User.Birthday, "1990-06-15"; got != want {
		t.Errorf("birthday: got %q, want %q", got, want)
	}
	if got, want := conf.GnuCash.PathToBook, "/home/me/books/accounting.gnucash"; got != want {
		t.Errorf("path: got %q, want %q", got, want)
	}
	if conf.GnuCash.FileFormat != "sqlite3" {
		t.Errorf("format: got %q, want sqlite3", conf.GnuCash.FileFormat)
	}
	if !conf.GnuCash.UpdatePrices {
		t.Error("update_prices: got false, want true")
	}

	birthday, err := conf.User.BirthdayDate()
	if err != nil {
		t.Fatal(err)
	}
	if got := birthday.String(); got != "1990-06-15" {
		t.Errorf("parsed birthday: got %s", got)
	}
}

func TestLoadConfigMissingFileFallsBack(t *testing.T) {
	conf, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if conf != DefaultConfig() {
		t.Errorf("got %+v, want defaults", conf)
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[user\nbirthday ="), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected an error for a malformed config")
	}
}
