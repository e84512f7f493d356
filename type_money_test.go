package rebal

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCentsRoundsHalfEven(t *testing.T) {
	tests := []struct {
		amount string
		want   int64
	}{
		{"1.00", 100},
		{"1.005", 100}, // half rounds to even: 100, not 101
		{"1.015", 102},
		{"1.025", 102},
		{"-1.005", -100},
		{"0.004", 0},
		{"0.006", 1},
	}
	for _, tc := range tests {
		m, err := ParseMoney(tc.amount)
		if err != nil {
			t.Fatal(err)
		}
		if got := m.Cents(); got != tc.want {
			t.Errorf("Cents(%s): got %d, want %d", tc.amount, got, tc.want)
		}
	}
}

func TestMoneyString(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{1234.5, "$1,234.50"},
		{0, "$0.00"},
		{-42.42, "-$42.42"},
	}
	for _, tc := range tests {
		if got := M(tc.amount).String(); got != tc.want {
			t.Errorf("String(%v): got %q, want %q", tc.amount, got, tc.want)
		}
	}
}

func TestSignedString(t *testing.T) {
	if got := M(0).SignedString(); got != "-" {
		t.Errorf("zero: got %q, want %q", got, "-")
	}
	if got := M(10).SignedString(); got != "+$10.00" {
		t.Errorf("positive: got %q, want %q", got, "+$10.00")
	}
	if got := M(-10).SignedString(); got != "-$10.00" {
		t.Errorf("negative: got %q, want %q", got, "-$10.00")
	}
}

func TestMoneyArithmeticStaysExact(t *testing.T) {
	// 0.1 + 0.2 is the classic float trap; decimals must not fall into it
	if got := M(decimal.RequireFromString("0.1")).Add(M(decimal.RequireFromString("0.2"))); !got.Equal(M(decimal.RequireFromString("0.3"))) {
		t.Errorf("0.1 + 0.2: got %s, want 0.3", got.Decimal())
	}

	m := M(100).MulRatio(R(decimal.RequireFromString("0.17")))
	if !m.Equal(M(17)) {
		t.Errorf("100 * 0.17: got %s, want 17", m.Decimal())
	}
}

func TestParseMoneyRejectsGarbage(t *testing.T) {
	if _, err := ParseMoney("not a number"); err == nil {
		t.Error("expected an error")
	}
}
