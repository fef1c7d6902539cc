package symbol

import (
	"errors"
	"testing"

	"github.com/cstortz/monorepo-trading-bot/internal/model"
)

func TestNormalizePair(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BTC/USD", "XBTUSD"},
		{"btc-usd", "XBTUSD"},
		{"BTCUSD", "XBTUSD"},
		{"BTCUSDT", "XBTUSDT"},
		{"BTC", "XBT"},
		{"DOGE/USD", "XDGUSD"},
		{"ETHUSD", "ETHUSD"},
		{"ethusd", "ETHUSD"},
		{"XBTUSD", "XBTUSD"},
		{"SOLUSD", "SOLUSD"},
	}

	for _, tt := range tests {
		if got := NormalizePair(tt.in); got != tt.want {
			t.Errorf("NormalizePair(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestDenormalizePair(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"XBTUSD", "BTC/USD"},
		{"XBTUSDT", "BTC/USDT"},
		{"XDGUSD", "DOGE/USD"},
		{"ETHUSD", "ETH/USD"},
		{"XBT", "BTC"},
		{"SOLEUR", "SOL/EUR"},
	}

	for _, tt := range tests {
		if got := DenormalizePair(tt.in); got != tt.want {
			t.Errorf("DenormalizePair(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Normalizing a display ticker and denormalizing the result must return the
// canonical display form.
func TestNormalizeRoundTrip(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"BTC", "BTC"},
		{"BTC/USD", "BTC/USD"},
		{"DOGE/USD", "DOGE/USD"},
		{"ETH/USD", "ETH/USD"},
	}

	for _, tt := range tests {
		if got := DenormalizePair(NormalizePair(tt.in)); got != tt.want {
			t.Errorf("round trip %q = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitPair(t *testing.T) {
	t.Run("known quotes", func(t *testing.T) {
		base, quote, ok := SplitPair("BTCUSDT")
		if !ok || base != "BTC" || quote != "USDT" {
			t.Errorf("SplitPair(BTCUSDT) = %q/%q/%v, want BTC/USDT/true", base, quote, ok)
		}
	})

	t.Run("no match", func(t *testing.T) {
		if _, _, ok := SplitPair("ABCDEF"); ok {
			t.Error("SplitPair(ABCDEF) ok = true, want false")
		}
	})

	t.Run("quote only", func(t *testing.T) {
		if _, _, ok := SplitPair("USD"); ok {
			t.Error("SplitPair(USD) ok = true, want false")
		}
	})
}

func TestInterval(t *testing.T) {
	tests := []struct {
		tf   string
		want int
	}{
		{"1m", 1},
		{"5m", 5},
		{"15m", 15},
		{"30m", 30},
		{"1h", 60},
		{"4h", 240},
		{"1d", 1440},
		{"1w", 10080},
		{"1M", 21600},
	}

	for _, tt := range tests {
		got, err := Interval(tt.tf)
		if err != nil {
			t.Errorf("Interval(%q) unexpected error: %v", tt.tf, err)
			continue
		}
		if got != tt.want {
			t.Errorf("Interval(%q) = %d, want %d", tt.tf, got, tt.want)
		}
	}
}

func TestInterval_Unknown(t *testing.T) {
	_, err := Interval("7x")
	if err == nil {
		t.Fatal("expected error for unknown timeframe")
	}

	var ve *model.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *model.ValidationError, got %T", err)
	}
	if ve.Token != "7x" {
		t.Errorf("Token = %q, want %q", ve.Token, "7x")
	}
}

func TestIsValidTimeframe(t *testing.T) {
	for _, tf := range Timeframes() {
		if !IsValidTimeframe(tf) {
			t.Errorf("IsValidTimeframe(%q) = false, want true", tf)
		}
	}
	if IsValidTimeframe("2h") {
		t.Error("IsValidTimeframe(2h) = true, want false")
	}
	// Case matters: 1M is a month, 1m a minute.
	if !IsValidTimeframe("1M") || !IsValidTimeframe("1m") {
		t.Error("1M and 1m should both be valid")
	}
}

func TestDBSymbol(t *testing.T) {
	tests := []struct {
		pair string
		want string
	}{
		{"XBTUSD", "BTC/USD"},
		{"ETHUSDT", "ETH/USDT"},
		{"xbtusd", "BTC/USD"},
		// Not in the curated table: inferred from base/quote split.
		{"XDGEUR", "DOGE/EUR"},
		{"SOLGBP", "SOL/GBP"},
	}

	for _, tt := range tests {
		if got := DBSymbol(tt.pair); got != tt.want {
			t.Errorf("DBSymbol(%q) = %q, want %q", tt.pair, got, tt.want)
		}
	}
}

func TestKrakenSymbolMap_Copy(t *testing.T) {
	m := KrakenSymbolMap()
	m["XBTUSD"] = "mutated"

	if DBSymbol("XBTUSD") != "BTC/USD" {
		t.Error("mutating the returned map must not affect the table")
	}
}
