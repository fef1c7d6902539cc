package kraken

import (
	"testing"
	"time"
)

// TestPairsToModel tests conversion of the AssetPairs catalog.
func TestPairsToModel(t *testing.T) {
	t.Run("converts and sorts by pair code", func(t *testing.T) {
		pairs := map[string]AssetPairInfo{
			"XXBTZUSD": {Altname: "XBTUSD", WSName: "XBT/USD", Base: "XXBT", Quote: "ZUSD", Status: "online"},
			"ADAUSD":   {Altname: "ADAUSD", WSName: "ADA/USD", Base: "ADA", Quote: "ZUSD", Status: "online"},
		}

		out := PairsToModel(pairs)
		if len(out) != 2 {
			t.Fatalf("len = %d, want 2", len(out))
		}
		if out[0].Pair != "ADAUSD" || out[1].Pair != "XXBTZUSD" {
			t.Errorf("order = [%s %s], want [ADAUSD XXBTZUSD]", out[0].Pair, out[1].Pair)
		}
		if out[1].Name != "XBT/USD" {
			t.Errorf("Name = %q, want %q", out[1].Name, "XBT/USD")
		}
		if !out[1].Online() {
			t.Error("Online() = false, want true")
		}
	})

	t.Run("name falls back to altname then code", func(t *testing.T) {
		out := PairsToModel(map[string]AssetPairInfo{
			"AAAUSD": {Altname: "AAAUSD"},
			"BBBUSD": {},
		})
		if out[0].Name != "AAAUSD" {
			t.Errorf("Name = %q, want altname fallback %q", out[0].Name, "AAAUSD")
		}
		if out[1].Name != "BBBUSD" {
			t.Errorf("Name = %q, want code fallback %q", out[1].Name, "BBBUSD")
		}
	})
}

// TestCandleToRecord tests candle conversion to the stored shape.
func TestCandleToRecord(t *testing.T) {
	c := Candle{
		Time:   1688671200,
		Open:   30306.1,
		High:   30306.2,
		Low:    30305.7,
		Close:  30305.7,
		VWAP:   30306.1,
		Volume: 3.39243896,
		Count:  23,
	}

	rec := c.ToRecord("XXBTZUSD", "1h")
	if rec.Pair != "XXBTZUSD" {
		t.Errorf("Pair = %q, want %q", rec.Pair, "XXBTZUSD")
	}
	want := time.Unix(1688671200, 0).UTC()
	if !rec.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", rec.Timestamp, want)
	}
	if rec.Timestamp.Location() != time.UTC {
		t.Error("Timestamp should be in UTC")
	}
	if rec.AdjustedClose != rec.Close {
		t.Errorf("AdjustedClose = %v, want Close %v", rec.AdjustedClose, rec.Close)
	}
	if rec.TimeFrame != "1h" {
		t.Errorf("TimeFrame = %q, want %q", rec.TimeFrame, "1h")
	}
	if rec.DataSource != "kraken" {
		t.Errorf("DataSource = %q, want %q", rec.DataSource, "kraken")
	}
}

// TestOHLCResultToRecords tests batch conversion.
func TestOHLCResultToRecords(t *testing.T) {
	r := &OHLCResult{
		Pair: "XXBTZUSD",
		Candles: []Candle{
			{Time: 1688671200, Close: 30305.7},
			{Time: 1688674800, Close: 30339.9},
		},
	}

	records := r.ToRecords("1h")
	if len(records) != 2 {
		t.Fatalf("len = %d, want 2", len(records))
	}
	for _, rec := range records {
		if rec.Pair != "XXBTZUSD" {
			t.Errorf("Pair = %q, want %q", rec.Pair, "XXBTZUSD")
		}
		if rec.TimeFrame != "1h" {
			t.Errorf("TimeFrame = %q, want %q", rec.TimeFrame, "1h")
		}
	}
}

// TestTickerToQuote tests ticker conversion to a price quote.
func TestTickerToQuote(t *testing.T) {
	t.Run("full payload", func(t *testing.T) {
		ticker := &TickerResult{
			Pair: "XXBTZUSD",
			TickerInfo: TickerInfo{
				Ask:    []string{"30300.10000", "1", "1.000"},
				Bid:    []string{"30300.00000", "1", "1.000"},
				Close:  []string{"30303.20000", "0.00067643"},
				Volume: []string{"4083.67001100", "4412.73601799"},
				Open:   "30502.80000",
			},
		}

		q := ticker.ToQuote()
		if q.Pair != "XXBTZUSD" {
			t.Errorf("Pair = %q, want %q", q.Pair, "XXBTZUSD")
		}
		if q.Price != 30303.2 {
			t.Errorf("Price = %v, want %v", q.Price, 30303.2)
		}
		if q.Bid == nil || *q.Bid != 30300.0 {
			t.Errorf("Bid = %v, want 30300.0", q.Bid)
		}
		if q.Ask == nil || *q.Ask != 30300.1 {
			t.Errorf("Ask = %v, want 30300.1", q.Ask)
		}
		if q.Volume24h == nil || *q.Volume24h != 4412.73601799 {
			t.Errorf("Volume24h = %v, want 4412.73601799", q.Volume24h)
		}
		if q.Change24h == nil {
			t.Fatal("Change24h should be set")
		}
		wantChange := 30303.2 - 30502.8
		if diff := *q.Change24h - wantChange; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("Change24h = %v, want %v", *q.Change24h, wantChange)
		}
		if q.ChangePercent24h == nil {
			t.Fatal("ChangePercent24h should be set")
		}
		wantPct := wantChange / 30502.8 * 100
		if diff := *q.ChangePercent24h - wantPct; diff > 1e-9 || diff < -1e-9 {
			t.Errorf("ChangePercent24h = %v, want %v", *q.ChangePercent24h, wantPct)
		}
		if q.DataSource != "kraken" {
			t.Errorf("DataSource = %q, want %q", q.DataSource, "kraken")
		}
	})

	t.Run("missing open leaves change unset", func(t *testing.T) {
		ticker := &TickerResult{
			Pair:       "XXBTZUSD",
			TickerInfo: TickerInfo{Close: []string{"30303.20000"}},
		}

		q := ticker.ToQuote()
		if q.Change24h != nil {
			t.Errorf("Change24h = %v, want nil", q.Change24h)
		}
		if q.ChangePercent24h != nil {
			t.Errorf("ChangePercent24h = %v, want nil", q.ChangePercent24h)
		}
		if q.Bid != nil || q.Ask != nil || q.Volume24h != nil {
			t.Error("bid/ask/volume should be nil for sparse payload")
		}
	})
}
