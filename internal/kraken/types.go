package kraken

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// AssetPairInfo describes one tradeable pair from GET /0/public/AssetPairs.
type AssetPairInfo struct {
	Altname string `json:"altname"`
	WSName  string `json:"wsname"`
	Base    string `json:"base"`
	Quote   string `json:"quote"`
	Status  string `json:"status"`
}

// Candle is one OHLC row. Kraken encodes rows as mixed arrays:
// [time, "open", "high", "low", "close", "vwap", "volume", count]
type Candle struct {
	Time   int64
	Open   float64
	High   float64
	Low    float64
	Close  float64
	VWAP   float64
	Volume float64
	Count  int64
}

// UnmarshalJSON decodes a Kraken OHLC array row.
func (c *Candle) UnmarshalJSON(data []byte) error {
	var row []any
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	if len(row) < 8 {
		return fmt.Errorf("ohlc row has %d fields, want 8", len(row))
	}

	fields := []*float64{nil, &c.Open, &c.High, &c.Low, &c.Close, &c.VWAP, &c.Volume}
	for i := 1; i <= 6; i++ {
		f, err := toFloat(row[i])
		if err != nil {
			return fmt.Errorf("ohlc field %d: %w", i, err)
		}
		*fields[i] = f
	}

	t, err := toFloat(row[0])
	if err != nil {
		return fmt.Errorf("ohlc timestamp: %w", err)
	}
	c.Time = int64(t)

	n, err := toFloat(row[7])
	if err != nil {
		return fmt.Errorf("ohlc count: %w", err)
	}
	c.Count = int64(n)

	return nil
}

// toFloat converts a JSON number or numeric string to float64.
func toFloat(v any) (float64, error) {
	switch x := v.(type) {
	case float64:
		return x, nil
	case string:
		return strconv.ParseFloat(x, 64)
	default:
		return 0, fmt.Errorf("unexpected type %T", v)
	}
}

// OHLCResult holds the candles for one pair. Kraken keys the result by the
// canonical pair name (which may differ from the requested altname) with a
// "last" cursor alongside.
type OHLCResult struct {
	Pair    string
	Candles []Candle
	Last    int64
}

// TickerInfo is the ticker payload for one pair from GET /0/public/Ticker.
// Array fields follow Kraken's layout: a/b = [price, whole lot volume, lot
// volume], c = [price, lot volume], v/h/l = [today, last 24 hours].
type TickerInfo struct {
	Ask    []string `json:"a"`
	Bid    []string `json:"b"`
	Close  []string `json:"c"`
	Volume []string `json:"v"`
	High   []string `json:"h"`
	Low    []string `json:"l"`
	Open   string   `json:"o"`
}

// TickerResult pairs the ticker payload with the canonical pair name it was
// keyed under.
type TickerResult struct {
	Pair string
	TickerInfo
}
