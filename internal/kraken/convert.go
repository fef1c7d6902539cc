package kraken

import (
	"sort"
	"strconv"
	"time"

	"github.com/cstortz/monorepo-trading-bot/internal/model"
)

// DataSource is the value written to persisted records.
const DataSource = "kraken"

// PairsToModel converts the AssetPairs catalog to TradingPair values,
// sorted by exchange code for stable pagination.
func PairsToModel(pairs map[string]AssetPairInfo) []model.TradingPair {
	out := make([]model.TradingPair, 0, len(pairs))
	for code, info := range pairs {
		name := info.WSName
		if name == "" {
			name = info.Altname
		}
		if name == "" {
			name = code
		}
		out = append(out, model.TradingPair{
			Pair:    code,
			Altname: info.Altname,
			Name:    name,
			Base:    info.Base,
			Quote:   info.Quote,
			Status:  info.Status,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pair < out[j].Pair })
	return out
}

// ToRecord converts a candle to the stored OHLC shape. Close doubles as the
// adjusted close since spot pairs have no corporate actions.
func (c Candle) ToRecord(pair, timeframe string) model.OHLCRecord {
	return model.OHLCRecord{
		Pair:          pair,
		Timestamp:     time.Unix(c.Time, 0).UTC(),
		Open:          c.Open,
		High:          c.High,
		Low:           c.Low,
		Close:         c.Close,
		Volume:        c.Volume,
		AdjustedClose: c.Close,
		TimeFrame:     timeframe,
		DataSource:    DataSource,
	}
}

// ToRecords converts all candles in the result.
func (r *OHLCResult) ToRecords(timeframe string) []model.OHLCRecord {
	records := make([]model.OHLCRecord, 0, len(r.Candles))
	for _, c := range r.Candles {
		records = append(records, c.ToRecord(r.Pair, timeframe))
	}
	return records
}

// ToQuote converts ticker data to a real-time price quote. The 24h change
// is derived from today's open when present.
func (t *TickerResult) ToQuote() model.PriceQuote {
	q := model.PriceQuote{
		Pair:       t.Pair,
		DataSource: DataSource,
	}

	if len(t.Close) > 0 {
		q.Price = parseFloat(t.Close[0])
	}
	if len(t.Bid) > 0 {
		q.Bid = floatPtr(parseFloat(t.Bid[0]))
	}
	if len(t.Ask) > 0 {
		q.Ask = floatPtr(parseFloat(t.Ask[0]))
	}
	if len(t.Volume) > 1 {
		q.Volume24h = floatPtr(parseFloat(t.Volume[1]))
	}

	if t.Open != "" {
		open := parseFloat(t.Open)
		if open > 0 {
			change := q.Price - open
			pct := change / open * 100
			q.Change24h = &change
			q.ChangePercent24h = &pct
		}
	}

	return q
}

func parseFloat(s string) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func floatPtr(f float64) *float64 { return &f }
