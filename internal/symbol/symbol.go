// Package symbol maps between human-facing tickers, Kraken pair codes, and
// database symbols. All functions are pure lookups with no state or I/O.
//
// Kraken uses legacy ISO-style codes for a few assets: BTC is XBT and DOGE
// is XDG. Timeframe tokens map to Kraken's interval parameter in minutes.
package symbol

import (
	"strings"

	"github.com/cstortz/monorepo-trading-bot/internal/model"
)

// assetAliases maps display tickers to Kraken asset codes.
var assetAliases = map[string]string{
	"BTC":  "XBT",
	"DOGE": "XDG",
}

// assetAliasesReverse maps Kraken asset codes back to display tickers.
var assetAliasesReverse = map[string]string{
	"XBT": "BTC",
	"XDG": "DOGE",
}

// intervals maps timeframe tokens to Kraken interval values (minutes).
var intervals = map[string]int{
	"1m":  1,
	"5m":  5,
	"15m": 15,
	"30m": 30,
	"1h":  60,
	"4h":  240,
	"1d":  1440,
	"1w":  10080,
	"1M":  21600, // approximate month
}

// quoteCurrencies are tried, longest first, when splitting a concatenated
// pair like "BTCUSD" into base and quote.
var quoteCurrencies = []string{"USDT", "USDC", "USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF", "XBT", "ETH"}

// NormalizePair converts a pair in any common format ("BTC/USD", "btc-usd",
// "BTCUSD") to the Kraken altname format ("XBTUSD"). Unknown assets pass
// through unchanged.
func NormalizePair(pair string) string {
	p := strings.ToUpper(pair)
	p = strings.ReplaceAll(p, "/", "")
	p = strings.ReplaceAll(p, "-", "")

	if alias, ok := assetAliases[p]; ok {
		return alias
	}
	for display, code := range assetAliases {
		if strings.HasPrefix(p, display) {
			return code + p[len(display):]
		}
	}
	return p
}

// DenormalizePair converts a Kraken pair code back to display form:
// "XBTUSD" -> "BTC/USD". If the quote currency cannot be identified the
// alias-substituted code is returned without a separator.
func DenormalizePair(pair string) string {
	p := strings.ToUpper(strings.TrimSpace(pair))

	if display, ok := assetAliasesReverse[p]; ok {
		return display
	}
	for code, display := range assetAliasesReverse {
		if strings.HasPrefix(p, code) {
			p = display + p[len(code):]
			break
		}
	}

	if base, quote, ok := SplitPair(p); ok {
		return base + "/" + quote
	}
	return p
}

// SplitPair splits a concatenated pair into base and quote using the known
// quote currency list. Returns ok=false when no known quote matches.
func SplitPair(pair string) (base, quote string, ok bool) {
	p := strings.ToUpper(pair)
	for _, q := range quoteCurrencies {
		if strings.HasSuffix(p, q) && len(p) > len(q) {
			return p[:len(p)-len(q)], q, true
		}
	}
	return "", "", false
}

// Interval converts a timeframe token to Kraken's interval parameter in
// minutes. Unknown tokens return a ValidationError naming the token.
func Interval(timeframe string) (int, error) {
	iv, ok := intervals[timeframe]
	if !ok {
		return 0, &model.ValidationError{Field: "timeframe", Token: timeframe}
	}
	return iv, nil
}

// IsValidTimeframe reports whether tf is a recognized timeframe token.
func IsValidTimeframe(tf string) bool {
	_, ok := intervals[tf]
	return ok
}

// Timeframes returns the recognized timeframe tokens, shortest interval
// first.
func Timeframes() []string {
	return []string{"1m", "5m", "15m", "30m", "1h", "4h", "1d", "1w", "1M"}
}

// krakenSymbolMap maps Kraken pair codes to database symbols for the pairs
// the service tracks by default.
var krakenSymbolMap = map[string]string{
	"XBTUSD":   "BTC/USD",
	"XBTUSDT":  "BTC/USDT",
	"ETHUSD":   "ETH/USD",
	"ETHUSDT":  "ETH/USDT",
	"ADAUSD":   "ADA/USD",
	"ADAUSDT":  "ADA/USDT",
	"SOLUSD":   "SOL/USD",
	"SOLUSDT":  "SOL/USDT",
	"DOTUSD":   "DOT/USD",
	"DOTUSDT":  "DOT/USDT",
	"MATICUSD": "MATIC/USD",
	"LINKUSD":  "LINK/USD",
	"LINKUSDT": "LINK/USDT",
	"AVAXUSD":  "AVAX/USD",
	"ATOMUSD":  "ATOM/USD",
	"ALGOUSD":  "ALGO/USD",
}

// KrakenSymbolMap returns a copy of the curated pair -> database symbol
// table used by symbol sync.
func KrakenSymbolMap() map[string]string {
	out := make(map[string]string, len(krakenSymbolMap))
	for k, v := range krakenSymbolMap {
		out[k] = v
	}
	return out
}

// DBSymbol maps a Kraken pair code to its database symbol. Pairs outside
// the curated table fall back to denormalized base/quote inference.
func DBSymbol(krakenPair string) string {
	if sym, ok := krakenSymbolMap[strings.ToUpper(krakenPair)]; ok {
		return sym
	}
	return DenormalizePair(krakenPair)
}
