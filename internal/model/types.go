package model

import "time"

// -----------------------------------------------------------------------------
// Exchange Types
// -----------------------------------------------------------------------------

// TradingPair describes one tradeable instrument in the exchange catalog.
// Instances are immutable once fetched; the full set is replaced wholesale
// on every cache refresh.
type TradingPair struct {
	Pair    string `json:"pair"`    // Exchange code (e.g., "XXBTZUSD")
	Altname string `json:"altname"` // Alternate code (e.g., "XBTUSD")
	Name    string `json:"name"`    // Display name (e.g., "XBT/USD")
	Base    string `json:"base"`    // Base asset (e.g., "XXBT")
	Quote   string `json:"quote"`   // Quote asset (e.g., "ZUSD")
	Status  string `json:"status"`  // online, cancel_only, post_only, ...
}

// Online reports whether the pair is open for trading.
func (p TradingPair) Online() bool {
	return p.Status == "online"
}

// OHLCRecord is one candle fetched from the exchange, in the shape the
// database service stores.
type OHLCRecord struct {
	Pair          string    `json:"pair"`
	Timestamp     time.Time `json:"timestamp"`
	Open          float64   `json:"open"`
	High          float64   `json:"high"`
	Low           float64   `json:"low"`
	Close         float64   `json:"close"`
	Volume        float64   `json:"volume"`
	AdjustedClose float64   `json:"adjusted_close"`
	TimeFrame     string    `json:"time_frame"`
	DataSource    string    `json:"data_source"`
}

// PriceQuote is a real-time price snapshot derived from exchange ticker data.
// Pointer fields are omitted when the exchange did not provide the value.
type PriceQuote struct {
	Pair             string   `json:"pair"`
	Price            float64  `json:"price"`
	Bid              *float64 `json:"bid,omitempty"`
	Ask              *float64 `json:"ask,omitempty"`
	Volume24h        *float64 `json:"volume_24h,omitempty"`
	Change24h        *float64 `json:"change_24h,omitempty"`
	ChangePercent24h *float64 `json:"change_percent_24h,omitempty"`
	MarketCap        *float64 `json:"market_cap,omitempty"`
	DataSource       string   `json:"data_source"`
}

// -----------------------------------------------------------------------------
// Database Types
// -----------------------------------------------------------------------------

// RealTimePrice is a stored quote joined with its symbol metadata.
type RealTimePrice struct {
	ID               int       `json:"id"`
	Symbol           string    `json:"symbol"`
	Name             string    `json:"name,omitempty"`
	Price            float64   `json:"price"`
	Bid              *float64  `json:"bid,omitempty"`
	Ask              *float64  `json:"ask,omitempty"`
	Volume24h        *float64  `json:"volume_24h,omitempty"`
	Change24h        *float64  `json:"change_24h,omitempty"`
	ChangePercent24h *float64  `json:"change_percent_24h,omitempty"`
	MarketCap        *float64  `json:"market_cap,omitempty"`
	DataSource       string    `json:"data_source"`
	LastUpdated      time.Time `json:"last_updated"`
}

// MarketStatus is a row in the market_status table, tracking whether an
// exchange is open and its next session boundaries.
type MarketStatus struct {
	Exchange    string     `json:"exchange"`
	IsOpen      bool       `json:"is_open"`
	NextOpen    *time.Time `json:"next_open,omitempty"`
	NextClose   *time.Time `json:"next_close,omitempty"`
	LastUpdated time.Time  `json:"last_updated"`
}

// Symbol is a row in the database service's symbols table.
type Symbol struct {
	ID        int       `json:"id"`
	Symbol    string    `json:"symbol"` // Display symbol (e.g., "BTC/USD")
	Name      string    `json:"name"`
	Exchange  string    `json:"exchange"`
	AssetType string    `json:"asset_type"`
	Currency  string    `json:"currency"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
