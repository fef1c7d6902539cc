package dbclient

import (
	"context"
	"fmt"
	"time"

	"github.com/cstortz/monorepo-trading-bot/internal/model"
)

// TradingStore provides the high-level symbol, market-data, and price
// operations on top of the prepared-statement client.
type TradingStore struct {
	client *Client
}

// NewTradingStore wraps a database service client.
func NewTradingStore(client *Client) *TradingStore {
	return &TradingStore{client: client}
}

// Client returns the underlying database service client.
func (s *TradingStore) Client() *Client {
	return s.client
}

func decodeSymbol(row map[string]any) model.Symbol {
	return model.Symbol{
		ID:        rowInt(row, "id"),
		Symbol:    rowString(row, "symbol"),
		Name:      rowString(row, "name"),
		Exchange:  rowString(row, "exchange"),
		AssetType: rowString(row, "asset_type"),
		Currency:  rowString(row, "currency"),
		IsActive:  rowBool(row, "is_active"),
		CreatedAt: rowTime(row, "created_at"),
		UpdatedAt: rowTime(row, "updated_at"),
	}
}

// GetSymbols lists symbols ordered by name.
func (s *TradingStore) GetSymbols(ctx context.Context, limit, offset int) ([]model.Symbol, error) {
	result, err := s.client.Select(ctx,
		"SELECT * FROM symbols ORDER BY symbol LIMIT $1 OFFSET $2",
		limit, offset,
	)
	if err != nil {
		return nil, err
	}

	symbols := make([]model.Symbol, 0, len(result.Rows()))
	for _, row := range result.Rows() {
		symbols = append(symbols, decodeSymbol(row))
	}
	return symbols, nil
}

// GetSymbolByName looks up a symbol by its display name. Returns (nil, nil)
// when no such symbol exists.
func (s *TradingStore) GetSymbolByName(ctx context.Context, symbol string) (*model.Symbol, error) {
	result, err := s.client.Select(ctx,
		"SELECT * FROM symbols WHERE symbol = $1",
		symbol,
	)
	if err != nil {
		return nil, err
	}
	rows := result.Rows()
	if len(rows) == 0 {
		return nil, nil
	}
	sym := decodeSymbol(rows[0])
	return &sym, nil
}

// CreateSymbol inserts a symbol and returns the created row.
func (s *TradingStore) CreateSymbol(ctx context.Context, sym model.Symbol) (*model.Symbol, error) {
	currency := sym.Currency
	if currency == "" {
		currency = "USD"
	}
	result, err := s.client.Insert(ctx,
		`INSERT INTO symbols (symbol, name, exchange, asset_type, currency, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING *`,
		sym.Symbol, sym.Name, sym.Exchange, sym.AssetType, currency, sym.IsActive,
	)
	if err != nil {
		return nil, err
	}
	rows := result.Rows()
	if len(rows) == 0 {
		return nil, &model.UpstreamError{
			Upstream: "database",
			Err:      fmt.Errorf("create symbol %s returned no row", sym.Symbol),
		}
	}
	created := decodeSymbol(rows[0])
	return &created, nil
}

// SetSymbolActive flips the is_active flag for a symbol.
func (s *TradingStore) SetSymbolActive(ctx context.Context, symbol string, active bool) error {
	_, err := s.client.Update(ctx,
		"UPDATE symbols SET is_active = $1, updated_at = CURRENT_TIMESTAMP WHERE symbol = $2 RETURNING *",
		active, symbol,
	)
	return err
}

// InsertOHLC inserts one candle, skipping duplicates. Returns true when the
// row was inserted, false when the conflict target already existed.
func (s *TradingStore) InsertOHLC(ctx context.Context, symbolID int, rec model.OHLCRecord) (bool, error) {
	result, err := s.client.Insert(ctx,
		`INSERT INTO market_data (symbol_id, t_stamp, open, high, low, close, volume, adjusted_close, time_frame, data_source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (symbol_id, t_stamp, time_frame, data_source) DO NOTHING
		RETURNING *`,
		symbolID,
		rec.Timestamp.Format(time.RFC3339),
		rec.Open, rec.High, rec.Low, rec.Close, rec.Volume,
		rec.AdjustedClose, rec.TimeFrame, rec.DataSource,
	)
	if err != nil {
		return false, err
	}
	return len(result.Rows()) > 0, nil
}

// UpsertQuote inserts or updates the real-time price for a symbol.
func (s *TradingStore) UpsertQuote(ctx context.Context, symbolID int, q model.PriceQuote) error {
	_, err := s.client.Insert(ctx,
		`INSERT INTO real_time_prices (symbol_id, price, bid, ask, volume_24h, change_24h, change_percent_24h, market_cap, data_source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (symbol_id, data_source)
		DO UPDATE SET
			price = EXCLUDED.price,
			bid = EXCLUDED.bid,
			ask = EXCLUDED.ask,
			volume_24h = EXCLUDED.volume_24h,
			change_24h = EXCLUDED.change_24h,
			change_percent_24h = EXCLUDED.change_percent_24h,
			market_cap = EXCLUDED.market_cap,
			last_updated = CURRENT_TIMESTAMP
		RETURNING *`,
		symbolID, q.Price, q.Bid, q.Ask, q.Volume24h, q.Change24h, q.ChangePercent24h, q.MarketCap, q.DataSource,
	)
	return err
}

// GetRealTimePrices returns the stored quotes joined with their symbols,
// most recently updated first.
func (s *TradingStore) GetRealTimePrices(ctx context.Context, limit int) ([]model.RealTimePrice, error) {
	result, err := s.client.Select(ctx,
		`SELECT rtp.*, s.symbol, s.name, s.exchange, s.asset_type
		FROM real_time_prices rtp
		JOIN symbols s ON rtp.symbol_id = s.id
		ORDER BY rtp.last_updated DESC
		LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}

	prices := make([]model.RealTimePrice, 0, len(result.Rows()))
	for _, row := range result.Rows() {
		prices = append(prices, model.RealTimePrice{
			ID:               rowInt(row, "id"),
			Symbol:           rowString(row, "symbol"),
			Name:             rowString(row, "name"),
			Price:            rowFloat(row, "price"),
			Bid:              rowFloatPtr(row, "bid"),
			Ask:              rowFloatPtr(row, "ask"),
			Volume24h:        rowFloatPtr(row, "volume_24h"),
			Change24h:        rowFloatPtr(row, "change_24h"),
			ChangePercent24h: rowFloatPtr(row, "change_percent_24h"),
			MarketCap:        rowFloatPtr(row, "market_cap"),
			DataSource:       rowString(row, "data_source"),
			LastUpdated:      rowTime(row, "last_updated"),
		})
	}
	return prices, nil
}

// GetMarketStatus lists exchange open/close state, optionally narrowed to
// one exchange.
func (s *TradingStore) GetMarketStatus(ctx context.Context, exchange string) ([]model.MarketStatus, error) {
	var result *QueryResult
	var err error
	if exchange != "" {
		result, err = s.client.Select(ctx, "SELECT * FROM market_status WHERE exchange = $1", exchange)
	} else {
		result, err = s.client.Select(ctx, "SELECT * FROM market_status")
	}
	if err != nil {
		return nil, err
	}

	statuses := make([]model.MarketStatus, 0, len(result.Rows()))
	for _, row := range result.Rows() {
		statuses = append(statuses, model.MarketStatus{
			Exchange:    rowString(row, "exchange"),
			IsOpen:      rowBool(row, "is_open"),
			NextOpen:    rowTimePtr(row, "next_open"),
			NextClose:   rowTimePtr(row, "next_close"),
			LastUpdated: rowTime(row, "last_updated"),
		})
	}
	return statuses, nil
}

// GetMarketData returns stored candles for a symbol, newest first.
func (s *TradingStore) GetMarketData(ctx context.Context, symbol, timeframe string, limit int) ([]model.OHLCRecord, error) {
	result, err := s.client.Select(ctx,
		`SELECT md.*, md.t_stamp AS timestamp, s.symbol, s.name
		FROM market_data md
		JOIN symbols s ON md.symbol_id = s.id
		WHERE s.symbol = $1 AND md.time_frame = $2
		ORDER BY md.t_stamp DESC
		LIMIT $3`,
		symbol, timeframe, limit,
	)
	if err != nil {
		return nil, err
	}

	records := make([]model.OHLCRecord, 0, len(result.Rows()))
	for _, row := range result.Rows() {
		records = append(records, model.OHLCRecord{
			Pair:          rowString(row, "symbol"),
			Timestamp:     rowTime(row, "timestamp"),
			Open:          rowFloat(row, "open"),
			High:          rowFloat(row, "high"),
			Low:           rowFloat(row, "low"),
			Close:         rowFloat(row, "close"),
			Volume:        rowFloat(row, "volume"),
			AdjustedClose: rowFloat(row, "adjusted_close"),
			TimeFrame:     rowString(row, "time_frame"),
			DataSource:    rowString(row, "data_source"),
		})
	}
	return records, nil
}

// GetDistinctTimeframes lists the timeframes with stored data for a symbol.
func (s *TradingStore) GetDistinctTimeframes(ctx context.Context, symbol string) ([]string, error) {
	result, err := s.client.Select(ctx,
		`SELECT DISTINCT md.time_frame
		FROM market_data md
		JOIN symbols s ON md.symbol_id = s.id
		WHERE s.symbol = $1
		ORDER BY md.time_frame`,
		symbol,
	)
	if err != nil {
		return nil, err
	}

	timeframes := make([]string, 0, len(result.Rows()))
	for _, row := range result.Rows() {
		if tf := rowString(row, "time_frame"); tf != "" {
			timeframes = append(timeframes, tf)
		}
	}
	return timeframes, nil
}
