package gateway

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/cstortz/monorepo-trading-bot/internal/dbclient"
	"github.com/cstortz/monorepo-trading-bot/internal/kraken"
	"github.com/cstortz/monorepo-trading-bot/internal/model"
	"github.com/cstortz/monorepo-trading-bot/internal/pairs"
	"github.com/cstortz/monorepo-trading-bot/internal/symbol"
)

// Service wires the exchange client, pair cache, and database store.
type Service struct {
	kraken *kraken.Client
	store  *dbclient.TradingStore
	pairs  *pairs.Cache
	logger *slog.Logger
}

// NewService creates the gateway. A nil logger falls back to slog.Default().
func NewService(kr *kraken.Client, store *dbclient.TradingStore, cache *pairs.Cache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		kraken: kr,
		store:  store,
		pairs:  cache,
		logger: logger,
	}
}

// PairSource adapts the exchange client to the pair cache's Source
// interface.
func PairSource(c *kraken.Client) pairs.SourceFunc {
	return func(ctx context.Context) ([]model.TradingPair, error) {
		raw, err := c.GetAssetPairs(ctx)
		if err != nil {
			return nil, err
		}
		return kraken.PairsToModel(raw), nil
	}
}

// wrapKraken classifies an exchange error. Unknown-pair envelope errors
// become NotFoundError so handlers answer 404 rather than 502.
func wrapKraken(err error, pair string) error {
	var ke *kraken.KrakenError
	if errors.As(err, &ke) {
		for _, msg := range ke.Messages {
			if strings.Contains(msg, "Unknown asset pair") {
				return &model.NotFoundError{Resource: "pair", Key: pair}
			}
		}
	}
	return &model.UpstreamError{Upstream: "kraken", Err: err}
}

// OHLCReport summarizes one fetch-and-persist run.
type OHLCReport struct {
	Pair      string // Kraken pair as requested (normalized)
	Symbol    string // database symbol the records were stored under
	Timeframe string
	Fetched   int
	Inserted  int
}

// FetchOHLC pulls candles for a pair, keeps the trailing limit entries, and
// persists them under the mapped database symbol. Duplicate candles are
// skipped by the database's conflict target.
func (s *Service) FetchOHLC(ctx context.Context, pair, timeframe string, limit int) (*OHLCReport, error) {
	krakenPair := symbol.NormalizePair(pair)
	interval, err := symbol.Interval(timeframe)
	if err != nil {
		return nil, err
	}

	result, err := s.kraken.GetOHLC(ctx, krakenPair, interval, 0)
	if err != nil {
		return nil, wrapKraken(err, krakenPair)
	}
	if len(result.Candles) == 0 {
		return nil, &model.NotFoundError{Resource: "ohlc data", Key: krakenPair}
	}

	records := result.ToRecords(timeframe)
	if limit > 0 && len(records) > limit {
		records = records[len(records)-limit:]
	}

	dbSymbol := symbol.DBSymbol(krakenPair)
	sym, err := s.getOrCreateSymbol(ctx, dbSymbol)
	if err != nil {
		return nil, err
	}

	inserted := 0
	for _, rec := range records {
		ok, err := s.store.InsertOHLC(ctx, sym.ID, rec)
		if err != nil {
			return nil, err
		}
		if ok {
			inserted++
		}
	}

	s.logger.Info("ohlc fetch complete",
		"pair", krakenPair,
		"symbol", dbSymbol,
		"timeframe", timeframe,
		"fetched", len(records),
		"inserted", inserted,
	)

	return &OHLCReport{
		Pair:      krakenPair,
		Symbol:    dbSymbol,
		Timeframe: timeframe,
		Fetched:   len(records),
		Inserted:  inserted,
	}, nil
}

// TickerReport is the outcome of a ticker fetch.
type TickerReport struct {
	Pair   string
	Symbol string
	Quote  model.PriceQuote
}

// FetchTicker pulls the current ticker for a pair and upserts the real-time
// price row.
func (s *Service) FetchTicker(ctx context.Context, pair string) (*TickerReport, error) {
	krakenPair := symbol.NormalizePair(pair)

	ticker, err := s.kraken.GetTicker(ctx, krakenPair)
	if err != nil {
		return nil, wrapKraken(err, krakenPair)
	}
	quote := ticker.ToQuote()

	dbSymbol := symbol.DBSymbol(krakenPair)
	sym, err := s.getOrCreateSymbol(ctx, dbSymbol)
	if err != nil {
		return nil, err
	}

	if err := s.store.UpsertQuote(ctx, sym.ID, quote); err != nil {
		return nil, err
	}

	s.logger.Info("ticker updated",
		"pair", krakenPair,
		"symbol", dbSymbol,
		"price", quote.Price,
	)

	return &TickerReport{Pair: krakenPair, Symbol: dbSymbol, Quote: quote}, nil
}

// SyncReport summarizes a symbol sync run.
type SyncReport struct {
	Created int
	Updated int
	Total   int
}

// SyncSymbols reconciles the curated pair table against the database:
// missing symbols are created and existing ones have their active flag set
// from the pair's exchange status.
func (s *Service) SyncSymbols(ctx context.Context) (*SyncReport, error) {
	catalog, err := s.kraken.GetAssetPairs(ctx)
	if err != nil {
		return nil, wrapKraken(err, "")
	}

	// status by altname; curated table keys are altnames
	statusByAlt := make(map[string]string, len(catalog))
	for _, info := range catalog {
		statusByAlt[info.Altname] = info.Status
	}

	curated := symbol.KrakenSymbolMap()
	report := &SyncReport{Total: len(curated)}

	for krakenPair, dbSymbol := range curated {
		status, listed := statusByAlt[krakenPair]
		active := listed && status == "online"

		existing, err := s.store.GetSymbolByName(ctx, dbSymbol)
		if err != nil {
			return nil, err
		}

		if existing == nil {
			if _, err := s.store.CreateSymbol(ctx, model.Symbol{
				Symbol:    dbSymbol,
				Name:      dbSymbol,
				Exchange:  "kraken",
				AssetType: "crypto",
				IsActive:  active,
			}); err != nil {
				return nil, err
			}
			report.Created++
			continue
		}

		if existing.IsActive != active {
			if err := s.store.SetSymbolActive(ctx, dbSymbol, active); err != nil {
				return nil, err
			}
			report.Updated++
		}
	}

	s.logger.Info("symbol sync complete",
		"created", report.Created,
		"updated", report.Updated,
		"total", report.Total,
	)
	return report, nil
}

// AddReport is the outcome of registering a new pair.
type AddReport struct {
	Pair   string
	Symbol string
}

// AddPair registers a Kraken pair as a tracked database symbol. The pair
// must exist in the exchange catalog; dbSymbol defaults to the inferred
// display symbol when empty. An initial ticker fetch runs best-effort.
func (s *Service) AddPair(ctx context.Context, krakenPair, dbSymbol string) (*AddReport, error) {
	if krakenPair == "" {
		return nil, &model.ValidationError{Field: "kraken_pair", Token: krakenPair, Msg: "required"}
	}
	normalized := symbol.NormalizePair(krakenPair)

	page, err := s.pairs.GetPairs(ctx, pairs.Query{Search: normalized})
	if err != nil {
		return nil, err
	}
	found := false
	for _, p := range page.Pairs {
		if strings.EqualFold(p.Pair, normalized) || strings.EqualFold(p.Altname, normalized) {
			found = true
			break
		}
	}
	if !found {
		return nil, &model.NotFoundError{Resource: "pair", Key: normalized}
	}

	if dbSymbol == "" {
		dbSymbol = symbol.DBSymbol(normalized)
	}

	if _, err := s.getOrCreateSymbol(ctx, dbSymbol); err != nil {
		return nil, err
	}

	if _, err := s.FetchTicker(ctx, normalized); err != nil {
		s.logger.Warn("initial ticker fetch failed",
			"pair", normalized,
			"error", err,
		)
	}

	return &AddReport{Pair: normalized, Symbol: dbSymbol}, nil
}

// SymbolQuery narrows a symbol listing. String fields match exactly; a nil
// Active skips the flag filter.
type SymbolQuery struct {
	Limit     int
	Offset    int
	AssetType string
	Exchange  string
	Active    *bool
}

// Symbols lists tracked database symbols, filtered after the page is read
// the way the database service's consumers expect.
func (s *Service) Symbols(ctx context.Context, q SymbolQuery) ([]model.Symbol, error) {
	syms, err := s.store.GetSymbols(ctx, q.Limit, q.Offset)
	if err != nil {
		return nil, err
	}

	filtered := make([]model.Symbol, 0, len(syms))
	for _, sym := range syms {
		if q.AssetType != "" && sym.AssetType != q.AssetType {
			continue
		}
		if q.Exchange != "" && sym.Exchange != q.Exchange {
			continue
		}
		if q.Active != nil && sym.IsActive != *q.Active {
			continue
		}
		filtered = append(filtered, sym)
	}
	return filtered, nil
}

// Symbol looks up one tracked symbol by its display name.
func (s *Service) Symbol(ctx context.Context, name string) (*model.Symbol, error) {
	sym, err := s.store.GetSymbolByName(ctx, name)
	if err != nil {
		return nil, err
	}
	if sym == nil {
		return nil, &model.NotFoundError{Resource: "symbol", Key: name}
	}
	return sym, nil
}

// RealTimePrices lists stored quotes, optionally narrowed to one symbol.
func (s *Service) RealTimePrices(ctx context.Context, symbolFilter string, limit int) ([]model.RealTimePrice, error) {
	prices, err := s.store.GetRealTimePrices(ctx, limit)
	if err != nil {
		return nil, err
	}
	if symbolFilter == "" {
		return prices, nil
	}

	filtered := make([]model.RealTimePrice, 0, len(prices))
	for _, p := range prices {
		if p.Symbol == symbolFilter {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

// UpdateQuote stores a caller-supplied quote for an already-tracked symbol.
// Unlike the exchange fetch path, an unknown symbol is not created.
func (s *Service) UpdateQuote(ctx context.Context, symName string, q model.PriceQuote) error {
	sym, err := s.store.GetSymbolByName(ctx, symName)
	if err != nil {
		return err
	}
	if sym == nil {
		return &model.NotFoundError{Resource: "symbol", Key: symName}
	}
	return s.store.UpsertQuote(ctx, sym.ID, q)
}

// InsertMarketData stores one caller-supplied candle under an existing
// symbol. Returns false when the conflict target already held the candle.
func (s *Service) InsertMarketData(ctx context.Context, symName string, rec model.OHLCRecord) (bool, error) {
	if !symbol.IsValidTimeframe(rec.TimeFrame) {
		return false, &model.ValidationError{Field: "time_frame", Token: rec.TimeFrame}
	}

	sym, err := s.store.GetSymbolByName(ctx, symName)
	if err != nil {
		return false, err
	}
	if sym == nil {
		return false, &model.NotFoundError{Resource: "symbol", Key: symName}
	}
	return s.store.InsertOHLC(ctx, sym.ID, rec)
}

// MarketStatus lists exchange open/close state rows.
func (s *Service) MarketStatus(ctx context.Context, exchange string) ([]model.MarketStatus, error) {
	return s.store.GetMarketStatus(ctx, exchange)
}

// MarketData returns stored candles for a database symbol, newest first. An
// empty result is not an error; callers report a zero count.
func (s *Service) MarketData(ctx context.Context, sym, timeframe string, limit int) ([]model.OHLCRecord, error) {
	if !symbol.IsValidTimeframe(timeframe) {
		return nil, &model.ValidationError{Field: "timeframe", Token: timeframe}
	}
	return s.store.GetMarketData(ctx, sym, timeframe, limit)
}

// Timeframes lists the timeframes with stored data for a symbol.
func (s *Service) Timeframes(ctx context.Context, sym string) ([]string, error) {
	return s.store.GetDistinctTimeframes(ctx, sym)
}

// Pairs serves the cached pair catalog.
func (s *Service) Pairs(ctx context.Context, q pairs.Query) (*pairs.Page, error) {
	return s.pairs.GetPairs(ctx, q)
}

// RefreshPairs forces a catalog refresh.
func (s *Service) RefreshPairs(ctx context.Context) (pairs.Stats, error) {
	return s.pairs.Refresh(ctx)
}

// HealthStatus is the aggregated service health.
type HealthStatus struct {
	Status         string // "healthy" or "degraded"
	DatabaseStatus string // "connected" or "disconnected"
	DatabaseURL    string
	Message        string
}

// Health probes the database service. A database outage degrades the
// service but never marks it unhealthy, since exchange-only operations keep
// working.
func (s *Service) Health(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:         "healthy",
		DatabaseStatus: "connected",
		DatabaseURL:    s.store.Client().BaseURL(),
	}

	if err := s.store.Client().Health(ctx); err != nil {
		status.Status = "degraded"
		status.DatabaseStatus = "disconnected"
		status.Message = "database service unavailable"
		s.logger.Warn("database health check failed", "error", err)
	}

	return status
}

// getOrCreateSymbol returns the existing symbol row or creates it with
// inferred metadata.
func (s *Service) getOrCreateSymbol(ctx context.Context, dbSymbol string) (*model.Symbol, error) {
	existing, err := s.store.GetSymbolByName(ctx, dbSymbol)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	created, err := s.store.CreateSymbol(ctx, model.Symbol{
		Symbol:    dbSymbol,
		Name:      dbSymbol,
		Exchange:  "kraken",
		AssetType: "crypto",
		IsActive:  true,
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("symbol created", "symbol", dbSymbol, "id", created.ID)
	return created, nil
}
