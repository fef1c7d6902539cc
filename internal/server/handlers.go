package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/cstortz/monorepo-trading-bot/internal/gateway"
	"github.com/cstortz/monorepo-trading-bot/internal/model"
	"github.com/cstortz/monorepo-trading-bot/internal/pairs"
	"github.com/cstortz/monorepo-trading-bot/internal/version"
)

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, rootResponse{
		Service: serviceName,
		Version: version.Version,
		Endpoints: map[string]string{
			"health":           "/health",
			"info":             "/info",
			"pairs":            "/kraken/pairs",
			"refresh":          "/kraken/pairs/refresh",
			"add_pair":         "/kraken/add-pair",
			"fetch_ohlc":       "/kraken/fetch-ohlc",
			"fetch_ticker":     "/kraken/fetch-ticker",
			"sync_symbols":     "/kraken/sync-symbols",
			"symbols":          "/symbols",
			"real_time_prices": "/real-time-prices",
			"market_status":    "/market-status",
			"market_data":      "/market-data/{symbol}",
			"timeframes":       "/market-data/{symbol}/timeframes",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := s.svc.Health(r.Context())
	writeJSON(w, http.StatusOK, healthResponse{
		Status:         status.Status,
		Service:        serviceName,
		Version:        version.Version,
		DatabaseStatus: status.DatabaseStatus,
		DatabaseURL:    status.DatabaseURL,
		Message:        status.Message,
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, infoResponse{
		Service:     serviceName,
		Version:     version.Version,
		Environment: s.info.Environment,
		Debug:       s.info.Debug,
	})
}

func (s *Server) handlePairs(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100, 1, 2000)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	search := r.URL.Query().Get("search")
	status := r.URL.Query().Get("status")
	if status == "" {
		status = "online"
	}
	refresh, err := queryBool(r, "refresh", false)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.svc.Pairs(r.Context(), pairs.Query{
		Search:       search,
		Status:       status,
		Offset:       offset,
		Limit:        limit,
		ForceRefresh: refresh,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	names := make([]string, 0, len(page.Pairs))
	for _, p := range page.Pairs {
		names = append(names, p.Pair)
	}

	writeJSON(w, http.StatusOK, pairsResponse{
		Success:     true,
		Pairs:       names,
		PairsDetail: page.Pairs,
		Pagination: pagination{
			Limit:    limit,
			Offset:   offset,
			Total:    page.Total,
			Returned: page.Returned,
			HasMore:  page.HasMore,
		},
		FromCache: page.FromCache,
		Search:    search,
	})
}

func (s *Server) handleRefreshPairs(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.RefreshPairs(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, refreshResponse{
		Success:     true,
		Message:     fmt.Sprintf("refreshed %d pairs", stats.Total),
		TotalPairs:  stats.Total,
		ActivePairs: stats.Active,
	})
}

func (s *Server) handleAddPair(w http.ResponseWriter, r *http.Request) {
	krakenPair := r.URL.Query().Get("kraken_pair")
	dbSymbol := r.URL.Query().Get("db_symbol")

	report, err := s.svc.AddPair(r.Context(), krakenPair, dbSymbol)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, addPairResponse{
		Success: true,
		Message: fmt.Sprintf("pair %s tracked as %s", report.Pair, report.Symbol),
		Pair:    report.Pair,
		Symbol:  report.Symbol,
	})
}

func (s *Server) handleFetchOHLC(w http.ResponseWriter, r *http.Request) {
	pair := r.URL.Query().Get("pair")
	if pair == "" {
		s.writeError(w, r, &model.ValidationError{Field: "pair", Token: pair, Msg: "required"})
		return
	}
	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = "1h"
	}
	limit, err := queryInt(r, "limit", 720, 1, 720)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	report, err := s.svc.FetchOHLC(r.Context(), pair, timeframe, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fetchOHLCResponse{
		Success:         true,
		Message:         fmt.Sprintf("fetched %d records for %s", report.Fetched, report.Pair),
		Pair:            report.Pair,
		Symbol:          report.Symbol,
		Timeframe:       report.Timeframe,
		RecordsFetched:  report.Fetched,
		RecordsInserted: report.Inserted,
	})
}

func (s *Server) handleFetchTicker(w http.ResponseWriter, r *http.Request) {
	pair := r.URL.Query().Get("pair")
	if pair == "" {
		s.writeError(w, r, &model.ValidationError{Field: "pair", Token: pair, Msg: "required"})
		return
	}

	report, err := s.svc.FetchTicker(r.Context(), pair)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, fetchTickerResponse{
		Success: true,
		Message: fmt.Sprintf("ticker updated for %s", report.Pair),
		Pair:    report.Pair,
		Symbol:  report.Symbol,
		Price:   report.Quote.Price,
	})
}

func (s *Server) handleSyncSymbols(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.SyncSymbols(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, syncSymbolsResponse{
		Success:    true,
		Message:    fmt.Sprintf("synced %d symbols", report.Total),
		Created:    report.Created,
		Updated:    report.Updated,
		TotalPairs: report.Total,
	})
}

func (s *Server) handleSymbols(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100, 1, 1000)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	offset, err := queryInt(r, "offset", 0, 0, 1<<30)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	active, err := queryBool(r, "is_active", true)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	syms, err := s.svc.Symbols(r.Context(), gateway.SymbolQuery{
		Limit:     limit,
		Offset:    offset,
		AssetType: r.URL.Query().Get("asset_type"),
		Exchange:  r.URL.Query().Get("exchange"),
		Active:    &active,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, symbolsResponse{Symbols: syms, Count: len(syms)})
}

func (s *Server) handleSymbol(w http.ResponseWriter, r *http.Request) {
	sym, err := s.svc.Symbol(r.Context(), mux.Vars(r)["symbol"])
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, sym)
}

func (s *Server) handleRealTimePrices(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r, "limit", 100, 1, 1000)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	prices, err := s.svc.RealTimePrices(r.Context(), r.URL.Query().Get("symbol"), limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, realTimePricesResponse{Prices: prices, Count: len(prices)})
}

// priceUpdateRequest is the POST /real-time-prices body. Pointer fields pass
// through as NULL when omitted.
type priceUpdateRequest struct {
	Symbol           string   `json:"symbol"`
	Price            float64  `json:"price"`
	Bid              *float64 `json:"bid"`
	Ask              *float64 `json:"ask"`
	Volume24h        *float64 `json:"volume_24h"`
	Change24h        *float64 `json:"change_24h"`
	ChangePercent24h *float64 `json:"change_percent_24h"`
	MarketCap        *float64 `json:"market_cap"`
	DataSource       string   `json:"data_source"`
}

func (s *Server) handleUpdatePrice(w http.ResponseWriter, r *http.Request) {
	var req priceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &model.ValidationError{Field: "body", Msg: "invalid json"})
		return
	}
	if req.Symbol == "" {
		s.writeError(w, r, &model.ValidationError{Field: "symbol", Msg: "required"})
		return
	}
	if req.Price <= 0 {
		s.writeError(w, r, &model.ValidationError{Field: "price", Token: fmt.Sprint(req.Price), Msg: "must be positive"})
		return
	}
	if req.DataSource == "" {
		s.writeError(w, r, &model.ValidationError{Field: "data_source", Msg: "required"})
		return
	}

	err := s.svc.UpdateQuote(r.Context(), req.Symbol, model.PriceQuote{
		Pair:             req.Symbol,
		Price:            req.Price,
		Bid:              req.Bid,
		Ask:              req.Ask,
		Volume24h:        req.Volume24h,
		Change24h:        req.Change24h,
		ChangePercent24h: req.ChangePercent24h,
		MarketCap:        req.MarketCap,
		DataSource:       req.DataSource,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, priceUpdateResponse{
		Success: true,
		Message: fmt.Sprintf("real-time price updated for %s", req.Symbol),
		Symbol:  req.Symbol,
		Price:   req.Price,
	})
}

// marketDataInsertRequest is the POST /market-data body.
type marketDataInsertRequest struct {
	Symbol        string    `json:"symbol"`
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

func (s *Server) handleInsertMarketData(w http.ResponseWriter, r *http.Request) {
	var req marketDataInsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, r, &model.ValidationError{Field: "body", Msg: "invalid json"})
		return
	}
	if req.Symbol == "" {
		s.writeError(w, r, &model.ValidationError{Field: "symbol", Msg: "required"})
		return
	}
	if req.Timestamp.IsZero() {
		s.writeError(w, r, &model.ValidationError{Field: "timestamp", Msg: "required"})
		return
	}
	if req.Open <= 0 || req.High <= 0 || req.Low <= 0 || req.Close <= 0 {
		s.writeError(w, r, &model.ValidationError{Field: "ohlc", Msg: "prices must be positive"})
		return
	}
	if req.Volume < 0 {
		s.writeError(w, r, &model.ValidationError{Field: "volume", Token: fmt.Sprint(req.Volume), Msg: "must be non-negative"})
		return
	}
	if req.DataSource == "" {
		s.writeError(w, r, &model.ValidationError{Field: "data_source", Msg: "required"})
		return
	}

	inserted, err := s.svc.InsertMarketData(r.Context(), req.Symbol, model.OHLCRecord{
		Pair:          req.Symbol,
		Timestamp:     req.Timestamp,
		Open:          req.Open,
		High:          req.High,
		Low:           req.Low,
		Close:         req.Close,
		Volume:        req.Volume,
		AdjustedClose: req.AdjustedClose,
		TimeFrame:     req.TimeFrame,
		DataSource:    req.DataSource,
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	message := fmt.Sprintf("market data inserted for %s", req.Symbol)
	if !inserted {
		message = fmt.Sprintf("duplicate candle skipped for %s", req.Symbol)
	}
	writeJSON(w, http.StatusOK, insertMarketDataResponse{
		Success:   true,
		Message:   message,
		Symbol:    req.Symbol,
		Timestamp: req.Timestamp,
		Timeframe: req.TimeFrame,
	})
}

func (s *Server) handleMarketStatus(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.svc.MarketStatus(r.Context(), r.URL.Query().Get("exchange"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, marketStatusResponse{Status: statuses, Count: len(statuses)})
}

func (s *Server) handleMarketData(w http.ResponseWriter, r *http.Request) {
	symbolName := mux.Vars(r)["symbol"]
	timeframe := r.URL.Query().Get("timeframe")
	if timeframe == "" {
		timeframe = "1d"
	}
	limit, err := queryInt(r, "limit", 100, 1, 1000)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	records, err := s.svc.MarketData(r.Context(), symbolName, timeframe, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if records == nil {
		records = []model.OHLCRecord{}
	}
	writeJSON(w, http.StatusOK, marketDataResponse{
		Symbol:    symbolName,
		Timeframe: timeframe,
		Count:     len(records),
		Data:      records,
	})
}

func (s *Server) handleTimeframes(w http.ResponseWriter, r *http.Request) {
	symbolName := mux.Vars(r)["symbol"]

	timeframes, err := s.svc.Timeframes(r.Context(), symbolName)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if timeframes == nil {
		timeframes = []string{}
	}
	writeJSON(w, http.StatusOK, timeframesResponse{
		Symbol:     symbolName,
		Timeframes: timeframes,
		Count:      len(timeframes),
	})
}

// queryInt parses an integer query parameter with a default and inclusive
// bounds.
func queryInt(r *http.Request, name string, def, min, max int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &model.ValidationError{Field: name, Token: raw, Msg: "not an integer"}
	}
	if n < min || n > max {
		return 0, &model.ValidationError{
			Field: name,
			Token: raw,
			Msg:   fmt.Sprintf("must be between %d and %d", min, max),
		}
	}
	return n, nil
}

// queryBool parses a boolean query parameter with a default.
func queryBool(r *http.Request, name string, def bool) (bool, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		return false, &model.ValidationError{Field: name, Token: raw, Msg: "not a boolean"}
	}
	return b, nil
}

// writeError maps the error taxonomy onto HTTP status codes.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case model.IsValidation(err):
		status = http.StatusBadRequest
	case model.IsNotFound(err):
		status = http.StatusNotFound
	case model.IsUpstream(err):
		status = http.StatusBadGateway
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err,
		)
	}

	writeJSON(w, status, errorResponse{Success: false, Message: err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
