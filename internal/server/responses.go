package server

import (
	"time"

	"github.com/cstortz/monorepo-trading-bot/internal/model"
)

// errorResponse is the uniform failure payload.
type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type rootResponse struct {
	Service   string            `json:"service"`
	Version   string            `json:"version"`
	Endpoints map[string]string `json:"endpoints"`
}

type healthResponse struct {
	Status         string `json:"status"`
	Service        string `json:"service"`
	Version        string `json:"version"`
	DatabaseStatus string `json:"database_status"`
	DatabaseURL    string `json:"database_url"`
	Message        string `json:"message,omitempty"`
}

type infoResponse struct {
	Service     string `json:"service"`
	Version     string `json:"version"`
	Environment string `json:"environment"`
	Debug       bool   `json:"debug"`
}

type pagination struct {
	Limit    int  `json:"limit"`
	Offset   int  `json:"offset"`
	Total    int  `json:"total"`
	Returned int  `json:"returned"`
	HasMore  bool `json:"has_more"`
}

type pairsResponse struct {
	Success     bool                `json:"success"`
	Pairs       []string            `json:"pairs"`
	PairsDetail []model.TradingPair `json:"pairs_detail"`
	Pagination  pagination          `json:"pagination"`
	FromCache   bool                `json:"from_cache"`
	Search      string              `json:"search,omitempty"`
}

type refreshResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	TotalPairs  int    `json:"total_pairs"`
	ActivePairs int    `json:"active_pairs"`
}

type addPairResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Pair    string `json:"pair"`
	Symbol  string `json:"symbol"`
}

type fetchOHLCResponse struct {
	Success         bool   `json:"success"`
	Message         string `json:"message"`
	Pair            string `json:"pair"`
	Symbol          string `json:"symbol"`
	Timeframe       string `json:"timeframe"`
	RecordsFetched  int    `json:"records_fetched"`
	RecordsInserted int    `json:"records_inserted"`
}

type fetchTickerResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Pair    string  `json:"pair"`
	Symbol  string  `json:"symbol"`
	Price   float64 `json:"price"`
}

type syncSymbolsResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Created    int    `json:"created"`
	Updated    int    `json:"updated"`
	TotalPairs int    `json:"total_pairs"`
}

type symbolsResponse struct {
	Symbols []model.Symbol `json:"symbols"`
	Count   int            `json:"count"`
}

type realTimePricesResponse struct {
	Prices []model.RealTimePrice `json:"prices"`
	Count  int                   `json:"count"`
}

type priceUpdateResponse struct {
	Success bool    `json:"success"`
	Message string  `json:"message"`
	Symbol  string  `json:"symbol"`
	Price   float64 `json:"price"`
}

type insertMarketDataResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Symbol    string    `json:"symbol"`
	Timestamp time.Time `json:"timestamp"`
	Timeframe string    `json:"timeframe"`
}

type marketStatusResponse struct {
	Status []model.MarketStatus `json:"status"`
	Count  int                  `json:"count"`
}

type marketDataResponse struct {
	Symbol    string             `json:"symbol"`
	Timeframe string             `json:"timeframe"`
	Count     int                `json:"count"`
	Data      []model.OHLCRecord `json:"data"`
}

type timeframesResponse struct {
	Symbol     string   `json:"symbol"`
	Timeframes []string `json:"timeframes"`
	Count      int      `json:"count"`
}
