// Package model defines the domain types shared across the market-data
// service: exchange trading pairs, OHLC candles, real-time quotes, database
// symbols, and the error taxonomy surfaced to HTTP clients.
package model
