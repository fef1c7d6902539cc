// Package kraken provides the Kraken REST API client.
//
// Public endpoints (no authentication):
//   - https://api.kraken.com/0/public/AssetPairs
//   - https://api.kraken.com/0/public/OHLC
//   - https://api.kraken.com/0/public/Ticker
//
// Every response carries the Kraken envelope {"error": [...], "result": ...};
// a non-empty error array is surfaced as a *KrakenError. Private endpoints
// are reachable through Private with API-Key/API-Sign request signing.
package kraken
