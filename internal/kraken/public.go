package kraken

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// GetAssetPairs fetches the full tradeable-pair catalog, keyed by canonical
// pair name.
func (c *Client) GetAssetPairs(ctx context.Context) (map[string]AssetPairInfo, error) {
	var pairs map[string]AssetPairInfo
	if err := c.public(ctx, "AssetPairs", nil, &pairs); err != nil {
		return nil, fmt.Errorf("get asset pairs: %w", err)
	}
	return pairs, nil
}

// GetOHLC fetches OHLC candles for a pair. interval is in minutes; since,
// when positive, requests only candles after the given cursor.
func (c *Client) GetOHLC(ctx context.Context, pair string, interval int, since int64) (*OHLCResult, error) {
	query := url.Values{}
	query.Set("pair", pair)
	query.Set("interval", strconv.Itoa(interval))
	if since > 0 {
		query.Set("since", strconv.FormatInt(since, 10))
	}

	var raw map[string]json.RawMessage
	if err := c.public(ctx, "OHLC", query, &raw); err != nil {
		return nil, fmt.Errorf("get ohlc %s: %w", pair, err)
	}

	result := &OHLCResult{}
	for key, val := range raw {
		if key == "last" {
			if err := json.Unmarshal(val, &result.Last); err != nil {
				return nil, fmt.Errorf("get ohlc %s: parse last: %w", pair, err)
			}
			continue
		}
		result.Pair = key
		if err := json.Unmarshal(val, &result.Candles); err != nil {
			return nil, fmt.Errorf("get ohlc %s: parse candles: %w", pair, err)
		}
	}

	if result.Pair == "" {
		result.Pair = pair
	}

	return result, nil
}

// GetTicker fetches ticker information for a pair.
func (c *Client) GetTicker(ctx context.Context, pair string) (*TickerResult, error) {
	query := url.Values{}
	query.Set("pair", pair)

	var raw map[string]TickerInfo
	if err := c.public(ctx, "Ticker", query, &raw); err != nil {
		return nil, fmt.Errorf("get ticker %s: %w", pair, err)
	}

	for key, info := range raw {
		return &TickerResult{Pair: key, TickerInfo: info}, nil
	}

	return nil, fmt.Errorf("get ticker %s: empty result", pair)
}
