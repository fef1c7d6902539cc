package pairs

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/cstortz/monorepo-trading-bot/internal/model"
	"github.com/cstortz/monorepo-trading-bot/internal/symbol"
)

// DefaultTTL is how long a snapshot is considered fresh.
const DefaultTTL = time.Hour

// Source fetches the pair catalog from the exchange.
type Source interface {
	AssetPairs(ctx context.Context) ([]model.TradingPair, error)
}

// SourceFunc adapts a function to the Source interface.
type SourceFunc func(ctx context.Context) ([]model.TradingPair, error)

// AssetPairs implements Source.
func (f SourceFunc) AssetPairs(ctx context.Context) ([]model.TradingPair, error) {
	return f(ctx)
}

// Snapshot is one immutable fetch of the full catalog. Pairs are sorted by
// exchange code.
type Snapshot struct {
	Pairs     []model.TradingPair `json:"pairs"`
	FetchedAt time.Time           `json:"fetched_at"`
}

// Query selects and pages pairs out of the snapshot.
type Query struct {
	Search       string // case-insensitive substring, alias-aware (btc matches XBT)
	Status       string // pair status to keep; "" or "all" keeps everything
	Offset       int
	Limit        int
	ForceRefresh bool // bypass the TTL and refetch before answering
}

// Page is one page of query results.
type Page struct {
	Pairs     []model.TradingPair
	Total     int // matches before pagination
	Returned  int
	HasMore   bool
	FromCache bool // false when this call fetched from the exchange
}

// Stats summarizes a refresh.
type Stats struct {
	Total  int
	Active int
}

// Cache holds the current snapshot behind a read-write lock.
type Cache struct {
	source Source
	store  Store
	ttl    time.Duration
	logger *slog.Logger

	mu   sync.RWMutex
	snap *Snapshot
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL sets the snapshot freshness window.
func WithTTL(d time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = d
	}
}

// WithStore sets a persistent snapshot store.
func WithStore(s Store) CacheOption {
	return func(c *Cache) {
		c.store = s
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		c.logger = logger
	}
}

// NewCache creates a pair cache backed by source. The cache starts empty;
// the first GetPairs or Refresh populates it.
func NewCache(source Source, opts ...CacheOption) *Cache {
	c := &Cache{
		source: source,
		ttl:    DefaultTTL,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Warm loads a persisted snapshot from the store, if one exists and is
// still fresh. Intended for startup; errors are returned for logging but
// leave the cache usable.
func (c *Cache) Warm(ctx context.Context) error {
	if c.store == nil {
		return nil
	}
	snap, err := c.store.Load(ctx)
	if err != nil {
		return err
	}
	if snap == nil || time.Since(snap.FetchedAt) >= c.ttl {
		return nil
	}

	c.mu.Lock()
	if c.snap == nil {
		c.snap = snap
	}
	c.mu.Unlock()

	c.logger.Info("warmed pair cache from store",
		"pairs", len(snap.Pairs),
		"fetched_at", snap.FetchedAt,
	)
	return nil
}

// GetPairs returns one page of the catalog, fetching from the exchange when
// no fresh snapshot exists or the query forces a refresh. If the fetch fails
// and a stale snapshot is available, the stale data is served instead of the
// error.
func (c *Cache) GetPairs(ctx context.Context, q Query) (*Page, error) {
	c.mu.RLock()
	snap := c.snap
	c.mu.RUnlock()

	fromCache := true
	if snap == nil || q.ForceRefresh || time.Since(snap.FetchedAt) >= c.ttl {
		fresh, err := c.refetch(ctx)
		if err != nil {
			if snap == nil {
				return nil, &model.UpstreamError{Upstream: "kraken", Err: err}
			}
			c.logger.Warn("pair refresh failed, serving stale snapshot",
				"error", err,
				"age", time.Since(snap.FetchedAt),
			)
		} else {
			snap = fresh
			fromCache = false
		}
	}

	page := snap.query(q)
	page.FromCache = fromCache
	return page, nil
}

// Refresh forces a fetch and snapshot swap regardless of TTL.
func (c *Cache) Refresh(ctx context.Context) (Stats, error) {
	snap, err := c.refetch(ctx)
	if err != nil {
		return Stats{}, &model.UpstreamError{Upstream: "kraken", Err: err}
	}

	stats := Stats{Total: len(snap.Pairs)}
	for _, p := range snap.Pairs {
		if p.Online() {
			stats.Active++
		}
	}
	return stats, nil
}

// Snapshot returns the current snapshot, which may be nil.
func (c *Cache) Snapshot() *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// refetch fetches the catalog, builds a new snapshot off-lock, and swaps it
// in. Concurrent refetches race benignly; the last writer wins and every
// candidate snapshot is complete.
func (c *Cache) refetch(ctx context.Context) (*Snapshot, error) {
	pairs, err := c.source.AssetPairs(ctx)
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Pairs: pairs, FetchedAt: time.Now()}

	c.mu.Lock()
	c.snap = snap
	c.mu.Unlock()

	c.logger.Info("pair catalog refreshed", "pairs", len(pairs))

	if c.store != nil {
		if err := c.store.Save(ctx, snap); err != nil {
			c.logger.Warn("failed to persist pair snapshot", "error", err)
		}
	}

	return snap, nil
}

// query filters and pages the snapshot.
func (s *Snapshot) query(q Query) *Page {
	matched := s.Pairs
	if q.Status != "" && q.Status != "all" {
		kept := make([]model.TradingPair, 0, len(matched))
		for _, p := range matched {
			if p.Status == q.Status {
				kept = append(kept, p)
			}
		}
		matched = kept
	}
	if q.Search != "" {
		terms := searchTerms(q.Search)
		kept := make([]model.TradingPair, 0)
		for _, p := range matched {
			if matchesAny(p, terms) {
				kept = append(kept, p)
			}
		}
		matched = kept
	}

	total := len(matched)
	offset := q.Offset
	if offset > total {
		offset = total
	}
	end := total
	if q.Limit > 0 && offset+q.Limit < end {
		end = offset + q.Limit
	}

	window := matched[offset:end]
	return &Page{
		Pairs:    window,
		Total:    total,
		Returned: len(window),
		HasMore:  end < total,
	}
}

// searchTerms expands a search string into the candidate substrings to
// match, so "btc" also matches Kraken's XBT codes.
func searchTerms(search string) []string {
	raw := strings.ToUpper(strings.TrimSpace(search))
	terms := []string{raw}
	if norm := symbol.NormalizePair(raw); norm != raw {
		terms = append(terms, norm)
	}
	return terms
}

func matchesAny(p model.TradingPair, terms []string) bool {
	fields := []string{
		strings.ToUpper(p.Pair),
		strings.ToUpper(p.Altname),
		strings.ToUpper(p.Name),
		strings.ToUpper(p.Base),
		strings.ToUpper(p.Quote),
	}
	for _, term := range terms {
		for _, f := range fields {
			if strings.Contains(f, term) {
				return true
			}
		}
	}
	return false
}
