package tokens

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anyswap/Escrow-Bridge/log"
	"github.com/anyswap/Escrow-Bridge/rpc/client"
	"github.com/shopspring/decimal"
)

const defaultRateTTL = 60 * time.Second

// RateCacheConfig exchange rate cache config
type RateCacheConfig struct {
	APIAddress string
	TTL        uint64 `toml:",omitempty" json:",omitempty"` // seconds
	Timeout    int    `toml:",omitempty" json:",omitempty"` // seconds
}

// CheckConfig check rate cache config
func (c *RateCacheConfig) CheckConfig() error {
	if c.APIAddress == "" {
		return fmt.Errorf("rate cache must config 'APIAddress'")
	}
	return nil
}

// RateLoader loads the current rate of a currency pair (eg. XRP/USD)
type RateLoader func(ctx context.Context, pair string) (decimal.Decimal, error)

type rateEntry struct {
	rate     decimal.Decimal
	loadedAt time.Time
}

// RateCache caches exchange rates for a fixed time-to-live.
type RateCache struct {
	ttl    time.Duration
	loader RateLoader
	now    func() time.Time

	mu      sync.Mutex
	entries map[string]*rateEntry
	closed  bool
}

// NewRateCache new rate cache, a nil clock uses time.Now
func NewRateCache(ttl time.Duration, loader RateLoader, clock func() time.Time) *RateCache {
	if ttl <= 0 {
		ttl = defaultRateTTL
	}
	if clock == nil {
		clock = time.Now
	}
	return &RateCache{
		ttl:     ttl,
		loader:  loader,
		now:     clock,
		entries: make(map[string]*rateEntry),
	}
}

func normalizePair(pair string) string {
	return strings.ToUpper(strings.TrimSpace(pair))
}

// Get returns a cached rate, reloading it when expired.
func (c *RateCache) Get(ctx context.Context, pair string) (decimal.Decimal, error) {
	pair = normalizePair(pair)

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return decimal.Zero, ErrRateCacheClosed
	}
	if entry, exist := c.entries[pair]; exist && c.now().Sub(entry.loadedAt) < c.ttl {
		c.mu.Unlock()
		return entry.rate, nil
	}
	loader := c.loader
	c.mu.Unlock()

	if loader == nil {
		return decimal.Zero, ErrRateLoaderMissing
	}
	rate, err := loader(ctx, pair)
	if err != nil {
		log.Warn("load exchange rate failed", "pair", pair, "err", err)
		return decimal.Zero, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return decimal.Zero, ErrRateCacheClosed
	}
	c.entries[pair] = &rateEntry{rate: rate, loadedAt: c.now()}
	log.Debug("exchange rate loaded", "pair", pair, "rate", rate)
	return rate, nil
}

// Invalidate drop the cached rate of pair
func (c *RateCache) Invalidate(pair string) {
	c.mu.Lock()
	delete(c.entries, normalizePair(pair))
	c.mu.Unlock()
}

// Close drop all entries, later calls to Get fail
func (c *RateCache) Close() {
	c.mu.Lock()
	c.closed = true
	c.entries = make(map[string]*rateEntry)
	c.mu.Unlock()
}

type rateResponse struct {
	Rate decimal.Decimal `json:"rate"`
}

// NewHTTPRateLoader loads rates from `GET {apiAddress}/{pair}` returning `{"rate":"<decimal>"}`
func NewHTTPRateLoader(apiAddress string, timeout int) RateLoader {
	apiAddress = strings.TrimSuffix(apiAddress, "/")
	return func(ctx context.Context, pair string) (decimal.Decimal, error) {
		var result rateResponse
		url := apiAddress + "/" + strings.ReplaceAll(pair, "/", "-")
		err := client.RPCGetRequest(ctx, &result, url, &client.RequestOptions{Timeout: timeout})
		if err != nil {
			return decimal.Zero, fmt.Errorf("%w: %v", ErrRPCQueryError, err)
		}
		if result.Rate.IsNegative() || result.Rate.IsZero() {
			return decimal.Zero, fmt.Errorf("wrong rate %v of pair %v", result.Rate, pair)
		}
		return result.Rate, nil
	}
}
