// internal/market/service.go
package market

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/turnDeep/chartnote/internal/collector"
	"github.com/turnDeep/chartnote/internal/core"
)

// DefaultSymbol is the Nasdaq-100 futures contract the chart opens on.
const DefaultSymbol = "NQ=F"

// DefaultCacheTTL bounds how stale served candles may be.
const DefaultCacheTTL = 5 * time.Minute

// aliases maps friendly symbols onto upstream tickers.
var aliases = map[string]string{
	"NQ":  "NQ=F",
	"NDX": "^NDX",
}

// fetchSpec is the upstream query for one chart timeframe.
type fetchSpec struct {
	rng      string
	interval string
	resample bool
}

// timeframes maps chart timeframes onto upstream queries. Yahoo serves no
// native 3m or 4H bars, so 3m falls back to 5m and 4H is resampled from 1h.
var timeframes = map[core.Timeframe]fetchSpec{
	core.Timeframe1m:  {rng: "2d", interval: "1m"},
	core.Timeframe3m:  {rng: "5d", interval: "5m"},
	core.Timeframe5m:  {rng: "5d", interval: "5m"},
	core.Timeframe15m: {rng: "1mo", interval: "15m"},
	core.Timeframe1H:  {rng: "3mo", interval: "1h"},
	core.Timeframe4H:  {rng: "6mo", interval: "1h", resample: true},
	core.Timeframe1D:  {rng: "2y", interval: "1d"},
	core.Timeframe1W:  {rng: "5y", interval: "1wk"},
}

type cacheEntry struct {
	candles   []core.Candle
	fetchedAt time.Time
}

// Service serves chart candles and quotes with a short-lived cache in front
// of the upstream source.
type Service struct {
	source collector.Source
	logger *zap.Logger
	ttl    time.Duration

	mu    sync.Mutex
	cache map[string]cacheEntry
}

// NewService creates a market service over the given source.
func NewService(source collector.Source, ttl time.Duration, logger *zap.Logger) *Service {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		source: source,
		logger: logger,
		ttl:    ttl,
		cache:  make(map[string]cacheEntry),
	}
}

// ResolveSymbol maps friendly symbols to upstream tickers, defaulting to
// Nasdaq futures for an empty symbol.
func ResolveSymbol(symbol string) string {
	if symbol == "" {
		return DefaultSymbol
	}
	if resolved, ok := aliases[symbol]; ok {
		return resolved
	}
	return symbol
}

// Candles returns OHLCV bars for the symbol at the given timeframe, served
// from cache when fresh enough.
func (s *Service) Candles(ctx context.Context, symbol string, tf core.Timeframe) ([]core.Candle, error) {
	spec, ok := timeframes[tf]
	if !ok {
		return nil, core.WrapError(core.ErrMarketFailed, fmt.Errorf("unknown timeframe: %s", tf))
	}
	resolved := ResolveSymbol(symbol)
	key := resolved + "/" + string(tf)

	s.mu.Lock()
	entry, hit := s.cache[key]
	s.mu.Unlock()
	if hit && time.Since(entry.fetchedAt) < s.ttl {
		return entry.candles, nil
	}

	candles, err := s.source.FetchCandles(ctx, resolved, spec.rng, spec.interval)
	if err != nil {
		// Serve the stale entry rather than an empty chart.
		if hit {
			s.logger.Warn("serving stale candles",
				zap.String("symbol", resolved),
				zap.String("timeframe", string(tf)),
				zap.Error(err))
			return entry.candles, nil
		}
		return nil, core.WrapError(core.ErrMarketFailed, err)
	}
	if spec.resample {
		candles = Resample(candles, 4*time.Hour)
	}

	s.mu.Lock()
	s.cache[key] = cacheEntry{candles: candles, fetchedAt: time.Now()}
	s.mu.Unlock()

	return candles, nil
}

// Quote returns the latest price for the symbol, bypassing the cache.
func (s *Service) Quote(ctx context.Context, symbol string) (*core.Quote, error) {
	quote, err := s.source.FetchQuote(ctx, ResolveSymbol(symbol))
	if err != nil {
		return nil, core.WrapError(core.ErrMarketFailed, err)
	}
	return quote, nil
}
