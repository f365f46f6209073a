package collector

import (
	"context"

	"github.com/turnDeep/chartnote/internal/core"
)

// Source defines the interface for market data sources.
type Source interface {
	// Name identifies the source.
	Name() string

	// FetchCandles retrieves OHLCV bars for a symbol over a trailing range
	// ("2d", "1mo", "2y") at the given bar interval ("1m", "1h", "1d").
	FetchCandles(ctx context.Context, symbol, rng, interval string) ([]core.Candle, error)

	// FetchQuote retrieves the latest price for a symbol.
	FetchQuote(ctx context.Context, symbol string) (*core.Quote, error)
}
