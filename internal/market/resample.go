// internal/market/resample.go
package market

import (
	"sort"
	"time"

	"github.com/turnDeep/chartnote/internal/core"
)

// Resample aggregates candles into buckets of the given width. Each bucket
// keeps the first open, highest high, lowest low, last close and summed
// volume. Bucket boundaries are aligned to the epoch and input is assumed
// oldest first, as the upstream serves it.
func Resample(candles []core.Candle, width time.Duration) []core.Candle {
	if len(candles) == 0 || width <= 0 {
		return candles
	}
	sec := int64(width / time.Second)

	buckets := make(map[int64]*core.Candle)
	for _, c := range candles {
		start := c.Time - c.Time%sec
		b, ok := buckets[start]
		if !ok {
			bar := c
			bar.Time = start
			buckets[start] = &bar
			continue
		}
		if c.High > b.High {
			b.High = c.High
		}
		if c.Low < b.Low {
			b.Low = c.Low
		}
		b.Close = c.Close
		b.Volume += c.Volume
	}

	out := make([]core.Candle, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}
