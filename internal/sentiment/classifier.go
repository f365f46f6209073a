// internal/sentiment/classifier.go
package sentiment

import "context"

// Signal is the direction a single comment expresses.
type Signal string

const (
	SignalBuy     Signal = "buy"
	SignalSell    Signal = "sell"
	SignalNeutral Signal = "neutral"
)

// Classifier assigns a direction to one comment's text.
type Classifier interface {
	Name() string
	Classify(ctx context.Context, content string) (Signal, error)
}
