// internal/sentiment/analyzer.go
package sentiment

import (
	"context"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/turnDeep/chartnote/internal/core"
	"github.com/turnDeep/chartnote/internal/storage/comment"
)

// Analyzer aggregates per-comment signals into a buy/sell split over a
// recent window of stored comments.
type Analyzer struct {
	store      comment.Store
	classifier Classifier
	logger     *zap.Logger
}

// NewAnalyzer creates an analyzer over the given store and classifier.
func NewAnalyzer(store comment.Store, classifier Classifier, logger *zap.Logger) *Analyzer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Analyzer{store: store, classifier: classifier, logger: logger}
}

// Analyze classifies all comments anchored within the trailing window and
// returns the aggregate split.
func (a *Analyzer) Analyze(ctx context.Context, window time.Duration) (core.Sentiment, error) {
	return a.AnalyzeRange(ctx, time.Now().Add(-window).Unix(), 0)
}

// AnalyzeRange classifies comments anchored within [from, to] and returns
// the aggregate split. A zero to leaves the window open-ended. With no
// classified comments the split is an even 50/50. Percentages are rounded
// and always sum to 100.
func (a *Analyzer) AnalyzeRange(ctx context.Context, from, to int64) (core.Sentiment, error) {
	comments, err := a.store.List(ctx, comment.ListFilter{From: from, To: to})
	if err != nil {
		return core.Sentiment{}, core.WrapError(core.ErrStorageFailed, err)
	}

	var buy, sell int
	for _, c := range comments {
		signal, err := a.classifier.Classify(ctx, c.Content)
		if err != nil {
			// A failing classifier skews the split if we bail out, so
			// skip the comment and keep going.
			a.logger.Warn("classification failed",
				zap.Int64("comment_id", c.ID),
				zap.Error(err))
			continue
		}
		switch signal {
		case SignalBuy:
			buy++
		case SignalSell:
			sell++
		}
	}

	result := core.Sentiment{
		BuyPercentage:  50,
		SellPercentage: 50,
		TotalComments:  len(comments),
	}
	if total := buy + sell; total > 0 {
		result.BuyPercentage = math.Round(float64(buy) / float64(total) * 100)
		result.SellPercentage = 100 - result.BuyPercentage
	}
	return result, nil
}
