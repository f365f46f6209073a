// internal/sentiment/keyword.go
package sentiment

import (
	"context"
	"strings"
)

// Buy keywords win over sell keywords when a comment contains both.
var (
	buyKeywords  = []string{"買い", "ロング", "IN", "上昇", "強気", "ブル"}
	sellKeywords = []string{"売り", "ショート", "利確", "下落", "弱気", "ベア"}
)

// KeywordClassifier classifies comments by substring match against fixed
// keyword lists. It needs no network and never fails.
type KeywordClassifier struct{}

// NewKeywordClassifier creates a keyword classifier.
func NewKeywordClassifier() *KeywordClassifier {
	return &KeywordClassifier{}
}

// Name returns the classifier name.
func (c *KeywordClassifier) Name() string {
	return "keyword"
}

// Classify returns the first matching direction, neutral if nothing matches.
func (c *KeywordClassifier) Classify(_ context.Context, content string) (Signal, error) {
	for _, kw := range buyKeywords {
		if strings.Contains(content, kw) {
			return SignalBuy, nil
		}
	}
	for _, kw := range sellKeywords {
		if strings.Contains(content, kw) {
			return SignalSell, nil
		}
	}
	return SignalNeutral, nil
}
