// internal/sentiment/factory.go
package sentiment

import "fmt"

// NewClassifier creates a classifier by provider name. The keyword
// classifier is the default and requires no credentials.
func NewClassifier(provider, apiKey, model string) (Classifier, error) {
	switch provider {
	case "", "keyword":
		return NewKeywordClassifier(), nil
	case "claude":
		return NewClaudeClassifier(apiKey, model)
	case "openai":
		return NewOpenAIClassifier(apiKey, model)
	default:
		return nil, fmt.Errorf("unknown sentiment provider: %s", provider)
	}
}
