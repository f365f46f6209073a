// internal/sentiment/claude.go
package sentiment

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/turnDeep/chartnote/internal/core"
)

const classifyPrompt = `You are a trading-comment classifier. ` +
	`Answer with exactly one word: buy, sell or neutral. ` +
	`Classify the direction the comment expresses about the market. ` +
	`Comments may be in Japanese or English.`

// ClaudeClassifier classifies comments with the Anthropic API.
type ClaudeClassifier struct {
	client anthropic.Client
	model  string
}

// NewClaudeClassifier creates a Claude-backed classifier.
func NewClaudeClassifier(apiKey, model string) (*ClaudeClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required")
	}
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	client := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &ClaudeClassifier{client: client, model: model}, nil
}

// Name returns the classifier name.
func (c *ClaudeClassifier) Name() string {
	return "claude"
}

// Classify sends the comment to the Claude API.
func (c *ClaudeClassifier) Classify(ctx context.Context, content string) (Signal, error) {
	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: 8,
		System: []anthropic.TextBlockParam{
			{Text: classifyPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(content)),
		},
	})
	if err != nil {
		return SignalNeutral, core.WrapError(core.ErrClassifierFailed, err)
	}

	text := ""
	if len(resp.Content) > 0 && resp.Content[0].Type == "text" {
		text = resp.Content[0].Text
	}
	return parseSignal(text), nil
}

// parseSignal maps a model reply onto a Signal, neutral for anything
// unrecognized.
func parseSignal(text string) Signal {
	switch strings.ToLower(strings.TrimSpace(text)) {
	case "buy":
		return SignalBuy
	case "sell":
		return SignalSell
	default:
		return SignalNeutral
	}
}
