// internal/sentiment/openai.go
package sentiment

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/turnDeep/chartnote/internal/core"
)

// OpenAIClassifier classifies comments with the OpenAI API.
type OpenAIClassifier struct {
	client *openai.Client
	model  string
}

// NewOpenAIClassifier creates an OpenAI-backed classifier.
func NewOpenAIClassifier(apiKey, model string) (*OpenAIClassifier, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("API key required")
	}
	if model == "" {
		model = "gpt-4o"
	}
	return &OpenAIClassifier{client: openai.NewClient(apiKey), model: model}, nil
}

// Name returns the classifier name.
func (c *OpenAIClassifier) Name() string {
	return "openai"
}

// Classify sends the comment to the OpenAI API.
func (c *OpenAIClassifier) Classify(ctx context.Context, content string) (Signal, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: 8,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: classifyPrompt},
			{Role: openai.ChatMessageRoleUser, Content: content},
		},
	})
	if err != nil {
		return SignalNeutral, core.WrapError(core.ErrClassifierFailed, err)
	}

	text := ""
	if len(resp.Choices) > 0 {
		text = resp.Choices[0].Message.Content
	}
	return parseSignal(text), nil
}
