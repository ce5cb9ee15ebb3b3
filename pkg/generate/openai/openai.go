// Package openai implements generate.Generator against any OpenAI-compatible
// chat completions API. The default endpoint is Groq.
package openai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/papercomputeco/policyqa/pkg/corpus"
	"github.com/papercomputeco/policyqa/pkg/generate"
)

const (
	// DefaultBaseURL is Groq's OpenAI-compatible endpoint.
	DefaultBaseURL = "https://api.groq.com/openai/v1"

	// DefaultModel is the default chat model.
	DefaultModel = "llama-3.1-8b-instant"
)

// Config holds configuration for the OpenAI-compatible generator.
type Config struct {
	// APIKey is the bearer token. Required.
	APIKey string

	// BaseURL defaults to DefaultBaseURL if empty.
	BaseURL string

	// Model defaults to DefaultModel if empty.
	Model string

	// Temperature defaults to generate.DefaultTemperature when zero.
	Temperature float32

	// MaxTokens defaults to generate.DefaultMaxTokens when zero.
	MaxTokens int
}

type Generator struct {
	client      *goopenai.Client
	model       string
	temperature float32
	maxTokens   int
}

func NewGenerator(c Config) (*Generator, error) {
	if c.APIKey == "" {
		return nil, errors.New("api key is required")
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Temperature == 0 {
		c.Temperature = generate.DefaultTemperature
	}
	if c.MaxTokens == 0 {
		c.MaxTokens = generate.DefaultMaxTokens
	}

	cfg := goopenai.DefaultConfig(c.APIKey)
	cfg.BaseURL = strings.TrimRight(c.BaseURL, "/")

	return &Generator{
		client:      goopenai.NewClientWithConfig(cfg),
		model:       c.Model,
		temperature: c.Temperature,
		maxTokens:   c.MaxTokens,
	}, nil
}

func (g *Generator) Generate(ctx context.Context, question string, chunks []corpus.Chunk) (string, error) {
	resp, err := g.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model: g.model,
		Messages: []goopenai.ChatCompletionMessage{
			{Role: goopenai.ChatMessageRoleSystem, Content: generate.SystemPrompt},
			{Role: goopenai.ChatMessageRoleUser, Content: generate.Prompt(question, chunks)},
		},
		Temperature: g.temperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", generate.ErrGeneration, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no choices returned", generate.ErrGeneration)
	}
	return resp.Choices[0].Message.Content, nil
}

var _ generate.Generator = (*Generator)(nil)
