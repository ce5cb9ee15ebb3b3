// Package generateutils builds a generate.Generator for the configured provider.
package generateutils

import (
	"fmt"

	"github.com/papercomputeco/policyqa/pkg/generate"
	"github.com/papercomputeco/policyqa/pkg/generate/ollama"
	"github.com/papercomputeco/policyqa/pkg/generate/openai"
)

type NewGeneratorOpts struct {
	// ProviderType is "openai" (any OpenAI-compatible API, Groq by default) or "ollama".
	ProviderType string
	TargetURL    string
	Model        string
	APIKey       string
	Temperature  float32
	MaxTokens    int
}

func NewGenerator(o *NewGeneratorOpts) (generate.Generator, error) {
	switch o.ProviderType {
	case "", "openai", "groq":
		return openai.NewGenerator(openai.Config{
			APIKey:      o.APIKey,
			BaseURL:     o.TargetURL,
			Model:       o.Model,
			Temperature: o.Temperature,
			MaxTokens:   o.MaxTokens,
		})
	case "ollama":
		return ollama.NewGenerator(ollama.Config{
			BaseURL:     o.TargetURL,
			Model:       o.Model,
			Temperature: o.Temperature,
			MaxTokens:   o.MaxTokens,
		})
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", o.ProviderType)
	}
}
