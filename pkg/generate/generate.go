// Package generate turns a question and its retrieved context chunks into a
// natural-language answer using a chat-completion model.
package generate

import (
	"context"
	"errors"
	"strings"

	"github.com/papercomputeco/policyqa/pkg/corpus"
)

const (
	// SystemPrompt is sent as the system message of every request.
	SystemPrompt = "You are a helpful HR assistant."

	// FallbackAnswer is what the model is told to say when the context does
	// not cover the question.
	FallbackAnswer = "I don't have information about that in the HR policy."

	DefaultTemperature float32 = 0.1
	DefaultMaxTokens           = 1024
)

// ErrGeneration is wrapped by every provider failure.
var ErrGeneration = errors.New("answer generation failed")

// Generator produces an answer for question grounded in chunks.
type Generator interface {
	Generate(ctx context.Context, question string, chunks []corpus.Chunk) (string, error)
}

// Prompt builds the user message: instructions, the chunk texts separated by
// blank lines, then the question.
func Prompt(question string, chunks []corpus.Chunk) string {
	var b strings.Builder
	b.WriteString("You are an HR assistant. Answer the question based only on the provided context. ")
	b.WriteString(`If you don't know the answer, say "` + FallbackAnswer + `"`)
	b.WriteString("\n\nContext:\n")
	for i, c := range chunks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(c.Text)
	}
	b.WriteString("\n\nQuestion: ")
	b.WriteString(question)
	b.WriteString("\n\nAnswer:")
	return b.String()
}
