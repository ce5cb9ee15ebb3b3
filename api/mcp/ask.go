package mcp

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

var (
	askToolName    = "ask"
	askDescription = "Answer a question about HR policy using only the ingested policy documents. Returns the answer and previews of the passages it was based on."
)

// AskInput represents the input arguments for the ask tool.
type AskInput struct {
	Question string `json:"question" jsonschema:"the question to answer"`
}

// AskOutput represents the output of the ask tool.
type AskOutput struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

func (s *Server) handleAsk(ctx context.Context, _ *mcp.CallToolRequest, input AskInput) (*mcp.CallToolResult, AskOutput, error) {
	logger := s.config.Logger
	logger.Debug("MCP ask request", "question", input.Question)

	resp, err := s.config.Service.Ask(ctx, input.Question)
	if err != nil {
		logger.Error("MCP ask failed", "error", err)
		return failureResult("answer", err), AskOutput{}, nil
	}

	text := resp.Answer
	if len(resp.Sources) > 0 {
		text += "\n\nSources:\n- " + strings.Join(resp.Sources, "\n- ")
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}, AskOutput{Answer: resp.Answer, Sources: resp.Sources}, nil
}
