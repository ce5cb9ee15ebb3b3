package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/papercomputeco/policyqa/pkg/retrieval"
)

// ErrorResponse is the JSON body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is returned by GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// QueryRequest is the body of POST /query.
type QueryRequest struct {
	Question string `json:"question"`
}

// QueryResponse is returned by POST /query.
type QueryResponse struct {
	Answer  string   `json:"answer"`
	Sources []string `json:"sources"`
}

const internalError = "internal server error"

func (s *Server) handleHealth(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{Status: "healthy"})
}

// handleQuery handles POST /query requests.
func (s *Server) handleQuery(c *fiber.Ctx) error {
	var req QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error: "invalid request body",
		})
	}

	resp, err := s.config.Answerer.Ask(c.UserContext(), req.Question)
	if err != nil {
		return s.fail(c, "query failed", err)
	}

	sources := resp.Sources
	if sources == nil {
		sources = []string{}
	}
	return c.JSON(QueryResponse{Answer: resp.Answer, Sources: sources})
}

// fail maps err to a 400 for invalid input or a generic 500.
func (s *Server) fail(c *fiber.Ctx, msg string, err error) error {
	if errors.Is(err, retrieval.ErrInvalidQuery) {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{Error: err.Error()})
	}

	s.logger.Error(msg, "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{Error: internalError})
}
