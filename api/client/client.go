// Package client calls a running policyqa API server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/papercomputeco/policyqa/api"
	apisearch "github.com/papercomputeco/policyqa/api/search"
)

type Client struct {
	target     *url.URL
	httpClient *http.Client
}

// New returns a client for the API server at target (scheme + host + port).
func New(target string) (*Client, error) {
	u, err := url.Parse(target)
	if err != nil {
		return nil, fmt.Errorf("invalid API target URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid API target URL: %q", target)
	}

	return &Client{
		target:     u,
		httpClient: &http.Client{Timeout: 120 * time.Second},
	}, nil
}

// Search calls GET /v1/search.
func (c *Client) Search(ctx context.Context, query string, topK int) (*apisearch.Output, error) {
	u := c.endpoint("/v1/search")
	q := u.Query()
	q.Set("query", query)
	q.Set("top_k", strconv.Itoa(topK))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating search request: %w", err)
	}

	var out apisearch.Output
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Ask calls POST /query.
func (c *Client) Ask(ctx context.Context, question string) (*api.QueryResponse, error) {
	body, err := json.Marshal(api.QueryRequest{Question: question})
	if err != nil {
		return nil, fmt.Errorf("encoding query: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("/query").String(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating query request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out api.QueryResponse
	if err := c.do(req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health calls GET /health and fails unless the server reports healthy.
func (c *Client) Health(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint("/health").String(), nil)
	if err != nil {
		return fmt.Errorf("creating health request: %w", err)
	}

	var out api.HealthResponse
	if err := c.do(req, &out); err != nil {
		return err
	}
	if out.Status != "healthy" {
		return fmt.Errorf("server reported status %q", out.Status)
	}
	return nil
}

func (c *Client) endpoint(path string) *url.URL {
	u := *c.target
	u.Path = path
	return &u
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to connect to policyqa API at %s: %w", c.target, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var e api.ErrorResponse
		if json.Unmarshal(body, &e) == nil && e.Error != "" {
			return fmt.Errorf("request failed (HTTP %d): %w", resp.StatusCode, errors.New(e.Error))
		}
		return fmt.Errorf("request failed (HTTP %d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
