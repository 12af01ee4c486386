package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/feedbridge/catalog-sync/app/throttle"
)

// Declared cost estimates per call kind. The server reports the actual cost
// after the fact; these only drive the pre-dispatch wait.
const (
	queryCost    = 1.0
	mutationCost = 10.0
)

// Client issues single logical calls against the platform's admin API: the
// cost-metered GraphQL endpoint for queries and mutations, and a narrow REST
// surface for variant-level writes. Every GraphQL call is gated through the
// shared throttle.
type Client struct {
	httpClient *http.Client
	limiter    *throttle.Limiter
	baseURL    string
	token      string
	userAgent  string
}

// NewClient creates a client for one shop. The limiter is injected so every
// client constructed for the run shares one budget, and so tests can
// substitute a deterministic clock.
func NewClient(shop, token, apiVersion, userAgent string, limiter *throttle.Limiter) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		limiter:    limiter,
		baseURL:    fmt.Sprintf("https://%s/admin/api/%s", shop, apiVersion),
		token:      token,
		userAgent:  userAgent,
	}
}

type gqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type gqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
	Extensions struct {
		Cost *struct {
			RequestedQueryCost float64 `json:"requestedQueryCost"`
			ActualQueryCost    float64 `json:"actualQueryCost"`
			ThrottleStatus     *struct {
				CurrentlyAvailable float64 `json:"currentlyAvailable"`
				MaximumAvailable   float64 `json:"maximumAvailable"`
				RestoreRate        float64 `json:"restoreRate"`
			} `json:"throttleStatus"`
		} `json:"cost"`
	} `json:"extensions"`
}

// GraphQL executes one query or mutation. It waits on the throttle before
// dispatch, feeds the server-reported budget back into it afterwards, and
// consumes the actual cost when the server reports one (mutations can cost
// more than the flat estimate).
func (c *Client) GraphQL(ctx context.Context, query string, variables map[string]any, cost float64) (json.RawMessage, error) {
	if err := c.limiter.Wait(ctx, cost); err != nil {
		return nil, fmt.Errorf("throttle wait interrupted: %w", err)
	}

	payload, err := json.Marshal(gqlRequest{Query: query, Variables: variables})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/graphql.json", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Status: resp.StatusCode, Body: string(body)}
	}

	var decoded gqlResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	actualCost := cost
	if ext := decoded.Extensions.Cost; ext != nil {
		if ext.ThrottleStatus != nil {
			c.limiter.Observe(throttle.Status{
				Available:   ext.ThrottleStatus.CurrentlyAvailable,
				Capacity:    ext.ThrottleStatus.MaximumAvailable,
				RestoreRate: ext.ThrottleStatus.RestoreRate,
			})
		}
		if ext.ActualQueryCost > 0 {
			actualCost = ext.ActualQueryCost
		}
	}
	c.limiter.Consume(actualCost)

	if len(decoded.Errors) > 0 {
		messages := make([]string, len(decoded.Errors))
		for i, e := range decoded.Errors {
			messages[i] = e.Message
		}
		return nil, &APIError{Messages: messages}
	}

	slog.Debug("GraphQL call completed", "cost", actualCost, "budget", c.limiter.Snapshot().Available)

	return decoded.Data, nil
}

// REST issues one call against the admin REST surface. It bypasses the
// throttle: the REST allowance is metered separately from GraphQL cost
// points.
func (c *Client) REST(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &TransportError{Status: resp.StatusCode, Body: string(respBody)}
	}

	return respBody, nil
}
