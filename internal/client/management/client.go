package management

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/BarkinBalci/purchase-event-pipeline/internal/config"
	"github.com/BarkinBalci/purchase-event-pipeline/internal/dto"
)

// maxErrorBody caps how much of a failed response is echoed into the error
const maxErrorBody = 512

// Client calls the management service HTTP API
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient creates a new management API client. Every request is bounded by cfg.Timeout.
func NewClient(cfg config.ManagementAPI, log *zap.Logger) *Client {
	return NewClientWithHTTP(cfg.URL, &http.Client{Timeout: cfg.Timeout}, log)
}

// NewClientWithHTTP creates a client around an existing http.Client
func NewClientWithHTTP(baseURL string, httpClient *http.Client, log *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		log:        log,
	}
}

// GetUserPurchases fetches GET /api/purchases/{userId}
func (c *Client) GetUserPurchases(ctx context.Context, userID string) (*dto.UserPurchasesResponse, error) {
	endpoint := c.baseURL + "/api/purchases/" + url.PathEscape(userID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call management service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.log.Warn("Failed to close response body", zap.Error(err))
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, fmt.Errorf("management service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var out dto.UserPurchasesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode management service response: %w", err)
	}

	c.log.Debug("Fetched user purchases from management service",
		zap.String("user_id", userID),
		zap.Int("count", len(out.Purchases)))

	return &out, nil
}
