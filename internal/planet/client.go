package planet

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"planets-client/internal/middleware"
	"planets-client/internal/shared/errors"
)

// Client is the only component that talks to the remote planet collection.
// Each call issues exactly one request and never retries.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
	stats      *stats
}

// NewClient builds a client for the collection under baseURL/planets.
// httpClient carries the transport middleware; nil means http.DefaultClient.
func NewClient(baseURL string, httpClient *http.Client, logger *slog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = slog.Default()
	}

	logger.Debug("Initializing planet client", "base_url", baseURL)

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
		stats:      &stats{},
	}
}

func (c *Client) collectionURL() string {
	return c.baseURL + "/planets"
}

func (c *Client) itemURL(id ID) string {
	return c.collectionURL() + "/" + url.PathEscape(string(id))
}

// List returns every planet in service order.
func (c *Client) List(ctx context.Context) ([]Planet, error) {
	var planets []Planet
	if err := c.do(ctx, "list_planets", http.MethodGet, c.collectionURL(), nil, &planets); err != nil {
		return nil, err
	}

	if planets == nil {
		planets = []Planet{}
	}

	c.checkShapes(planets...)
	return planets, nil
}

// GetByID returns a single planet. A null body or a planet without an id is
// a decode failure.
func (c *Client) GetByID(ctx context.Context, id ID) (*Planet, error) {
	var p *Planet
	if err := c.do(ctx, "get_planet", http.MethodGet, c.itemURL(id), nil, &p); err != nil {
		return nil, err
	}

	if p == nil || p.ID == "" {
		c.logger.Error("Received empty planet",
			"component", "planet_client",
			"planet_id", id)
		c.stats.fail()
		return nil, errors.WrapDecode("failed to decode get planet response", fmt.Errorf("planet %s: response has no planet id", id))
	}

	c.checkShapes(*p)
	return p, nil
}

// Create sends the draft verbatim; the response body is ignored.
func (c *Client) Create(ctx context.Context, p NewPlanet) error {
	return c.do(ctx, "create_planet", http.MethodPost, c.collectionURL(), p, nil)
}

// Update sends the patch verbatim; the response body is ignored.
func (c *Client) Update(ctx context.Context, id ID, u Update) error {
	return c.do(ctx, "update_planet", http.MethodPut, c.itemURL(id), u, nil)
}

// Delete removes a planet; the response body is ignored.
func (c *Client) Delete(ctx context.Context, id ID) error {
	return c.do(ctx, "delete_planet", http.MethodDelete, c.itemURL(id), nil, nil)
}

// Stats returns a snapshot of this client's call statistics.
func (c *Client) Stats() Stats {
	return c.stats.snapshot()
}

// do performs one request. A nil body sends no payload; a nil out discards
// the response body. Every failure is logged here and returned as an
// *errors.AppError of type transport, rejected, decode or internal.
func (c *Client) do(ctx context.Context, operation, method, target string, body, out any) (err error) {
	requestID := middleware.NewRequestID()
	logger := c.logger.With(
		"component", "planet_client",
		"operation", operation,
		"method", method,
		"url", target,
		"request_id", requestID,
	)

	start := time.Now()
	defer func() {
		c.stats.record(time.Since(start), err)
	}()

	var reader io.Reader
	if body != nil {
		payload, marshalErr := json.Marshal(body)
		if marshalErr != nil {
			logger.Error("Failed to encode request body", "error", marshalErr)
			return errors.WrapInternal("failed to encode request body", marshalErr)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		logger.Error("Failed to build request", "error", err)
		return errors.WrapInternal("failed to build request", err)
	}

	req.Header.Set(middleware.RequestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("Sending request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		logger.Error("Planet service unreachable", "error", err)
		return errors.Transport("failed to "+describe(operation), err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		if closeErr := resp.Body.Close(); closeErr != nil {
			logger.Debug("Failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		logger.Error("Planet service rejected request",
			"status_code", resp.StatusCode,
			"status", resp.Status)
		return errors.Rejected("failed to "+describe(operation), resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			logger.Error("Failed to decode response", "error", err, "status_code", resp.StatusCode)
			return errors.WrapDecode("failed to decode "+describe(operation)+" response", err)
		}
	}

	logger.Debug("Request completed",
		"status_code", resp.StatusCode,
		"duration", time.Since(start))
	return nil
}

// checkShapes logs planets whose moon count disagrees with their moon list.
// Received data is shown as-is; the screens restore the invariant on edit.
func (c *Client) checkShapes(planets ...Planet) {
	for _, p := range planets {
		if err := p.Validate(); err != nil {
			c.logger.Warn("Received inconsistent planet",
				"component", "planet_client",
				"planet_id", p.ID,
				"error", err)
		}
	}
}

func describe(operation string) string {
	return strings.ReplaceAll(operation, "_", " ")
}
