package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ReachskylineNew/kokofresh-new-sub000/internal/domain"
)

// CatalogAppID identifies the catalog integration that owns every product
// this storefront sells. Sent verbatim in each catalog reference.
const CatalogAppID = "215238eb-22a5-4c36-9e7b-e7c08025e04e"

// Client is a typed HTTP client for the commerce platform's REST API.
// All calls authenticate with a bearer token supplied per request; the
// client itself holds no credentials.
type Client struct {
	baseURL string
	siteID  string
	http    *http.Client
	logger  zerolog.Logger
}

func NewClient(baseURL, siteID string, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		siteID:  siteID,
		http:    &http.Client{Timeout: 30 * time.Second},
		logger:  logger,
	}
}

// SetHTTPClient overrides the underlying HTTP client; used by tests.
func (c *Client) SetHTTPClient(h *http.Client) { c.http = h }

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// do issues a JSON request and decodes a 2xx response into out (when out is
// non-nil). Status mapping: 401 -> ErrUnauthorized, 404 -> ErrNotFound,
// inventory conflicts -> ErrOutOfStock, anything else non-2xx -> PlatformError.
func (c *Client) do(ctx context.Context, op, method, path, accessToken string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}
	if c.siteID != "" {
		req.Header.Set("X-Site-Id", c.siteID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s: read response: %w", op, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return c.mapError(op, resp.StatusCode, raw)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) mapError(op string, status int, raw []byte) error {
	var detail apiError
	_ = json.Unmarshal(raw, &detail)

	switch {
	case status == http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case status == http.StatusNotFound:
		return domain.ErrNotFound
	case detail.Code == "OUT_OF_STOCK" || status == http.StatusConflict && strings.Contains(strings.ToLower(detail.Message), "stock"):
		return domain.ErrOutOfStock
	}

	c.logger.Warn().
		Str("op", op).
		Int("status", status).
		Str("code", detail.Code).
		Msg("platform request failed")

	return &domain.PlatformError{
		Op:     op,
		Status: status,
		Code:   detail.Code,
		Body:   string(raw),
	}
}

// IsAuthRejection reports whether err means the presented grant or refresh
// token was itself refused, as opposed to a transport failure.
func IsAuthRejection(err error) bool {
	if errors.Is(err, domain.ErrUnauthorized) {
		return true
	}
	var pe *domain.PlatformError
	if errors.As(err, &pe) {
		return pe.Status == http.StatusBadRequest || pe.Status == http.StatusForbidden
	}
	return false
}
