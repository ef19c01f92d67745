// Package rest provides a client for an organisation-hosted knowledge
// service exposing source data and citation verification over JSON.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/cerval-labs/cerval-cli/internal/adapters/driven/knowledge"
	"github.com/cerval-labs/cerval-cli/internal/core/domain"
	"github.com/cerval-labs/cerval-cli/internal/core/ports/driven"
)

// Ensure Client implements the knowledge ports.
var (
	_ driven.SourceDataLookup      = (*Client)(nil)
	_ driven.CitationKnowledgeBase = (*Client)(nil)
)

// Default configuration values.
const (
	DefaultTimeout           = 15 * time.Second
	DefaultRequestsPerSecond = 10
)

// Config holds configuration for the knowledge service client.
type Config struct {
	// BaseURL is the service root, e.g. https://kb.example.org (required).
	BaseURL string

	// Token is a static bearer token. Ignored when client credentials
	// are set.
	Token string

	// ClientID, ClientSecret and TokenURL configure the OAuth2 client
	// credentials grant used for service-to-service auth.
	ClientID     string
	ClientSecret string
	TokenURL     string

	// Timeout is the request timeout (default: 15s).
	Timeout time.Duration

	// RequestsPerSecond caps the outbound request rate (default: 10).
	RequestsPerSecond float64
}

// Client calls the knowledge service over HTTP.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *RateLimiter
}

// verifyRequest is the citation verification request payload.
type verifyRequest struct {
	Key     string `json:"key"`
	Format  string `json:"format,omitempty"`
	Context string `json:"context,omitempty"`
}

// NewClient creates a knowledge service client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("knowledge service: base URL is required")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.RequestsPerSecond == 0 {
		cfg.RequestsPerSecond = DefaultRequestsPerSecond
	}

	var httpClient *http.Client
	switch {
	case cfg.ClientID != "":
		if cfg.TokenURL == "" {
			return nil, fmt.Errorf("knowledge service: token URL is required for client credentials")
		}
		cc := clientcredentials.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			TokenURL:     cfg.TokenURL,
		}
		httpClient = cc.Client(context.Background())
	case cfg.Token != "":
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		httpClient = oauth2.NewClient(context.Background(), ts)
	default:
		httpClient = &http.Client{}
	}
	httpClient.Timeout = cfg.Timeout

	return &Client{
		httpClient: httpClient,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		limiter:    NewRateLimiter(cfg.RequestsPerSecond),
	}, nil
}

// LookupValue returns the value a source study reports for a parameter.
func (c *Client) LookupValue(ctx context.Context, sourceKey, parameter string) (domain.SourceValue, error) {
	path := "/v1/sources/" + url.PathEscape(knowledge.NormalizeKey(sourceKey)) +
		"/values/" + url.PathEscape(knowledge.NormalizeParameter(parameter))

	var value domain.SourceValue
	if err := c.do(ctx, http.MethodGet, path, nil, &value); err != nil {
		return domain.SourceValue{}, err
	}
	return value, nil
}

// VerifyCitation checks a citation against the knowledge service.
func (c *Client) VerifyCitation(ctx context.Context, citation domain.Citation) (domain.CitationRecord, error) {
	payload := verifyRequest{
		Key:     knowledge.NormalizeKey(citation.Key),
		Format:  citation.Format.String(),
		Context: citation.Context,
	}

	var record domain.CitationRecord
	if err := c.do(ctx, http.MethodPost, "/v1/citations/verify", payload, &record); err != nil {
		return domain.CitationRecord{}, err
	}
	return record, nil
}

// Ping validates the service is reachable and the credentials work.
func (c *Client) Ping(ctx context.Context) error {
	var status struct {
		Status string `json:"status"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/health", nil, &status); err != nil {
		return fmt.Errorf("knowledge service ping: %w", err)
	}
	return nil
}

// do sends one rate-limited request and decodes the JSON response.
// Deadline expiry surfaces as the context error so callers can
// distinguish timeouts from service failures.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	var reader io.Reader = http.NoBody
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	c.limiter.Observe(resp)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return domain.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("knowledge service throttled the request (retry after %s)",
			time.Until(c.limiter.RetryAt()).Round(time.Second))
	case resp.StatusCode != http.StatusOK:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("knowledge service error (status %d): %s",
			resp.StatusCode, strings.TrimSpace(string(payload)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
