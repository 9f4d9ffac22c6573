package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/cenkalti/backoff/v4"
	"github.com/layer-3/didauth/core"
)

const (
	DefaultMaxRetries = 3

	identifiersPath = "/1.0/identifiers/"
	maxDocumentSize = 1 << 20
)

// HTTPResolver resolves DIDs through a universal resolver endpoint
// (GET {baseURL}/1.0/identifiers/{did}). Transport failures and 5xx answers
// are retried with exponential backoff; 4xx answers are not.
type HTTPResolver struct {
	baseURL    string
	httpClient *http.Client
	maxRetries uint64
	logger     watermill.LoggerAdapter
}

// HTTPResolverOption configures an HTTPResolver
type HTTPResolverOption func(*HTTPResolver)

// WithHTTPClient sets the client used for requests
func WithHTTPClient(c *http.Client) HTTPResolverOption {
	return func(r *HTTPResolver) { r.httpClient = c }
}

// WithMaxRetries sets how many times a failed request is retried
func WithMaxRetries(n uint64) HTTPResolverOption {
	return func(r *HTTPResolver) { r.maxRetries = n }
}

// WithLogger sets the logger used to report retries
func WithLogger(l watermill.LoggerAdapter) HTTPResolverOption {
	return func(r *HTTPResolver) { r.logger = l }
}

// NewHTTPResolver creates a universal resolver client
func NewHTTPResolver(baseURL string, opts ...HTTPResolverOption) *HTTPResolver {
	r := &HTTPResolver{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
		maxRetries: DefaultMaxRetries,
		logger:     watermill.NopLogger{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// resolutionResult is the envelope returned by universal resolvers
type resolutionResult struct {
	DIDDocument *core.DIDDocument `json:"didDocument"`
}

// Resolve fetches the document of did
func (r *HTTPResolver) Resolve(ctx context.Context, did string) (*core.DIDDocument, error) {
	endpoint := r.baseURL + identifiersPath + url.PathEscape(did)

	var doc *core.DIDDocument
	operation := func() error {
		var err error
		doc, err = r.fetch(ctx, endpoint)
		return err
	}
	notify := func(err error, wait time.Duration) {
		r.logger.Info("DID resolution failed, retrying", watermill.LogFields{
			"did":   did,
			"error": err.Error(),
			"wait":  wait.String(),
		})
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), r.maxRetries), ctx)
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}

	return doc, nil
}

func (r *HTTPResolver) fetch(ctx context.Context, endpoint string) (*core.DIDDocument, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, backoff.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Accept", "application/did+ld+json, application/json")

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("resolver request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read resolver response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, backoff.Permanent(fmt.Errorf("%s: %w", endpoint, core.ErrDIDNotFound))
	case resp.StatusCode >= http.StatusInternalServerError:
		return nil, fmt.Errorf("resolver returned %d", resp.StatusCode)
	case resp.StatusCode != http.StatusOK:
		return nil, backoff.Permanent(fmt.Errorf("resolver returned %d", resp.StatusCode))
	}

	var result resolutionResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, backoff.Permanent(fmt.Errorf("invalid resolver response: %w", err))
	}
	if result.DIDDocument != nil {
		return result.DIDDocument, nil
	}

	// Some resolvers answer with the bare document.
	var doc core.DIDDocument
	if err := json.Unmarshal(body, &doc); err != nil || doc.ID == "" {
		return nil, backoff.Permanent(errors.New("resolver response has no DID document"))
	}
	return &doc, nil
}
