package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/layer-3/didauth/ports"
)

// CreateRequestPath is the verifier endpoint issuing request tokens
const CreateRequestPath = "/did-auth/create-did-auth-request"

// maxResponseSize bounds the body read from the verifier
const maxResponseSize = 64 << 10

// ChallengeClient fetches request tokens from a verifier over HTTP
type ChallengeClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewChallengeClient creates a client for the verifier at baseURL;
// httpClient may be nil to use http.DefaultClient
func NewChallengeClient(baseURL string, httpClient *http.Client) ports.RequestTokenFetcher {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &ChallengeClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

type createRequestBody struct {
	AudienceDID string `json:"audienceDid"`
}

type createRequestResponse struct {
	RequestToken string `json:"requestToken"`
}

// FetchRequestToken asks the verifier for a request token addressed to audienceDID
func (c *ChallengeClient) FetchRequestToken(ctx context.Context, audienceDID string) (string, error) {
	body, err := json.Marshal(createRequestBody{AudienceDID: audienceDID})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+CreateRequestPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("verifier returned %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	var out createRequestResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", fmt.Errorf("invalid verifier response: %w", err)
	}
	if out.RequestToken == "" {
		return "", errors.New("verifier response has no request token")
	}

	return out.RequestToken, nil
}
