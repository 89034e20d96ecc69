package checkout

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

	pkgerrors "github.com/tetstore/guestcart-backend/pkg/errors"
)

const (
	guestCheckoutPath           = "/checkout/guest"
	responseBodyReadLimit int64 = 1 << 20
)

var errBaseURLRequired = errors.New("checkout base url is required")

// Client submits guest checkouts to the storefront backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// ClientOption configures optional client behavior.
type ClientOption func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient builds the checkout client for the given backend base URL.
func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}

	client := &Client{
		baseURL:    trimmed,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}
	return client, nil
}

// submitResponse mirrors the backend's guest checkout payload; the access
// token and user blob live under access.original.
type submitResponse struct {
	Access struct {
		Original struct {
			AccessToken string          `json:"access_token"`
			User        json.RawMessage `json:"user"`
		} `json:"original"`
	} `json:"access"`
}

// Submit posts the staged checkout blob. A 401 is distinguished from other
// failures because it changes navigation, not just cart state.
func (c *Client) Submit(ctx context.Context, payload []byte) (token string, user json.RawMessage, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+guestCheckoutPath, bytes.NewReader(payload))
	if err != nil {
		return "", nil, fmt.Errorf("building checkout request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "submit checkout")
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "checkout requires authentication")
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		upstream := &pkgerrors.UpstreamError{Status: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, upstream, "checkout submission rejected")
	}

	var decoded submitResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(&decoded); err != nil {
		return "", nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding checkout response")
	}
	if decoded.Access.Original.AccessToken == "" {
		return "", nil, pkgerrors.New(pkgerrors.CodeDependency, "checkout response missing access token")
	}
	return decoded.Access.Original.AccessToken, decoded.Access.Original.User, nil
}
