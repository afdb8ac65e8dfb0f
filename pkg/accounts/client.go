package accounts

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

	"github.com/skeldnet/cosmetics-backend/pkg/config"
	pkgerrors "github.com/skeldnet/cosmetics-backend/pkg/errors"
)

const responseBodyReadLimit int64 = 1 << 16

var errServiceTokenRequired = errors.New("account service token is required")

// Profile is the authoritative user record held by the account service.
// ClientToken is the per-user credential the game client presents.
type Profile struct {
	ClientID    string   `json:"client_id"`
	ClientToken string   `json:"client_token"`
	DisplayName string   `json:"display_name"`
	Perks       []string `json:"perks"`
}

// HasPerk reports whether the profile carries the named permission.
func (p *Profile) HasPerk(perk string) bool {
	if p == nil {
		return false
	}
	for _, candidate := range p.Perks {
		if candidate == perk {
			return true
		}
	}
	return false
}

// Verifier confirms a token/user pair against the account service.
type Verifier interface {
	Authenticate(ctx context.Context, token, userID string) (*Profile, error)
}

// Client talks to the account service's private user API.
type Client struct {
	httpClient   *http.Client
	baseURL      string
	serviceToken string
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithBaseURL overrides the configured account service base URL.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		trimmed := strings.TrimSpace(baseURL)
		if trimmed != "" {
			c.baseURL = trimmed
		}
	}
}

// NewClient builds an account service client from configuration.
func NewClient(cfg config.AccountsConfig, opts ...Option) (*Client, error) {
	token := strings.TrimSpace(cfg.ServiceToken)
	if token == "" {
		return nil, errServiceTokenRequired
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	client := &Client{
		httpClient:   &http.Client{Timeout: timeout},
		baseURL:      strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		serviceToken: token,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	return client, nil
}

// Authenticate fetches the user's profile and checks the presented token
// against the account service's expected token. Every authenticated request
// re-verifies; there is no cache in front of this call.
func (c *Client) Authenticate(ctx context.Context, token, userID string) (*Profile, error) {
	profile, err := c.fetchUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if profile.ClientToken != token {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Invalid token or uuid")
	}
	return profile, nil
}

func (c *Client) fetchUser(ctx context.Context, userID string) (*Profile, error) {
	if c == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "account client not configured")
	}

	endpoint := fmt.Sprintf("%s/api-private/v1/users/%s", c.baseURL, url.PathEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "build account request")
	}
	req.Header.Set("Authorization", c.serviceToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "execute account request")
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Invalid token or uuid")
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg))), "account request failed")
	}

	var apiResp struct {
		Success bool    `json:"success"`
		Data    Profile `json:"data"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, responseBodyReadLimit)).Decode(&apiResp); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode account response")
	}
	if !apiResp.Success {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "Authentication error: Invalid token or uuid")
	}

	return &apiResp.Data, nil
}
