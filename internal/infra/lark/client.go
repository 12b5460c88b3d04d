// Package lark reads employee rows from a Feishu/Lark Base table.
package lark

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const (
	tokenPath = "/open-apis/auth/v3/tenant_access_token/internal"
	// tokenSafetyMargin is subtracted from the token lifetime so a token is never used at the edge of expiry.
	tokenSafetyMargin = 300 * time.Second
	defaultTimeout    = 30 * time.Second
	recordsPageSize   = 500
)

var ErrAPI = errors.New("lark api error")

// Config holds the tenant credentials and the Base table to read.
type Config struct {
	BaseURL   string
	AppID     string
	AppSecret string
	AppToken  string
	TableID   string
	ViewID    string
}

// Client is a minimal Lark Open API client. It caches the tenant access token.
type Client struct {
	cfg        Config
	httpClient *http.Client
	now        func() time.Time

	mu           sync.Mutex
	token        string
	tokenExpires time.Time
}

func NewClient(cfg Config) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: defaultTimeout},
		now:        time.Now,
	}
}

// SetHTTPClient sets a custom HTTP client (useful for testing)
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// envelope is the common response wrapper of the Open API.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type tokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"`
}

// tenantToken returns the cached token or requests a new one.
func (c *Client) tenantToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.token != "" && c.now().Before(c.tokenExpires) {
		return c.token, nil
	}

	payload, err := json.Marshal(map[string]string{"app_id": c.cfg.AppID, "app_secret": c.cfg.AppSecret})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+tokenPath, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	body, err := c.do(req)
	if err != nil {
		return "", fmt.Errorf("token request failed: %w", err)
	}
	var tr tokenResponse
	if err := json.Unmarshal(body, &tr); err != nil {
		return "", fmt.Errorf("failed to parse token response: %w", err)
	}
	if tr.Code != 0 || tr.TenantAccessToken == "" {
		return "", fmt.Errorf("%w: token code %d: %s", ErrAPI, tr.Code, tr.Msg)
	}

	c.token = tr.TenantAccessToken
	c.tokenExpires = c.now().Add(time.Duration(tr.Expire)*time.Second - tokenSafetyMargin)
	return c.token, nil
}

// getJSON performs an authenticated GET and decodes the envelope's data into out.
func (c *Client) getJSON(ctx context.Context, path string, query url.Values, out any) error {
	token, err := c.tenantToken(ctx)
	if err != nil {
		return err
	}

	reqURL := c.cfg.BaseURL + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)

	body, err := c.do(req)
	if err != nil {
		return err
	}
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	if env.Code != 0 {
		return fmt.Errorf("%w: code %d: %s", ErrAPI, env.Code, env.Msg)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("failed to parse response data: %w", err)
	}
	return nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w (status %d): %s", ErrAPI, resp.StatusCode, truncate(body, 512))
	}
	return body, nil
}

func truncate(b []byte, n int) string {
	if len(b) <= n {
		return string(b)
	}
	return string(b[:n]) + "..."
}
