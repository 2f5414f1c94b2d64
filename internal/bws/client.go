// Package bws talks to the external-secrets bitwarden-sdk-server REST API.
//
// Every endpoint takes a JSON body, including GET and DELETE, and every
// request carries the Warden-* headers that tell the server which Bitwarden
// instance and credentials to use.
package bws

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/systmms/bwsconnect/internal/logging"
	"github.com/systmms/bwsconnect/internal/metrics"
	"github.com/systmms/bwsconnect/internal/secure"
)

// Header names understood by bitwarden-sdk-server.
const (
	HeaderAccessToken = "Warden-Access-Token"
	HeaderAPIURL      = "Warden-Api-Url"
	HeaderIdentityURL = "Warden-Identity-Url"
	HeaderStatePath   = "Warden-State-Path"
)

// DefaultBaseURL is where bitwarden-sdk-server listens by default.
const DefaultBaseURL = "http://127.0.0.1:9998/rest/api/1"

// Config configures a Client.
type Config struct {
	BaseURL     string
	AccessToken *secure.SecureBuffer
	APIURL      string
	IdentityURL string
	StatePath   string

	// CACert is a PEM file added to the trusted roots.
	CACert             string
	InsecureSkipVerify bool
	Timeout            time.Duration

	Logger  *logging.Logger
	Metrics *metrics.Metrics

	// HTTPClient overrides the client built from the TLS options.
	HTTPClient *http.Client
}

// Client is a bitwarden-sdk-server API client. It is safe for concurrent use.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	token       *secure.SecureBuffer
	apiURL      string
	identityURL string
	statePath   string
	logger      *logging.Logger
	metrics     *metrics.Metrics
}

// New creates a client from cfg.
func New(cfg Config) (*Client, error) {
	if cfg.AccessToken == nil {
		return nil, ErrMissingToken
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		var err error
		httpClient, err = newHTTPClient(cfg)
		if err != nil {
			return nil, err
		}
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Client{
		httpClient:  httpClient,
		baseURL:     strings.TrimRight(baseURL, "/"),
		token:       cfg.AccessToken,
		apiURL:      cfg.APIURL,
		identityURL: cfg.IdentityURL,
		statePath:   cfg.StatePath,
		logger:      logger,
		metrics:     cfg.Metrics,
	}, nil
}

func newHTTPClient(cfg Config) (*http.Client, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.TLSClientConfig = &tls.Config{}

	if cfg.CACert != "" {
		pem, err := os.ReadFile(cfg.CACert)
		if err != nil {
			return nil, fmt.Errorf("reading ca cert file: %w", err)
		}

		pool, err := x509.SystemCertPool()
		if err != nil || pool == nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("failed to parse CA certificate PEM %s", cfg.CACert)
		}
		transport.TLSClientConfig.RootCAs = pool
	}

	if cfg.InsecureSkipVerify {
		transport.TLSClientConfig.InsecureSkipVerify = true
	}

	return &http.Client{
		Transport: transport,
		Timeout:   cfg.Timeout,
	}, nil
}

// BaseURL returns the normalized API base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListSecrets returns the identifiers of every secret in the organization.
func (c *Client) ListSecrets(ctx context.Context, organizationID string) ([]SecretIdentifier, error) {
	body, err := c.ListSecretsRaw(ctx, organizationID)
	if err != nil {
		return nil, err
	}

	var list ListResponse
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("failed to parse list response: %w", err)
	}
	c.logger.Debug("found keys: %v", list.Keys())

	return list.Data, nil
}

// ListSecretsRaw returns the undecoded listing body.
func (c *Client) ListSecretsRaw(ctx context.Context, organizationID string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "secrets", listRequest{OrganizationID: organizationID})
}

// GetSecret returns the raw JSON payload of one secret.
func (c *Client) GetSecret(ctx context.Context, id string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "secret", secretGetRequest{ID: id})
}

// GetSecretsByIDs returns the raw JSON payload for several secrets.
func (c *Client) GetSecretsByIDs(ctx context.Context, ids []string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, "secrets-by-ids", secretsByIDsRequest{IDs: ids})
}

// CreateSecret creates a secret and returns the raw response.
func (c *Client) CreateSecret(ctx context.Context, req SecretCreateRequest) ([]byte, error) {
	return c.do(ctx, http.MethodPost, "secret", req)
}

// UpdateSecret replaces a secret and returns the raw response.
func (c *Client) UpdateSecret(ctx context.Context, req SecretPutRequest) ([]byte, error) {
	return c.do(ctx, http.MethodPut, "secret", req)
}

// DeleteSecrets deletes secrets by id and returns the raw response.
func (c *Client) DeleteSecrets(ctx context.Context, ids []string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, "secret", secretsByIDsRequest{IDs: ids})
}

// do sends one JSON request and returns the response body.
func (c *Client) do(ctx context.Context, method, endpoint string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal %s request: %w", endpoint, err)
	}

	url := c.baseURL + "/" + endpoint
	req, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var token string
	if err := c.token.Reveal(func(p []byte) error {
		token = string(p)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("reading access token: %w", err)
	}
	c.setHeaders(req, token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(endpoint, method, 0, time.Since(start))
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	c.metrics.ObserveRequest(endpoint, method, resp.StatusCode, time.Since(start))
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", endpoint, err)
	}

	redacted := logging.Redact(string(body), []string{token})
	c.logger.Debug("%s %s -> %d: %s", method, url, resp.StatusCode, redacted)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &StatusError{
			Op:         endpoint,
			Method:     method,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(redacted),
		}
	}

	return body, nil
}

func (c *Client) setHeaders(req *http.Request, token string) {
	req.Header.Set(HeaderAccessToken, token)
	if c.apiURL != "" {
		req.Header.Set(HeaderAPIURL, c.apiURL)
	}
	if c.identityURL != "" {
		req.Header.Set(HeaderIdentityURL, c.identityURL)
	}
	if c.statePath != "" {
		req.Header.Set(HeaderStatePath, c.statePath)
	}
}
