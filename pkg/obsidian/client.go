package obsidian

import (
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Client is the entry point for the Obsidian Local REST API.
type Client struct {
	baseURL *url.URL
	token   string
	http    *http.Client

	// Services
	Vault      *VaultService
	Search     *SearchService
	ActiveFile *ActiveFileService
	Periodic   *PeriodicService
	Open       *OpenService
}

// Option is a functional option for configuring the Client.
type Option func(*Client) error

// NewClient creates a new Obsidian API client.
func NewClient(baseURL, token string, opts ...Option) (*Client, error) {
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, err
	}

	c := &Client{
		baseURL: u,
		token:   token,
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	c.Vault = &VaultService{client: c}
	c.Search = &SearchService{client: c}
	c.ActiveFile = &ActiveFileService{client: c}
	c.Periodic = &PeriodicService{client: c}
	c.Open = &OpenService{client: c}

	return c, nil
}

// WithHTTPClient provides a custom HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) error {
		c.http = httpClient
		return nil
	}
}

// WithInsecureTLS disables TLS certificate verification. The Local REST
// API serves a self-signed certificate by default, so this is needed
// whenever no certificate file is configured.
func WithInsecureTLS() Option {
	return func(c *Client) error {
		c.http.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
		return nil
	}
}

// WithCertificate trusts the PEM certificate at path in addition to the
// system roots.
func WithCertificate(path string) Option {
	return func(c *Client) error {
		pem, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(pem) {
			return fmt.Errorf("no certificates found in %s", path)
		}
		c.http.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{RootCAs: pool},
		}
		return nil
	}
}

func (c *Client) url(path string) *url.URL {
	return c.baseURL.ResolveReference(&url.URL{Path: path})
}

// do sends the request with auth attached and decodes the response into
// v. A *string target receives the raw body; anything else is decoded as
// JSON. Responses with status >= 400 come back as *ErrorResponse, so
// callers always see the HTTP status alongside the API message.
func (c *Client) do(req *http.Request, v interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		errResp := ErrorResponse{StatusCode: resp.StatusCode}
		body, _ := io.ReadAll(resp.Body)
		if err := json.Unmarshal(body, &errResp); err != nil || errResp.Message == "" {
			errResp.Message = fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
		}
		return &errResp
	}

	if v == nil {
		return nil
	}

	if strPtr, ok := v.(*string); ok {
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		*strPtr = string(body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
