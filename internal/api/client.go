package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

const (
	// ProdBaseURL is the default API endpoint.
	ProdBaseURL = "https://api.runloop.ai"
	// DevBaseURL is used when RUNLOOP_ENV=dev.
	DevBaseURL = "https://api.runloop.pro"

	// ProdSSHProxy and DevSSHProxy are the TLS endpoints the ssh
	// ProxyCommand connects through.
	ProdSSHProxy = "ssh.runloop.ai:443"
	DevSSHProxy  = "ssh.runloop.pro:443"

	defaultTimeout = 30 * time.Second
)

// BaseURLFromEnv resolves the API endpoint from RUNLOOP_ENV.
func BaseURLFromEnv() string {
	if strings.EqualFold(os.Getenv("RUNLOOP_ENV"), "dev") {
		return DevBaseURL
	}
	return ProdBaseURL
}

// Client is the central connection manager for the Runloop API.
// All API requests go through this client.
type Client struct {
	baseURL    string
	apiKey     string
	userAgent  string
	httpClient *http.Client

	Devboxes        *DevboxService
	Blueprints      *BlueprintService
	Objects         *ObjectService
	NetworkPolicies *NetworkPolicyService
	Benchmarks      *BenchmarkService
	MCPConfigs      *MCPConfigService
	GatewayConfigs  *GatewayConfigService
}

// Option customizes a Client.
type Option func(*Client)

// WithBaseURL overrides the API endpoint (used by tests and RUNLOOP_ENV=dev).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient creates a client authenticated with the given bearer token.
func NewClient(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("RUNLOOP_API_KEY must be set in the environment or config file")
	}
	c := &Client{
		baseURL:   BaseURLFromEnv(),
		apiKey:    apiKey,
		userAgent: "rl-cli",
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.Devboxes = &DevboxService{client: c}
	c.Blueprints = &BlueprintService{client: c}
	c.Objects = &ObjectService{client: c}
	c.NetworkPolicies = &NetworkPolicyService{client: c}
	c.Benchmarks = &BenchmarkService{client: c}
	c.MCPConfigs = &MCPConfigService{client: c}
	c.GatewayConfigs = &GatewayConfigService{client: c}
	return c, nil
}

// BaseURL returns the endpoint this client talks to.
func (c *Client) BaseURL() string { return c.baseURL }

// get performs a GET request against path and decodes the JSON response
// into out. query may be nil.
func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

// post performs a POST request with a JSON body (body may be nil) and
// decodes the JSON response into out.
func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}
	return c.doBody(ctx, http.MethodPost, path, nil, reader, "application/json", out)
}

// delete performs a DELETE request against path.
func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body io.Reader, out any) error {
	contentType := ""
	if body != nil {
		contentType = "application/json"
	}
	return c.doBody(ctx, method, path, query, body, contentType, out)
}

func (c *Client) doBody(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string, out any) error {
	resp, err := c.raw(ctx, method, path, query, body, contentType)
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response from %s %s: %w", method, path, err)
	}
	return nil
}

// raw performs a request and returns the response with a 2xx status. The
// caller owns the body. Non-2xx responses are converted into *Error.
func (c *Client) raw(ctx context.Context, method, path string, query url.Values, body io.Reader, contentType string) (*http.Response, error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, fmt.Errorf("building request for %s %s: %w", method, path, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("User-Agent", c.userAgent)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", method, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close() //nolint:errcheck
		return nil, errorFromResponse(resp)
	}
	return resp, nil
}

// jsonBody encodes v for requests that need a raw (non-decoded) response.
func jsonBody(v any) io.Reader {
	data, _ := json.Marshal(v)
	return bytes.NewReader(data)
}

// postMultipart uploads a file as a multipart form under the "file" field
// and decodes the JSON response into out.
func (c *Client) postMultipart(ctx context.Context, path string, fields map[string]string, fileName string, file io.Reader, out any) error {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return fmt.Errorf("writing multipart field %s: %w", k, err)
		}
	}
	fw, err := mw.CreateFormFile("file", fileName)
	if err != nil {
		return fmt.Errorf("creating multipart file part: %w", err)
	}
	if _, err := io.Copy(fw, file); err != nil {
		return fmt.Errorf("reading upload contents: %w", err)
	}
	if err := mw.Close(); err != nil {
		return fmt.Errorf("finalizing multipart body: %w", err)
	}
	return c.doBody(ctx, http.MethodPost, path, nil, &buf, mw.FormDataContentType(), out)
}
