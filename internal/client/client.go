// Package client talks to the home page content service over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/debemdeboas/homeadmin/internal/config"
	"github.com/debemdeboas/homeadmin/internal/content"
)

var clientLogger zerolog.Logger

func SetLogger(l zerolog.Logger) {
	clientLogger = l
}

const maxErrorBody = 512

// StatusError is returned for non-2xx responses other than 401 and 403.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("content service: %d %s", e.Code, http.StatusText(e.Code))
	}
	return fmt.Sprintf("content service: %d %s: %s", e.Code, http.StatusText(e.Code), e.Body)
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithTransport replaces the HTTP transport, keeping the client's cookie jar.
func WithTransport(rt http.RoundTripper) Option {
	return func(c *Client) { c.http.Transport = rt }
}

// Client implements the console's Service over the content service HTTP API.
// The session cookie set by Login is kept in an in-memory jar.
type Client struct {
	base *url.URL

	mu   sync.Mutex
	http *http.Client
}

func New(baseURL string, opts ...Option) (*Client, error) {
	base, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: invalid base url %q: %w", baseURL, err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("client: base url %q must be absolute", baseURL)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}

	c := &Client{
		base: base,
		http: &http.Client{Jar: jar, Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Logout forgets the session cookie. Requests already in flight keep the
// client they started with.
func (c *Client) Logout() {
	jar, _ := cookiejar.New(nil)
	c.mu.Lock()
	next := *c.http
	next.Jar = jar
	c.http = &next
	c.mu.Unlock()
	clientLogger.Debug().Msg("Session cookie cleared")
}

// HasSession reports whether the jar holds a session cookie for the service.
func (c *Client) HasSession() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, ck := range c.http.Jar.Cookies(c.base) {
		if ck.Name == config.CookieSession && ck.Value != "" {
			return true
		}
	}
	return false
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	u.RawQuery = query.Encode()
	return u.String()
}

func (c *Client) httpClient() *http.Client {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.http
}

type request struct {
	method string
	path   string
	query  url.Values
	body   io.Reader
	ctype  string
}

// send performs req and returns the response for any status. The caller owns
// the body.
func (c *Client) send(ctx context.Context, req request) (*http.Response, string, error) {
	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.endpoint(req.path, req.query), req.body)
	if err != nil {
		return nil, "", err
	}

	requestID := uuid.NewString()
	httpReq.Header.Set(config.HRequestID, requestID)
	httpReq.Header.Set(config.HAccept, config.CTypeJSON)
	if req.ctype != "" {
		httpReq.Header.Set(config.HCType, req.ctype)
	}

	start := time.Now()
	resp, err := c.httpClient().Do(httpReq)
	if err != nil {
		clientLogger.Debug().Err(err).
			Str("request_id", requestID).
			Str("method", req.method).
			Str("path", req.path).
			Msg("Request failed")
		return nil, requestID, fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}

	clientLogger.Debug().
		Str("request_id", requestID).
		Str("method", req.method).
		Str("path", req.path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("Request completed")
	return resp, requestID, nil
}

// do sends req, maps error statuses and decodes a JSON response into out.
func (c *Client) do(ctx context.Context, req request, out any) error {
	resp, _, err := c.send(ctx, req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return fmt.Errorf("%s %s: %w", req.method, req.path, err)
	}
	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
		return fmt.Errorf("%s %s: decode response: %w", req.method, req.path, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		io.Copy(io.Discard, resp.Body)
		return content.ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}
	return nil
}

func jsonRequest(method, path string, v any) (request, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return request{}, err
	}
	return request{method: method, path: path, body: bytes.NewReader(data), ctype: config.CTypeJSON}, nil
}
