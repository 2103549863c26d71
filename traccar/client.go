package traccar

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"unicode/utf8"

	"github.com/awantoch/traccarproxy/config"
	"github.com/awantoch/traccarproxy/constants"
	"github.com/awantoch/traccarproxy/telemetry"
	"github.com/awantoch/traccarproxy/utils"
)

// discardLimit bounds how much of an error body is drained for connection reuse.
const discardLimit = 64 << 10

// Client fetches positions from a single Traccar endpoint.
type Client struct {
	url        string
	httpClient *http.Client
}

type Option func(*Client)

// WithHTTPClient replaces the default instrumented client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// NewClient builds a client for url. By default requests go through an
// otelhttp transport with no client-side timeout.
func NewClient(url string, opts ...Option) *Client {
	c := &Client{
		url:        url,
		httpClient: &http.Client{Transport: telemetry.NewTransport(nil)},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewClientFromConfig applies the configured URL and timeout.
func NewClientFromConfig(cfg config.TraccarConfig, opts ...Option) (*Client, error) {
	timeout, err := cfg.RequestTimeout()
	if err != nil {
		return nil, err
	}
	c := NewClient(cfg.URL, opts...)
	if timeout > 0 && c.httpClient.Timeout == 0 {
		hc := *c.httpClient
		hc.Timeout = timeout
		c.httpClient = &hc
	}
	return c, nil
}

// URL returns the positions endpoint.
func (c *Client) URL() string {
	return c.url
}

// FetchPositions performs one GET and returns the compacted JSON body.
//
// Errors are a *StatusError for non-2xx responses, a *DecodeError for a body
// that is not JSON, or the transport/read error unchanged.
func (c *Client) FetchPositions(ctx context.Context, creds Credentials) (json.RawMessage, error) {
	req, err := http.NewRequestWithContext(ctx, constants.HTTPMethodGET, c.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set(constants.HeaderAuthorization, creds.BasicAuth())
	req.Header.Set(constants.HeaderAccept, constants.ContentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	utils.DebugCtx(ctx, "traccar responded", "url", c.url, "status", resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, discardLimit))
		return nil, &StatusError{StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, data); err != nil {
		return nil, &DecodeError{Err: err}
	}
	out := buf.Bytes()
	if !utf8.Valid(out) {
		// Invalid bytes can only sit inside string literals here.
		out = bytes.ToValidUTF8(out, []byte("\uFFFD"))
	}
	return json.RawMessage(out), nil
}
