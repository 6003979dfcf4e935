package translate

import (
	"context"
	"sync/atomic"
	"time"

	"spend-hq/ganymede/pkg/policy/ast"
)

// Response is the transport-level result of a generation round trip,
// mirroring what a remote generation backend would return: the extracted
// containers (always exactly one on success) and the explanation.
type Response struct {
	Containers  []*ast.Container `json:"data"`
	Explanation string           `json:"explanation"`

	// Seq is the request token this response answers. Tokens increase
	// monotonically per client; Apply uses them to drop stale responses.
	Seq uint64 `json:"-"`
}

// TransportFunc simulates the I/O boundary of a generation round trip. It
// is invoked once per request and may return an error to model a timeout or
// unreachable backend. The default transport sleeps for the configured
// latency, honoring context cancellation.
type TransportFunc func(ctx context.Context) error

// Client exposes the translator behind an asynchronous request/response
// boundary with request correlation.
//
// Extraction itself has no failure mode; only the surrounding transport can
// fail. Callers that overlap requests must consume responses through Apply
// so that a stale (earlier) response is never applied after a newer request
// has been issued: last request wins.
type Client struct {
	translator *Translator
	latency    time.Duration
	transport  TransportFunc

	// issued is the token of the most recently issued request.
	issued atomic.Uint64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithLatency sets the simulated round-trip latency for the default
// transport. Default: 300ms.
func WithLatency(d time.Duration) ClientOption {
	return func(c *Client) { c.latency = d }
}

// WithTransport replaces the transport, letting tests inject failures or
// custom delays.
func WithTransport(fn TransportFunc) ClientOption {
	return func(c *Client) { c.transport = fn }
}

// NewClient returns a Client around the given translator.
func NewClient(translator *Translator, opts ...ClientOption) *Client {
	c := &Client{
		translator: translator,
		latency:    300 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = c.sleepTransport
	}
	return c
}

// Generate performs one translation round trip. The returned response
// carries the request token assigned when the call was issued. A nil error
// means extraction succeeded (it always does); a non-nil error reports a
// transport failure and the caller decides whether to retry.
func (c *Client) Generate(ctx context.Context, text string) (*Response, error) {
	seq := c.issued.Add(1)

	if err := c.transport(ctx); err != nil {
		return nil, err
	}

	result := c.translator.Translate(text)
	return &Response{
		Containers:  []*ast.Container{result.Fragment},
		Explanation: result.Explanation,
		Seq:         seq,
	}, nil
}

// Apply reports whether the response is still current: true only when no
// newer request has been issued since this one. Callers drop responses for
// which Apply returns false.
func (c *Client) Apply(resp *Response) bool {
	return resp != nil && resp.Seq == c.issued.Load()
}

// sleepTransport is the default transport: it waits out the configured
// latency or the context, whichever ends first.
func (c *Client) sleepTransport(ctx context.Context) error {
	if c.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(c.latency)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
