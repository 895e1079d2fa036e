package client

import (
	"bytes"
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"sync/atomic"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/gaborage/go-conduit/trace"
)

// dispatchState tracks one logical request across its attempts.
type dispatchState struct {
	method    string
	path      string
	req       *Request
	start     time.Time
	callCount int64
	requestID string
	attempts  int
}

// issue orchestrates one logical request: resolve the host, build the URL,
// run attempts under the backoff policy, classify each outcome, and map
// structured error payloads before returning.
func (c *Client) issue(ctx context.Context, method, path string, opts ...RequestOption) (*Response, error) {
	if err := c.checkReady(); err != nil {
		return nil, err
	}

	req := newRequest(opts...)
	if req.buildErr != nil {
		return nil, NewValidationError(req.buildErr.Error(), "body")
	}

	ds := &dispatchState{
		method:    method,
		path:      path,
		req:       req,
		start:     time.Now(),
		callCount: atomic.AddInt64(&c.callCount, 1),
		requestID: c.requestID(ctx, req),
	}

	var resp *Response

	// The backoff's elapsed-time budget starts counting at build time, so
	// it is built fresh for every dispatch.
	err := retry.Do(ctx, c.cfg.Backoff.Build(), func(ctx context.Context) error {
		ds.attempts++
		r, err := c.attempt(ctx, ds)
		if err != nil {
			return err
		}
		resp = r
		return nil
	})
	if err != nil {
		// Budget exhausted on a retriable status: the offending response is
		// the classifier's final verdict and goes back to the caller unraised.
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			return statusErr.Response, nil
		}
		return nil, err
	}

	return resp, nil
}

// attempt performs one transport call and classifies its outcome. Retriable
// verdicts come back wrapped for the retry driver; everything else is final.
func (c *Client) attempt(ctx context.Context, ds *dispatchState) (*Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	// Resolution runs inside the attempt so its failures ride the same
	// retry loop as transport failures.
	host, err := c.hostFor(ctx)
	if err != nil {
		if c.classifier.retriableKind(kindOf(err)) {
			return nil, retry.RetryableError(err)
		}
		return nil, err
	}

	fullURL := c.buildURL(host, ds.path, ds.req)

	attemptCtx := ctx
	timeout := ds.req.timeout
	if timeout == 0 {
		timeout = c.cfg.Timeout
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		attemptCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	httpReq, err := c.buildRequest(attemptCtx, ds.method, fullURL, ds.req, ds.requestID)
	if err != nil {
		return nil, NewTransportError(KindOther, "failed to create request", err)
	}

	c.logRequest(httpReq, ds)

	httpResp, err := c.transport.Do(httpReq)
	if err != nil {
		return nil, c.classifyTransportError(err, "request execution failed")
	}

	resp, err := c.buildResponse(ds, httpResp)
	if err != nil {
		return nil, c.classifyTransportError(err, "failed to read response body")
	}

	c.logResponse(resp, ds)

	if resp.IsSuccess() {
		return resp, nil
	}

	if c.classifier.retriableStatus(resp.StatusCode) {
		return nil, retry.RetryableError(NewStatusError(resp))
	}

	// Non-retriable non-2xx: a structured error payload with a registered
	// tag raises the mapped domain error; anything else, including a body
	// that fails to decode, goes back to the caller untouched.
	if tag, payload, ok := errorPayload(resp.Body); ok {
		if factory, registered := c.registry.lookup(tag); registered {
			return nil, factory(resp, payload)
		}
	}

	return resp, nil
}

// classifyTransportError wraps a transport failure with its kind and marks
// it retriable when the kind is configured for retry.
func (c *Client) classifyTransportError(err error, message string) error {
	kind := kindOf(err)
	transportErr := NewTransportError(kind, message, err)
	if c.classifier.retriableKind(kind) {
		return retry.RetryableError(transportErr)
	}
	return transportErr
}

// buildURL concatenates host, prefix, and path verbatim. Duplicate or
// missing slashes are the caller's responsibility.
func (c *Client) buildURL(host, path string, req *Request) string {
	fullURL := host + c.prefix + path
	if len(req.query) > 0 {
		fullURL += "?" + req.query.Encode()
	}
	return fullURL
}

// requestID picks the correlation ID stamped on every attempt: an explicit
// header wins, then the context, then a generated one.
func (c *Client) requestID(ctx context.Context, req *Request) string {
	if id, ok := req.headers[trace.HeaderXRequestID]; ok && id != "" {
		return id
	}
	return trace.EnsureRequestID(ctx)
}

// buildRequest constructs an *http.Request and applies headers, tracing,
// and auth.
func (c *Client) buildRequest(ctx context.Context, method, fullURL string, req *Request, requestID string) (*nethttp.Request, error) {
	var body io.Reader
	if req.body != nil {
		body = bytes.NewReader(req.body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, method, fullURL, body)
	if err != nil {
		return nil, err
	}

	// Apply default headers first, then request-specific overrides
	for key, value := range c.headers {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.headers {
		httpReq.Header.Set(key, value)
	}

	if httpReq.Header.Get(contentTypeHeader) == "" && req.body != nil {
		httpReq.Header.Set(contentTypeHeader, contentTypeJSON)
	}

	httpReq.Header.Set(trace.HeaderXRequestID, requestID)
	if httpReq.Header.Get(trace.HeaderTraceParent) == "" {
		httpReq.Header.Set(trace.HeaderTraceParent, trace.GenerateTraceParent())
	}

	if c.auth != nil {
		httpReq.SetBasicAuth(c.auth.Username, c.auth.Password)
	}

	return httpReq, nil
}

// buildResponse drains and closes the wire response so the connection
// returns to the pool, then snapshots it for the caller.
func (c *Client) buildResponse(ds *dispatchState, httpResp *nethttp.Response) (*Response, error) {
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       body,
		Headers:    httpResp.Header,
		Stats: Stats{
			ElapsedTime: time.Since(ds.start),
			Attempts:    ds.attempts,
			CallCount:   ds.callCount,
		},
	}, nil
}
