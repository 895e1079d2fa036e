package client

import (
	"encoding/json"
	"net/url"
	"time"
)

const (
	contentTypeHeader = "Content-Type"
	contentTypeJSON   = "application/json"
)

// Request carries the per-call pieces of one logical request. Verb methods
// build it from options; without options a bare request is issued.
type Request struct {
	headers  map[string]string
	query    url.Values
	body     []byte
	timeout  time.Duration
	buildErr error
}

// RequestOption configures one request.
type RequestOption func(*Request)

// WithHeader sets a request header, overriding any client default.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		if r.headers == nil {
			r.headers = make(map[string]string)
		}
		r.headers[key] = value
	}
}

// WithQuery adds a query parameter to the request URL.
func WithQuery(key, value string) RequestOption {
	return func(r *Request) {
		if r.query == nil {
			r.query = url.Values{}
		}
		r.query.Add(key, value)
	}
}

// WithBody sets the raw request body.
func WithBody(body []byte) RequestOption {
	return func(r *Request) {
		r.body = body
	}
}

// WithJSON marshals v as the request body and sets the JSON content type.
func WithJSON(v any) RequestOption {
	return func(r *Request) {
		data, err := json.Marshal(v)
		if err != nil {
			r.buildErr = err
			return
		}
		r.body = data
		if r.headers == nil {
			r.headers = make(map[string]string)
		}
		r.headers[contentTypeHeader] = contentTypeJSON
	}
}

// WithRequestTimeout overrides the client's per-attempt timeout for this
// request only.
func WithRequestTimeout(d time.Duration) RequestOption {
	return func(r *Request) {
		r.timeout = d
	}
}

func newRequest(opts ...RequestOption) *Request {
	r := &Request{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}
