package client

import (
	"encoding/json"
	nethttp "net/http"
	"time"
)

// Response represents an HTTP response with tracking information. The body
// is fully read and the underlying connection returned to the pool before
// the response reaches the caller.
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics
type Stats struct {
	ElapsedTime time.Duration
	Attempts    int
	CallCount   int64
}

// IsSuccess reports whether the response status is 2xx.
func (r *Response) IsSuccess() bool {
	return IsSuccessStatus(r.StatusCode)
}

// DecodeJSON unmarshals the response body into v.
func (r *Response) DecodeJSON(v any) error {
	return json.Unmarshal(r.Body, v)
}
