package client

import (
	nethttp "net/http"
	"strings"
)

const (
	authorizationHeader = "Authorization"
	redactedValue       = "[REDACTED]"
)

// logRequest logs the outgoing attempt
func (c *Client) logRequest(httpReq *nethttp.Request, ds *dispatchState) {
	logEvent := c.log.Info().
		Str("direction", "outbound").
		Str("method", ds.method).
		Str("url", httpReq.URL.String()).
		Str("request_id", ds.requestID).
		Int("attempt", ds.attempts)

	if headers := redactHeaders(httpReq.Header); len(headers) > 0 {
		logEvent.Interface("headers", headers)
	}

	if len(ds.req.body) > 0 {
		logEvent.Bytes("body", ds.req.body)
	}

	logEvent.Msg("REST client request")
}

// logResponse logs the attempt outcome
func (c *Client) logResponse(resp *Response, ds *dispatchState) {
	logEvent := c.log.Info().
		Str("direction", "inbound").
		Str("request_id", ds.requestID).
		Int("status", resp.StatusCode).
		Int("attempt", ds.attempts).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int64("call_count", resp.Stats.CallCount)

	if len(resp.Body) > 0 {
		logEvent.Bytes("body", resp.Body)
	}

	logEvent.Msg("REST client response")
}

// redactHeaders copies headers for logging with credentials masked.
func redactHeaders(h nethttp.Header) map[string]string {
	if len(h) == 0 {
		return nil
	}

	out := make(map[string]string, len(h))
	for key := range h {
		if strings.EqualFold(key, authorizationHeader) {
			out[key] = redactedValue
			continue
		}
		out[key] = h.Get(key)
	}
	return out
}
