// Package resolver locates the network address of a named service through
// an external naming backend and caches the result per client.
package resolver

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	nethttp "net/http"
	"net/url"
	"time"
)

// ServiceResolver resolves a service name to a host base URL.
type ServiceResolver interface {
	Resolve(ctx context.Context, service string) (string, error)
}

// DefaultTimeout bounds one naming-service lookup.
const DefaultTimeout = 10 * time.Second

// defaultBaseURLTemplate derives the naming-service endpoint from an
// environment name.
const defaultBaseURLTemplate = "http://discovery.%s.internal"

// HTTP resolves service names against an HTTP naming service exposing
// GET {base}/services/{name} with a {"host": "..."} response.
type HTTP struct {
	baseURL string
	timeout time.Duration
}

// Ensure HTTP implements the interface
var _ ServiceResolver = (*HTTP)(nil)

// Option configures the HTTP resolver.
type Option func(*HTTP)

// WithBaseURL sets the naming-service endpoint explicitly, bypassing the
// environment-derived default.
func WithBaseURL(baseURL string) Option {
	return func(h *HTTP) {
		h.baseURL = baseURL
	}
}

// WithTimeout bounds each lookup.
func WithTimeout(d time.Duration) Option {
	return func(h *HTTP) {
		h.timeout = d
	}
}

// NewHTTP creates a resolver for the given environment. The naming-service
// endpoint defaults to http://discovery.<env>.internal.
func NewHTTP(env string, opts ...Option) *HTTP {
	h := &HTTP{
		baseURL: fmt.Sprintf(defaultBaseURLTemplate, env),
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Resolve looks up the host registered for service. The connection to the
// naming backend is opened for this lookup and released before returning;
// nothing is held between resolutions.
func (h *HTTP) Resolve(ctx context.Context, service string) (string, error) {
	transport := &nethttp.Transport{}
	defer transport.CloseIdleConnections()

	httpClient := &nethttp.Client{
		Transport: transport,
		Timeout:   h.timeout,
	}

	lookupURL := h.baseURL + "/services/" + url.PathEscape(service)
	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, lookupURL, nil)
	if err != nil {
		return "", NewResolutionError(service, "failed to build lookup request", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return "", NewResolutionError(service, "naming service unreachable", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", NewResolutionError(service, "failed to read naming service response", err)
	}

	if resp.StatusCode != nethttp.StatusOK {
		return "", NewResolutionError(service, fmt.Sprintf("naming service returned status %d", resp.StatusCode), nil)
	}

	var payload struct {
		Host string `json:"host"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", NewResolutionError(service, "malformed naming service response", err)
	}

	if payload.Host == "" {
		return "", NewResolutionError(service, "naming service returned no host", nil)
	}

	return payload.Host, nil
}
