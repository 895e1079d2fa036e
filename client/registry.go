package client

import (
	"encoding/json"
	"sync"
)

// DomainErrorFactory builds the error raised when a registered tag is found
// in a structured error payload.
type DomainErrorFactory func(resp *Response, payload map[string]any) error

// Registry maps domain-error tags to the errors they raise. It is consulted
// whenever a non-retriable non-2xx response carries a structured error
// payload; unregistered tags fall through and the raw response is returned.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]DomainErrorFactory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]DomainErrorFactory),
	}
}

// Register maps tag to a caller-supplied factory.
func (r *Registry) Register(tag string, factory DomainErrorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[tag] = factory
}

// RegisterTag maps tag to the standard DomainError shape.
func (r *Registry) RegisterTag(tag string) {
	r.Register(tag, func(resp *Response, payload map[string]any) error {
		message, _ := payload["message"].(string)
		return &DomainError{
			Tag:        tag,
			StatusCode: resp.StatusCode,
			Message:    message,
			Payload:    payload,
		}
	})
}

func (r *Registry) lookup(tag string) (DomainErrorFactory, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	factory, ok := r.factories[tag]
	return factory, ok
}

// errorPayload extracts the structured error envelope from a non-2xx body:
// {"status": "error", "cls": "<tag>", ...}. Any other shape, including a
// body that fails to decode, reports false so the response passes through
// unmodified.
func errorPayload(body []byte) (tag string, payload map[string]any, ok bool) {
	if len(body) == 0 {
		return "", nil, false
	}

	if err := json.Unmarshal(body, &payload); err != nil {
		return "", nil, false
	}

	if status, _ := payload["status"].(string); status != "error" {
		return "", nil, false
	}

	tag, _ = payload["cls"].(string)
	if tag == "" {
		return "", nil, false
	}

	return tag, payload, true
}
