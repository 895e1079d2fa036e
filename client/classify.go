package client

import (
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"strconv"

	"github.com/gaborage/go-conduit/config"
)

// classifier decides, per attempt outcome, whether the retry loop continues.
// Built once at construction from the merged config, immutable thereafter.
type classifier struct {
	statuses map[string]struct{}
	kinds    map[ErrorKind]struct{}
}

func newClassifier(cfg *config.Config) *classifier {
	statuses := make(map[string]struct{}, len(cfg.Retry.StatusPatterns))
	for _, pattern := range cfg.Retry.StatusPatterns {
		statuses[pattern] = struct{}{}
	}

	kinds := make(map[ErrorKind]struct{}, len(cfg.Retry.ErrorKinds)+2)
	for _, kind := range cfg.Retry.ErrorKinds {
		kinds[ErrorKind(kind)] = struct{}{}
	}
	// The connection-error family is retried unless explicitly disabled
	if cfg.Retry.OnConnErrorEnabled() {
		kinds[KindConnection] = struct{}{}
		kinds[KindTimeout] = struct{}{}
	}

	return &classifier{
		statuses: statuses,
		kinds:    kinds,
	}
}

// retriableStatus reports whether code matches the configured patterns by
// exact code ("503"), narrow family ("50x"), or wide family ("5xx").
func (c *classifier) retriableStatus(code int) bool {
	if len(c.statuses) == 0 {
		return false
	}

	s := strconv.Itoa(code)
	if _, ok := c.statuses[s]; ok {
		return true
	}
	if len(s) != 3 {
		return false
	}
	if _, ok := c.statuses[s[:2]+"x"]; ok {
		return true
	}
	_, ok := c.statuses[s[:1]+"xx"]
	return ok
}

// retriableKind reports whether transport failures of kind are retried.
func (c *classifier) retriableKind(kind ErrorKind) bool {
	_, ok := c.kinds[kind]
	return ok
}

// kindOf derives the failure kind from a transport error. Cancellation by
// the caller maps to KindOther so it never matches a retriable kind.
func kindOf(err error) ErrorKind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindOther
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindDNS
	}

	var certErr *tls.CertificateVerificationError
	if errors.As(err, &certErr) {
		return KindTLS
	}
	var recordErr tls.RecordHeaderError
	if errors.As(err, &recordErr) {
		return KindTLS
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindConnection
	}

	// A connection dropped mid-body surfaces as an unexpected EOF
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return KindConnection
	}

	return KindOther
}
