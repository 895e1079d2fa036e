package config

import (
	"slices"
	"time"
)

// Backoff strategy names accepted by BackoffConfig.Strategy.
const (
	StrategyExponential = "exponential"
	StrategyConstant    = "constant"
)

// Transport error kind names accepted by RetryConfig.ErrorKinds.
const (
	KindConnection = "connection"
	KindTimeout    = "timeout"
	KindDNS        = "dns"
	KindTLS        = "tls"
)

// Config holds the dispatch policy for one client: which attempt outcomes
// are retried, how retry waits are shaped, the per-attempt timeout, and an
// optional outbound rate limit. A Config handed to a client is copied at
// construction; mutating it afterwards has no effect on the client.
type Config struct {
	Retry   RetryConfig   `koanf:"retry" json:"retry" yaml:"retry" mapstructure:"retry"`
	Backoff BackoffConfig `koanf:"backoff" json:"backoff" yaml:"backoff" mapstructure:"backoff"`
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" mapstructure:"timeout" validate:"min=0"`
	Rate    RateConfig    `koanf:"rate" json:"rate" yaml:"rate" mapstructure:"rate"`
}

// RetryConfig decides which attempt outcomes are retried.
type RetryConfig struct {
	// StatusPatterns match response status codes: an exact code ("503"),
	// a two-digit family ("50x"), or a one-digit family ("5xx").
	StatusPatterns []string `koanf:"statuspatterns" json:"statuspatterns" yaml:"statuspatterns" mapstructure:"statuspatterns" validate:"dive,status_pattern"`

	// ErrorKinds lists transport failure kinds retried in addition to the
	// built-in connection-error family.
	ErrorKinds []string `koanf:"errorkinds" json:"errorkinds" yaml:"errorkinds" mapstructure:"errorkinds" validate:"dive,oneof=connection timeout dns tls"`

	// OnConnError keeps connection and timeout failures retriable.
	// Unset means enabled.
	OnConnError *bool `koanf:"onconnerror" json:"onconnerror" yaml:"onconnerror" mapstructure:"onconnerror"`
}

// OnConnErrorEnabled reports whether the connection-error family is retried.
func (r *RetryConfig) OnConnErrorEnabled() bool {
	return r.OnConnError == nil || *r.OnConnError
}

// BackoffConfig shapes the wait and stop strategies of the retry loop.
type BackoffConfig struct {
	// Strategy selects the wait progression: exponential (default) or constant.
	Strategy string `koanf:"strategy" json:"strategy" yaml:"strategy" mapstructure:"strategy" validate:"omitempty,oneof=exponential constant"`

	// InitialDelay is the first wait; exponential doubles it per attempt.
	InitialDelay time.Duration `koanf:"initialdelay" json:"initialdelay" yaml:"initialdelay" mapstructure:"initialdelay" validate:"min=0"`

	// MaxDelay caps any single wait.
	MaxDelay time.Duration `koanf:"maxdelay" json:"maxdelay" yaml:"maxdelay" mapstructure:"maxdelay" validate:"min=0"`

	// Jitter shifts each wait by a random offset in [-Jitter, +Jitter].
	Jitter time.Duration `koanf:"jitter" json:"jitter" yaml:"jitter" mapstructure:"jitter" validate:"min=0"`

	// StopAfter is the elapsed-time retry budget; once exceeded, the last
	// failure surfaces to the caller.
	StopAfter time.Duration `koanf:"stopafter" json:"stopafter" yaml:"stopafter" mapstructure:"stopafter" validate:"min=0"`

	// MaxAttempts additionally caps total attempts, counting the first try.
	// Zero means no cap.
	MaxAttempts int `koanf:"maxattempts" json:"maxattempts" yaml:"maxattempts" mapstructure:"maxattempts" validate:"min=0"`
}

// RateConfig bounds the client's outbound request rate. A zero Limit
// disables rate limiting.
type RateConfig struct {
	Limit int `koanf:"limit" json:"limit" yaml:"limit" mapstructure:"limit" validate:"min=0"` // requests per second
	Burst int `koanf:"burst" json:"burst" yaml:"burst" mapstructure:"burst" validate:"min=0"` // defaults to Limit when unset
}

// Enabled reports whether an outbound rate limit is configured.
func (r *RateConfig) Enabled() bool {
	return r.Limit > 0
}

// Clone returns a deep copy of the config.
func (c *Config) Clone() *Config {
	if c == nil {
		return nil
	}
	out := *c
	out.Retry.StatusPatterns = slices.Clone(c.Retry.StatusPatterns)
	out.Retry.ErrorKinds = slices.Clone(c.Retry.ErrorKinds)
	if c.Retry.OnConnError != nil {
		v := *c.Retry.OnConnError
		out.Retry.OnConnError = &v
	}
	return &out
}
