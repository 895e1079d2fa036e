package config

import "time"

// Default values applied before any user-supplied source.
const (
	// DefaultTimeout bounds a single attempt.
	DefaultTimeout = 30 * time.Second

	// DefaultInitialDelay is the first retry wait.
	DefaultInitialDelay = 500 * time.Millisecond

	// DefaultMaxDelay caps any single retry wait.
	DefaultMaxDelay = 30 * time.Second

	// DefaultJitter shifts each wait by a random offset within its bound.
	DefaultJitter = 250 * time.Millisecond

	// DefaultStopAfter is the elapsed-time retry budget.
	DefaultStopAfter = 30 * time.Second

	// DefaultRetryPattern retries server errors only.
	DefaultRetryPattern = "5xx"
)

// defaultValues is the authoritative key set for configuration sources.
// Loaders reject keys outside it.
func defaultValues() map[string]any {
	return map[string]any{
		"retry.statuspatterns": []string{DefaultRetryPattern},
		"retry.errorkinds":     []string{},
		"retry.onconnerror":    true,
		"backoff.strategy":     StrategyExponential,
		"backoff.initialdelay": DefaultInitialDelay.String(),
		"backoff.maxdelay":     DefaultMaxDelay.String(),
		"backoff.jitter":       DefaultJitter.String(),
		"backoff.stopafter":    DefaultStopAfter.String(),
		"backoff.maxattempts":  0,
		"timeout":              DefaultTimeout.String(),
		"rate.limit":           0,
		"rate.burst":           0,
	}
}

// Default returns a Config populated with the library defaults.
func Default() *Config {
	on := true
	return &Config{
		Retry: RetryConfig{
			StatusPatterns: []string{DefaultRetryPattern},
			ErrorKinds:     []string{},
			OnConnError:    &on,
		},
		Backoff: BackoffConfig{
			Strategy:     StrategyExponential,
			InitialDelay: DefaultInitialDelay,
			MaxDelay:     DefaultMaxDelay,
			Jitter:       DefaultJitter,
			StopAfter:    DefaultStopAfter,
		},
		Timeout: DefaultTimeout,
	}
}
