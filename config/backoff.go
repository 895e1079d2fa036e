package config

import (
	"github.com/sethvargo/go-retry"
)

// Build compiles the backoff settings into a retry.Backoff. Backoff values
// are stateful (the elapsed-time budget starts counting at build time), so
// callers build one per dispatch and never share instances.
func (b *BackoffConfig) Build() retry.Backoff {
	initial := b.InitialDelay
	if initial <= 0 {
		initial = DefaultInitialDelay
	}

	var backoff retry.Backoff
	switch b.Strategy {
	case StrategyConstant:
		backoff = retry.NewConstant(initial)
	default:
		backoff = retry.NewExponential(initial)
	}

	if b.Jitter > 0 {
		backoff = retry.WithJitter(b.Jitter, backoff)
	}
	if b.MaxDelay > 0 {
		backoff = retry.WithCappedDuration(b.MaxDelay, backoff)
	}
	if b.StopAfter > 0 {
		backoff = retry.WithMaxDuration(b.StopAfter, backoff)
	}
	if b.MaxAttempts > 0 {
		// MaxAttempts counts the first try, WithMaxRetries counts retries
		backoff = retry.WithMaxRetries(uint64(b.MaxAttempts-1), backoff)
	}

	return backoff
}
