package config

import "slices"

// Template carries defaults a wrapper library declares once for every client
// it constructs: the service identity and a policy Config merged under the
// instance's own settings. Identity fields (ServiceName, Prefix) never
// shadow silently; declaring one at both template and instance level is a
// construction error, enforced by the client.
type Template struct {
	ServiceName string
	Prefix      string
	Defaults    *Config
}

// Merge overlays override onto base field by field and returns the result.
// A field counts as set when non-zero; nil slices inherit while non-nil
// (even empty) slices override. Neither input is mutated.
func Merge(base, override *Config) *Config {
	if base == nil {
		return override.Clone()
	}

	out := base.Clone()
	if override == nil {
		return out
	}

	if override.Retry.StatusPatterns != nil {
		out.Retry.StatusPatterns = slices.Clone(override.Retry.StatusPatterns)
	}
	if override.Retry.ErrorKinds != nil {
		out.Retry.ErrorKinds = slices.Clone(override.Retry.ErrorKinds)
	}
	if override.Retry.OnConnError != nil {
		v := *override.Retry.OnConnError
		out.Retry.OnConnError = &v
	}

	if override.Backoff.Strategy != "" {
		out.Backoff.Strategy = override.Backoff.Strategy
	}
	if override.Backoff.InitialDelay > 0 {
		out.Backoff.InitialDelay = override.Backoff.InitialDelay
	}
	if override.Backoff.MaxDelay > 0 {
		out.Backoff.MaxDelay = override.Backoff.MaxDelay
	}
	if override.Backoff.Jitter > 0 {
		out.Backoff.Jitter = override.Backoff.Jitter
	}
	if override.Backoff.StopAfter > 0 {
		out.Backoff.StopAfter = override.Backoff.StopAfter
	}
	if override.Backoff.MaxAttempts > 0 {
		out.Backoff.MaxAttempts = override.Backoff.MaxAttempts
	}

	if override.Timeout > 0 {
		out.Timeout = override.Timeout
	}

	if override.Rate.Limit > 0 {
		out.Rate.Limit = override.Rate.Limit
	}
	if override.Rate.Burst > 0 {
		out.Rate.Burst = override.Rate.Burst
	}

	return out
}
