// Package client provides the request-dispatch core for talking to one
// backend service whose network address is either fixed at construction
// or discovered at runtime through a naming service.
//
// Host Resolution
//   - A client is static (explicit host) or dynamic (service name + env),
//     decided at construction and fixed for its lifetime.
//   - Dynamic hosts are cached for 60 minutes; expiry is checked lazily.
//   - Concurrent lookups collapse into a single resolver call whose
//     outcome, success or failure, reaches every waiter.
//
// Retries
//   - Controlled by the retry section of config.Config.
//   - Retries occur on:
//   - Response statuses matching a configured pattern ("503", "50x", "5xx")
//   - Transport failures whose kind is configured as retriable
//   - Connection and timeout failures, unless retry.onconnerror is false
//   - Host-resolution failures inside an attempt follow the same rules.
//
// Backoff Strategy
//   - Exponential (default) or constant waits, optionally jittered, bounded
//     by an elapsed-time budget (stopafter) and an optional attempt cap.
//   - When the budget runs out, the last classified failure surfaces as-is:
//     a retriable status hands back its response, a transport failure its
//     typed error. There is no synthetic "retries exhausted" wrapper.
//
// Notes
//   - Request bodies are re-sent by rebuilding the request on each attempt.
//   - Non-2xx responses outside the retry patterns are returned, not raised;
//     registered domain-error tags raise their mapped error instead.
//   - Response bodies are fully read and connections returned to the pool
//     before a Response reaches the caller.
package client
