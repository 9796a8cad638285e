package llm

import (
	"encoding/json"
	"fmt"
	"time"
)

// Provider failures are typed so the retry layer can pick a policy per
// condition and call sites can branch with errors.As.

// RateLimitError reports a 429 from the provider. RetryAfter is zero
// when the provider did not advertise a wait.
type RateLimitError struct {
	Provider   string
	RetryAfter time.Duration
	Err        error
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s rate limited, retry after %s: %v", providerName(e.Provider), e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("%s rate limited: %v", providerName(e.Provider), e.Err)
}

func (e *RateLimitError) Unwrap() error { return e.Err }

// MalformedOutputError reports model output that failed to parse or to
// conform to the requested schema. Content keeps the raw output so
// callers can log what actually came back.
type MalformedOutputError struct {
	Content json.RawMessage
	Err     error
}

func (e *MalformedOutputError) Error() string {
	return fmt.Sprintf("malformed model output: %v", e.Err)
}

func (e *MalformedOutputError) Unwrap() error { return e.Err }

// UnavailableError reports a provider that is down, unreachable, or
// rejecting requests for a reason other than rate limiting.
type UnavailableError struct {
	Provider string
	Err      error
}

func (e *UnavailableError) Error() string {
	if e.Err == nil {
		return providerName(e.Provider) + " unavailable"
	}
	return fmt.Sprintf("%s unavailable: %v", providerName(e.Provider), e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// TruncatedError reports a response cut off at the request's MaxTokens.
// Content holds the partial output; retrying with the same limits would
// only truncate again.
type TruncatedError struct {
	Content json.RawMessage
}

func (e *TruncatedError) Error() string {
	return "model response truncated at max tokens"
}

func providerName(p string) string {
	if p == "" {
		return "model provider"
	}
	return p
}
