// Package llm abstracts the hosted language models behind the diagnostic
// analyzers and the optional semantic clusterer. Consumers send a prompt
// plus an optional JSON schema and get validated structured output back.
package llm

import (
	"context"
	"encoding/json"
)

// Provider is the single abstraction consumers depend on.
type Provider interface {
	// Generate sends a prompt and returns structured output. When the
	// request carries a Schema, Content is JSON validated against it.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the configured model identifier.
	ModelID() string
}

// Request describes one generation call.
type Request struct {
	System      string
	Messages    []Message
	Schema      *Schema // nil for free-text output
	MaxTokens   int
	Temperature float64 // 0 means deterministic
}

// Message is one turn of conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is a message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema names a JSON Schema the response must conform to.
type Schema struct {
	Name        string // kebab-case, used as the provider-side schema name
	Description string
	Definition  map[string]any
}

// Response is the model's output.
type Response struct {
	Content    json.RawMessage
	Usage      Usage
	Model      string
	StopReason string // "end" or "max_tokens"
}

// Usage reports token consumption.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

type purposeKey struct{}

// WithPurpose tags ctx with what the call is for (e.g. "grammar-analysis",
// "semantic-clustering"). Used for logging.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the purpose tag, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if p, ok := ctx.Value(purposeKey{}).(string); ok {
		return p
	}
	return "unknown"
}
