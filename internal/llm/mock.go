package llm

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
)

// GenerateFunc adapts a plain function to the Provider interface.
type GenerateFunc func(ctx context.Context, req Request) (*Response, error)

func (f GenerateFunc) Generate(ctx context.Context, req Request) (*Response, error) {
	return f(ctx, req)
}

func (f GenerateFunc) ModelID() string { return "func" }

// MockResponse is one step of a MockProvider script: Content to return,
// or Err to fail with.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider replays a fixed script of responses, one per Generate
// call, and records every request it sees. Calls past the end of the
// script fail as unavailable, so an exhausted mock reads like an
// outage instead of a silent success.
type MockProvider struct {
	mu     sync.Mutex
	script []MockResponse
	step   int
	Calls  []Request
}

func NewMockProvider(script ...MockResponse) *MockProvider {
	return &MockProvider{script: script}
}

func (m *MockProvider) Generate(_ context.Context, req Request) (*Response, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	if m.step >= len(m.script) {
		return nil, &UnavailableError{Provider: "mock", Err: errors.New("script exhausted")}
	}

	r := m.script[m.step]
	m.step++
	if r.Err != nil {
		return nil, r.Err
	}
	return &Response{
		Content:    r.Content,
		Usage:      r.Usage,
		Model:      m.ModelID(),
		StopReason: "end",
	}, nil
}

// Remaining reports how many scripted responses have not played yet.
func (m *MockProvider) Remaining() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.script) - m.step
}

func (m *MockProvider) ModelID() string { return "mock" }
