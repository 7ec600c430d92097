package adapter

import (
	"context"
	"fmt"
	"sync"
)

// MockReply is one scripted MockAdapter result.
type MockReply struct {
	Content string
	Err     error
}

// MockAdapter replays scripted replies in order and records every request.
// It is safe for concurrent use.
type MockAdapter struct {
	mu      sync.Mutex
	replies []MockReply
	calls   []Request
	Usage   *Usage
}

// NewMockAdapter creates a mock adapter that returns replies in order.
func NewMockAdapter(replies ...MockReply) *MockAdapter {
	return &MockAdapter{replies: replies}
}

// NewMockAdapterWithResponses creates a mock adapter from plain contents.
func NewMockAdapterWithResponses(contents ...string) *MockAdapter {
	replies := make([]MockReply, len(contents))
	for i, c := range contents {
		replies[i] = MockReply{Content: c}
	}
	return NewMockAdapter(replies...)
}

// Name returns the adapter identifier.
func (a *MockAdapter) Name() string {
	return "mock"
}

// Models returns the list of supported mock models.
func (a *MockAdapter) Models() []string {
	return []string{"mock-1"}
}

// Generate returns the next scripted reply.
func (a *MockAdapter) Generate(_ context.Context, req Request) (*Response, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.calls = append(a.calls, req)
	n := len(a.calls)
	if n > len(a.replies) {
		return nil, fmt.Errorf("mock adapter: no reply scripted for call %d", n)
	}
	reply := a.replies[n-1]
	if reply.Err != nil {
		return nil, reply.Err
	}
	model := req.Model
	if model == "" {
		model = "mock-1"
	}
	return &Response{Content: reply.Content, Model: model, Usage: a.Usage}, nil
}

// Calls returns a copy of the requests received so far.
func (a *MockAdapter) Calls() []Request {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]Request(nil), a.calls...)
}
