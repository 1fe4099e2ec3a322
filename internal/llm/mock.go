package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// MockResponse is a canned response for the MockProvider.
type MockResponse struct {
	Content json.RawMessage
	Usage   Usage
	Err     error
}

// MockProvider is a deterministic Provider for tests. Responses queued for
// a purpose (question-set, reference-answer, interview-review) are served
// first; anything else comes from the shared FIFO queue. Every request is
// recorded along with the purpose found on its context.
type MockProvider struct {
	mu        sync.Mutex
	responses []MockResponse
	byPurpose map[string][]MockResponse

	Calls    []Request
	Purposes []string
}

// NewMockProvider creates a MockProvider with the given shared responses.
func NewMockProvider(responses ...MockResponse) *MockProvider {
	return &MockProvider{responses: responses, byPurpose: make(map[string][]MockResponse)}
}

func (m *MockProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	purpose := PurposeFrom(ctx)

	m.mu.Lock()
	defer m.mu.Unlock()

	m.Calls = append(m.Calls, req)
	m.Purposes = append(m.Purposes, purpose)

	var resp MockResponse
	switch q := m.byPurpose[purpose]; {
	case len(q) > 0:
		resp, m.byPurpose[purpose] = q[0], q[1:]
	case len(m.responses) > 0:
		resp, m.responses = m.responses[0], m.responses[1:]
	default:
		return nil, &ErrProviderUnavailable{Err: fmt.Errorf("mock: nothing queued for %s", purpose)}
	}

	if resp.Err != nil {
		return nil, resp.Err
	}
	return &Response{
		Content:    resp.Content,
		Usage:      resp.Usage,
		Model:      "mock",
		StopReason: "end",
	}, nil
}

func (m *MockProvider) ModelID() string {
	return "mock"
}

// AddResponse appends to the shared queue.
func (m *MockProvider) AddResponse(resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses = append(m.responses, resp)
}

// RespondTo queues resp for requests made with the given purpose.
func (m *MockProvider) RespondTo(purpose string, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byPurpose[purpose] = append(m.byPurpose[purpose], resp)
}

// CallCount returns the number of Generate calls made.
func (m *MockProvider) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// CallsFor returns how many calls carried purpose.
func (m *MockProvider) CallsFor(purpose string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, p := range m.Purposes {
		if p == purpose {
			n++
		}
	}
	return n
}
