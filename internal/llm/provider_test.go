package llm

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
)

func TestMockProvider_ReturnsCannedResponses(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{"a":1}`), Usage: Usage{InputTokens: 10, OutputTokens: 5, TotalTokens: 15}},
		MockResponse{Content: json.RawMessage(`{"b":2}`)},
	)

	resp1, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "first"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp1.Content) != `{"a":1}` {
		t.Fatalf("expected {\"a\":1}, got %s", resp1.Content)
	}
	if resp1.Usage.InputTokens != 10 {
		t.Fatalf("expected 10 input tokens, got %d", resp1.Usage.InputTokens)
	}
	if resp1.StopReason != "end" {
		t.Fatalf("expected stop reason 'end', got %q", resp1.StopReason)
	}

	resp2, err := mock.Generate(context.Background(), Request{Messages: []Message{{Role: RoleUser, Content: "second"}}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(resp2.Content) != `{"b":2}` {
		t.Fatalf("expected {\"b\":2}, got %s", resp2.Content)
	}
}

func TestMockProvider_RoutesByPurpose(t *testing.T) {
	mock := NewMockProvider(MockResponse{Content: json.RawMessage(`{"shared":true}`)})
	mock.RespondTo(PurposeReferenceAnswer, MockResponse{Content: json.RawMessage(`{"answer":"ref"}`)})

	ctx := context.Background()
	resp, err := mock.Generate(WithPurpose(ctx, PurposeQuestionSet), Request{})
	if err != nil {
		t.Fatalf("question set: %v", err)
	}
	if string(resp.Content) != `{"shared":true}` {
		t.Errorf("question set got %s, want shared response", resp.Content)
	}

	resp, err = mock.Generate(WithPurpose(ctx, PurposeReferenceAnswer), Request{})
	if err != nil {
		t.Fatalf("reference answer: %v", err)
	}
	if string(resp.Content) != `{"answer":"ref"}` {
		t.Errorf("reference answer got %s", resp.Content)
	}

	if _, err := mock.Generate(WithPurpose(ctx, PurposeReview), Request{}); err == nil {
		t.Error("expected error once both queues are drained")
	}
	want := []string{PurposeQuestionSet, PurposeReferenceAnswer, PurposeReview}
	for i, p := range want {
		if mock.Purposes[i] != p {
			t.Errorf("purpose[%d] = %q, want %q", i, mock.Purposes[i], p)
		}
	}
	if mock.CallsFor(PurposeReview) != 1 {
		t.Errorf("review calls = %d, want 1", mock.CallsFor(PurposeReview))
	}
}

func TestMockProvider_EmptyQueueReturnsError(t *testing.T) {
	mock := NewMockProvider()
	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error from empty queue")
	}
	var unavail *ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("expected ErrProviderUnavailable, got: %T", err)
	}
}

func TestMockProvider_RecordsCalls(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Content: json.RawMessage(`{}`)},
	)

	req := Request{
		System:   "sys",
		Messages: []Message{{Role: RoleUser, Content: "hello"}},
	}
	_, _ = mock.Generate(context.Background(), req)

	if mock.CallCount() != 1 {
		t.Fatalf("expected 1 call, got %d", mock.CallCount())
	}
	if mock.Calls[0].System != "sys" {
		t.Fatalf("expected system 'sys', got %q", mock.Calls[0].System)
	}
}

func TestMockProvider_ReturnsConfiguredError(t *testing.T) {
	mock := NewMockProvider(
		MockResponse{Err: &ErrRateLimit{RetryAfter: 0}},
	)

	_, err := mock.Generate(context.Background(), Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	var rl *ErrRateLimit
	if !errors.As(err, &rl) {
		t.Fatalf("expected ErrRateLimit, got: %T", err)
	}
}

func TestMockProvider_ModelID(t *testing.T) {
	mock := NewMockProvider()
	if mock.ModelID() != "mock" {
		t.Fatalf("expected 'mock', got %q", mock.ModelID())
	}
}

func TestPurposeContext(t *testing.T) {
	ctx := context.Background()
	if p := PurposeFrom(ctx); p != "unknown" {
		t.Fatalf("expected 'unknown', got %q", p)
	}

	ctx = WithPurpose(ctx, PurposeQuestionSet)
	if p := PurposeFrom(ctx); p != "question-set" {
		t.Fatalf("expected 'question-set', got %q", p)
	}
}

func TestResponse_Decode(t *testing.T) {
	resp := &Response{Content: json.RawMessage(`{"answer":"Use a worker pool."}`)}
	var out struct {
		Answer string `json:"answer"`
	}
	if err := resp.Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Answer != "Use a worker pool." {
		t.Fatalf("unexpected answer: %q", out.Answer)
	}

	bad := &Response{Content: json.RawMessage(`not json`)}
	var inv *ErrInvalidResponse
	if err := bad.Decode(&out); !errors.As(err, &inv) {
		t.Fatalf("expected ErrInvalidResponse, got %v", err)
	}
}
