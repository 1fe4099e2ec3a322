package coach

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/llm"
)

func testReport(t *testing.T) *interview.PerformanceReport {
	t.Helper()
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	rep, err := interview.Aggregate([]interview.ChatEntry{
		interview.QuestionEntry{QuestionText: "What is dependency injection?", At: at},
		interview.AnswerEntry{AnswerText: "passing dependencies in from outside for easier testing", Score: 100, Remark: interview.RemarkOutstanding, At: at},
		interview.QuestionEntry{QuestionText: "Explain CAP theorem", At: at},
		interview.AnswerEntry{AnswerText: "maybe", Score: 0, Remark: interview.RemarkTooShort, At: at},
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	rep.Role = "Backend Engineer"
	rep.Difficulty = interview.Intermediate
	return rep
}

func TestReview(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Content: json.RawMessage(`{
		"strengths": ["Clear definition of DI", " "],
		"improvements": ["Expand on CAP trade-offs"],
		"overall_feedback": "  Solid start.  "
	}`)})
	svc := NewService(mock, DefaultConfig())
	rep := testReport(t)

	review, err := svc.Review(context.Background(), rep)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(review.Strengths) != 1 || review.Strengths[0] != "Clear definition of DI" {
		t.Errorf("strengths = %q", review.Strengths)
	}
	if len(review.Improvements) != 1 {
		t.Errorf("improvements = %q", review.Improvements)
	}
	if review.OverallFeedback != "Solid start." {
		t.Errorf("overall = %q", review.OverallFeedback)
	}
	if rep.AverageScore != 50 {
		t.Errorf("review must not change scores, average = %d", rep.AverageScore)
	}

	if mock.Purposes[0] != llm.PurposeReview {
		t.Errorf("purpose = %q, want %q", mock.Purposes[0], llm.PurposeReview)
	}
	req := mock.Calls[0]
	if req.Schema != ReviewSchema {
		t.Error("expected review schema")
	}
	msg := req.Messages[0].Content
	for _, want := range []string{
		"Role: Backend Engineer",
		"Average score: 50 (good)",
		"Q1: What is dependency injection?",
		"Q2: Explain CAP theorem",
		"Score: 0 (too short)",
	} {
		if !strings.Contains(msg, want) {
			t.Errorf("prompt missing %q:\n%s", want, msg)
		}
	}
}

func TestReview_EmptyReport(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), DefaultConfig())
	if _, err := svc.Review(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil report")
	}
	if _, err := svc.Review(context.Background(), &interview.PerformanceReport{}); err == nil {
		t.Fatal("expected error for report without answers")
	}
}

func TestReview_ProviderError(t *testing.T) {
	mock := llm.NewMockProvider(llm.MockResponse{Err: &llm.ErrProviderUnavailable{}})
	svc := NewService(mock, DefaultConfig())

	_, err := svc.Review(context.Background(), testReport(t))
	var pu *llm.ErrProviderUnavailable
	if !errors.As(err, &pu) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestClip(t *testing.T) {
	if got := clip("  ", 10); got != "(no answer)" {
		t.Errorf("clip blank = %q", got)
	}
	if got := clip("abcdef", 3); got != "abc..." {
		t.Errorf("clip = %q", got)
	}
}
