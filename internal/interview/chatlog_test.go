package interview

import (
	"errors"
	"testing"
	"time"
)

func fixedClock(start time.Time) func() time.Time {
	t := start
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func TestChatLog_Alternates(t *testing.T) {
	base := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l := NewChatLog(fixedClock(base))

	if err := l.AppendQuestion("What is a goroutine?"); err != nil {
		t.Fatalf("append question: %v", err)
	}
	if err := l.AppendAnswer("a lightweight thread managed by the runtime", 80, RemarkStrong); err != nil {
		t.Fatalf("append answer: %v", err)
	}

	entries := l.Entries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	q, ok := entries[0].(QuestionEntry)
	if !ok || q.QuestionText != "What is a goroutine?" {
		t.Errorf("entry 0 = %#v", entries[0])
	}
	a, ok := entries[1].(AnswerEntry)
	if !ok || a.Score != 80 || a.Remark != RemarkStrong {
		t.Errorf("entry 1 = %#v", entries[1])
	}
	if !a.At.After(q.At) {
		t.Errorf("answer timestamp %v not after question %v", a.At, q.At)
	}
}

func TestChatLog_RejectsOutOfOrder(t *testing.T) {
	l := NewChatLog(nil)

	if err := l.AppendAnswer("orphan", 0, RemarkPoor); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for leading answer, got %v", err)
	}
	if err := l.AppendQuestion("q1"); err != nil {
		t.Fatalf("append question: %v", err)
	}
	if err := l.AppendQuestion("q2"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for double question, got %v", err)
	}
	if l.Len() != 1 {
		t.Errorf("rejected appends changed the log: len=%d", l.Len())
	}
}

func TestChatLog_EntriesIsCopy(t *testing.T) {
	l := NewChatLog(nil)
	_ = l.AppendQuestion("q1")
	snap := l.Entries()
	snap[0] = AnswerEntry{AnswerText: "tampered"}

	if _, ok := l.Entries()[0].(QuestionEntry); !ok {
		t.Fatal("mutating a snapshot changed the log")
	}
}

func TestAnswers(t *testing.T) {
	entries := []ChatEntry{
		QuestionEntry{QuestionText: "q1"},
		AnswerEntry{AnswerText: "a1", Score: 10},
		QuestionEntry{QuestionText: "q2"},
		AnswerEntry{AnswerText: "a2", Score: 20},
	}
	got := Answers(entries)
	if len(got) != 2 || got[0].Score != 10 || got[1].Score != 20 {
		t.Errorf("unexpected answers: %+v", got)
	}
}
