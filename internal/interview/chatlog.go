package interview

import (
	"fmt"
	"sync"
	"time"
)

// EntryKind discriminates chat log entries.
type EntryKind string

const (
	KindQuestion EntryKind = "question"
	KindAnswer   EntryKind = "answer"
)

// ChatEntry is one line of the interview transcript log. The set of
// implementations is closed: QuestionEntry and AnswerEntry.
type ChatEntry interface {
	Kind() EntryKind
	Time() time.Time
	chatEntry()
}

// QuestionEntry records a question that was answered.
type QuestionEntry struct {
	QuestionText string
	At           time.Time
}

func (QuestionEntry) Kind() EntryKind   { return KindQuestion }
func (e QuestionEntry) Time() time.Time { return e.At }
func (QuestionEntry) chatEntry()        {}

// AnswerEntry records the answer given to the preceding question.
type AnswerEntry struct {
	AnswerText string
	Score      int
	Remark     Remark
	At         time.Time
}

func (AnswerEntry) Kind() EntryKind   { return KindAnswer }
func (e AnswerEntry) Time() time.Time { return e.At }
func (AnswerEntry) chatEntry()        {}

// ChatLog is the append-only record of a session. Question and answer
// entries strictly alternate, starting with a question.
type ChatLog struct {
	mu      sync.RWMutex
	now     func() time.Time
	entries []ChatEntry
}

// NewChatLog returns an empty log stamped with the given clock. A nil clock
// uses time.Now.
func NewChatLog(now func() time.Time) *ChatLog {
	if now == nil {
		now = time.Now
	}
	return &ChatLog{now: now}
}

// AppendQuestion records a question. It fails if the previous question has
// not been answered yet.
func (l *ChatLog) AppendQuestion(text string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.awaitingAnswer() {
		return fmt.Errorf("append question: previous question has no answer: %w", ErrInvalidTransition)
	}
	l.entries = append(l.entries, QuestionEntry{QuestionText: text, At: l.now()})
	return nil
}

// AppendAnswer records the answer to the pending question.
func (l *ChatLog) AppendAnswer(text string, score int, remark Remark) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if !l.awaitingAnswer() {
		return fmt.Errorf("append answer: no pending question: %w", ErrInvalidTransition)
	}
	l.entries = append(l.entries, AnswerEntry{AnswerText: text, Score: score, Remark: remark, At: l.now()})
	return nil
}

func (l *ChatLog) awaitingAnswer() bool {
	return len(l.entries) > 0 && l.entries[len(l.entries)-1].Kind() == KindQuestion
}

// Entries returns a copy of the log in order.
func (l *ChatLog) Entries() []ChatEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]ChatEntry(nil), l.entries...)
}

// Len returns the number of entries.
func (l *ChatLog) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// AnswerCount returns the number of answer entries.
func (l *ChatLog) AnswerCount() int {
	return len(Answers(l.Entries()))
}

// Answers filters the answer entries out of a log snapshot.
func Answers(entries []ChatEntry) []AnswerEntry {
	var out []AnswerEntry
	for _, e := range entries {
		switch v := e.(type) {
		case AnswerEntry:
			out = append(out, v)
		case QuestionEntry:
		}
	}
	return out
}
