package interview

import (
	"fmt"
	"strings"
	"sync"
)

// Difficulty is the requested level of a question set.
type Difficulty string

const (
	Beginner     Difficulty = "beginner"
	Intermediate Difficulty = "intermediate"
	Advanced     Difficulty = "advanced"
)

// AllDifficulties lists difficulties from easiest to hardest.
var AllDifficulties = []Difficulty{Beginner, Intermediate, Advanced}

// ParseDifficulty accepts any casing and the "DifficultyLevel.x" form some
// providers echo back.
func ParseDifficulty(s string) (Difficulty, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	v = strings.TrimPrefix(v, "difficultylevel.")
	switch Difficulty(v) {
	case Beginner, Intermediate, Advanced:
		return Difficulty(v), nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

func (d Difficulty) String() string { return string(d) }

// Label returns the display form, e.g. "Intermediate".
func (d Difficulty) Label() string {
	if d == "" {
		return ""
	}
	return strings.ToUpper(string(d[:1])) + string(d[1:])
}

// Question is a single practice question with its scoring rubric.
type Question struct {
	Text           string
	Topic          string
	Difficulty     Difficulty
	ExpectedPoints []string
	FollowUps      []string

	mu       sync.Mutex
	aiAnswer string
	answered bool
}

// NewQuestion builds a question. Slices are copied.
func NewQuestion(text, topic string, d Difficulty, points, followUps []string) *Question {
	return &Question{
		Text:           text,
		Topic:          topic,
		Difficulty:     d,
		ExpectedPoints: append([]string(nil), points...),
		FollowUps:      append([]string(nil), followUps...),
	}
}

// AIAnswer returns the reference answer, if one has been set.
func (q *Question) AIAnswer() (string, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.aiAnswer, q.answered
}

// setAIAnswer stores the reference answer once. Later calls are ignored
// and return false.
func (q *Question) setAIAnswer(a string) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.answered {
		return false
	}
	q.aiAnswer = a
	q.answered = true
	return true
}

// SeedAIAnswer attaches a reference answer known ahead of time, such as one
// shipped in a question bank. It follows the same set-once rule.
func (q *Question) SeedAIAnswer(a string) bool {
	if strings.TrimSpace(a) == "" {
		return false
	}
	return q.setAIAnswer(a)
}

// QuestionSet is an ordered batch of questions for one role.
type QuestionSet struct {
	Role      string
	Questions []*Question
	Tips      []string
}

// Texts returns the question texts in order.
func (s *QuestionSet) Texts() []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s.Questions))
	for i, q := range s.Questions {
		out[i] = q.Text
	}
	return out
}
