package interview

import (
	"fmt"
	"math"
	"time"
)

// Tier is the overall performance band of a finished session.
type Tier string

const (
	TierExcellent        Tier = "excellent"
	TierVeryGood         Tier = "very good"
	TierGood             Tier = "good"
	TierFair             Tier = "fair"
	TierNeedsImprovement Tier = "needs improvement"
)

// Thresholds shared by the strengths and weak-area filters.
const (
	StrengthThreshold = 70
	WeakThreshold     = 50
)

// PerformanceReport summarizes a finished session.
type PerformanceReport struct {
	SessionID     string
	Role          string
	Difficulty    Difficulty
	TotalAnswered int
	AverageScore  int
	Tier          Tier
	Strengths     []AnswerEntry
	WeakAreas     []AnswerEntry
	ChatLog       []ChatEntry
	GeneratedAt   time.Time
}

// Aggregate computes the report for a chat log. Only answer entries count.
// A log without answers is rejected.
func Aggregate(entries []ChatEntry) (*PerformanceReport, error) {
	answers := Answers(entries)
	if len(answers) == 0 {
		return nil, fmt.Errorf("aggregate: no answers recorded: %w", ErrInvalidTransition)
	}

	sum := 0
	rep := &PerformanceReport{
		TotalAnswered: len(answers),
		ChatLog:       append([]ChatEntry(nil), entries...),
	}
	for _, a := range answers {
		sum += a.Score
		if a.Score >= StrengthThreshold {
			rep.Strengths = append(rep.Strengths, a)
		}
		if a.Score < WeakThreshold {
			rep.WeakAreas = append(rep.WeakAreas, a)
		}
	}
	rep.AverageScore = int(math.Round(float64(sum) / float64(len(answers))))
	rep.Tier = TierFor(rep.AverageScore)
	return rep, nil
}

// TierFor returns the tier for an average score.
func TierFor(avg int) Tier {
	switch {
	case avg >= 85:
		return TierExcellent
	case avg >= 70:
		return TierVeryGood
	case avg >= 50:
		return TierGood
	case avg >= 30:
		return TierFair
	default:
		return TierNeedsImprovement
	}
}

// Exchange pairs an answer with the question it responds to.
type Exchange struct {
	Question QuestionEntry
	Answer   AnswerEntry
}

// Exchanges walks the embedded log and pairs each answer with the question
// entry before it.
func (r *PerformanceReport) Exchanges() []Exchange {
	var out []Exchange
	var pending *QuestionEntry
	for _, e := range r.ChatLog {
		switch v := e.(type) {
		case QuestionEntry:
			q := v
			pending = &q
		case AnswerEntry:
			if pending != nil {
				out = append(out, Exchange{Question: *pending, Answer: v})
				pending = nil
			}
		}
	}
	return out
}
