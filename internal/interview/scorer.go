package interview

import (
	"math"
	"strings"
	"unicode/utf8"
)

// Remark is the qualitative label attached to a score.
type Remark string

const (
	RemarkTooShort    Remark = "too short"
	RemarkOutstanding Remark = "outstanding"
	RemarkStrong      Remark = "strong explanation"
	RemarkDecent      Remark = "decent, can improve"
	RemarkWeak        Remark = "weak, add more detail"
	RemarkPoor        Remark = "poor, missing key points"
)

// Scoring constants.
const (
	MinAnswerWords   = 6
	PointMatchRatio  = 0.60
	VerbosePenalty   = 10
	verboseThreshold = 30
	verboseLength    = 50
)

// Score is the outcome of scoring one answer.
type Score struct {
	Percent int
	Stars   int
	Remark  Remark
}

// ScoreAnswer scores a transcript against the expected answer points.
//
// A transcript under MinAnswerWords words scores zero regardless of the
// rubric. An empty rubric yields a zero score and ErrEmptyRubric. A point
// counts as covered when at least 60% of its words appear as substrings of
// the lowercased transcript.
func ScoreAnswer(transcript string, expectedPoints []string) (Score, error) {
	spoken := strings.ToLower(strings.TrimSpace(transcript))
	if len(strings.Fields(spoken)) < MinAnswerWords {
		return Score{Percent: 0, Stars: 0, Remark: RemarkTooShort}, nil
	}
	if len(expectedPoints) == 0 {
		return Score{Percent: 0, Stars: 0, Remark: RemarkPoor}, ErrEmptyRubric
	}

	matched := 0
	for _, p := range expectedPoints {
		if pointCovered(spoken, p) {
			matched++
		}
	}

	percent := int(math.Round(100 * float64(matched) / float64(len(expectedPoints))))
	if percent < verboseThreshold && utf8.RuneCountInString(spoken) > verboseLength {
		percent -= VerbosePenalty
	}
	percent = clampPercent(percent)

	return Score{Percent: percent, Stars: StarsFor(percent), Remark: RemarkFor(percent)}, nil
}

func pointCovered(spoken, point string) bool {
	words := strings.Fields(strings.ToLower(point))
	if len(words) == 0 {
		return false
	}
	hits := 0
	for _, w := range words {
		if strings.Contains(spoken, w) {
			hits++
		}
	}
	return float64(hits)/float64(len(words)) >= PointMatchRatio
}

// StarsFor maps a percentage onto 0..5 stars, rounding up.
func StarsFor(percent int) int {
	percent = clampPercent(percent)
	return (percent + 19) / 20
}

// RemarkFor returns the remark band for a percentage.
func RemarkFor(percent int) Remark {
	switch {
	case percent >= 85:
		return RemarkOutstanding
	case percent >= 70:
		return RemarkStrong
	case percent >= 50:
		return RemarkDecent
	case percent >= 30:
		return RemarkWeak
	default:
		return RemarkPoor
	}
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
