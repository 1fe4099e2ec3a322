package interview

import (
	"errors"
	"strings"
	"testing"
)

func TestScoreAnswer_AllPointsCovered(t *testing.T) {
	points := []string{"uses dependency injection", "writes unit tests"}
	transcript := "I use dependency injection everywhere and I also write comprehensive unit tests daily"

	got, err := ScoreAnswer(transcript, points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := Score{Percent: 100, Stars: 5, Remark: RemarkOutstanding}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestScoreAnswer_TooShort(t *testing.T) {
	for _, tr := range []string{"", "   ", "maybe", "one two three four five"} {
		got, err := ScoreAnswer(tr, []string{"maybe"})
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", tr, err)
		}
		if got != (Score{Percent: 0, Stars: 0, Remark: RemarkTooShort}) {
			t.Errorf("%q: got %+v", tr, got)
		}
	}
}

func TestScoreAnswer_TooShortWinsOverEmptyRubric(t *testing.T) {
	got, err := ScoreAnswer("maybe", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Remark != RemarkTooShort {
		t.Errorf("remark = %q, want %q", got.Remark, RemarkTooShort)
	}
}

func TestScoreAnswer_EmptyRubric(t *testing.T) {
	got, err := ScoreAnswer("this answer is long enough to be scored", nil)
	if !errors.Is(err, ErrEmptyRubric) {
		t.Fatalf("expected ErrEmptyRubric, got %v", err)
	}
	if got != (Score{Percent: 0, Stars: 0, Remark: RemarkPoor}) {
		t.Errorf("got %+v", got)
	}
}

func TestScoreAnswer_PointThreshold(t *testing.T) {
	tests := []struct {
		name       string
		transcript string
		want       int
	}{
		{"three of five words", "we talk about alpha and beta and gamma today", 100},
		{"two of five words", "we talk about alpha and beta but nothing else", 0},
	}
	points := []string{"alpha beta gamma delta epsilon"}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ScoreAnswer(tt.transcript, points)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Percent != tt.want {
				t.Errorf("percent = %d, want %d", got.Percent, tt.want)
			}
		})
	}
}

func TestScoreAnswer_CaseInsensitive(t *testing.T) {
	got, err := ScoreAnswer("We rely on KUBERNETES for Container orchestration daily", []string{"Kubernetes container orchestration"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Percent != 100 {
		t.Errorf("percent = %d, want 100", got.Percent)
	}
}

func TestScoreAnswer_VerbosityPenalty(t *testing.T) {
	points := []string{"alpha beta", "gamma delta", "kappa lambda", "sigma omega"}

	short, err := ScoreAnswer("alpha beta one two three four", points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if short.Percent != 25 || short.Stars != 2 || short.Remark != RemarkPoor {
		t.Errorf("short answer: got %+v, want 25/2/poor", short)
	}

	long, err := ScoreAnswer("alpha beta and then a lot of unrelated rambling words here", points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if long.Percent != 15 || long.Stars != 1 {
		t.Errorf("long answer: got %+v, want 15/1", long)
	}
}

func TestScoreAnswer_PenaltyClampsAtZero(t *testing.T) {
	transcript := strings.Repeat("nothing relevant here at all ", 4)
	got, err := ScoreAnswer(transcript, []string{"distributed consensus"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Percent != 0 || got.Stars != 0 {
		t.Errorf("got %+v, want zero", got)
	}
}

func TestScoreAnswer_NoPenaltyAtThirtyPercent(t *testing.T) {
	points := make([]string, 10)
	for i := range points {
		points[i] = "unmatched" + strings.Repeat("x", i)
	}
	points[0], points[1], points[2] = "alpha", "beta", "gamma"
	got, err := ScoreAnswer("alpha beta gamma and a long tail of words that pushes past fifty characters", points)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Percent != 30 {
		t.Errorf("percent = %d, want 30", got.Percent)
	}
}

func TestScoreAnswer_MonotonicInMatchedPoints(t *testing.T) {
	rubric := []string{"ant", "bee", "cat", "dog", "eel", "fox", "gnu", "hen", "ibis", "jay"}

	tests := []struct {
		name   string
		points int
		filler int
		want   []int
	}{
		// At most 50 characters, so the penalty never applies.
		{"short", 7, 6, []int{0, 14, 29, 43, 57, 71, 86, 100}},
		// Past 50 characters: penalised below 30, unpenalised from 30 on.
		{"long", 10, 25, []int{0, 0, 10, 30, 40, 50, 60, 70, 80, 90, 100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			points := rubric[:tt.points]
			prev := -1
			for k := 0; k <= tt.points; k++ {
				words := append([]string{}, points[:k]...)
				for i := len(words); i < tt.filler; i++ {
					words = append(words, "um")
				}
				if tt.name == "long" {
					words = append(words, strings.Fields(strings.Repeat("um ", tt.filler))...)
				}
				transcript := strings.Join(words, " ")
				if long := len(transcript) > 50; long != (tt.name == "long") {
					t.Fatalf("k=%d: transcript length %d in wrong class", k, len(transcript))
				}

				got, err := ScoreAnswer(transcript, points)
				if err != nil {
					t.Fatalf("k=%d: unexpected error: %v", k, err)
				}
				if got.Percent < 0 || got.Percent > 100 {
					t.Fatalf("k=%d: percent %d out of range", k, got.Percent)
				}
				if got.Percent < prev {
					t.Errorf("k=%d: percent dropped from %d to %d", k, prev, got.Percent)
				}
				if got.Percent != tt.want[k] {
					t.Errorf("k=%d: percent = %d, want %d", k, got.Percent, tt.want[k])
				}
				prev = got.Percent
			}
		})
	}
}

func TestStarsFor(t *testing.T) {
	tests := map[int]int{0: 0, 1: 1, 20: 1, 21: 2, 41: 3, 60: 3, 80: 4, 99: 5, 100: 5, -5: 0, 130: 5}
	for p, want := range tests {
		if got := StarsFor(p); got != want {
			t.Errorf("StarsFor(%d) = %d, want %d", p, got, want)
		}
	}
}

func TestRemarkFor(t *testing.T) {
	tests := []struct {
		percent int
		want    Remark
	}{
		{100, RemarkOutstanding},
		{85, RemarkOutstanding},
		{84, RemarkStrong},
		{70, RemarkStrong},
		{69, RemarkDecent},
		{50, RemarkDecent},
		{49, RemarkWeak},
		{30, RemarkWeak},
		{29, RemarkPoor},
		{0, RemarkPoor},
	}
	for _, tt := range tests {
		if got := RemarkFor(tt.percent); got != tt.want {
			t.Errorf("RemarkFor(%d) = %q, want %q", tt.percent, got, tt.want)
		}
	}
}

func TestScoreAnswer_Deterministic(t *testing.T) {
	points := []string{"cache invalidation strategy", "time to live"}
	tr := "we pick a cache invalidation strategy based on time to live values"
	first, _ := ScoreAnswer(tr, points)
	for i := 0; i < 5; i++ {
		again, _ := ScoreAnswer(tr, points)
		if again != first {
			t.Fatalf("score changed between calls: %+v vs %+v", first, again)
		}
	}
}
