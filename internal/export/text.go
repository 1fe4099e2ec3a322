// Package export renders finished interview reports as printable plain
// text.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/abhisek/rehearse/internal/coach"
	"github.com/abhisek/rehearse/internal/interview"
)

const rule = "--------------------------------------------------------------"

// Text renders rep, and the coach review when present, as plain text.
func Text(rep *interview.PerformanceReport, review *coach.Review) string {
	if rep == nil {
		return ""
	}
	var b strings.Builder

	b.WriteString("INTERVIEW PERFORMANCE REPORT\n")
	b.WriteString(rule + "\n")
	field(&b, "Role", rep.Role)
	field(&b, "Difficulty", rep.Difficulty.Label())
	field(&b, "Session", rep.SessionID)
	if !rep.GeneratedAt.IsZero() {
		field(&b, "Date", rep.GeneratedAt.Local().Format("2006-01-02 15:04"))
	}
	field(&b, "Answered", fmt.Sprintf("%d", rep.TotalAnswered))
	field(&b, "Average", fmt.Sprintf("%d%% (%s)", rep.AverageScore, rep.Tier))
	b.WriteString("\n")

	exchanges := rep.Exchanges()
	var strong, weak []string
	for _, ex := range exchanges {
		line := fmt.Sprintf("%s (%d%%)", ex.Question.QuestionText, ex.Answer.Score)
		if ex.Answer.Score >= interview.StrengthThreshold {
			strong = append(strong, line)
		}
		if ex.Answer.Score < interview.WeakThreshold {
			weak = append(weak, line)
		}
	}
	section(&b, "STRENGTHS", strong, "No answers scored 70% or more.")
	section(&b, "AREAS TO IMPROVE", weak, "No answers scored below 50%.")

	b.WriteString("TRANSCRIPT\n")
	b.WriteString(rule + "\n")
	for i, ex := range exchanges {
		fmt.Fprintf(&b, "Q%d. %s\n", i+1, ex.Question.QuestionText)
		answer := strings.TrimSpace(ex.Answer.AnswerText)
		if answer == "" {
			answer = "(no answer)"
		}
		fmt.Fprintf(&b, "    Answer: %s\n", answer)
		fmt.Fprintf(&b, "    Score:  %d%% %s  %s\n\n",
			ex.Answer.Score, stars(interview.StarsFor(ex.Answer.Score)), ex.Answer.Remark)
	}

	if review != nil {
		b.WriteString("COACH REVIEW\n")
		b.WriteString(rule + "\n")
		if review.OverallFeedback != "" {
			b.WriteString(review.OverallFeedback + "\n\n")
		}
		section(&b, "What went well", review.Strengths, "")
		section(&b, "What to work on", review.Improvements, "")
	}

	return strings.TrimRight(b.String(), "\n") + "\n"
}

// FileName returns the default export file name for rep.
func FileName(rep *interview.PerformanceReport) string {
	id := rep.SessionID
	if len(id) > 8 {
		id = id[:8]
	}
	if id == "" {
		id = "session"
	}
	return "rehearse-report-" + id + ".txt"
}

// WriteFile writes the text report into dir and returns the file path.
func WriteFile(dir string, rep *interview.PerformanceReport, review *coach.Review) (string, error) {
	if rep == nil {
		return "", fmt.Errorf("export report: nil report")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}
	path := filepath.Join(dir, FileName(rep))
	if err := os.WriteFile(path, []byte(Text(rep, review)), 0o644); err != nil {
		return "", fmt.Errorf("export report: %w", err)
	}
	return path, nil
}

func field(b *strings.Builder, name, value string) {
	fmt.Fprintf(b, "%-11s %s\n", name+":", value)
}

func section(b *strings.Builder, title string, items []string, empty string) {
	if len(items) == 0 && empty == "" {
		return
	}
	b.WriteString(title + "\n")
	if len(items) == 0 {
		b.WriteString("  " + empty + "\n")
	}
	for _, it := range items {
		b.WriteString("  - " + it + "\n")
	}
	b.WriteString("\n")
}

func stars(n int) string {
	return strings.Repeat("*", n) + strings.Repeat(".", 5-n)
}
