package coach

import (
	"fmt"
	"strings"

	"github.com/abhisek/rehearse/internal/interview"
)

const systemPrompt = `You are an expert interview coach reviewing a practice interview.

Rules:
- You receive each question, the candidate's transcribed answer and its rubric score (0-100).
- Transcripts come from speech recognition and may contain recognition errors. Judge the content, not the spelling.
- Be specific: refer to the questions the candidate answered.
- Do not restate the scores or invent new ones.
- Use plain text. No markdown.`

func buildUserMessage(rep *interview.PerformanceReport, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Role: %s\n", rep.Role)
	if rep.Difficulty != "" {
		fmt.Fprintf(&b, "Difficulty: %s\n", rep.Difficulty)
	}
	fmt.Fprintf(&b, "Average score: %d (%s)\n", rep.AverageScore, rep.Tier)

	for i, ex := range rep.Exchanges() {
		fmt.Fprintf(&b, "\nQ%d: %s\n", i+1, ex.Question.QuestionText)
		fmt.Fprintf(&b, "Answer: %s\n", clip(ex.Answer.AnswerText, cfg.MaxAnswerChars))
		fmt.Fprintf(&b, "Score: %d (%s)\n", ex.Answer.Score, ex.Answer.Remark)
	}
	return b.String()
}

func clip(s string, max int) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(no answer)"
	}
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
