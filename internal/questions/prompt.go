package questions

import (
	"fmt"
	"strings"

	"github.com/abhisek/rehearse/internal/interview"
)

const systemPrompt = `You are an experienced technical interviewer preparing a candidate for a job interview.

Rules:
- Generate exactly the requested number of questions for the given role and difficulty.
- Each question must be self-contained and answerable out loud in one to three minutes.
- Give every question a short topic label.
- expected_answer_points are the key ideas a strong answer mentions. Keep each point to a few plain words (for example "goroutines are lightweight") so they can be matched against a spoken transcript.
- follow_ups are optional deeper questions an interviewer might ask next.
- preparation_tips are short, practical tips for this role.
- Use plain text. No markdown.
- Do not repeat any question from the "already asked" list.`

const answerSystemPrompt = `You are a strong candidate answering an interview question out loud.
Answer in plain spoken English, 80 to 200 words, covering the key points naturally. No markdown, no lists.`

// buildUserMessage constructs the user message for a question set request.
func buildUserMessage(req interview.SetRequest, cfg Config) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Role: %s\n", req.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", req.Difficulty)
	fmt.Fprintf(&b, "Number of questions: %d\n", req.Count)

	if jd := strings.TrimSpace(req.JobDescription); jd != "" {
		b.WriteString("\nJob description:\n")
		b.WriteString(truncate(jd, cfg.MaxJobDescription))
		b.WriteString("\n")
	}

	b.WriteString("\nAlready asked in this session:\n")
	b.WriteString(buildExclude(req.Exclude, cfg.MaxExclude))

	return b.String()
}

// buildAnswerMessage constructs the user message for a reference answer.
func buildAnswerMessage(q *interview.Question) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", q.Topic)
	fmt.Fprintf(&b, "Difficulty: %s\n", q.Difficulty)
	fmt.Fprintf(&b, "Question: %s\n", q.Text)
	if len(q.ExpectedPoints) > 0 {
		fmt.Fprintf(&b, "Key points to cover: %s\n", strings.Join(q.ExpectedPoints, "; "))
	}
	return b.String()
}

// buildExclude formats already-held questions for the prompt, keeping the
// most recent max. Returns "None" when there are none.
func buildExclude(texts []string, max int) string {
	if len(texts) == 0 {
		return "None"
	}
	if max > 0 && len(texts) > max {
		texts = texts[len(texts)-max:]
	}

	var b strings.Builder
	for i, q := range texts {
		fmt.Fprintf(&b, "%d. %s\n", i+1, q)
	}
	return strings.TrimRight(b.String(), "\n")
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
