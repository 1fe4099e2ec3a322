package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/ui/components"
	"github.com/abhisek/rehearse/internal/ui/layout"
	"github.com/abhisek/rehearse/internal/ui/theme"
)

func (s *PracticeScreen) View(width, height int) string {
	if s.loading {
		return s.renderLoading(width)
	}
	if s.confirmQuit {
		return renderQuitConfirm(width)
	}
	if len(s.questions) == 0 {
		return s.renderLoadError(width)
	}
	return s.renderQuestion(width, height)
}

func (s *PracticeScreen) renderLoading(width int) string {
	msg := fmt.Sprintf("%s Preparing %s questions for %s...", s.spin.View(), strings.ToLower(s.difficulty.Label()), s.role)
	return "\n\n" + layout.Centered(theme.Subtitle.Render(msg), width)
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Title.Render("Leave this interview?"), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Subtitle.Render("Scored answers will be discarded. End the interview with E to keep a report."), width))
	return b.String()
}

func (s *PracticeScreen) renderLoadError(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.ErrorText.Render("Could not load questions"), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Body.Width(layout.TextWidth(width)).Render(s.errMsg), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(theme.Hint.Render("Press R to retry or Esc to go back."), width))
	return b.String()
}

func (s *PracticeScreen) renderQuestion(width, height int) string {
	q := s.current()
	cw := components.ContentWidth(width)
	inner := cw - 6

	var parts []string

	progress := components.NewProgressBar(
		fmt.Sprintf("Question %d of %d", s.selected+1, len(s.questions)),
		float64(s.selected+1)/float64(len(s.questions)), false, cw,
	)
	parts = append(parts, progress.View())

	var qb strings.Builder
	qb.WriteString(theme.Body.Bold(true).Width(inner).Render(q.Text))
	meta := fmt.Sprintf("%s · %s", q.Topic, q.Difficulty.Label())
	qb.WriteString("\n" + theme.Hint.Render(meta))
	if len(q.FollowUps) > 0 && !layout.IsCompactHeight(height) {
		qb.WriteString("\n\n" + theme.Label.Render("Possible follow-ups"))
		for _, f := range q.FollowUps {
			qb.WriteString("\n" + theme.Hint.Width(inner).Render("• "+f))
		}
	}
	parts = append(parts, components.Card("", qb.String(), cw, !s.recording()))

	parts = append(parts, s.renderAnswer(q, cw, inner))

	if s.showRef[q] {
		if ref, ok := q.AIAnswer(); ok {
			parts = append(parts, components.Card("Reference answer", theme.Body.Width(inner).Render(ref), cw, false))
		}
	}

	if tips := s.deps.Session.Tips(); len(tips) > 0 && !layout.IsCompactHeight(height) && s.attempts[q].Question == nil {
		parts = append(parts, components.Card("Preparation tips", theme.Hint.Width(inner).Render(components.Bullets(firstN(tips, 3), "")), cw, false))
	}

	parts = append(parts, s.renderStatusLine(cw))

	return layout.Centered(lipgloss.JoinVertical(lipgloss.Left, parts...), width)
}

func (s *PracticeScreen) renderAnswer(q *interview.Question, cw, inner int) string {
	if s.recording() {
		badge := theme.RecordingBadge.Render("● REC")
		if s.deps.Typed != nil {
			s.answer.SetWidth(inner)
			return components.Card("", badge+"\n"+s.answer.View(), cw, true)
		}
		live := s.live
		if strings.TrimSpace(live) == "" {
			live = theme.Hint.Render("Listening...")
		}
		return components.Card("", badge+"\n"+theme.Body.Width(inner).Render(live), cw, true)
	}

	a, ok := s.attempts[q]
	if !ok {
		return components.Card("", theme.Hint.Render("Press Enter to answer this question."), cw, false)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s  %s\n",
		scoreStyle(a.Score.Percent).Render(fmt.Sprintf("%d%%", a.Score.Percent)),
		components.Stars(a.Score.Stars),
		theme.Body.Render(string(a.Score.Remark)),
	)
	transcript := strings.TrimSpace(a.Transcript)
	if transcript == "" {
		transcript = "(nothing captured)"
	}
	b.WriteString(theme.Hint.Width(inner).Render(transcript))
	return components.Card("Your answer", b.String(), cw, false)
}

func (s *PracticeScreen) renderStatusLine(cw int) string {
	switch {
	case s.busy != "":
		return theme.Subtitle.Render(s.spin.View() + " " + s.busy + "...")
	case s.errMsg != "":
		return theme.ErrorText.Width(cw).Render(s.errMsg)
	case s.speaking:
		return theme.Hint.Render("Reading the question aloud...")
	case s.notice != "":
		return lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice)
	}
	return ""
}

func scoreStyle(percent int) lipgloss.Style {
	st := lipgloss.NewStyle().Bold(true)
	switch {
	case percent >= interview.StrengthThreshold:
		return st.Foreground(theme.Success)
	case percent >= interview.WeakThreshold:
		return st.Foreground(theme.Warning)
	default:
		return st.Foreground(theme.Error)
	}
}

func firstN(items []string, n int) []string {
	if len(items) > n {
		return items[:n]
	}
	return items
}
