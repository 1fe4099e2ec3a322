package report

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/rehearse/internal/coach"
	"github.com/abhisek/rehearse/internal/export"
	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/router"
	"github.com/abhisek/rehearse/internal/screen"
	"github.com/abhisek/rehearse/internal/store"
	"github.com/abhisek/rehearse/internal/ui/components"
	"github.com/abhisek/rehearse/internal/ui/layout"
	"github.com/abhisek/rehearse/internal/ui/theme"
)

type bookmarkSavedMsg struct {
	Bookmark *store.Bookmark
	Err      error
}

type reviewMsg struct {
	Review *coach.Review
	Err    error
}

// ReportScreen shows a finished interview's performance report.
type ReportScreen struct {
	deps     *screen.Deps
	report   *interview.PerformanceReport
	bookmark *store.Bookmark
	review   *coach.Review

	vp      viewport.Model
	busy    string
	notice  string
	errMsg  string
	saved   bool
	archive bool
}

var _ screen.Screen = (*ReportScreen)(nil)
var _ screen.KeyHintProvider = (*ReportScreen)(nil)
var _ screen.StatusProvider = (*ReportScreen)(nil)

// New creates a report screen for a just-finished interview.
func New(deps *screen.Deps, rep *interview.PerformanceReport) *ReportScreen {
	return &ReportScreen{
		deps:   deps,
		report: rep,
		vp:     viewport.New(),
	}
}

// NewFromBookmark shows a saved report. The session is left alone.
func NewFromBookmark(deps *screen.Deps, b *store.Bookmark) *ReportScreen {
	s := New(deps, b.Report)
	s.bookmark = b
	s.saved = true
	s.archive = true
	return s
}

func (s *ReportScreen) Init() tea.Cmd { return nil }

func (s *ReportScreen) Title() string {
	if s.archive {
		return "Saved Report"
	}
	return "Interview Report"
}

func (s *ReportScreen) Status() string {
	return fmt.Sprintf("%d%% %s", s.report.AverageScore, s.report.Tier)
}

func (s *ReportScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{{Key: "↑↓", Description: "Scroll"}}
	if !s.saved && s.deps.Bookmarks != nil {
		hints = append(hints, layout.KeyHint{Key: "B", Description: "Bookmark"})
	}
	if s.deps.Coach != nil && s.review == nil {
		hints = append(hints, layout.KeyHint{Key: "C", Description: "Coach review"})
	}
	hints = append(hints, layout.KeyHint{Key: "X", Description: "Export"})
	if s.archive {
		return append(hints, layout.KeyHint{Key: "Esc", Description: "Back"})
	}
	return append(hints, layout.KeyHint{Key: "Enter", Description: "Home"})
}

func (s *ReportScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case bookmarkSavedMsg:
		s.busy = ""
		if msg.Err != nil {
			if errors.Is(msg.Err, store.ErrAlreadyBookmarked) {
				s.saved = true
				s.notice = "This interview is already bookmarked."
				return s, nil
			}
			s.errMsg = "Bookmark failed: " + msg.Err.Error()
			return s, nil
		}
		s.bookmark = msg.Bookmark
		s.saved = true
		s.notice = "Bookmarked."
		return s, nil

	case reviewMsg:
		s.busy = ""
		if msg.Err != nil {
			s.errMsg = "Coach review failed: " + msg.Err.Error()
			return s, nil
		}
		s.review = msg.Review
		return s, nil

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *ReportScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	if s.busy != "" {
		return s, nil
	}
	switch msg.String() {
	case "b":
		if s.saved || s.deps.Bookmarks == nil {
			return s, nil
		}
		s.busy = "Saving bookmark"
		return s, s.saveBookmark()
	case "c":
		if s.deps.Coach == nil || s.review != nil {
			return s, nil
		}
		s.busy = "Asking the coach"
		return s, s.fetchReview()
	case "x":
		path, err := export.WriteFile(s.deps.ExportDir, s.report, s.review)
		if err != nil {
			s.errMsg = err.Error()
			return s, nil
		}
		s.notice = "Saved " + path
		return s, nil
	case "enter", "n":
		if s.archive {
			return s, nil
		}
		s.deps.Session.Reset()
		return s, func() tea.Msg { return router.PopScreenMsg{} }
	}

	var cmd tea.Cmd
	s.vp, cmd = s.vp.Update(msg)
	return s, cmd
}

func (s *ReportScreen) saveBookmark() tea.Cmd {
	repo, rep := s.deps.Bookmarks, s.report
	return func() tea.Msg {
		b, err := repo.Save(context.Background(), rep, "")
		return bookmarkSavedMsg{Bookmark: b, Err: err}
	}
}

func (s *ReportScreen) fetchReview() tea.Cmd {
	svc, rep := s.deps.Coach, s.report
	return func() tea.Msg {
		r, err := svc.Review(context.Background(), rep)
		return reviewMsg{Review: r, Err: err}
	}
}

func (s *ReportScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	status := s.renderStatusLine(cw)

	s.vp.SetWidth(width)
	s.vp.SetHeight(max(height-lipgloss.Height(status)-1, 1))
	s.vp.SetContent(layout.Centered(s.renderBody(cw), width))

	return s.vp.View() + "\n" + layout.Centered(status, width)
}

func (s *ReportScreen) renderBody(cw int) string {
	rep := s.report
	inner := cw - 6
	var parts []string

	var sum strings.Builder
	sum.WriteString(theme.Title.Render(strings.ToUpper(string(rep.Tier))))
	sum.WriteString("\n")
	fmt.Fprintf(&sum, "%s  ·  %s  ·  %d answered\n", rep.Role, rep.Difficulty.Label(), rep.TotalAnswered)
	sum.WriteString(components.NewProgressBar("Average", float64(rep.AverageScore)/100, true, inner).View())
	if s.bookmark != nil && s.bookmark.Note != "" {
		sum.WriteString("\n" + theme.Hint.Render(s.bookmark.Note))
	}
	parts = append(parts, components.Card("", sum.String(), cw, true))

	var strong, weak []string
	for _, ex := range rep.Exchanges() {
		line := fmt.Sprintf("%s (%d%%)", ex.Question.QuestionText, ex.Answer.Score)
		if ex.Answer.Score >= interview.StrengthThreshold {
			strong = append(strong, line)
		}
		if ex.Answer.Score < interview.WeakThreshold {
			weak = append(weak, line)
		}
	}
	parts = append(parts,
		components.Card("Strengths", theme.Body.Width(inner).Render(components.Bullets(strong, "No answers scored 70% or more yet.")), cw, false),
		components.Card("Areas to improve", theme.Body.Width(inner).Render(components.Bullets(weak, "No answers scored below 50%.")), cw, false),
	)

	if s.review != nil {
		var rb strings.Builder
		if s.review.OverallFeedback != "" {
			rb.WriteString(s.review.OverallFeedback + "\n\n")
		}
		rb.WriteString(theme.Label.Render("What went well") + "\n")
		rb.WriteString(components.Bullets(s.review.Strengths, "-") + "\n\n")
		rb.WriteString(theme.Label.Render("What to work on") + "\n")
		rb.WriteString(components.Bullets(s.review.Improvements, "-"))
		parts = append(parts, components.Card("Coach review", theme.Body.Width(inner).Render(rb.String()), cw, false))
	}

	var tb strings.Builder
	for i, ex := range rep.Exchanges() {
		if i > 0 {
			tb.WriteString("\n\n")
		}
		tb.WriteString(theme.Body.Bold(true).Width(inner).Render(fmt.Sprintf("Q%d. %s", i+1, ex.Question.QuestionText)))
		tb.WriteString("\n")
		answer := strings.TrimSpace(ex.Answer.AnswerText)
		if answer == "" {
			answer = "(no answer)"
		}
		tb.WriteString(theme.Hint.Width(inner).Render(answer))
		tb.WriteString("\n")
		tb.WriteString(fmt.Sprintf("%d%%  %s  %s", ex.Answer.Score, components.Stars(interview.StarsFor(ex.Answer.Score)), ex.Answer.Remark))
	}
	parts = append(parts, components.Card("Transcript", tb.String(), cw, false))

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (s *ReportScreen) renderStatusLine(cw int) string {
	switch {
	case s.busy != "":
		return theme.Subtitle.Render(s.busy + "...")
	case s.errMsg != "":
		return theme.ErrorText.Width(cw).Render(s.errMsg)
	case s.notice != "":
		return lipgloss.NewStyle().Foreground(theme.Success).Render(s.notice)
	}
	return ""
}
