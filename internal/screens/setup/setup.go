package setup

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/router"
	"github.com/abhisek/rehearse/internal/screen"
	"github.com/abhisek/rehearse/internal/screens/practice"
	"github.com/abhisek/rehearse/internal/ui/components"
	"github.com/abhisek/rehearse/internal/ui/layout"
	"github.com/abhisek/rehearse/internal/ui/theme"
)

var difficulties = []interview.Difficulty{interview.Beginner, interview.Intermediate, interview.Advanced}

type field int

const (
	fieldRole field = iota
	fieldDifficulty
)

// SetupScreen picks the role and difficulty for a new interview.
type SetupScreen struct {
	deps       *screen.Deps
	role       components.TextInput
	difficulty int
	focus      field
	topic      int
	errMsg     string
}

var _ screen.Screen = (*SetupScreen)(nil)
var _ screen.KeyHintProvider = (*SetupScreen)(nil)

// New creates the setup screen prefilled from deps.
func New(deps *screen.Deps) *SetupScreen {
	role := components.NewTextInput("e.g. Backend Engineer", false, 80)
	role.SetValue(deps.Role)

	d := 1
	for i, v := range difficulties {
		if v == deps.Difficulty {
			d = i
		}
	}
	return &SetupScreen{deps: deps, role: role, difficulty: d, topic: -1}
}

func (s *SetupScreen) Init() tea.Cmd {
	return s.role.Init()
}

func (s *SetupScreen) Title() string {
	return "New Interview"
}

func (s *SetupScreen) KeyHints() []layout.KeyHint {
	hints := []layout.KeyHint{
		{Key: "↑↓", Description: "Field"},
		{Key: "←→", Description: "Difficulty"},
	}
	if len(s.deps.Topics) > 0 {
		hints = append(hints, layout.KeyHint{Key: "Tab", Description: "Bank topic"})
	}
	return append(hints,
		layout.KeyHint{Key: "Enter", Description: "Start"},
		layout.KeyHint{Key: "Esc", Description: "Back"},
	)
}

// Difficulty returns the selected difficulty.
func (s *SetupScreen) Difficulty() interview.Difficulty {
	return difficulties[s.difficulty]
}

// Role returns the trimmed role.
func (s *SetupScreen) Role() string {
	return strings.TrimSpace(s.role.Value())
}

func (s *SetupScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		var cmd tea.Cmd
		s.role, cmd = s.role.Update(msg)
		return s, cmd
	}

	switch kmsg.String() {
	case "enter":
		if s.Role() == "" {
			s.errMsg = "Enter a role or topic first."
			return s, nil
		}
		next := practice.New(s.deps, s.Role(), s.Difficulty())
		return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
	case "up", "down":
		if s.focus == fieldRole {
			s.focus = fieldDifficulty
			s.role.Blur()
			return s, nil
		}
		s.focus = fieldRole
		return s, s.role.Focus()
	case "tab":
		if n := len(s.deps.Topics); n > 0 {
			s.topic = (s.topic + 1) % n
			s.role.SetValue(s.deps.Topics[s.topic])
		}
		return s, nil
	}

	if s.focus == fieldDifficulty {
		switch kmsg.String() {
		case "left", "h":
			s.difficulty = (s.difficulty + len(difficulties) - 1) % len(difficulties)
		case "right", "l":
			s.difficulty = (s.difficulty + 1) % len(difficulties)
		}
		return s, nil
	}

	s.errMsg = ""
	var cmd tea.Cmd
	s.role, cmd = s.role.Update(msg)
	return s, cmd
}

func (s *SetupScreen) View(width, height int) string {
	cw := components.ContentWidth(width)
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(layout.Centered(theme.Title.Render("Set up your interview"), width))
	b.WriteString("\n\n")

	b.WriteString(layout.Centered(components.Card("Role or topic", s.role.View(), cw, s.focus == fieldRole), width))
	b.WriteString("\n")

	var opts []string
	for i, d := range difficulties {
		label := " " + d.Label() + " "
		if i == s.difficulty {
			opts = append(opts, theme.Selected.Reverse(true).Render(label))
			continue
		}
		opts = append(opts, theme.Unselected.Render(label))
	}
	b.WriteString(layout.Centered(components.Card("Difficulty", strings.Join(opts, "  "), cw, s.focus == fieldDifficulty), width))
	b.WriteString("\n")

	if jd := s.deps.JobDescription; jd != "" {
		b.WriteString(layout.Centered(theme.Hint.Render("A job description is loaded and will guide the questions."), width))
		b.WriteString("\n")
	}
	if s.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.ErrorText.Render(s.errMsg), width))
	}
	return b.String()
}
