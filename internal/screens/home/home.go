package home

import (
	"strings"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rehearse/internal/router"
	"github.com/abhisek/rehearse/internal/screen"
	"github.com/abhisek/rehearse/internal/screens/bookmarks"
	"github.com/abhisek/rehearse/internal/screens/setup"
	"github.com/abhisek/rehearse/internal/ui/components"
	"github.com/abhisek/rehearse/internal/ui/layout"
	"github.com/abhisek/rehearse/internal/ui/theme"
)

const banner = `╦═╗╔═╗╦ ╦╔═╗╔═╗╦═╗╔═╗╔═╗
╠╦╝║╣ ╠═╣║╣ ╠═╣╠╦╝╚═╗║╣
╩╚═╚═╝╩ ╩╚═╝╩ ╩╩╚═╚═╝╚═╝`

// HomeScreen is the main menu.
type HomeScreen struct {
	deps *screen.Deps
	menu components.Menu
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen.
func New(deps *screen.Deps) *HomeScreen {
	items := []components.MenuItem{
		{Label: "Start interview", Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: setup.New(deps)} }
		}},
		{Label: "Bookmarks", Disabled: deps.Bookmarks == nil, Action: func() tea.Cmd {
			return func() tea.Msg { return router.PushScreenMsg{Screen: bookmarks.New(deps)} }
		}},
		{Label: "Quit", Action: func() tea.Cmd { return tea.Quit }},
	}
	return &HomeScreen{deps: deps, menu: components.NewMenu(items)}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Title() string {
	return "Home"
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var b strings.Builder
	if !layout.IsCompactHeight(height) {
		b.WriteString("\n")
		b.WriteString(layout.Centered(theme.Title.Render(banner), width))
		b.WriteString("\n")
	}
	b.WriteString(layout.Centered(theme.Subtitle.Render("Practice interviews, answer out loud, get scored."), width))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered(h.menu.View(), width))
	b.WriteString("\n")

	var info []string
	if h.deps.SourceLabel != "" {
		info = append(info, "Questions: "+h.deps.SourceLabel)
	}
	if h.deps.CaptureLabel != "" {
		info = append(info, "Answers: "+h.deps.CaptureLabel)
	}
	for _, line := range info {
		b.WriteString(layout.Centered(theme.Hint.Render(line), width))
		b.WriteString("\n")
	}
	return b.String()
}
