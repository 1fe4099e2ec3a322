package bookmarks

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/rehearse/internal/router"
	"github.com/abhisek/rehearse/internal/screen"
	"github.com/abhisek/rehearse/internal/screens/report"
	"github.com/abhisek/rehearse/internal/store"
	"github.com/abhisek/rehearse/internal/ui/layout"
	"github.com/abhisek/rehearse/internal/ui/theme"
)

const listLimit = 100

type loadedMsg struct {
	Items []store.Bookmark
	Err   error
}

type deletedMsg struct {
	ID  string
	Err error
}

// BookmarksScreen lists saved reports.
type BookmarksScreen struct {
	deps          *screen.Deps
	items         []store.Bookmark
	selected      int
	loading       bool
	confirmDelete bool
	errMsg        string
}

var _ screen.Screen = (*BookmarksScreen)(nil)
var _ screen.KeyHintProvider = (*BookmarksScreen)(nil)
var _ screen.Refresher = (*BookmarksScreen)(nil)

// New creates the bookmarks screen.
func New(deps *screen.Deps) *BookmarksScreen {
	return &BookmarksScreen{deps: deps}
}

func (s *BookmarksScreen) Init() tea.Cmd {
	s.loading = true
	return s.load()
}

// Refresh reloads the list when returning from a report.
func (s *BookmarksScreen) Refresh() tea.Cmd {
	return s.load()
}

func (s *BookmarksScreen) Title() string {
	return "Bookmarks"
}

func (s *BookmarksScreen) KeyHints() []layout.KeyHint {
	if s.confirmDelete {
		return []layout.KeyHint{
			{Key: "Y", Description: "Delete"},
			{Key: "N", Description: "Cancel"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Open"},
		{Key: "D", Description: "Delete"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *BookmarksScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		s.loading = false
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		s.errMsg = ""
		s.items = msg.Items
		s.selected = min(s.selected, max(len(s.items)-1, 0))
		return s, nil

	case deletedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
			return s, nil
		}
		return s, s.load()

	case tea.KeyMsg:
		return s.handleKey(msg)
	}
	return s, nil
}

func (s *BookmarksScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()
	if s.confirmDelete {
		s.confirmDelete = false
		if key == "y" || key == "Y" {
			return s, s.remove(s.items[s.selected].ID)
		}
		return s, nil
	}
	if len(s.items) == 0 {
		return s, nil
	}

	switch key {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.items)-1 {
			s.selected++
		}
	case "enter":
		b := s.items[s.selected]
		next := report.NewFromBookmark(s.deps, &b)
		return s, func() tea.Msg { return router.PushScreenMsg{Screen: next} }
	case "d":
		s.confirmDelete = true
	}
	return s, nil
}

func (s *BookmarksScreen) load() tea.Cmd {
	repo := s.deps.Bookmarks
	return func() tea.Msg {
		if repo == nil {
			return loadedMsg{}
		}
		items, err := repo.List(context.Background(), listLimit)
		return loadedMsg{Items: items, Err: err}
	}
}

func (s *BookmarksScreen) remove(id string) tea.Cmd {
	repo := s.deps.Bookmarks
	return func() tea.Msg {
		return deletedMsg{ID: id, Err: repo.Delete(context.Background(), id)}
	}
}

func (s *BookmarksScreen) View(width, height int) string {
	var b strings.Builder
	b.WriteString("\n")

	switch {
	case s.loading:
		b.WriteString(layout.Centered(theme.Subtitle.Render("Loading bookmarks..."), width))
		return b.String()
	case s.errMsg != "":
		b.WriteString(layout.Centered(theme.ErrorText.Render(s.errMsg), width))
		b.WriteString("\n\n")
	}

	if len(s.items) == 0 {
		b.WriteString(layout.Centered(theme.Subtitle.Render("No bookmarks yet. Press B on a report to keep it."), width))
		return b.String()
	}

	tw := layout.TextWidth(width)
	header := fmt.Sprintf("  %-16s  %-28s  %-12s  %7s  %s", "Date", "Role", "Difficulty", "Average", "Answered")
	b.WriteString(layout.Centered(theme.Hint.Width(tw).Render(header), width))
	b.WriteString("\n")
	b.WriteString(layout.Centered(layout.Divider(tw), width))
	b.WriteString("\n")

	// Keep the selection visible.
	rows := max(height-6, 1)
	start := 0
	if s.selected >= rows {
		start = s.selected - rows + 1
	}
	end := min(start+rows, len(s.items))

	for i := start; i < end; i++ {
		bm := s.items[i]
		rep := bm.Report
		line := fmt.Sprintf("%-16s  %-28s  %-12s  %6d%%  %d",
			bm.CreatedAt.Local().Format("2006-01-02 15:04"),
			clip(rep.Role, 28),
			rep.Difficulty.Label(),
			rep.AverageScore,
			rep.TotalAnswered,
		)
		style := theme.Unselected
		prefix := "  "
		if i == s.selected {
			style = theme.Selected
			prefix = "▸ "
		}
		b.WriteString(layout.Centered(style.Width(tw).Render(prefix+line), width))
		b.WriteString("\n")
	}

	if s.confirmDelete {
		b.WriteString("\n")
		b.WriteString(layout.Centered(lipgloss.NewStyle().Foreground(theme.Warning).Render("Delete this bookmark? (y/n)"), width))
	}
	return b.String()
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
