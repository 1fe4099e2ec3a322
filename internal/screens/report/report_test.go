package report

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/router"
	"github.com/abhisek/rehearse/internal/screen"
	"github.com/abhisek/rehearse/internal/store"
)

type memBookmarks struct {
	saved []*interview.PerformanceReport
	err   error
}

func (m *memBookmarks) Save(_ context.Context, rep *interview.PerformanceReport, note string) (*store.Bookmark, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.saved = append(m.saved, rep)
	return &store.Bookmark{ID: "bm-1", Note: note, Report: rep, CreatedAt: time.Now()}, nil
}

func (m *memBookmarks) List(context.Context, int) ([]store.Bookmark, error) { return nil, nil }
func (m *memBookmarks) Get(context.Context, string) (*store.Bookmark, error) {
	return nil, store.ErrNotFound
}
func (m *memBookmarks) Delete(context.Context, string) error { return nil }

type nopSource struct{}

func (nopSource) Generate(context.Context, interview.SetRequest) (*interview.QuestionSet, error) {
	return nil, nil
}
func (nopSource) ReferenceAnswer(context.Context, *interview.Question) (string, error) {
	return "", nil
}

func sampleReport(t *testing.T) *interview.PerformanceReport {
	t.Helper()
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	rep, err := interview.Aggregate([]interview.ChatEntry{
		interview.QuestionEntry{QuestionText: "Explain channels", At: at},
		interview.AnswerEntry{AnswerText: "channels let goroutines communicate safely", Score: 90, Remark: interview.RemarkOutstanding, At: at},
		interview.QuestionEntry{QuestionText: "Explain mutexes", At: at},
		interview.AnswerEntry{AnswerText: "they lock", Score: 0, Remark: interview.RemarkTooShort, At: at},
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	rep.SessionID = "0123456789abcdef"
	rep.Role = "Go Developer"
	rep.Difficulty = interview.Advanced
	rep.GeneratedAt = at
	return rep
}

func newTestDeps(t *testing.T) (*screen.Deps, *memBookmarks) {
	repo := &memBookmarks{}
	return &screen.Deps{
		Session:   interview.NewSession(nopSource{}, nil),
		Bookmarks: repo,
		ExportDir: t.TempDir(),
	}, repo
}

func press(s *ReportScreen, r rune) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	return cmd
}

func pressEnter(s *ReportScreen) tea.Cmd {
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	return cmd
}

func TestViewShowsSummary(t *testing.T) {
	deps, _ := newTestDeps(t)
	s := New(deps, sampleReport(t))

	view := s.View(100, 60)
	for _, want := range []string{"FAIR", "Go Developer", "Explain channels", "Explain mutexes", "Strengths", "Areas to improve"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestBookmarkSavesOnce(t *testing.T) {
	deps, repo := newTestDeps(t)
	s := New(deps, sampleReport(t))

	cmd := press(s, 'b')
	if cmd == nil {
		t.Fatal("expected save command")
	}
	s.Update(cmd())
	if !s.saved || s.notice != "Bookmarked." {
		t.Fatalf("saved=%v notice=%q", s.saved, s.notice)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected 1 save, got %d", len(repo.saved))
	}

	if cmd := press(s, 'b'); cmd != nil {
		t.Error("second press should not save again")
	}
}

func TestBookmarkAlreadySaved(t *testing.T) {
	deps, repo := newTestDeps(t)
	repo.err = store.ErrAlreadyBookmarked
	s := New(deps, sampleReport(t))

	s.Update(press(s, 'b')())
	if !s.saved {
		t.Error("duplicate bookmark should count as saved")
	}
	if s.errMsg != "" {
		t.Errorf("unexpected error: %q", s.errMsg)
	}
}

func TestExportWritesFile(t *testing.T) {
	deps, _ := newTestDeps(t)
	s := New(deps, sampleReport(t))

	press(s, 'x')
	path := filepath.Join(deps.ExportDir, "rehearse-report-01234567.txt")
	if !strings.Contains(s.notice, path) {
		t.Fatalf("notice = %q, want path %s", s.notice, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	if !strings.Contains(string(data), "INTERVIEW PERFORMANCE REPORT") {
		t.Error("export missing header")
	}
}

func TestEnterPopsAndResets(t *testing.T) {
	deps, _ := newTestDeps(t)
	s := New(deps, sampleReport(t))

	cmd := pressEnter(s)
	if cmd == nil {
		t.Fatal("expected pop command")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestArchiveIgnoresEnter(t *testing.T) {
	deps, _ := newTestDeps(t)
	b := &store.Bookmark{ID: "bm-1", Note: "first try", Report: sampleReport(t)}
	s := NewFromBookmark(deps, b)

	if s.Title() != "Saved Report" {
		t.Errorf("title = %q", s.Title())
	}
	if cmd := pressEnter(s); cmd != nil {
		if _, ok := cmd().(router.PopScreenMsg); ok {
			t.Error("archive view should not pop on enter")
		}
	}
	if cmd := press(s, 'b'); cmd != nil {
		t.Error("archived report is already saved")
	}
	if !strings.Contains(s.View(100, 60), "first try") {
		t.Error("view should show the bookmark note")
	}
}
