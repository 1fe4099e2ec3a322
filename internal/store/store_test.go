package store

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/abhisek/rehearse/internal/interview"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		err := db.QueryRow("PRAGMA " + tt.pragma).Scan(&got)
		if err != nil {
			t.Errorf("PRAGMA %s: %v", tt.pragma, err)
			continue
		}
		if got != tt.want {
			t.Errorf("PRAGMA %s = %q, want %q", tt.pragma, got, tt.want)
		}
	}
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "again.db")
	for i := 0; i < 2; i++ {
		s, err := Open(path)
		if err != nil {
			t.Fatalf("open #%d: %v", i+1, err)
		}
		s.Close()
	}
}

func TestSequenceCounterIncreases(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		if n <= prev {
			t.Fatalf("sequence went from %d to %d", prev, n)
		}
		prev = n
	}
}

func TestDefaultDBPath_EnvOverride(t *testing.T) {
	want := filepath.Join(t.TempDir(), "nested", "custom.db")
	t.Setenv("REHEARSE_DB", want)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestDefaultDBPath_XDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("REHEARSE_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)

	got, err := DefaultDBPath()
	if err != nil {
		t.Fatalf("DefaultDBPath: %v", err)
	}
	if want := filepath.Join(dir, "rehearse", "rehearse.db"); got != want {
		t.Errorf("path = %q, want %q", got, want)
	}
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	events := []LLMRequestEventData{
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-set", InputTokens: 100, OutputTokens: 400, LatencyMs: 900, Success: true, RequestBody: "[user]\nhi", ResponseBody: `{"questions":[]}`},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "reference-answer", InputTokens: 50, OutputTokens: 80, LatencyMs: 300, Success: true},
		{Provider: "openai", Model: "gpt-4o-mini", Purpose: "question-set", LatencyMs: 100, Success: false, ErrorMessage: "rate limited"},
	}
	for _, e := range events {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	all, err := repo.QueryLLMEvents(ctx, LLMEventQuery{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	if all[0].ErrorMessage != "rate limited" {
		t.Errorf("expected newest first, got %+v", all[0])
	}

	failed, err := repo.QueryLLMEvents(ctx, LLMEventQuery{FailedOnly: true})
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(failed) != 1 || failed[0].Success {
		t.Errorf("unexpected failed events: %+v", failed)
	}

	limited, err := repo.QueryLLMEvents(ctx, LLMEventQuery{Purpose: "question-set", Limit: 1})
	if err != nil {
		t.Fatalf("query purpose: %v", err)
	}
	if len(limited) != 1 || limited[0].Purpose != "question-set" {
		t.Errorf("unexpected purpose query: %+v", limited)
	}

	first := all[2]
	got, err := repo.GetLLMEvent(ctx, first.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.RequestBody != "[user]\nhi" || got.ResponseBody != `{"questions":[]}` {
		t.Errorf("bodies not stored: %+v", got)
	}
	if got.Timestamp.IsZero() {
		t.Error("timestamp not stored")
	}

	if _, err := repo.GetLLMEvent(ctx, 9999); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestEventRepo_Usage(t *testing.T) {
	s := openTestStore(t)
	repo := s.EventRepo()
	ctx := context.Background()

	for _, e := range []LLMRequestEventData{
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "question-set", InputTokens: 10, OutputTokens: 20, LatencyMs: 100, Success: true},
		{Provider: "gemini", Model: "gemini-2.0-flash", Purpose: "question-set", InputTokens: 30, OutputTokens: 40, LatencyMs: 300, Success: false},
		{Provider: "gemini", Model: "gemini-2.5-pro", Purpose: "interview-review", InputTokens: 5, OutputTokens: 5, LatencyMs: 50, Success: true},
	} {
		if err := repo.AppendLLMRequest(ctx, e); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	byPurpose, err := repo.LLMUsageByPurpose(ctx)
	if err != nil {
		t.Fatalf("usage by purpose: %v", err)
	}
	if len(byPurpose) != 2 {
		t.Fatalf("expected 2 purposes, got %d", len(byPurpose))
	}
	qs := byPurpose[0]
	if qs.Key != "question-set" || qs.Calls != 2 || qs.Failures != 1 || qs.InputTokens != 40 || qs.OutputTokens != 60 || qs.AvgLatencyMs != 200 {
		t.Errorf("unexpected question-set usage: %+v", qs)
	}

	byModel, err := repo.LLMUsageByModel(ctx)
	if err != nil {
		t.Fatalf("usage by model: %v", err)
	}
	if len(byModel) != 2 || byModel[0].Key != "gemini-2.0-flash" {
		t.Errorf("unexpected model usage: %+v", byModel)
	}
}

func sampleReport(t *testing.T, sessionID string) *interview.PerformanceReport {
	t.Helper()
	at := time.Date(2026, 5, 4, 10, 0, 0, 0, time.UTC)
	rep, err := interview.Aggregate([]interview.ChatEntry{
		interview.QuestionEntry{QuestionText: "Explain channels", At: at},
		interview.AnswerEntry{AnswerText: "channels let goroutines communicate safely by passing values", Score: 90, Remark: interview.RemarkOutstanding, At: at.Add(time.Minute)},
		interview.QuestionEntry{QuestionText: "Explain mutexes", At: at.Add(2 * time.Minute)},
		interview.AnswerEntry{AnswerText: "they lock things", Score: 0, Remark: interview.RemarkTooShort, At: at.Add(3 * time.Minute)},
	})
	if err != nil {
		t.Fatalf("aggregate: %v", err)
	}
	rep.SessionID = sessionID
	rep.Role = "Go Developer"
	rep.Difficulty = interview.Advanced
	rep.GeneratedAt = at.Add(4 * time.Minute)
	return rep
}

func TestBookmarkRepo_SaveGetList(t *testing.T) {
	s := openTestStore(t)
	repo := s.BookmarkRepo()
	ctx := context.Background()

	saved, err := repo.Save(ctx, sampleReport(t, "sess-a"), "  first try  ")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if saved.ID == "" || saved.Note != "first try" {
		t.Errorf("unexpected bookmark: %+v", saved)
	}
	if _, err := repo.Save(ctx, sampleReport(t, "sess-b"), ""); err != nil {
		t.Fatalf("save second: %v", err)
	}

	got, err := repo.Get(ctx, saved.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	rep := got.Report
	if rep.SessionID != "sess-a" || rep.Role != "Go Developer" || rep.Difficulty != interview.Advanced {
		t.Errorf("metadata lost: %+v", rep)
	}
	if rep.AverageScore != 45 || rep.Tier != interview.TierFair || rep.TotalAnswered != 2 {
		t.Errorf("aggregates wrong: avg=%d tier=%s total=%d", rep.AverageScore, rep.Tier, rep.TotalAnswered)
	}
	if len(rep.ChatLog) != 4 {
		t.Fatalf("expected 4 entries, got %d", len(rep.ChatLog))
	}
	ans, ok := rep.ChatLog[3].(interview.AnswerEntry)
	if !ok || ans.Remark != interview.RemarkTooShort {
		t.Errorf("entry 3 = %#v", rep.ChatLog[3])
	}
	if len(rep.Strengths) != 1 || len(rep.WeakAreas) != 1 {
		t.Errorf("strengths/weak = %d/%d", len(rep.Strengths), len(rep.WeakAreas))
	}

	list, err := repo.List(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 || list[0].Report.SessionID != "sess-b" {
		t.Errorf("expected newest first, got %d items", len(list))
	}
}

func TestBookmarkRepo_DuplicateSession(t *testing.T) {
	s := openTestStore(t)
	repo := s.BookmarkRepo()
	ctx := context.Background()

	if _, err := repo.Save(ctx, sampleReport(t, "sess-a"), ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := repo.Save(ctx, sampleReport(t, "sess-a"), ""); !errors.Is(err, ErrAlreadyBookmarked) {
		t.Fatalf("expected ErrAlreadyBookmarked, got %v", err)
	}
	list, _ := repo.List(ctx, 0)
	if len(list) != 1 {
		t.Errorf("expected 1 bookmark, got %d", len(list))
	}
}

func TestBookmarkRepo_Delete(t *testing.T) {
	s := openTestStore(t)
	repo := s.BookmarkRepo()
	ctx := context.Background()

	b, err := repo.Save(ctx, sampleReport(t, "sess-a"), "")
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.Delete(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.Get(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after delete, got %v", err)
	}
	if err := repo.Delete(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound on second delete, got %v", err)
	}
}

func TestPurge(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	if _, err := s.BookmarkRepo().Save(ctx, sampleReport(t, "sess-a"), ""); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := s.EventRepo().AppendLLMRequest(ctx, LLMRequestEventData{Provider: "mock", Model: "mock", Purpose: "question-set", Success: true}); err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := s.Purge(ctx); err != nil {
		t.Fatalf("purge: %v", err)
	}

	list, err := s.BookmarkRepo().List(ctx, 0)
	if err != nil || len(list) != 0 {
		t.Errorf("bookmarks after purge: %d, %v", len(list), err)
	}
	events, err := s.EventRepo().QueryLLMEvents(ctx, LLMEventQuery{})
	if err != nil || len(events) != 0 {
		t.Errorf("events after purge: %d, %v", len(events), err)
	}

	// A purged session can be bookmarked again.
	if _, err := s.BookmarkRepo().Save(ctx, sampleReport(t, "sess-a"), ""); err != nil {
		t.Errorf("save after purge: %v", err)
	}
}
