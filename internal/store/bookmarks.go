package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/rehearse/internal/interview"
)

// ErrAlreadyBookmarked is returned when a session's report is saved twice.
var ErrAlreadyBookmarked = errors.New("session already bookmarked")

// Bookmark is a saved performance report.
type Bookmark struct {
	ID        string
	Sequence  int64
	Note      string
	CreatedAt time.Time
	Report    *interview.PerformanceReport
}

// BookmarkRepo stores finished reports the user chose to keep.
type BookmarkRepo interface {
	Save(ctx context.Context, rep *interview.PerformanceReport, note string) (*Bookmark, error)
	List(ctx context.Context, limit int) ([]Bookmark, error)
	Get(ctx context.Context, id string) (*Bookmark, error)
	Delete(ctx context.Context, id string) error
}

type bookmarkRepo struct {
	db  *sql.DB
	seq *sequenceCounter
	now func() time.Time
}

func (r *bookmarkRepo) clock() time.Time {
	if r.now != nil {
		return r.now()
	}
	return time.Now()
}

func (r *bookmarkRepo) Save(ctx context.Context, rep *interview.PerformanceReport, note string) (*Bookmark, error) {
	if rep == nil {
		return nil, errors.New("save bookmark: nil report")
	}
	body, err := json.Marshal(encodeReport(rep))
	if err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}

	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return nil, err
	}

	b := &Bookmark{
		ID:        uuid.NewString(),
		Sequence:  seqNum,
		Note:      strings.TrimSpace(note),
		CreatedAt: r.clock().UTC(),
		Report:    rep,
	}
	_, err = r.db.ExecContext(ctx, `INSERT INTO bookmarks
		(id, sequence, session_id, role, difficulty, average_score, tier, total_answered, note, report, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(session_id) DO NOTHING`,
		b.ID, b.Sequence, rep.SessionID, rep.Role, string(rep.Difficulty), rep.AverageScore,
		string(rep.Tier), rep.TotalAnswered, b.Note, string(body), formatTime(b.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("save bookmark: %w", err)
	}

	var exists string
	err = r.db.QueryRowContext(ctx, `SELECT id FROM bookmarks WHERE session_id = ?`, rep.SessionID).Scan(&exists)
	if err != nil {
		return nil, fmt.Errorf("save bookmark: %w", err)
	}
	if exists != b.ID {
		return nil, fmt.Errorf("session %s: %w", rep.SessionID, ErrAlreadyBookmarked)
	}
	return b, nil
}

const bookmarkColumns = `id, sequence, note, report, created_at`

func (r *bookmarkRepo) List(ctx context.Context, limit int) ([]Bookmark, error) {
	stmt := "SELECT " + bookmarkColumns + " FROM bookmarks ORDER BY sequence DESC"
	var args []any
	if limit > 0 {
		stmt += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookmarks: %w", err)
	}
	defer rows.Close()

	var out []Bookmark
	for rows.Next() {
		b, err := scanBookmark(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *bookmarkRepo) Get(ctx context.Context, id string) (*Bookmark, error) {
	row := r.db.QueryRowContext(ctx, "SELECT "+bookmarkColumns+" FROM bookmarks WHERE id = ?", id)
	b, err := scanBookmark(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
	}
	return b, err
}

func (r *bookmarkRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bookmarks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bookmark: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("bookmark %s: %w", id, ErrNotFound)
	}
	return nil
}

func scanBookmark(s rowScanner) (*Bookmark, error) {
	var (
		b       Bookmark
		body    string
		created string
	)
	if err := s.Scan(&b.ID, &b.Sequence, &b.Note, &body, &created); err != nil {
		return nil, err
	}
	var err error
	if b.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}

	var rec reportRecord
	if err := json.Unmarshal([]byte(body), &rec); err != nil {
		return nil, fmt.Errorf("decode bookmark %s: %w", b.ID, err)
	}
	if b.Report, err = rec.decode(); err != nil {
		return nil, fmt.Errorf("decode bookmark %s: %w", b.ID, err)
	}
	return &b, nil
}

// reportRecord is the JSON form of a report. Derived fields (averages,
// strengths, weak areas) are recomputed from the entries on load.
type reportRecord struct {
	SessionID   string        `json:"session_id"`
	Role        string        `json:"role"`
	Difficulty  string        `json:"difficulty"`
	GeneratedAt time.Time     `json:"generated_at"`
	Entries     []entryRecord `json:"entries"`
}

type entryRecord struct {
	Kind   interview.EntryKind `json:"kind"`
	Text   string              `json:"text"`
	Score  int                 `json:"score,omitempty"`
	Remark string              `json:"remark,omitempty"`
	At     time.Time           `json:"at"`
}

func encodeReport(rep *interview.PerformanceReport) reportRecord {
	rec := reportRecord{
		SessionID:   rep.SessionID,
		Role:        rep.Role,
		Difficulty:  string(rep.Difficulty),
		GeneratedAt: rep.GeneratedAt,
	}
	for _, e := range rep.ChatLog {
		switch v := e.(type) {
		case interview.QuestionEntry:
			rec.Entries = append(rec.Entries, entryRecord{Kind: interview.KindQuestion, Text: v.QuestionText, At: v.At})
		case interview.AnswerEntry:
			rec.Entries = append(rec.Entries, entryRecord{
				Kind: interview.KindAnswer, Text: v.AnswerText, Score: v.Score, Remark: string(v.Remark), At: v.At,
			})
		}
	}
	return rec
}

func (rec reportRecord) decode() (*interview.PerformanceReport, error) {
	entries := make([]interview.ChatEntry, 0, len(rec.Entries))
	for _, e := range rec.Entries {
		switch e.Kind {
		case interview.KindQuestion:
			entries = append(entries, interview.QuestionEntry{QuestionText: e.Text, At: e.At})
		case interview.KindAnswer:
			entries = append(entries, interview.AnswerEntry{
				AnswerText: e.Text, Score: e.Score, Remark: interview.Remark(e.Remark), At: e.At,
			})
		default:
			return nil, fmt.Errorf("unknown entry kind %q", e.Kind)
		}
	}

	rep, err := interview.Aggregate(entries)
	if err != nil {
		return nil, err
	}
	rep.SessionID = rec.SessionID
	rep.Role = rec.Role
	rep.Difficulty = interview.Difficulty(rec.Difficulty)
	rep.GeneratedAt = rec.GeneratedAt
	return rep, nil
}
