package speech

import (
	"context"
	"errors"
	"testing"

	"github.com/abhisek/rehearse/internal/interview"
)

func TestScripted_Snapshots(t *testing.T) {
	s := NewScripted("one two  three")
	var c collector

	rec, err := s.Start(context.Background(), c.sink)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	got := c.all()
	if len(got) != 2 || got[0] != "one" || got[1] != "one two" {
		t.Fatalf("snapshots before stop = %q", got)
	}

	rec.Stop()
	rec.Stop()
	got = c.all()
	if len(got) != 3 || got[2] != "one two three" {
		t.Errorf("snapshots after stop = %q", got)
	}
	if s.Starts() != 1 {
		t.Errorf("starts = %d", s.Starts())
	}
}

func TestScripted_EmptyQueue(t *testing.T) {
	s := NewScripted()
	var c collector
	rec, err := s.Start(context.Background(), c.sink)
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	rec.Stop()
	if got := c.all(); len(got) != 1 || got[0] != "" {
		t.Errorf("snapshots = %q", got)
	}

	s.Push("pushed later")
	var next collector
	rec, _ = s.Start(context.Background(), next.sink)
	rec.Stop()
	if next.last() != "pushed later" {
		t.Errorf("last = %q", next.last())
	}
}

func TestScripted_Errors(t *testing.T) {
	s := NewScripted("x")
	s.PermissionErr = interview.ErrPermissionDenied
	if err := s.RequestPermission(context.Background()); !errors.Is(err, interview.ErrPermissionDenied) {
		t.Errorf("permission err = %v", err)
	}

	s.StartErr = interview.ErrCaptureUnavailable
	if _, err := s.Start(context.Background(), func(string) {}); !errors.Is(err, interview.ErrCaptureUnavailable) {
		t.Errorf("start err = %v", err)
	}
	if s.Starts() != 0 {
		t.Errorf("failed start counted")
	}
}
