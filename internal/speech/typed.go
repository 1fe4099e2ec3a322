package speech

import (
	"context"
	"errors"
	"sync"

	"github.com/abhisek/rehearse/internal/interview"
)

// ErrNotRecording is returned by Typed.Write when no recording is active.
var ErrNotRecording = errors.New("no active recording")

// Typed is a capture fed from the keyboard. The UI calls Write with the
// full text of the answer box after every edit.
type Typed struct {
	mu   sync.Mutex
	id   uint64
	sink func(string)
	last string
}

var _ interview.Capture = (*Typed)(nil)

// NewTyped creates a keyboard capture.
func NewTyped() *Typed { return &Typed{} }

// RequestPermission always succeeds.
func (t *Typed) RequestPermission(context.Context) error { return nil }

// Start begins a recording. A previous recording that was never stopped is
// abandoned.
func (t *Typed) Start(_ context.Context, sink func(string)) (interview.Recording, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.id++
	t.sink = sink
	t.last = ""
	return &typedRecording{t: t, id: t.id}, nil
}

// Write replaces the current snapshot.
func (t *Typed) Write(snapshot string) error {
	t.mu.Lock()
	sink := t.sink
	if sink == nil {
		t.mu.Unlock()
		return ErrNotRecording
	}
	t.last = snapshot
	t.mu.Unlock()

	sink(snapshot)
	return nil
}

// Active reports whether a recording is in progress.
func (t *Typed) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sink != nil
}

type typedRecording struct {
	t    *Typed
	id   uint64
	once sync.Once
}

func (r *typedRecording) Stop() error {
	r.once.Do(func() {
		t := r.t
		t.mu.Lock()
		if t.id != r.id || t.sink == nil {
			t.mu.Unlock()
			return
		}
		sink, last := t.sink, t.last
		t.sink = nil
		t.mu.Unlock()

		sink(last)
	})
	return nil
}
