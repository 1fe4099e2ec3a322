package speech

import (
	"context"
	"strings"
	"sync"

	"github.com/abhisek/rehearse/internal/interview"
)

// Scripted replays queued answers, one per recording, as a growing series
// of word-by-word snapshots. The `questions --answer` command uses it to run
// piped answers through a session.
type Scripted struct {
	// PermissionErr and StartErr, when set, are returned by the
	// corresponding calls.
	PermissionErr error
	StartErr      error

	mu      sync.Mutex
	answers []string
	starts  int
}

var _ interview.Capture = (*Scripted)(nil)

// NewScripted creates a capture that will deliver answers in order.
func NewScripted(answers ...string) *Scripted {
	return &Scripted{answers: answers}
}

// Push queues another answer.
func (s *Scripted) Push(answer string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.answers = append(s.answers, answer)
}

// Starts returns how many recordings were started.
func (s *Scripted) Starts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.starts
}

func (s *Scripted) RequestPermission(context.Context) error { return s.PermissionErr }

// Start delivers every snapshot of the next answer except the final one;
// the complete answer arrives when the recording stops. With no answers
// queued the recording yields an empty transcript.
func (s *Scripted) Start(_ context.Context, sink func(string)) (interview.Recording, error) {
	if s.StartErr != nil {
		return nil, s.StartErr
	}

	s.mu.Lock()
	var answer string
	if len(s.answers) > 0 {
		answer = s.answers[0]
		s.answers = s.answers[1:]
	}
	s.starts++
	s.mu.Unlock()

	words := strings.Fields(answer)
	for i := 1; i < len(words); i++ {
		sink(strings.Join(words[:i], " "))
	}
	return &scriptedRecording{sink: sink, final: strings.Join(words, " ")}, nil
}

type scriptedRecording struct {
	sink  func(string)
	final string
	once  sync.Once
}

func (r *scriptedRecording) Stop() error {
	r.once.Do(func() { r.sink(r.final) })
	return nil
}
