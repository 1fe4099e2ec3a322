package interview

import "context"

// SetRequest asks a QuestionSource for a batch of questions.
type SetRequest struct {
	Topic          string
	Difficulty     Difficulty
	Count          int
	Exclude        []string
	JobDescription string
}

// QuestionSource produces question sets and reference answers.
type QuestionSource interface {
	Generate(ctx context.Context, req SetRequest) (*QuestionSet, error)
	ReferenceAnswer(ctx context.Context, q *Question) (string, error)
}

// Capture turns a candidate's speech into transcript snapshots.
//
// Start delivers each snapshot to sink as the full transcript so far. Sink
// may be called from any goroutine until Stop returns. The context passed
// to Start bounds startup only; the recording runs until stopped.
type Capture interface {
	RequestPermission(ctx context.Context) error
	Start(ctx context.Context, sink func(snapshot string)) (Recording, error)
}

// Recording is an active capture. Stop halts it and flushes the final
// snapshot before returning. Stop may be called more than once.
type Recording interface {
	Stop() error
}
