package questions

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/rehearse/internal/interview"
)

// ErrAllFailed is returned when every source in a Fallback fails.
var ErrAllFailed = errors.New("all question sources failed")

type namedSource struct {
	name   string
	source interview.QuestionSource
}

// Fallback tries question sources in registration order until one
// succeeds. A cancelled context stops the chain immediately.
type Fallback struct {
	sources []namedSource
	log     *zap.Logger
}

var _ interview.QuestionSource = (*Fallback)(nil)

// NewFallback creates a Fallback with primary as the preferred source.
func NewFallback(primaryName string, primary interview.QuestionSource, log *zap.Logger) *Fallback {
	if log == nil {
		log = zap.NewNop()
	}
	return &Fallback{
		sources: []namedSource{{name: primaryName, source: primary}},
		log:     log,
	}
}

// Add appends a fallback source.
func (f *Fallback) Add(name string, source interview.QuestionSource) {
	f.sources = append(f.sources, namedSource{name: name, source: source})
}

// Names returns the source names in the order they are tried.
func (f *Fallback) Names() []string {
	out := make([]string, len(f.sources))
	for i, s := range f.sources {
		out[i] = s.name
	}
	return out
}

func (f *Fallback) Generate(ctx context.Context, req interview.SetRequest) (*interview.QuestionSet, error) {
	return execute(ctx, f, func(s interview.QuestionSource) (*interview.QuestionSet, error) {
		return s.Generate(ctx, req)
	})
}

func (f *Fallback) ReferenceAnswer(ctx context.Context, q *interview.Question) (string, error) {
	return execute(ctx, f, func(s interview.QuestionSource) (string, error) {
		return s.ReferenceAnswer(ctx, q)
	})
}

func execute[R any](ctx context.Context, f *Fallback, fn func(interview.QuestionSource) (R, error)) (R, error) {
	var (
		lastErr error
		zero    R
	)
	for _, s := range f.sources {
		result, err := fn(s.source)
		if err == nil {
			return result, nil
		}
		if ctx.Err() != nil {
			return zero, err
		}
		lastErr = err
		f.log.Warn("question source failed, trying next",
			zap.String("source", s.name), zap.Error(err))
	}
	return zero, fmt.Errorf("%w: %w", ErrAllFailed, lastErr)
}
