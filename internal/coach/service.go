// Package coach asks an LLM for qualitative feedback on a finished
// interview. The review sits beside the deterministic report and never
// changes a score.
package coach

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/llm"
)

// Review is the coach's feedback on one report.
type Review struct {
	Strengths       []string
	Improvements    []string
	OverallFeedback string
}

// Service generates reviews.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a review service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

type reviewOutput struct {
	Strengths       []string `json:"strengths"`
	Improvements    []string `json:"improvements"`
	OverallFeedback string   `json:"overall_feedback"`
}

// Review asks the model to review rep.
func (s *Service) Review(ctx context.Context, rep *interview.PerformanceReport) (*Review, error) {
	if rep == nil || rep.TotalAnswered == 0 {
		return nil, errors.New("review: report has no answers")
	}
	ctx = llm.WithPurpose(ctx, llm.PurposeReview)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(rep, s.cfg)},
		},
		Schema:      ReviewSchema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("review generation: %w", err)
	}

	var out reviewOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("parse review response: %w", err)
	}

	return &Review{
		Strengths:       trimAll(out.Strengths),
		Improvements:    trimAll(out.Improvements),
		OverallFeedback: strings.TrimSpace(out.OverallFeedback),
	}, nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
