package questions

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/llm"
)

// DefaultTopic labels questions the model returned without a topic.
const DefaultTopic = "General"

// ErrNoQuestions is returned when every generated question was rejected.
var ErrNoQuestions = errors.New("no usable questions in response")

// LLMSource implements interview.QuestionSource using an LLM provider.
type LLMSource struct {
	provider llm.Provider
	config   Config
	log      *zap.Logger
}

var _ interview.QuestionSource = (*LLMSource)(nil)

// NewLLMSource creates an LLMSource. A nil logger disables logging.
func NewLLMSource(provider llm.Provider, cfg Config, log *zap.Logger) *LLMSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &LLMSource{provider: provider, config: cfg, log: log}
}

// questionSetOutput is the raw response before validation.
type questionSetOutput struct {
	Questions []struct {
		Topic          string   `json:"topic"`
		Question       string   `json:"question"`
		Difficulty     string   `json:"difficulty"`
		ExpectedPoints []string `json:"expected_answer_points"`
		FollowUps      []string `json:"follow_ups"`
	} `json:"questions"`
	PreparationTips []string `json:"preparation_tips"`
}

// Generate asks the model for a question set. Invalid questions and
// questions repeating req.Exclude are dropped; at most req.Count are kept.
func (s *LLMSource) Generate(ctx context.Context, req interview.SetRequest) (*interview.QuestionSet, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeQuestionSet)
	if req.Count <= 0 {
		req.Count = interview.DefaultQuestionCount
	}

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: systemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildUserMessage(req, s.config)},
		},
		Schema:      QuestionSetSchema,
		MaxTokens:   s.config.MaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("generate question set: %w", err)
	}

	var raw questionSetOutput
	if err := resp.Decode(&raw); err != nil {
		return nil, fmt.Errorf("generate question set: %w", err)
	}

	seen := newTextSet(req.Exclude)
	set := &interview.QuestionSet{Role: req.Topic, Tips: cleanList(raw.PreparationTips)}
	for _, out := range raw.Questions {
		d, err := interview.ParseDifficulty(out.Difficulty)
		if err != nil {
			d = req.Difficulty
		}
		topic := strings.TrimSpace(out.Topic)
		if topic == "" {
			topic = DefaultTopic
		}
		q := interview.NewQuestion(strings.TrimSpace(out.Question), topic, d,
			cleanList(out.ExpectedPoints), cleanList(out.FollowUps))

		if verr := s.validate(q); verr != nil {
			s.log.Warn("dropping generated question",
				zap.String("validator", verr.Validator),
				zap.String("reason", verr.Message))
			continue
		}
		if !seen.add(q.Text) {
			continue
		}
		set.Questions = append(set.Questions, q)
		if len(set.Questions) == req.Count {
			break
		}
	}

	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("generate question set: %w", ErrNoQuestions)
	}
	return set, nil
}

func (s *LLMSource) validate(q *interview.Question) *ValidationError {
	for _, v := range s.config.Validators {
		if verr := v.Validate(q); verr != nil {
			return verr
		}
	}
	return nil
}

// ReferenceAnswer asks the model for a spoken-style answer to q.
func (s *LLMSource) ReferenceAnswer(ctx context.Context, q *interview.Question) (string, error) {
	ctx = llm.WithPurpose(ctx, llm.PurposeReferenceAnswer)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System: answerSystemPrompt,
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: buildAnswerMessage(q)},
		},
		Schema:      ReferenceAnswerSchema,
		MaxTokens:   s.config.AnswerMaxTokens,
		Temperature: s.config.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate reference answer: %w", err)
	}

	var out struct {
		Answer string `json:"answer"`
	}
	if err := resp.Decode(&out); err != nil {
		return "", fmt.Errorf("generate reference answer: %w", err)
	}
	return strings.TrimSpace(out.Answer), nil
}

// cleanList trims entries and drops empty ones.
func cleanList(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// textSet tracks question texts by their normalized form.
type textSet map[string]struct{}

func newTextSet(texts []string) textSet {
	s := make(textSet, len(texts))
	for _, t := range texts {
		s.add(t)
	}
	return s
}

// add records t and reports whether it was new.
func (s textSet) add(t string) bool {
	key := normalize(t)
	if _, ok := s[key]; ok {
		return false
	}
	s[key] = struct{}{}
	return true
}

func normalize(t string) string {
	return strings.Join(strings.Fields(strings.ToLower(t)), " ")
}
