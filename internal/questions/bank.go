package questions

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/rehearse/internal/interview"
)

var (
	// ErrUnknownTopic is returned when the bank has no topic by that name.
	ErrUnknownTopic = errors.New("topic not in question bank")

	// ErrNoReference is returned when a bank question has no stored answer.
	ErrNoReference = errors.New("no reference answer in question bank")
)

// bankFile is the YAML layout of a question bank.
type bankFile struct {
	Topics []bankTopic `yaml:"topics"`
}

type bankTopic struct {
	Name      string         `yaml:"name"`
	Questions []bankQuestion `yaml:"questions"`
}

type bankQuestion struct {
	Question        string   `yaml:"question"`
	Difficulty      string   `yaml:"difficulty"`
	ExpectedPoints  []string `yaml:"expected_points"`
	FollowUps       []string `yaml:"follow_ups"`
	ReferenceAnswer string   `yaml:"reference_answer"`
}

type bankEntry struct {
	topic   string
	text    string
	diff    interview.Difficulty // empty matches any requested difficulty
	points  []string
	follows []string
	answer  string
}

// BankSource serves questions from a YAML file, for offline practice.
type BankSource struct {
	topics  []string
	entries map[string][]bankEntry // keyed by normalized topic name
	answers map[string]string      // keyed by normalized question text
}

var _ interview.QuestionSource = (*BankSource)(nil)

// LoadBank reads and parses a question bank file.
func LoadBank(path string) (*BankSource, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read question bank: %w", err)
	}
	b, err := ParseBank(data)
	if err != nil {
		return nil, fmt.Errorf("question bank %s: %w", path, err)
	}
	return b, nil
}

// ParseBank parses bank YAML. Every question must pass the structural and
// rubric validators.
func ParseBank(data []byte) (*BankSource, error) {
	var f bankFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse question bank: %w", err)
	}
	if len(f.Topics) == 0 {
		return nil, errors.New("question bank has no topics")
	}

	validators := []Validator{&StructuralValidator{}, &RubricValidator{}}
	b := &BankSource{
		entries: make(map[string][]bankEntry),
		answers: make(map[string]string),
	}
	for ti, t := range f.Topics {
		name := strings.TrimSpace(t.Name)
		if name == "" {
			return nil, fmt.Errorf("topic %d has no name", ti+1)
		}
		key := normalize(name)
		if _, dup := b.entries[key]; dup {
			return nil, fmt.Errorf("duplicate topic %q", name)
		}
		b.topics = append(b.topics, name)

		entries := make([]bankEntry, 0, len(t.Questions))
		for qi, q := range t.Questions {
			e := bankEntry{
				topic:   name,
				text:    strings.TrimSpace(q.Question),
				points:  cleanList(q.ExpectedPoints),
				follows: cleanList(q.FollowUps),
				answer:  strings.TrimSpace(q.ReferenceAnswer),
			}
			check := interview.Beginner
			if strings.TrimSpace(q.Difficulty) != "" {
				d, err := interview.ParseDifficulty(q.Difficulty)
				if err != nil {
					return nil, fmt.Errorf("topic %q question %d: %w", name, qi+1, err)
				}
				e.diff, check = d, d
			}
			probe := interview.NewQuestion(e.text, name, check, e.points, nil)
			for _, v := range validators {
				if verr := v.Validate(probe); verr != nil {
					return nil, fmt.Errorf("topic %q question %d: %w", name, qi+1, verr)
				}
			}
			if e.answer != "" {
				b.answers[normalize(e.text)] = e.answer
			}
			entries = append(entries, e)
		}
		b.entries[key] = entries
	}
	return b, nil
}

// Topics returns the topic names in file order.
func (b *BankSource) Topics() []string {
	return append([]string(nil), b.topics...)
}

// Generate returns up to req.Count questions of the topic, in file order,
// matching the difficulty and skipping req.Exclude. Stored reference
// answers are seeded onto the returned questions.
func (b *BankSource) Generate(_ context.Context, req interview.SetRequest) (*interview.QuestionSet, error) {
	entries, ok := b.entries[normalize(req.Topic)]
	if !ok {
		return nil, fmt.Errorf("%q: %w", req.Topic, ErrUnknownTopic)
	}
	count := req.Count
	if count <= 0 {
		count = interview.DefaultQuestionCount
	}

	seen := newTextSet(req.Exclude)
	set := &interview.QuestionSet{Role: req.Topic}
	for _, e := range entries {
		if e.diff != "" && req.Difficulty != "" && e.diff != req.Difficulty {
			continue
		}
		if !seen.add(e.text) {
			continue
		}
		d := e.diff
		if d == "" {
			d = req.Difficulty
		}
		q := interview.NewQuestion(e.text, e.topic, d, e.points, e.follows)
		q.SeedAIAnswer(e.answer)
		set.Questions = append(set.Questions, q)
		if len(set.Questions) == count {
			break
		}
	}
	if len(set.Questions) == 0 {
		return nil, fmt.Errorf("bank topic %q: %w", req.Topic, ErrNoQuestions)
	}
	return set, nil
}

// ReferenceAnswer returns the stored answer for q, if the bank has one.
func (b *BankSource) ReferenceAnswer(_ context.Context, q *interview.Question) (string, error) {
	if a, ok := b.answers[normalize(q.Text)]; ok {
		return a, nil
	}
	return "", ErrNoReference
}
