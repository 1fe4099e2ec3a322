package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// State is the lifecycle position of a Session.
type State int

const (
	StateIdle State = iota
	StateQuestionsLoaded
	StateRecording
	StateScored
	StateEnded
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateQuestionsLoaded:
		return "questions loaded"
	case StateRecording:
		return "recording"
	case StateScored:
		return "scored"
	case StateEnded:
		return "ended"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// DefaultQuestionCount is the batch size requested from the provider.
const DefaultQuestionCount = 10

// AnswerAttempt is the result of one record-and-score cycle.
type AnswerAttempt struct {
	Question   *Question
	Transcript string
	Score      Score
	At         time.Time
}

// Option configures a Session.
type Option func(*Session)

// WithClock sets the clock used for log timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithLogger attaches a logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Session) { s.log = l }
}

// WithQuestionCount sets how many questions each load requests.
func WithQuestionCount(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.count = n
		}
	}
}

// WithIDGenerator overrides session ID generation.
func WithIDGenerator(fn func() string) Option {
	return func(s *Session) { s.newID = fn }
}

// LoadOption adjusts a single LoadQuestions call.
type LoadOption func(*SetRequest)

// WithJobDescription passes a job description to the provider as context.
func WithJobDescription(jd string) LoadOption {
	return func(r *SetRequest) { r.JobDescription = strings.TrimSpace(jd) }
}

// Session drives one interview practice session. All methods are safe for
// concurrent use. Provider and capture calls run without holding the
// session lock; if the session changes underneath them their result is
// discarded with ErrInvalidTransition.
type Session struct {
	source  QuestionSource
	capture Capture
	now     func() time.Time
	log     *zap.Logger
	count   int
	newID   func() string

	// recToken identifies the live recording. Snapshots tagged with any
	// other token are dropped.
	recToken atomic.Uint64
	mailbox  TranscriptMailbox

	mu         sync.Mutex
	gen        uint64
	state      State
	id         string
	topic      string
	difficulty Difficulty
	jobDesc    string
	set        *QuestionSet
	chat       *ChatLog
	transcript string
	last       *AnswerAttempt
	report     *PerformanceReport
	rec        Recording
	stopping   bool
}

// NewSession creates an idle session.
func NewSession(source QuestionSource, capture Capture, opts ...Option) *Session {
	s := &Session{
		source:  source,
		capture: capture,
		now:     time.Now,
		log:     zap.NewNop(),
		count:   DefaultQuestionCount,
		newID:   uuid.NewString,
	}
	for _, o := range opts {
		o(s)
	}
	s.chat = NewChatLog(s.now)
	return s
}

// LoadQuestions starts a fresh question set for the topic, discarding any
// previous questions, chat log, feedback and report.
func (s *Session) LoadQuestions(ctx context.Context, topic string, d Difficulty, opts ...LoadOption) error {
	const op = "load questions"
	topic = strings.TrimSpace(topic)

	s.mu.Lock()
	if !s.in(StateIdle, StateQuestionsLoaded, StateScored) {
		err := invalid(op, s.state, "")
		s.mu.Unlock()
		return err
	}
	if topic == "" {
		err := invalid(op, s.state, "topic is required")
		s.mu.Unlock()
		return err
	}
	gen := s.gen
	req := SetRequest{Topic: topic, Difficulty: d, Count: s.count}
	s.mu.Unlock()

	for _, o := range opts {
		o(&req)
	}

	start := time.Now()
	set, err := s.source.Generate(ctx, req)
	if err == nil && (set == nil || len(set.Questions) == 0) {
		err = errors.New("provider returned no questions")
	}
	if err != nil {
		s.log.Warn("question generation failed", zap.String("topic", topic), zap.Error(err))
		return &ProviderError{Op: op, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return invalid(op, s.state, "session changed while loading")
	}

	if set.Role == "" {
		set.Role = topic
	}
	s.advance()
	s.id = s.newID()
	s.topic = topic
	s.difficulty = d
	s.jobDesc = req.JobDescription
	s.set = set
	s.chat = NewChatLog(s.now)
	s.mailbox.Clear()
	s.transcript = ""
	s.last = nil
	s.report = nil
	s.state = StateQuestionsLoaded

	s.log.Debug("questions loaded",
		zap.String("session_id", s.id),
		zap.String("topic", topic),
		zap.String("difficulty", d.String()),
		zap.Int("count", len(set.Questions)),
		zap.Duration("latency", time.Since(start)),
	)
	return nil
}

// LoadMore appends another batch for the same topic and difficulty. The
// chat log and last feedback are kept.
func (s *Session) LoadMore(ctx context.Context) (int, error) {
	const op = "load more questions"

	s.mu.Lock()
	if !s.in(StateQuestionsLoaded, StateScored) {
		err := invalid(op, s.state, "")
		s.mu.Unlock()
		return 0, err
	}
	gen := s.gen
	req := SetRequest{
		Topic:          s.topic,
		Difficulty:     s.difficulty,
		Count:          s.count,
		Exclude:        s.set.Texts(),
		JobDescription: s.jobDesc,
	}
	s.mu.Unlock()

	more, err := s.source.Generate(ctx, req)
	if err != nil {
		s.log.Warn("loading more questions failed", zap.Error(err))
		return 0, &ProviderError{Op: op, Err: err}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return 0, invalid(op, s.state, "session changed while loading")
	}

	seen := make(map[string]bool, len(s.set.Questions))
	for _, q := range s.set.Questions {
		seen[normalizeText(q.Text)] = true
	}
	var added []*Question
	for _, q := range more.Questions {
		k := normalizeText(q.Text)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		added = append(added, q)
	}
	if len(added) == 0 {
		return 0, &ProviderError{Op: op, Err: errors.New("provider returned no new questions")}
	}

	s.advance()
	s.set.Questions = append(s.set.Questions, added...)
	s.set.Tips = mergeTips(s.set.Tips, more.Tips)
	s.state = StateQuestionsLoaded

	s.log.Debug("more questions loaded",
		zap.String("session_id", s.id),
		zap.Int("added", len(added)),
		zap.Int("total", len(s.set.Questions)),
	)
	return len(added), nil
}

// StartRecording asks the capture for permission and begins a recording.
// Permission or startup failures leave the session unchanged.
func (s *Session) StartRecording(ctx context.Context) error {
	const op = "start recording"

	s.mu.Lock()
	if !s.in(StateQuestionsLoaded, StateScored) {
		err := invalid(op, s.state, "")
		s.mu.Unlock()
		return err
	}
	gen := s.gen
	s.mu.Unlock()

	if s.capture == nil {
		return fmt.Errorf("%s: %w", op, ErrCaptureUnavailable)
	}
	if err := s.capture.RequestPermission(ctx); err != nil {
		s.log.Warn("capture permission failed", zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return invalid(op, s.state, "session changed while requesting permission")
	}

	token := s.recToken.Add(1)
	s.mailbox.Clear()
	rec, err := s.capture.Start(ctx, func(snapshot string) {
		if s.recToken.Load() == token {
			s.mailbox.Put(snapshot)
		}
	})
	if err != nil {
		s.recToken.Add(1)
		s.log.Warn("capture start failed", zap.Error(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	s.advance()
	s.rec = rec
	s.transcript = ""
	s.state = StateRecording
	s.log.Debug("recording started", zap.String("session_id", s.id))
	return nil
}

// StopRecording halts the active recording, scores the captured transcript
// against q and appends the exchange to the chat log.
func (s *Session) StopRecording(q *Question) (AnswerAttempt, error) {
	const op = "stop recording"

	s.mu.Lock()
	if s.state != StateRecording || s.stopping {
		err := invalid(op, s.state, "")
		s.mu.Unlock()
		return AnswerAttempt{}, err
	}
	if !s.owns(q) {
		err := invalid(op, s.state, "question is not part of the current set")
		s.mu.Unlock()
		return AnswerAttempt{}, err
	}
	if len(q.ExpectedPoints) == 0 {
		s.mu.Unlock()
		return AnswerAttempt{}, fmt.Errorf("%s: %w", op, ErrEmptyRubric)
	}
	rec := s.rec
	gen := s.gen
	s.stopping = true
	s.mu.Unlock()

	stopErr := rec.Stop()
	if stopErr != nil {
		s.log.Warn("capture stop failed, scoring partial transcript", zap.Error(stopErr))
	}
	s.recToken.Add(1)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gen != gen {
		return AnswerAttempt{}, invalid(op, s.state, "session was reset while stopping")
	}
	s.stopping = false

	transcript := strings.TrimSpace(s.mailbox.Take())
	score, err := ScoreAnswer(transcript, q.ExpectedPoints)
	if err != nil {
		return AnswerAttempt{}, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.chat.AppendQuestion(q.Text); err != nil {
		return AnswerAttempt{}, err
	}
	if err := s.chat.AppendAnswer(transcript, score.Percent, score.Remark); err != nil {
		return AnswerAttempt{}, err
	}

	attempt := AnswerAttempt{Question: q, Transcript: transcript, Score: score, At: s.now()}
	s.advance()
	s.rec = nil
	s.transcript = transcript
	s.last = &attempt
	s.state = StateScored

	s.log.Debug("answer scored",
		zap.String("session_id", s.id),
		zap.Int("score", score.Percent),
		zap.Int("stars", score.Stars),
		zap.String("remark", string(score.Remark)),
	)
	return attempt, nil
}

// RequestReferenceAnswer fetches a model answer for q. The answer is stored
// on the question once; later calls return the stored answer without asking
// the provider again. The session state does not change.
func (s *Session) RequestReferenceAnswer(ctx context.Context, q *Question) (string, error) {
	const op = "reference answer"

	s.mu.Lock()
	if !s.owns(q) {
		err := invalid(op, s.state, "question is not part of the current set")
		s.mu.Unlock()
		return "", err
	}
	s.mu.Unlock()

	if a, ok := q.AIAnswer(); ok {
		return a, nil
	}

	a, err := s.source.ReferenceAnswer(ctx, q)
	if err == nil && strings.TrimSpace(a) == "" {
		err = errors.New("provider returned an empty answer")
	}
	if err != nil {
		s.log.Warn("reference answer failed", zap.Error(err))
		return "", &ProviderError{Op: op, Err: err}
	}
	if !q.setAIAnswer(strings.TrimSpace(a)) {
		stored, _ := q.AIAnswer()
		return stored, nil
	}
	return strings.TrimSpace(a), nil
}

// EndInterview aggregates the chat log into a report. It requires at least
// one scored answer and no active recording. Once ended, it returns the same
// report until the session is reset or reloaded.
func (s *Session) EndInterview() (*PerformanceReport, error) {
	const op = "end interview"

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEnded && s.report != nil {
		return s.report, nil
	}
	if !s.in(StateQuestionsLoaded, StateScored) {
		return nil, invalid(op, s.state, "")
	}
	if s.chat.AnswerCount() == 0 {
		return nil, invalid(op, s.state, "no answers recorded yet")
	}

	rep, err := Aggregate(s.chat.Entries())
	if err != nil {
		return nil, err
	}
	rep.SessionID = s.id
	rep.Role = s.set.Role
	rep.Difficulty = s.difficulty
	rep.GeneratedAt = s.now()

	s.advance()
	s.report = rep
	s.state = StateEnded
	s.log.Info("interview ended",
		zap.String("session_id", s.id),
		zap.Int("answered", rep.TotalAnswered),
		zap.Int("average", rep.AverageScore),
		zap.String("tier", string(rep.Tier)),
	)
	return rep, nil
}

// Reset discards everything and returns to idle. An active recording is
// stopped and its output dropped.
func (s *Session) Reset() {
	s.mu.Lock()
	rec := s.rec
	s.recToken.Add(1)
	s.advance()
	s.rec = nil
	s.stopping = false
	s.state = StateIdle
	s.id = ""
	s.topic = ""
	s.difficulty = ""
	s.jobDesc = ""
	s.set = nil
	s.chat = NewChatLog(s.now)
	s.mailbox.Clear()
	s.transcript = ""
	s.last = nil
	s.report = nil
	s.mu.Unlock()

	if rec != nil {
		if err := rec.Stop(); err != nil {
			s.log.Warn("stopping capture on reset", zap.Error(err))
		}
	}
	s.log.Debug("session reset")
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// ID returns the session ID, empty while idle.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Topic returns the role or topic of the loaded set.
func (s *Session) Topic() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.topic
}

// Difficulty returns the difficulty of the loaded set.
func (s *Session) Difficulty() Difficulty {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.difficulty
}

// Questions returns the loaded questions in order.
func (s *Session) Questions() []*Question {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set == nil {
		return nil
	}
	return append([]*Question(nil), s.set.Questions...)
}

// Tips returns the provider's preparation tips.
func (s *Session) Tips() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.set == nil {
		return nil
	}
	return append([]string(nil), s.set.Tips...)
}

// ChatLog returns a snapshot of the chat log.
func (s *Session) ChatLog() []ChatEntry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.Entries()
}

// AnswerCount returns how many answers have been scored.
func (s *Session) AnswerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.chat.AnswerCount()
}

// Transcript returns the live transcript while recording, otherwise the
// transcript of the last scored answer.
func (s *Session) Transcript() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateRecording {
		return s.mailbox.Peek()
	}
	return s.transcript
}

// LastAttempt returns the most recent scored answer.
func (s *Session) LastAttempt() (AnswerAttempt, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return AnswerAttempt{}, false
	}
	return *s.last, true
}

// Report returns the final report once the interview has ended.
func (s *Session) Report() *PerformanceReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

func (s *Session) in(states ...State) bool {
	for _, st := range states {
		if s.state == st {
			return true
		}
	}
	return false
}

func (s *Session) owns(q *Question) bool {
	if q == nil || s.set == nil {
		return false
	}
	for _, c := range s.set.Questions {
		if c == q {
			return true
		}
	}
	return false
}

func (s *Session) advance() { s.gen++ }

func normalizeText(t string) string {
	return strings.ToLower(strings.Join(strings.Fields(t), " "))
}

func mergeTips(have, more []string) []string {
	seen := make(map[string]bool, len(have))
	for _, t := range have {
		seen[normalizeText(t)] = true
	}
	for _, t := range more {
		k := normalizeText(t)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		have = append(have, t)
	}
	return have
}
