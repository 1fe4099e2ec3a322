package practice

import (
	"context"
	"errors"
	"fmt"
	"time"

	"charm.land/bubbles/v2/spinner"
	"charm.land/bubbles/v2/textarea"
	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/router"
	"github.com/abhisek/rehearse/internal/screen"
	"github.com/abhisek/rehearse/internal/screens/report"
	"github.com/abhisek/rehearse/internal/speech"
	"github.com/abhisek/rehearse/internal/ui/layout"
)

// transcriptPoll is how often the live transcript is redrawn while
// recording from the microphone.
const transcriptPoll = 300 * time.Millisecond

// PracticeScreen runs one interview: it loads questions, records and scores
// answers and hands the finished report to the report screen.
type PracticeScreen struct {
	deps       *screen.Deps
	role       string
	difficulty interview.Difficulty

	questions []*interview.Question
	selected  int
	attempts  map[*interview.Question]interview.AnswerAttempt
	showRef   map[*interview.Question]bool

	answer textarea.Model
	spin   spinner.Model

	loading     bool
	busy        string
	speaking    bool
	confirmQuit bool
	errMsg      string
	notice      string
	live        string
}

var _ screen.Screen = (*PracticeScreen)(nil)
var _ screen.KeyHintProvider = (*PracticeScreen)(nil)
var _ screen.StatusProvider = (*PracticeScreen)(nil)
var _ screen.BackHandler = (*PracticeScreen)(nil)

// New creates a practice screen for role at difficulty.
func New(deps *screen.Deps, role string, difficulty interview.Difficulty) *PracticeScreen {
	ta := textarea.New()
	ta.Placeholder = "Type your answer as you would say it..."
	ta.ShowLineNumbers = false
	ta.CharLimit = 4000
	ta.SetHeight(5)

	return &PracticeScreen{
		deps:       deps,
		role:       role,
		difficulty: difficulty,
		attempts:   make(map[*interview.Question]interview.AnswerAttempt),
		showRef:    make(map[*interview.Question]bool),
		answer:     ta,
		spin:       spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init starts a fresh interview, discarding whatever the session held.
func (s *PracticeScreen) Init() tea.Cmd {
	s.deps.Session.Reset()
	s.loading = true
	return tea.Batch(s.spin.Tick, s.loadQuestions())
}

func (s *PracticeScreen) Title() string {
	return fmt.Sprintf("%s · %s", s.role, s.difficulty.Label())
}

func (s *PracticeScreen) HandlesBack() bool { return true }

func (s *PracticeScreen) Status() string {
	if len(s.questions) == 0 {
		return ""
	}
	return fmt.Sprintf("Q %d/%d  answered %d", s.selected+1, len(s.questions), s.deps.Session.AnswerCount())
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.confirmQuit:
		return []layout.KeyHint{
			{Key: "Y", Description: "Discard interview"},
			{Key: "N", Description: "Keep going"},
		}
	case s.recording():
		return []layout.KeyHint{
			{Key: "Enter", Description: "Stop and score"},
			{Key: "Esc", Description: "Quit"},
		}
	case len(s.questions) == 0:
		return []layout.KeyHint{
			{Key: "R", Description: "Retry"},
			{Key: "Esc", Description: "Back"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Question"},
		{Key: "Enter", Description: "Answer"},
		{Key: "A", Description: "Reference"},
		{Key: "S", Description: "Read aloud"},
		{Key: "M", Description: "More"},
		{Key: "E", Description: "End"},
		{Key: "Esc", Description: "Quit"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case questionsLoadedMsg:
		return s.handleLoaded(msg)

	case moreLoadedMsg:
		s.busy = ""
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
			return s, nil
		}
		s.questions = s.deps.Session.Questions()
		s.notice = fmt.Sprintf("Added %d questions.", msg.Added)
		return s, nil

	case recordingStartedMsg:
		s.busy = ""
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
			return s, nil
		}
		s.live = ""
		if s.deps.Typed != nil {
			s.answer.Reset()
			return s, s.answer.Focus()
		}
		return s, pollTranscript()

	case answerScoredMsg:
		return s.handleScored(msg)

	case referenceMsg:
		s.busy = ""
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
			return s, nil
		}
		s.showRef[msg.Question] = true
		return s, nil

	case spokenMsg:
		s.speaking = false
		if msg.Err != nil {
			s.errMsg = describe(msg.Err)
		}
		return s, nil

	case transcriptTickMsg:
		if !s.recording() || s.deps.Typed != nil {
			return s, nil
		}
		s.live = s.deps.Session.Transcript()
		return s, pollTranscript()

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spin, cmd = s.spin.Update(msg)
		return s, cmd

	case tea.KeyMsg:
		return s.handleKey(msg)
	}

	if s.recording() && s.deps.Typed != nil {
		return s.updateAnswer(msg)
	}
	return s, nil
}

func (s *PracticeScreen) handleLoaded(msg questionsLoadedMsg) (screen.Screen, tea.Cmd) {
	s.loading = false
	if msg.Err != nil {
		s.errMsg = describe(msg.Err)
		return s, nil
	}
	s.errMsg = ""
	s.questions = s.deps.Session.Questions()
	s.selected = 0
	return s, nil
}

func (s *PracticeScreen) handleScored(msg answerScoredMsg) (screen.Screen, tea.Cmd) {
	s.busy = ""
	s.answer.Blur()
	if msg.Err != nil {
		s.errMsg = describe(msg.Err)
		return s, nil
	}
	a := msg.Attempt
	s.attempts[a.Question] = a
	s.notice = fmt.Sprintf("Scored %d%%: %s", a.Score.Percent, a.Score.Remark)
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.confirmQuit {
		switch key {
		case "y", "Y":
			s.deps.Session.Reset()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "n", "N", "esc":
			s.confirmQuit = false
		}
		return s, nil
	}

	if key == "esc" {
		if len(s.questions) == 0 && !s.loading {
			s.deps.Session.Reset()
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		s.confirmQuit = true
		return s, nil
	}

	if s.loading || s.busy != "" {
		return s, nil
	}

	if s.recording() {
		if key == "enter" || (s.deps.Typed == nil && key == "space") {
			return s, s.stopRecording()
		}
		if s.deps.Typed != nil {
			return s.updateAnswer(msg)
		}
		return s, nil
	}

	if len(s.questions) == 0 {
		if key == "r" {
			s.loading = true
			s.errMsg = ""
			return s, tea.Batch(s.spin.Tick, s.loadQuestions())
		}
		return s, nil
	}

	s.errMsg = ""
	s.notice = ""
	switch key {
	case "up", "k":
		if s.selected > 0 {
			s.selected--
		}
	case "down", "j":
		if s.selected < len(s.questions)-1 {
			s.selected++
		}
	case "enter", "r", "space":
		s.busy = "Starting recording"
		return s, tea.Batch(s.spin.Tick, s.startRecording())
	case "a":
		q := s.current()
		if _, ok := q.AIAnswer(); ok {
			s.showRef[q] = !s.showRef[q]
			return s, nil
		}
		s.busy = "Fetching a reference answer"
		return s, tea.Batch(s.spin.Tick, s.fetchReference(q))
	case "s":
		if s.speaking {
			return s, nil
		}
		s.speaking = true
		return s, s.speak(s.current().Text)
	case "m":
		s.busy = "Loading more questions"
		return s, tea.Batch(s.spin.Tick, s.loadMore())
	case "e":
		return s.endInterview()
	}
	return s, nil
}

func (s *PracticeScreen) updateAnswer(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.answer, cmd = s.answer.Update(msg)
	if err := s.deps.Typed.Write(s.answer.Value()); err != nil && !errors.Is(err, speech.ErrNotRecording) {
		s.deps.Logger().Warn("typed capture write failed", zap.Error(err))
	}
	return s, cmd
}

func (s *PracticeScreen) endInterview() (screen.Screen, tea.Cmd) {
	rep, err := s.deps.Session.EndInterview()
	if err != nil {
		if errors.Is(err, interview.ErrInvalidTransition) && s.deps.Session.AnswerCount() == 0 {
			s.errMsg = "Answer at least one question before ending the interview."
			return s, nil
		}
		s.errMsg = describe(err)
		return s, nil
	}
	next := report.New(s.deps, rep)
	return s, func() tea.Msg { return router.ReplaceScreenMsg{Screen: next} }
}

func (s *PracticeScreen) current() *interview.Question {
	if s.selected < 0 || s.selected >= len(s.questions) {
		return nil
	}
	return s.questions[s.selected]
}

func (s *PracticeScreen) recording() bool {
	return s.deps.Session.State() == interview.StateRecording
}

func (s *PracticeScreen) loadQuestions() tea.Cmd {
	sess, role, diff, jd := s.deps.Session, s.role, s.difficulty, s.deps.JobDescription
	return func() tea.Msg {
		err := sess.LoadQuestions(context.Background(), role, diff, interview.WithJobDescription(jd))
		return questionsLoadedMsg{Err: err}
	}
}

func (s *PracticeScreen) loadMore() tea.Cmd {
	sess := s.deps.Session
	return func() tea.Msg {
		n, err := sess.LoadMore(context.Background())
		return moreLoadedMsg{Added: n, Err: err}
	}
}

func (s *PracticeScreen) startRecording() tea.Cmd {
	sess := s.deps.Session
	return func() tea.Msg {
		return recordingStartedMsg{Err: sess.StartRecording(context.Background())}
	}
}

func (s *PracticeScreen) stopRecording() tea.Cmd {
	sess, q := s.deps.Session, s.current()
	s.busy = "Scoring"
	return tea.Batch(s.spin.Tick, func() tea.Msg {
		a, err := sess.StopRecording(q)
		return answerScoredMsg{Attempt: a, Err: err}
	})
}

func (s *PracticeScreen) fetchReference(q *interview.Question) tea.Cmd {
	sess := s.deps.Session
	return func() tea.Msg {
		a, err := sess.RequestReferenceAnswer(context.Background(), q)
		return referenceMsg{Question: q, Answer: a, Err: err}
	}
}

func (s *PracticeScreen) speak(text string) tea.Cmd {
	sp := s.deps.Speaker
	return func() tea.Msg {
		if sp == nil {
			return spokenMsg{}
		}
		return spokenMsg{Err: sp.Speak(context.Background(), text)}
	}
}

func pollTranscript() tea.Cmd {
	return tea.Tick(transcriptPoll, func(t time.Time) tea.Msg {
		return transcriptTickMsg(t)
	})
}

// describe turns engine errors into short actionable messages.
func describe(err error) string {
	switch {
	case errors.Is(err, interview.ErrPermissionDenied):
		return "Microphone access was denied. Check your recorder command and permissions, or switch to typed answers."
	case errors.Is(err, interview.ErrCaptureUnavailable):
		return "No microphone capture is available. Set speech.mode to typed or install the recorder."
	case errors.Is(err, interview.ErrEmptyRubric):
		return "This question has no expected points to score against. Pick another one."
	case errors.Is(err, interview.ErrProvider):
		return "Question service failed: " + err.Error()
	}
	return err.Error()
}
