package practice

import (
	"time"

	"github.com/abhisek/rehearse/internal/interview"
)

// questionsLoadedMsg is sent when the first question set has been loaded.
type questionsLoadedMsg struct {
	Err error
}

// moreLoadedMsg is sent when an extra batch of questions arrives.
type moreLoadedMsg struct {
	Added int
	Err   error
}

// recordingStartedMsg is sent once the capture is live.
type recordingStartedMsg struct {
	Err error
}

// answerScoredMsg carries the result of stopping a recording.
type answerScoredMsg struct {
	Attempt interview.AnswerAttempt
	Err     error
}

// referenceMsg carries a reference answer for a question.
type referenceMsg struct {
	Question *interview.Question
	Answer   string
	Err      error
}

// spokenMsg is sent when text-to-speech playback ends.
type spokenMsg struct {
	Err error
}

// transcriptTickMsg polls the live transcript while recording.
type transcriptTickMsg time.Time
