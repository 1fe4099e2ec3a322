package screen

import (
	"go.uber.org/zap"

	"github.com/abhisek/rehearse/internal/coach"
	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/speech"
	"github.com/abhisek/rehearse/internal/store"
)

// Deps carries the services shared by the practice screens.
type Deps struct {
	Session *interview.Session

	// Typed is the keyboard capture the session records from. It is nil
	// when answers come from the microphone.
	Typed   *speech.Typed
	Speaker speech.Speaker

	// Coach is nil when no LLM is configured.
	Coach     *coach.Service
	Bookmarks store.BookmarkRepo
	Log       *zap.Logger

	// Defaults for the setup screen.
	Role           string
	Difficulty     interview.Difficulty
	JobDescription string
	Topics         []string

	// ExportDir receives plain-text reports.
	ExportDir string

	// Shown on the home screen.
	SourceLabel  string
	CaptureLabel string
}

// Logger returns d.Log or a no-op logger.
func (d *Deps) Logger() *zap.Logger {
	if d == nil || d.Log == nil {
		return zap.NewNop()
	}
	return d.Log
}
