// Package speech provides the transcript captures and the question reader
// used by a practice session.
//
// Typed is keyboard dictation, Whisper records from a microphone command and
// transcribes through the OpenAI audio API, and Scripted replays canned
// answers. All of them implement interview.Capture.
package speech

import "context"

// Speaker reads text aloud.
type Speaker interface {
	Speak(ctx context.Context, text string) error
}

// NopSpeaker is a Speaker that does nothing.
type NopSpeaker struct{}

func (NopSpeaker) Speak(context.Context, string) error { return nil }
