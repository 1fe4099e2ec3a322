package speech

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIConfig holds credentials and models for the OpenAI audio API.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string

	// WhisperModel is the transcription model, "whisper-1" by default.
	WhisperModel string
	// Language is an optional ISO-639-1 hint, e.g. "en".
	Language string

	TTSModel string
	Voice    string
	// PlayerCommand reads MP3 audio on stdin and plays it.
	PlayerCommand []string
}

// DefaultPlayerCommand plays MP3 from stdin with mpg123.
var DefaultPlayerCommand = []string{"mpg123", "-q", "-"}

func newAudioClient(cfg OpenAIConfig) (*openai.Client, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("speech API key is required")
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return openai.NewClientWithConfig(clientCfg), nil
}

// OpenAITranscriber implements Transcriber with the Whisper API.
type OpenAITranscriber struct {
	client   *openai.Client
	model    string
	language string
}

// NewOpenAITranscriber creates a transcriber.
func NewOpenAITranscriber(cfg OpenAIConfig) (*OpenAITranscriber, error) {
	client, err := newAudioClient(cfg)
	if err != nil {
		return nil, err
	}
	model := cfg.WhisperModel
	if model == "" {
		model = openai.Whisper1
	}
	return &OpenAITranscriber{client: client, model: model, language: cfg.Language}, nil
}

func (t *OpenAITranscriber) Transcribe(ctx context.Context, wav []byte) (string, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: "answer.wav",
		Reader:   bytes.NewReader(wav),
		Language: t.language,
		Format:   openai.AudioResponseFormatJSON,
	})
	if err != nil {
		return "", fmt.Errorf("transcribe: %w", err)
	}
	return strings.TrimSpace(resp.Text), nil
}

// OpenAISpeaker synthesizes speech with the OpenAI TTS API and pipes it to
// a local player.
type OpenAISpeaker struct {
	client *openai.Client
	model  openai.SpeechModel
	voice  openai.SpeechVoice
	player []string
}

var _ Speaker = (*OpenAISpeaker)(nil)

// NewOpenAISpeaker creates a speaker. The player must be on PATH.
func NewOpenAISpeaker(cfg OpenAIConfig) (*OpenAISpeaker, error) {
	client, err := newAudioClient(cfg)
	if err != nil {
		return nil, err
	}
	s := &OpenAISpeaker{
		client: client,
		model:  openai.TTSModel1,
		voice:  openai.VoiceAlloy,
		player: DefaultPlayerCommand,
	}
	if cfg.TTSModel != "" {
		s.model = openai.SpeechModel(cfg.TTSModel)
	}
	if cfg.Voice != "" {
		s.voice = openai.SpeechVoice(cfg.Voice)
	}
	if len(cfg.PlayerCommand) > 0 {
		s.player = cfg.PlayerCommand
	}
	if _, err := exec.LookPath(s.player[0]); err != nil {
		return nil, fmt.Errorf("audio player %q not found: %w", s.player[0], err)
	}
	return s, nil
}

// Speak blocks until playback finishes or ctx is cancelled.
func (s *OpenAISpeaker) Speak(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	audio, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          s.model,
		Input:          text,
		Voice:          s.voice,
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("synthesize speech: %w", err)
	}
	defer audio.Close()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.player[0], s.player[1:]...)
	cmd.Stdin = audio
	cmd.Stdout = io.Discard
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("play speech: %w: %s", err, strings.TrimSpace(stderr.String()))
	}
	return nil
}
