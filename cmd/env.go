package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/rehearse/internal/coach"
	"github.com/abhisek/rehearse/internal/config"
	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/llm"
	"github.com/abhisek/rehearse/internal/logger"
	"github.com/abhisek/rehearse/internal/questions"
	"github.com/abhisek/rehearse/internal/speech"
	"github.com/abhisek/rehearse/internal/store"
)

// loadConfig reads the configuration, honoring --config and the flags
// bound into it.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	return config.Load(config.LoadOptions{File: file, Flags: cmd.Flags()})
}

// newLogger builds the process logger. The TUI owns the terminal, so it
// logs to a file; other commands log to stderr.
func newLogger(cfg *config.Config, tui bool) (*zap.Logger, error) {
	opts := logger.Options{JSON: cfg.Log.JSON, Debug: cfg.Log.Debug, File: cfg.Log.File}
	if tui && opts.File == "" {
		p, err := logger.DefaultLogPath()
		if err != nil {
			return nil, err
		}
		opts.File = p
	}
	return logger.New(opts)
}

// openStore opens the database at cfg.DB, or the default path.
func openStore(cfg *config.Config) (*store.Store, error) {
	path := cfg.DB
	if path != "" {
		if err := store.EnsureDir(path); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	} else {
		var err error
		if path, err = store.DefaultDBPath(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	return store.Open(path)
}

// sources is the wired question pipeline.
type sources struct {
	Source   interview.QuestionSource
	Provider llm.Provider
	Label    string
	Topics   []string
}

var errNoSource = errors.New("no question source: configure an LLM provider API key or set interview.bank_file")

// buildSources wires the LLM source, the offline bank, or both behind a
// fallback. repo may be nil.
func buildSources(ctx context.Context, cfg *config.Config, repo store.EventRepo, log *zap.Logger) (*sources, error) {
	var bank *questions.BankSource
	if cfg.Interview.BankFile != "" {
		b, err := questions.LoadBank(cfg.Interview.BankFile)
		if err != nil {
			return nil, err
		}
		bank = b
	}

	if !cfg.HasLLM() {
		if bank == nil {
			return nil, errNoSource
		}
		log.Info("no LLM provider configured, using question bank only")
		return &sources{Source: bank, Label: "question bank", Topics: bank.Topics()}, nil
	}

	provider, err := llm.NewProvider(ctx, cfg.LLM, repo, log)
	if err != nil {
		return nil, err
	}
	src := &sources{Provider: provider}
	primary := questions.NewLLMSource(provider, questions.DefaultConfig(), log)
	if bank == nil {
		src.Source = primary
		src.Label = cfg.LLM.Provider + " (" + provider.ModelID() + ")"
		return src, nil
	}

	fb := questions.NewFallback(cfg.LLM.Provider, primary, log)
	fb.Add("bank", bank)
	src.Source = fb
	src.Label = strings.Join(fb.Names(), " → ")
	src.Topics = bank.Topics()
	return src, nil
}

// buildCapture returns the configured answer capture. The *speech.Typed is
// non-nil in typed mode so the TUI can feed it.
func buildCapture(cfg *config.Config, log *zap.Logger) (interview.Capture, *speech.Typed, string, error) {
	if cfg.Speech.Mode == config.ModeTyped {
		t := speech.NewTyped()
		return t, t, "typed", nil
	}
	tr, err := speech.NewOpenAITranscriber(cfg.OpenAIAudio())
	if err != nil {
		return nil, nil, "", fmt.Errorf("speech: %w", err)
	}
	return speech.NewWhisper(tr, cfg.WhisperCapture(), log), nil, "microphone (" + cfg.Speech.WhisperModel + ")", nil
}

// buildSpeaker returns the question reader, or a no-op when TTS is off.
func buildSpeaker(cfg *config.Config, log *zap.Logger) speech.Speaker {
	if !cfg.Speech.TTS.Enabled {
		return speech.NopSpeaker{}
	}
	sp, err := speech.NewOpenAISpeaker(cfg.OpenAIAudio())
	if err != nil {
		log.Warn("text to speech disabled", zap.Error(err))
		return speech.NopSpeaker{}
	}
	return sp
}

// buildCoach returns the review service, or nil without a provider.
func buildCoach(p llm.Provider) *coach.Service {
	if p == nil {
		return nil
	}
	return coach.NewService(p, coach.DefaultConfig())
}

func openDB(cmd *cobra.Command) (*store.Store, *config.Config, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, nil, err
	}
	s, err := openStore(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	return s, cfg, nil
}
