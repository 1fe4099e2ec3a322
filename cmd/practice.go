package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/rehearse/internal/app"
	"github.com/abhisek/rehearse/internal/config"
	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/screen"
)

var practiceCmd = &cobra.Command{
	Use:   "practice",
	Short: "Start an interactive interview (default command)",
	RunE:  runPractice,
}

func init() {
	addPracticeFlags(practiceCmd)
}

func addPracticeFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("role", "r", "", "Role or topic to prefill (default from interview.role)")
	f.StringP("difficulty", "d", "", "beginner, intermediate or advanced")
	f.String("job-description", "", "File with a job description to tailor the questions")
}

// applyPracticeFlags copies the interview flags over the loaded config.
func applyPracticeFlags(cmd *cobra.Command, cfg *config.Config) error {
	if role, _ := cmd.Flags().GetString("role"); role != "" {
		cfg.Interview.Role = role
	}
	if d, _ := cmd.Flags().GetString("difficulty"); d != "" {
		if _, err := interview.ParseDifficulty(d); err != nil {
			return fmt.Errorf("--difficulty: %w", err)
		}
		cfg.Interview.Difficulty = d
	}
	if jd, _ := cmd.Flags().GetString("job-description"); jd != "" {
		cfg.Interview.JobDescriptionFile = jd
	}
	return nil
}

// runPractice opens the store, wires the interview engine and launches the
// TUI.
func runPractice(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if err := applyPracticeFlags(cmd, cfg); err != nil {
		return err
	}

	log, err := newLogger(cfg, true)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer log.Sync()

	st, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer st.Close()

	src, err := buildSources(ctx, cfg, st.EventRepo(), log)
	if err != nil {
		return err
	}
	capture, typed, captureLabel, err := buildCapture(cfg, log)
	if err != nil {
		return err
	}
	jd, err := cfg.JobDescription()
	if err != nil {
		return err
	}
	exportDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("resolve export directory: %w", err)
	}

	sess := interview.NewSession(src.Source, capture,
		interview.WithLogger(log),
		interview.WithQuestionCount(cfg.Interview.QuestionsPerSet),
	)
	log.Info("starting practice",
		zap.String("source", src.Label),
		zap.String("capture", captureLabel),
		zap.String("difficulty", cfg.Interview.Difficulty),
	)

	return app.Run(&screen.Deps{
		Session:        sess,
		Typed:          typed,
		Speaker:        buildSpeaker(cfg, log),
		Coach:          buildCoach(src.Provider),
		Bookmarks:      st.BookmarkRepo(),
		Log:            log,
		Role:           cfg.Interview.Role,
		Difficulty:     cfg.Difficulty(),
		JobDescription: jd,
		Topics:         src.Topics,
		ExportDir:      exportDir,
		SourceLabel:    src.Label,
		CaptureLabel:   captureLabel,
	})
}
