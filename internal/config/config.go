// Package config loads rehearse settings from rehearse.yaml, REHEARSE_*
// environment variables, an optional .env file and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/llm"
	"github.com/abhisek/rehearse/internal/speech"
)

const (
	app       = "rehearse"
	envPrefix = "REHEARSE"
)

// Speech capture modes.
const (
	ModeTyped   = "typed"
	ModeWhisper = "whisper"
)

type Config struct {
	DB        string          `mapstructure:"db"`
	Log       LogConfig       `mapstructure:"log"`
	Interview InterviewConfig `mapstructure:"interview"`
	LLM       llm.Config      `mapstructure:"llm"`
	Speech    SpeechConfig    `mapstructure:"speech"`
}

type LogConfig struct {
	File  string `mapstructure:"file"`
	JSON  bool   `mapstructure:"json"`
	Debug bool   `mapstructure:"debug"`
}

type InterviewConfig struct {
	Role               string `mapstructure:"role"`
	Difficulty         string `mapstructure:"difficulty"`
	QuestionsPerSet    int    `mapstructure:"questions_per_set"`
	BankFile           string `mapstructure:"bank_file"`
	JobDescriptionFile string `mapstructure:"job_description_file"`
}

type SpeechConfig struct {
	Mode            string        `mapstructure:"mode"`
	Language        string        `mapstructure:"language"`
	RecorderCommand []string      `mapstructure:"recorder_command"`
	Interval        time.Duration `mapstructure:"interval"`
	WhisperModel    string        `mapstructure:"whisper_model"`
	APIKey          string        `mapstructure:"api_key"`
	APIKeyFile      string        `mapstructure:"api_key_file"`
	BaseURL         string        `mapstructure:"base_url"`
	TTS             TTSConfig     `mapstructure:"tts"`
}

type TTSConfig struct {
	Enabled       bool     `mapstructure:"enabled"`
	Model         string   `mapstructure:"model"`
	Voice         string   `mapstructure:"voice"`
	PlayerCommand []string `mapstructure:"player_command"`
}

// LoadOptions controls where configuration is read from.
type LoadOptions struct {
	// File is an explicit config file. When empty, rehearse.yaml is looked
	// up in the current directory and $XDG_CONFIG_HOME/rehearse.
	File string

	// EnvFile is loaded into the environment first if it exists. Variables
	// already set are not overridden. Defaults to ".env".
	EnvFile string

	// Flags, when set, may carry --db, --debug and --json overrides.
	Flags *pflag.FlagSet
}

// Load builds the configuration. Precedence, highest first: flags,
// environment, config file, defaults.
func Load(opts LoadOptions) (*Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.provider"); err != nil {
		return nil, err
	}

	if opts.File != "" {
		v.SetConfigFile(opts.File)
	} else {
		v.SetConfigName(app)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if dir, err := configDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if opts.File != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	if opts.Flags != nil {
		for key, flag := range map[string]string{"db": "db", "log.debug": "debug", "log.json": "json"} {
			if f := opts.Flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("bind --%s: %w", flag, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := resolveSecrets(v, &cfg); err != nil {
		return nil, err
	}

	if cfg.LLM.Provider == "" {
		cfg.LLM, _ = llm.DiscoverConfig(cfg.LLM)
	}
	if cfg.Speech.APIKey == "" {
		cfg.Speech.APIKey = cfg.LLM.OpenAI.APIKey
	}
	if cfg.Speech.APIKey == "" {
		cfg.Speech.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	l := llm.DefaultConfig()
	w := speech.DefaultWhisperConfig()

	v.SetDefault("db", "")
	v.SetDefault("log.file", "")
	v.SetDefault("log.json", false)
	v.SetDefault("log.debug", false)

	v.SetDefault("interview.role", "Software Engineer")
	v.SetDefault("interview.difficulty", string(interview.Intermediate))
	v.SetDefault("interview.questions_per_set", interview.DefaultQuestionCount)
	v.SetDefault("interview.bank_file", "")
	v.SetDefault("interview.job_description_file", "")

	v.SetDefault("llm.timeout", l.Timeout)
	v.SetDefault("llm.retry.max_attempts", l.Retry.MaxAttempts)
	v.SetDefault("llm.retry.initial_wait", l.Retry.InitialWait)
	v.SetDefault("llm.retry.max_wait", l.Retry.MaxWait)
	v.SetDefault("llm.retry.multiplier", l.Retry.Multiplier)
	for name, model := range map[string]string{
		"anthropic":  l.Anthropic.Model,
		"openai":     l.OpenAI.Model,
		"gemini":     l.Gemini.Model,
		"openrouter": l.OpenRouter.Model,
	} {
		v.SetDefault("llm."+name+".model", model)
		v.SetDefault("llm."+name+".api_key", "")
		v.SetDefault("llm."+name+".api_key_file", "")
	}
	v.SetDefault("llm.openai.base_url", "")
	v.SetDefault("llm.openrouter.base_url", "")

	v.SetDefault("speech.mode", ModeTyped)
	v.SetDefault("speech.language", "en")
	v.SetDefault("speech.recorder_command", w.RecorderCommand)
	v.SetDefault("speech.interval", w.Interval)
	v.SetDefault("speech.whisper_model", "whisper-1")
	v.SetDefault("speech.api_key", "")
	v.SetDefault("speech.api_key_file", "")
	v.SetDefault("speech.base_url", "")
	v.SetDefault("speech.tts.enabled", false)
	v.SetDefault("speech.tts.model", "tts-1")
	v.SetDefault("speech.tts.voice", "alloy")
	v.SetDefault("speech.tts.player_command", speech.DefaultPlayerCommand)
}

// resolveSecrets replaces API keys with the contents of their *_file
// counterparts when those are set.
func resolveSecrets(v *viper.Viper, cfg *Config) error {
	targets := map[string]*string{
		"llm.anthropic":  &cfg.LLM.Anthropic.APIKey,
		"llm.openai":     &cfg.LLM.OpenAI.APIKey,
		"llm.gemini":     &cfg.LLM.Gemini.APIKey,
		"llm.openrouter": &cfg.LLM.OpenRouter.APIKey,
		"speech":         &cfg.Speech.APIKey,
	}
	for section, dst := range targets {
		file := v.GetString(section + ".api_key_file")
		if strings.TrimSpace(file) == "" {
			continue
		}
		secret, err := LoadSecret(SecretSource{Name: section + ".api_key", Value: *dst, File: file})
		if err != nil {
			return err
		}
		*dst = secret
	}
	return nil
}

// Validate checks values that have a fixed set of options.
func (c *Config) Validate() error {
	if _, err := interview.ParseDifficulty(c.Interview.Difficulty); err != nil {
		return fmt.Errorf("interview.difficulty: %w", err)
	}
	if n := c.Interview.QuestionsPerSet; n < 1 || n > 50 {
		return fmt.Errorf("interview.questions_per_set must be between 1 and 50, got %d", n)
	}
	switch c.Speech.Mode {
	case ModeTyped, ModeWhisper:
	default:
		return fmt.Errorf("speech.mode must be %q or %q, got %q", ModeTyped, ModeWhisper, c.Speech.Mode)
	}
	if c.Speech.Mode == ModeWhisper && len(c.Speech.RecorderCommand) == 0 {
		return errors.New("speech.recorder_command is required in whisper mode")
	}
	return nil
}

// Difficulty returns the parsed default difficulty.
func (c *Config) Difficulty() interview.Difficulty {
	d, err := interview.ParseDifficulty(c.Interview.Difficulty)
	if err != nil {
		return interview.Intermediate
	}
	return d
}

// JobDescription reads the configured job description file, if any.
func (c *Config) JobDescription() (string, error) {
	if c.Interview.JobDescriptionFile == "" {
		return "", nil
	}
	data, err := os.ReadFile(c.Interview.JobDescriptionFile)
	if err != nil {
		return "", fmt.Errorf("read job description: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// HasLLM reports whether an LLM provider is configured with credentials.
func (c *Config) HasLLM() bool {
	return c.LLM.Provider != "" && c.LLM.HasKey()
}

// OpenAIAudio returns the speech API settings.
func (c *Config) OpenAIAudio() speech.OpenAIConfig {
	return speech.OpenAIConfig{
		APIKey:        c.Speech.APIKey,
		BaseURL:       c.Speech.BaseURL,
		WhisperModel:  c.Speech.WhisperModel,
		Language:      c.Speech.Language,
		TTSModel:      c.Speech.TTS.Model,
		Voice:         c.Speech.TTS.Voice,
		PlayerCommand: c.Speech.TTS.PlayerCommand,
	}
}

// WhisperCapture returns the microphone capture settings.
func (c *Config) WhisperCapture() speech.WhisperConfig {
	w := speech.DefaultWhisperConfig()
	if len(c.Speech.RecorderCommand) > 0 {
		w.RecorderCommand = c.Speech.RecorderCommand
	}
	if c.Speech.Interval > 0 {
		w.Interval = c.Speech.Interval
	}
	return w
}

func configDir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, app), nil
}
