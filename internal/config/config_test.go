package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/rehearse/internal/interview"
	"github.com/abhisek/rehearse/internal/llm"
)

// isolate runs the test in an empty directory with no provider keys set.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "xdg"))
	for _, k := range []string{"GEMINI_API_KEY", "OPENAI_API_KEY", "ANTHROPIC_API_KEY", "OPENROUTER_API_KEY", "REHEARSE_LLM_PROVIDER", "REHEARSE_DB"} {
		t.Setenv(k, "")
	}
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)

	assert.Equal(t, "Software Engineer", cfg.Interview.Role)
	assert.Equal(t, interview.Intermediate, cfg.Difficulty())
	assert.Equal(t, 10, cfg.Interview.QuestionsPerSet)
	assert.Equal(t, ModeTyped, cfg.Speech.Mode)
	assert.Equal(t, 60*time.Second, cfg.LLM.Timeout)
	assert.Equal(t, 3, cfg.LLM.Retry.MaxAttempts)
	assert.Equal(t, "gpt-4o-mini", cfg.LLM.OpenAI.Model)
	assert.Equal(t, "", cfg.LLM.Provider)
	assert.False(t, cfg.HasLLM())
	assert.Equal(t, []string{"mpg123", "-q", "-"}, cfg.Speech.TTS.PlayerCommand)
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	writeFile(t, path, `
interview:
  role: Data Engineer
  difficulty: advanced
  questions_per_set: 5
llm:
  provider: gemini
  timeout: 15s
  gemini:
    api_key: from-file
speech:
  mode: whisper
  recorder_command: [sox, -d, -t, raw, "-"]
  interval: 2s
`)
	t.Setenv("REHEARSE_INTERVIEW_ROLE", "Site Reliability Engineer")

	cfg, err := Load(LoadOptions{File: path})
	require.NoError(t, err)

	assert.Equal(t, "Site Reliability Engineer", cfg.Interview.Role, "env beats file")
	assert.Equal(t, interview.Advanced, cfg.Difficulty())
	assert.Equal(t, 5, cfg.Interview.QuestionsPerSet)
	assert.Equal(t, llm.ProviderGemini, cfg.LLM.Provider)
	assert.Equal(t, "from-file", cfg.LLM.Gemini.APIKey)
	assert.Equal(t, 15*time.Second, cfg.LLM.Timeout)
	assert.True(t, cfg.HasLLM())

	w := cfg.WhisperCapture()
	assert.Equal(t, []string{"sox", "-d", "-t", "raw", "-"}, w.RecorderCommand)
	assert.Equal(t, 2*time.Second, w.Interval)
}

func TestLoad_SearchesWorkingDirectory(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "rehearse.yaml"), "interview:\n  role: QA Engineer\n")

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "QA Engineer", cfg.Interview.Role)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(LoadOptions{File: filepath.Join(dir, "nope.yaml")})
	assert.Error(t, err)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := isolate(t)
	const key = "REHEARSE_INTERVIEW_BANK_FILE"
	t.Setenv(key, "")
	os.Unsetenv(key)

	envFile := filepath.Join(dir, "test.env")
	writeFile(t, envFile, key+"=/tmp/bank.yaml\nOPENAI_API_KEY=sk-dotenv\n")
	// Already set variables win over the .env file.
	t.Setenv("OPENAI_API_KEY", "sk-real")

	cfg, err := Load(LoadOptions{EnvFile: envFile})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/bank.yaml", cfg.Interview.BankFile)
	assert.Equal(t, llm.ProviderOpenAI, cfg.LLM.Provider, "discovered from OPENAI_API_KEY")
	assert.Equal(t, "sk-real", cfg.LLM.OpenAI.APIKey)
	assert.Equal(t, "sk-real", cfg.Speech.APIKey, "speech falls back to the OpenAI key")
}

func TestLoad_SecretFiles(t *testing.T) {
	dir := isolate(t)
	keyFile := filepath.Join(dir, "speech.key")
	writeFile(t, keyFile, "  sk-from-secret-file \n")
	t.Setenv("REHEARSE_SPEECH_API_KEY_FILE", keyFile)

	cfg, err := Load(LoadOptions{})
	require.NoError(t, err)
	assert.Equal(t, "sk-from-secret-file", cfg.Speech.APIKey)
	assert.Equal(t, "sk-from-secret-file", cfg.OpenAIAudio().APIKey)

	t.Setenv("REHEARSE_SPEECH_API_KEY_FILE", filepath.Join(dir, "missing.key"))
	_, err = Load(LoadOptions{})
	assert.Error(t, err)
}

func TestLoad_Flags(t *testing.T) {
	isolate(t)
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("db", "", "")
	flags.Bool("debug", false, "")
	flags.Bool("json", false, "")
	require.NoError(t, flags.Parse([]string{"--db", "/tmp/x.db", "--debug"}))

	cfg, err := Load(LoadOptions{Flags: flags})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/x.db", cfg.DB)
	assert.True(t, cfg.Log.Debug)
	assert.False(t, cfg.Log.JSON)
}

func TestValidate(t *testing.T) {
	isolate(t)
	base, err := Load(LoadOptions{})
	require.NoError(t, err)

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"bad difficulty", func(c *Config) { c.Interview.Difficulty = "expert" }},
		{"zero questions", func(c *Config) { c.Interview.QuestionsPerSet = 0 }},
		{"too many questions", func(c *Config) { c.Interview.QuestionsPerSet = 51 }},
		{"bad mode", func(c *Config) { c.Speech.Mode = "telepathy" }},
		{"whisper without recorder", func(c *Config) { c.Speech.Mode = ModeWhisper; c.Speech.RecorderCommand = nil }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := *base
			tt.mutate(&c)
			assert.Error(t, c.Validate())
		})
	}
	assert.NoError(t, base.Validate())
}

func TestJobDescription(t *testing.T) {
	dir := isolate(t)
	cfg := &Config{}
	jd, err := cfg.JobDescription()
	require.NoError(t, err)
	assert.Empty(t, jd)

	path := filepath.Join(dir, "jd.txt")
	writeFile(t, path, "\nBuild payment APIs in Go.\n")
	cfg.Interview.JobDescriptionFile = path
	jd, err = cfg.JobDescription()
	require.NoError(t, err)
	assert.Equal(t, "Build payment APIs in Go.", jd)
}

func TestLoadSecret(t *testing.T) {
	got, err := LoadSecret(SecretSource{Name: "token", Value: "  inline "})
	require.NoError(t, err)
	assert.Equal(t, "inline", got)

	_, err = LoadSecret(SecretSource{Name: "token"})
	assert.EqualError(t, err, "token is not configured")

	empty := filepath.Join(t.TempDir(), "empty")
	writeFile(t, empty, "  \n")
	_, err = LoadSecret(SecretSource{Name: "token", Value: "ignored", File: empty})
	assert.Error(t, err)
}
