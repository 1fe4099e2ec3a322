package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testBank = `
topics:
  - name: Go Developer
    questions:
      - question: What is a goroutine?
        expected_points: [lightweight thread, managed by runtime]
      - question: When would you use a buffered channel?
        expected_points: [decouple sender and receiver]
`

// isolate points config, data and state at a temp dir and hides real
// provider keys.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	for _, k := range []string{"ANTHROPIC_API_KEY", "OPENAI_API_KEY", "GEMINI_API_KEY", "OPENROUTER_API_KEY", "REHEARSE_LLM_PROVIDER", "REHEARSE_DB"} {
		t.Setenv(k, "")
	}
	return dir
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetArgs(nil)
	})
	err := rootCmd.Execute()
	return out.String(), err
}

func TestScoreCommand(t *testing.T) {
	isolate(t)
	out, err := execute(t, "",
		"score", "-p", "dependency injection", "-p", "unit tests",
		"I use dependency injection so unit tests stay simple")
	require.NoError(t, err)
	assert.Contains(t, out, "Score:  100%")
	assert.Contains(t, out, "★★★★★")
	assert.Contains(t, out, "Remark: outstanding")
}

func TestQuestionsAnswerFromStdin(t *testing.T) {
	dir := isolate(t)
	bank := filepath.Join(dir, "bank.yaml")
	require.NoError(t, os.WriteFile(bank, []byte(testBank), 0o644))
	cfg := "db: " + filepath.Join(dir, "test.db") + "\ninterview:\n  bank_file: " + bank + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "rehearse.yaml"), []byte(cfg), 0o644))

	out, err := execute(t, "a goroutine is a lightweight thread managed by runtime scheduling\n",
		"questions", "--answer", "Go Developer")
	require.NoError(t, err)

	assert.Contains(t, out, "Q1. What is a goroutine?")
	assert.Contains(t, out, "100%")
	assert.Contains(t, out, "INTERVIEW PERFORMANCE REPORT")
	assert.NotContains(t, out, "Q2. When would you use a buffered channel?\n   ")
}

func TestBuildSourcesNeedsProviderOrBank(t *testing.T) {
	isolate(t)
	cfg, err := loadConfig(rootCmd)
	require.NoError(t, err)

	_, err = buildSources(t.Context(), cfg, nil, zap.NewNop())
	assert.ErrorIs(t, err, errNoSource)
}
