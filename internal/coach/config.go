package coach

// Config holds review generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// MaxAnswerChars caps each answer transcript in the prompt.
	MaxAnswerChars int
}

// DefaultConfig returns sensible defaults for review generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:      600,
		Temperature:    0.2,
		MaxAnswerChars: 1200,
	}
}
