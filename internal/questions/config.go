package questions

// Config controls the behavior of the LLMSource.
type Config struct {
	// Validators run in order on every generated question. A question that
	// fails any of them is dropped from the set.
	Validators []Validator

	// MaxTokens is the token budget for a question set response.
	MaxTokens int

	// AnswerMaxTokens is the token budget for a reference answer.
	AnswerMaxTokens int

	// Temperature controls output randomness (0.0-1.0).
	Temperature float64

	// MaxExclude caps how many already-held questions go into the prompt.
	MaxExclude int

	// MaxJobDescription caps the job description length in bytes.
	MaxJobDescription int
}

// DefaultConfig returns a Config with the standard validator chain.
func DefaultConfig() Config {
	return Config{
		Validators: []Validator{
			&StructuralValidator{},
			&RubricValidator{},
		},
		MaxTokens:         3000,
		AnswerMaxTokens:   600,
		Temperature:       0.4,
		MaxExclude:        30,
		MaxJobDescription: 4000,
	}
}
