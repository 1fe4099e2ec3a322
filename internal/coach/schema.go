package coach

import "github.com/abhisek/rehearse/internal/llm"

// ReviewSchema defines the JSON the model returns for a session review.
var ReviewSchema = &llm.Schema{
	Name:        "interview-review",
	Description: "Coaching feedback on a finished practice interview",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"strengths": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2 to 4 things the candidate did well",
			},
			"improvements": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "2 to 4 concrete things to improve",
			},
			"overall_feedback": map[string]any{
				"type":        "string",
				"description": "2-3 sentence professional summary",
			},
		},
		"required":             []any{"strengths", "improvements", "overall_feedback"},
		"additionalProperties": false,
	},
}
