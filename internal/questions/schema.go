package questions

import "github.com/abhisek/rehearse/internal/llm"

// QuestionSetSchema defines the JSON the model returns for a batch of
// interview questions.
var QuestionSetSchema = &llm.Schema{
	Name:        "interview-question-set",
	Description: "A batch of interview questions with scoring rubrics and preparation tips",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"topic": map[string]any{
							"type":        "string",
							"description": "Short topic label, e.g. \"Concurrency\" or \"System Design\"",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question as the interviewer would ask it",
						},
						"difficulty": map[string]any{
							"type":        "string",
							"enum":        []any{"beginner", "intermediate", "advanced"},
							"description": "Difficulty of this question",
						},
						"expected_answer_points": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "3 to 6 short key points a strong answer mentions, a few words each",
						},
						"follow_ups": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Up to 2 follow-up questions an interviewer might ask next",
						},
					},
					"required":             []any{"topic", "question", "difficulty", "expected_answer_points", "follow_ups"},
					"additionalProperties": false,
				},
			},
			"preparation_tips": map[string]any{
				"type":        "array",
				"items":       map[string]any{"type": "string"},
				"description": "3 to 5 short tips for preparing for this interview",
			},
		},
		"required":             []any{"questions", "preparation_tips"},
		"additionalProperties": false,
	},
}

// ReferenceAnswerSchema defines the JSON for a model answer to one question.
var ReferenceAnswerSchema = &llm.Schema{
	Name:        "reference-answer",
	Description: "A concise model answer to an interview question",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"answer": map[string]any{
				"type":        "string",
				"description": "A spoken-style answer of 80 to 200 words covering the key points",
			},
		},
		"required":             []any{"answer"},
		"additionalProperties": false,
	},
}
