package diagnostics

import "github.com/linguakit/linguakit/internal/llm"

// GrammarSchema defines the JSON schema for grammar analysis responses.
var GrammarSchema = &llm.Schema{
	Name:        "grammar-analysis",
	Description: "Grammar corrections and a 0-100 accuracy score for a learner production",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correctedText": map[string]any{
				"type":        "string",
				"description": "The production with all grammar errors corrected, otherwise verbatim",
			},
			"errors": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"type": map[string]any{
							"type":        "string",
							"description": "Specific error label, snake_case, e.g. verb_conjugation_present",
						},
						"category": map[string]any{
							"type":        "string",
							"description": "Broader phenomenon the error belongs to, snake_case",
						},
						"original":    map[string]any{"type": "string"},
						"correction":  map[string]any{"type": "string"},
						"explanation": map[string]any{"type": "string"},
						"confidence": map[string]any{
							"type":    "number",
							"minimum": 0.0,
							"maximum": 1.0,
						},
						"feedbackType": map[string]any{
							"type":        "string",
							"enum":        []any{"error", "suggestion"},
							"description": "suggestion for stylistic advice that should not be graded",
						},
					},
					"required":             []any{"type", "category", "original", "correction", "explanation", "confidence", "feedbackType"},
					"additionalProperties": false,
				},
			},
			"grammarScore": map[string]any{
				"type":    "number",
				"minimum": 0.0,
				"maximum": 100.0,
			},
		},
		"required":             []any{"correctedText", "errors", "grammarScore"},
		"additionalProperties": false,
	},
}

// SemanticSchema defines the JSON schema for meaning comparison responses.
var SemanticSchema = &llm.Schema{
	Name:        "semantic-comparison",
	Description: "Similarity between the learner's meaning and the expected meaning",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"similarity": map[string]any{
				"type":    "number",
				"minimum": 0.0,
				"maximum": 1.0,
			},
			"reasoning": map[string]any{
				"type":        "string",
				"description": "One sentence on what matches or diverges",
			},
		},
		"required":             []any{"similarity", "reasoning"},
		"additionalProperties": false,
	},
}

// RelevanceSchema defines the JSON schema for topic relevance responses.
var RelevanceSchema = &llm.Schema{
	Name:        "topic-relevance",
	Description: "Whether a conversation response addresses the given topic",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"relevance_score": map[string]any{
				"type":    "number",
				"minimum": 0.0,
				"maximum": 1.0,
			},
			"interpretation": map[string]any{
				"type": "string",
				"enum": []any{"on_topic", "partially_relevant", "off_topic"},
			},
			"topic_analysis": map[string]any{
				"type":        "string",
				"description": "Brief note on how the response relates to the topic",
			},
		},
		"required":             []any{"relevance_score", "interpretation", "topic_analysis"},
		"additionalProperties": false,
	},
}
