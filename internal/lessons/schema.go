package lessons

import "github.com/abhisek/teachback/internal/llm"

func stringField(desc string) map[string]any {
	return map[string]any{"type": "string", "description": desc}
}

// LessonSchema is the structured output expected for a micro-lesson.
var LessonSchema = &llm.Schema{
	Name:        "micro-lesson",
	Description: "A short English lesson with sections, a common mistake and review exercises",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": stringField("Lesson title, 3-8 words"),
			"sections": map[string]any{
				"type":     "array",
				"minItems": 2,
				"maxItems": 4,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"heading": stringField("Section heading"),
						"body":    stringField("Explanation in 1-3 plain sentences"),
						"examples": map[string]any{
							"type":        "array",
							"items":       map[string]any{"type": "string"},
							"description": "Two or three example sentences",
						},
					},
					"required":             []any{"heading", "body", "examples"},
					"additionalProperties": false,
				},
			},
			"common_mistake": stringField("The mistake learners at this level make most often, with the fix"),
			"exercises": map[string]any{
				"type":     "array",
				"minItems": 1,
				"maxItems": 3,
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"question": stringField("Multiple-choice question"),
						"options": map[string]any{
							"type":     "array",
							"items":    map[string]any{"type": "string"},
							"minItems": 2,
							"maxItems": 4,
						},
						"answer":      stringField("The correct option, copied exactly"),
						"explanation": stringField("One sentence on why the answer is right"),
					},
					"required":             []any{"question", "options", "answer", "explanation"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"title", "sections", "common_mistake", "exercises"},
		"additionalProperties": false,
	},
}

type lessonOutput struct {
	Title    string `json:"title"`
	Sections []struct {
		Heading  string   `json:"heading"`
		Body     string   `json:"body"`
		Examples []string `json:"examples"`
	} `json:"sections"`
	CommonMistake string `json:"common_mistake"`
	Exercises     []struct {
		Question    string   `json:"question"`
		Options     []string `json:"options"`
		Answer      string   `json:"answer"`
		Explanation string   `json:"explanation"`
	} `json:"exercises"`
}
