package lessons

import (
	"fmt"
	"strings"

	"github.com/abhisek/teachback/internal/catalog"
)

const lessonSystemPrompt = `You are an experienced English teacher writing micro-lessons for adult learners. After reading the lesson the learner must explain the topic back in their own words, so focus on the rules and distinctions they need to be able to state. Use plain ASCII text. No markdown.`

func buildLessonPrompt(t catalog.Topic, points []catalog.KeyPoint, previous *catalog.Lesson) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Topic: %s\n", t.Title)
	fmt.Fprintf(&b, "Category: %s\n", catalog.CategoryDisplayName(t.Category))
	fmt.Fprintf(&b, "CEFR level: %s\n", t.Level)
	if len(t.Tags) > 0 {
		fmt.Fprintf(&b, "Tags: %s\n", strings.Join(t.Tags, ", "))
	}
	fmt.Fprintf(&b, "Reading time: about %d minutes\n", t.EstimatedMins)

	if len(points) > 0 {
		b.WriteString("\nThe lesson must cover:\n")
		for _, p := range points {
			fmt.Fprintf(&b, "- %s\n", p.Text)
		}
	}

	if previous != nil {
		fmt.Fprintf(&b, "\nThe learner already read a lesson titled %q and asked for a different version. Use new examples and a different angle on the same rules.\n", previous.Title)
	}

	b.WriteString(`
Instructions:
1. Write 2-4 short sections. Each has a heading, a body of 1-3 sentences and 2-3 example sentences.
2. Pitch vocabulary at the stated level.
3. Name the single most common mistake and show the corrected form.
4. Write 1-3 multiple-choice review exercises. The answer must be one of the options, copied exactly.`)

	return b.String()
}
