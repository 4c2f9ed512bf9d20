package qa

// Answered counts the items that were answered rather than skipped.
func Answered(items []Item) int {
	n := 0
	for _, it := range items {
		if !it.Skipped && it.Answer != "" {
			n++
		}
	}
	return n
}

// Complete reports whether the round has all its items.
func Complete(items []Item) bool {
	return len(items) >= RoundSize
}

// Skip builds the item recorded for a skipped question.
func Skip(question string) Item {
	return Item{Question: question, Answer: "", Skipped: true}
}
