package feedback

import (
	"regexp"
	"strings"

	"github.com/abhisek/teachback/internal/catalog"
)

// errorRule detects one frequent learner error in free text. A match right
// after one of the words in notAfter is correct English and is ignored.
type errorRule struct {
	re       *regexp.Regexp
	fix      func(match string) string
	why      string
	notAfter map[string]bool
}

var errorRules = []errorRule{
	{
		re:  regexp.MustCompile(`\bi\b`),
		fix: func(string) string { return "I" },
		why: "The pronoun I is always written with a capital letter.",
	},
	{
		re: regexp.MustCompile(`(?i)\bmore (better|worse|easier|faster|bigger)\b`),
		fix: func(m string) string {
			return strings.Fields(m)[1]
		},
		why: "Comparatives ending in -er do not take more.",
	},
	{
		re: regexp.MustCompile(`(?i)\bdidn't (went|saw|did|made|had|came)\b`),
		fix: func(m string) string {
			return "didn't " + baseForms[strings.ToLower(strings.Fields(m)[1])]
		},
		why: "After did or didn't use the base form of the verb.",
	},
	{
		re:  regexp.MustCompile(`(?i)\binformations\b`),
		fix: func(string) string { return "information" },
		why: "Information is uncountable and has no plural form.",
	},
	{
		re:  regexp.MustCompile(`(?i)\bexplain me\b`),
		fix: func(string) string { return "explain to me" },
		why: "Explain needs to before the person.",
	},
	{
		re: regexp.MustCompile(`(?i)\b(he|she|it) (go|have|do|make|want)\b`),
		fix: func(m string) string {
			f := strings.Fields(m)
			return f[0] + " " + thirdPerson[strings.ToLower(f[1])]
		},
		why:      "Use the -s form of the verb after he, she or it in the present simple.",
		notAfter: auxiliaries,
	},
}

// auxiliaries take the base form of the verb after the subject, as in
// "does he have" or "will she go".
var auxiliaries = wordSet(
	"do", "does", "did", "don't", "doesn't", "didn't",
	"will", "won't", "can", "can't", "could", "should", "would", "might", "must", "may",
	"to", "let", "make", "makes", "made",
)

func wordSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

// precedingWord returns the lowercased word just before offset i.
func precedingWord(text string, i int) string {
	f := strings.Fields(text[:i])
	if len(f) == 0 {
		return ""
	}
	return strings.ToLower(strings.Trim(f[len(f)-1], `.,;:!?"()`))
}

var baseForms = map[string]string{
	"went": "go", "saw": "see", "did": "do", "made": "make", "had": "have", "came": "come",
}

var thirdPerson = map[string]string{
	"go": "goes", "have": "has", "do": "does", "make": "makes", "want": "wants",
}

// detectCorrections finds known errors in text, each reported once.
func detectCorrections(text string, exemplar catalog.Exemplar) []catalog.Correction {
	var out []catalog.Correction
	seen := make(map[string]bool)

	for _, rule := range errorRules {
		for _, loc := range rule.re.FindAllStringIndex(text, -1) {
			m := text[loc[0]:loc[1]]
			if seen[m] || rule.notAfter[precedingWord(text, loc[0])] {
				continue
			}
			seen[m] = true
			out = append(out, catalog.Correction{Before: m, After: rule.fix(m), Why: rule.why})
		}
	}

	lower := strings.ToLower(text)
	for _, c := range exemplar.Corrections {
		before := strings.ToLower(strings.TrimSuffix(c.Before, "."))
		if before != "" && strings.Contains(lower, before) && !seen[c.Before] {
			seen[c.Before] = true
			out = append(out, c)
		}
	}
	return out
}

// missingPoints lists the key points none of whose keywords occur in text.
func missingPoints(text string, exemplar catalog.Exemplar) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, kp := range exemplar.KeyPoints {
		covered := false
		for _, kw := range kp.Keywords {
			if strings.Contains(lower, strings.ToLower(kw)) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, kp.Text)
		}
	}
	return out
}

// countSentences counts sentence terminators, treating unterminated
// trailing text as one more sentence.
func countSentences(text string) int {
	t := strings.TrimSpace(text)
	if t == "" {
		return 0
	}
	n := strings.Count(t, ".") + strings.Count(t, "!") + strings.Count(t, "?")
	if !strings.ContainsAny(t[len(t)-1:], ".!?") {
		n++
	}
	return n
}
