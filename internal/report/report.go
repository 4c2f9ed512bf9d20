// Package report renders lessons, dialogue and feedback for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/dialogue"
	"github.com/abhisek/teachback/internal/feedback"
	"github.com/abhisek/teachback/internal/qa"
	"github.com/abhisek/teachback/internal/store"
	"github.com/abhisek/teachback/internal/ui/components"
	"github.com/abhisek/teachback/internal/ui/theme"
)

// Renderer turns domain values into printable text.
type Renderer struct {
	st theme.Styles
}

// New creates a Renderer. colored selects ANSI styling.
func New(colored bool) *Renderer {
	return &Renderer{st: theme.New(colored)}
}

// Topics lists the catalog grouped by category, marking starred topics.
func (r *Renderer) Topics(ts []catalog.Topic) string {
	var b strings.Builder
	for _, c := range catalog.AllCategories() {
		var rows []catalog.Topic
		for _, t := range ts {
			if t.Category == c {
				rows = append(rows, t)
			}
		}
		if len(rows) == 0 {
			continue
		}
		b.WriteString(r.st.Title.Render(catalog.CategoryDisplayName(c)) + "\n")
		for _, t := range rows {
			star := " "
			if t.Starred {
				star = "*"
			}
			fmt.Fprintf(&b, " %s %-20s %-34s %s %s\n", star, t.ID, t.Title,
				r.st.Subtitle.Render(string(t.Level)), r.st.Hint.Render(fmt.Sprintf("%d min", t.EstimatedMins)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Lesson renders a lesson with its sections and common mistake.
func (r *Renderer) Lesson(l *catalog.Lesson) string {
	var b strings.Builder
	b.WriteString(r.st.Title.Render(l.Title) + "\n\n")
	for _, sec := range l.Sections {
		b.WriteString(r.st.Subtitle.Render(sec.Heading) + "\n")
		b.WriteString(r.st.Body.Render(sec.Body) + "\n")
		for _, ex := range sec.Examples {
			b.WriteString("  - " + r.st.Hint.Render(ex) + "\n")
		}
		b.WriteString("\n")
	}
	if l.CommonMistake != "" {
		b.WriteString(r.st.Card.Render("Common mistake: "+l.CommonMistake) + "\n")
	}
	return b.String()
}

// Exercises renders the review questions with their answers.
func (r *Renderer) Exercises(exs []catalog.MiniExercise) string {
	var b strings.Builder
	for i, ex := range exs {
		fmt.Fprintf(&b, "%d. %s\n", i+1, ex.Question)
		for _, opt := range ex.Options {
			mark := "   "
			if opt == ex.Answer {
				mark = " > "
			}
			b.WriteString(mark + opt + "\n")
		}
		b.WriteString("   " + r.st.Hint.Render(ex.Explanation) + "\n")
	}
	return b.String()
}

// Turn renders one line of the teach-back dialogue.
func (r *Renderer) Turn(t dialogue.Turn) string {
	if t.Role == dialogue.RoleTutor {
		return r.StudentPrefix() + t.Text
	}
	return r.st.Learner.Render("you    ") + "  " + t.Text
}

// StudentPrefix is the label put before the simulated student's lines.
func (r *Renderer) StudentPrefix() string {
	return r.st.Tutor.Render("student") + "  "
}

// QAItem renders one answered or skipped question.
func (r *Renderer) QAItem(i int, it qa.Item) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Q%d. %s\n", i+1, it.Question)
	switch {
	case it.Skipped:
		b.WriteString("    " + r.st.Hint.Render("(skipped)") + "\n")
	default:
		b.WriteString("    " + it.Answer + "\n")
	}
	if it.CoachNote != "" {
		b.WriteString("    " + r.st.Warn.Render("coach: ") + it.CoachNote + "\n")
	}
	return b.String()
}

// Feedback renders the full end-of-session feedback.
func (r *Renderer) Feedback(res *feedback.Result) string {
	var b strings.Builder

	headline := fmt.Sprintf("%d / 100  %s", res.Total, res.Grade)
	b.WriteString(r.st.Score(res.Total).Render(headline) + "\n\n")

	for _, s := range []struct {
		label string
		v     int
	}{
		{"Correctness", res.Scores.Correctness},
		{"Coverage", res.Scores.Coverage},
		{"Clarity", res.Scores.Clarity},
		{"English", res.Scores.English},
	} {
		bar := components.ScoreBar{Label: s.label, Score: s.v, LabelWidth: 11, Width: 20}
		b.WriteString(bar.View(r.st) + "\n")
	}

	section := func(title string, lines []string) {
		if len(lines) == 0 {
			return
		}
		b.WriteString("\n" + r.st.Title.Render(title) + "\n")
		for _, l := range lines {
			b.WriteString("  - " + l + "\n")
		}
	}
	section("Top fixes", res.TopFixes)
	section("Missing points", res.MissingPoints)

	if len(res.Corrections) > 0 {
		b.WriteString("\n" + r.st.Title.Render("Corrections") + "\n")
		for _, c := range res.Corrections {
			fmt.Fprintf(&b, "  %s -> %s\n", r.st.Bad.Render(c.Before), r.st.Good.Render(c.After))
			b.WriteString("    " + r.st.Hint.Render(c.Why) + "\n")
		}
	}

	if res.ImprovedExplanation != "" {
		b.WriteString("\n" + r.st.Title.Render("A stronger explanation") + "\n")
		b.WriteString(r.st.Card.Render(res.ImprovedExplanation) + "\n")
	}
	if res.NextSuggestion.ID != "" {
		fmt.Fprintf(&b, "\nNext up: %s %s\n", res.NextSuggestion.Title,
			r.st.Subtitle.Render("("+res.NextSuggestion.ID+")"))
	}
	return b.String()
}

// History lists saved records, newest first as given.
func (r *Renderer) History(recs []store.SessionRecord) string {
	if len(recs) == 0 {
		return r.st.Hint.Render("No sessions yet.") + "\n"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%-36s  %-16s  %-20s  %5s  %s\n", "ID", "DATE", "TOPIC", "SCORE", "GRADE")
	for _, rec := range recs {
		fmt.Fprintf(&b, "%-36s  %-16s  %-20s  %5d  %s\n",
			rec.ID, rec.Date.Local().Format("2006-01-02 15:04"), rec.TopicID, rec.TotalScore,
			r.st.Score(rec.TotalScore).Render(string(rec.Grade)))
	}
	return b.String()
}

// Record renders one saved session in full.
func (r *Renderer) Record(rec *store.SessionRecord) string {
	var b strings.Builder
	title := rec.Topic.Title
	if title == "" {
		title = rec.TopicID
	}
	b.WriteString(r.st.Title.Render(title) + "  " +
		r.st.Subtitle.Render(rec.Date.Local().Format("2006-01-02 15:04")) + "\n\n")

	b.WriteString(r.st.Subtitle.Render("Your explanation") + "\n")
	b.WriteString(r.st.Card.Render(rec.UserExplanation) + "\n")

	if len(rec.QATranscript) > 0 {
		b.WriteString("\n" + r.st.Subtitle.Render("Questions") + "\n")
		for i, it := range rec.QATranscript {
			b.WriteString(r.QAItem(i, it))
		}
	}

	if rec.Status == store.StatusCompleted {
		b.WriteString("\n" + r.Feedback(&feedback.Result{
			Scores:              rec.Scores,
			Total:               rec.TotalScore,
			Grade:               rec.Grade,
			TopFixes:            rec.TopFixes,
			Corrections:         rec.Corrections,
			MissingPoints:       rec.MissingPoints,
			ImprovedExplanation: rec.ImprovedExplanation,
			NextSuggestion:      rec.NextLessonSuggestion,
		}))
	}
	return b.String()
}
