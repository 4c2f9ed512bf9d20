package theme

import "charm.land/lipgloss/v2"

// Color palette: calm, readable on dark terminals.
var (
	Primary   = lipgloss.Color("#6366F1") // Indigo
	Secondary = lipgloss.Color("#14B8A6") // Teal
	Accent    = lipgloss.Color("#F59E0B") // Amber
	Success   = lipgloss.Color("#22C55E") // Green
	Error     = lipgloss.Color("#F43F5E") // Rose
	Text      = lipgloss.Color("#F8FAFC") // White
	TextDim   = lipgloss.Color("#94A3B8") // Slate
	Border    = lipgloss.Color("#334155") // Slate
)

// Styles is the set of styles used by terminal output. The zero-color set
// from New(false) renders plain text.
type Styles struct {
	Title    lipgloss.Style
	Subtitle lipgloss.Style
	Body     lipgloss.Style
	Hint     lipgloss.Style
	Card     lipgloss.Style

	Tutor   lipgloss.Style
	Learner lipgloss.Style

	Good lipgloss.Style
	Warn lipgloss.Style
	Bad  lipgloss.Style

	BarFilled lipgloss.Style
	BarEmpty  lipgloss.Style

	colored bool
}

// New builds the styles. With colored false every style is plain and
// bars are drawn with characters instead of background color.
func New(colored bool) Styles {
	if !colored {
		plain := lipgloss.NewStyle()
		return Styles{
			Title: plain, Subtitle: plain, Body: plain, Hint: plain,
			Card:  plain.Border(lipgloss.NormalBorder()).Padding(0, 1),
			Tutor: plain, Learner: plain,
			Good: plain, Warn: plain, Bad: plain,
			BarFilled: plain, BarEmpty: plain,
		}
	}
	return Styles{
		Title:    lipgloss.NewStyle().Bold(true).Foreground(Primary),
		Subtitle: lipgloss.NewStyle().Foreground(TextDim),
		Body:     lipgloss.NewStyle().Foreground(Text),
		Hint:     lipgloss.NewStyle().Foreground(TextDim).Italic(true),
		Card: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Border).
			Padding(0, 1),

		Tutor:   lipgloss.NewStyle().Foreground(Secondary).Bold(true),
		Learner: lipgloss.NewStyle().Foreground(Accent).Bold(true),

		Good: lipgloss.NewStyle().Foreground(Success).Bold(true),
		Warn: lipgloss.NewStyle().Foreground(Accent),
		Bad:  lipgloss.NewStyle().Foreground(Error).Bold(true),

		BarFilled: lipgloss.NewStyle().Background(Secondary),
		BarEmpty:  lipgloss.NewStyle().Background(Border),
		colored:   true,
	}
}

// Colored reports whether the styles emit color.
func (s Styles) Colored() bool { return s.colored }

// Score picks the style for a 0..100 score.
func (s Styles) Score(v int) lipgloss.Style {
	switch {
	case v >= 70:
		return s.Good
	case v >= 55:
		return s.Warn
	default:
		return s.Bad
	}
}
