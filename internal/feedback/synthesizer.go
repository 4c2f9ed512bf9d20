package feedback

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand/v2"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/logger"
	"github.com/abhisek/teachback/internal/qa"
)

// ErrNoSuggestion is returned when the catalog has no topic other than the
// current one.
var ErrNoSuggestion = errors.New("no other topic to suggest")

// Scoring constants.
const (
	baseFloor     = 40
	baseCap       = 95
	charsPerPoint = 10

	coveragePenalty   = 10
	coveragePerAnswer = 4
	clarityPenalty    = 5
	maxClarityBonus   = 5
	englishPenalty    = 8
	englishPerError   = 3

	// weakScore is the dimension score below which a top fix is suggested.
	weakScore   = 70
	maxTopFixes = 3
)

var dimensionFixes = map[string]string{
	"correctness": "Check your rule against the lesson before explaining it.",
	"coverage":    "Answer every follow-up question instead of skipping.",
	"clarity":     "Use shorter sentences and one concrete example per idea.",
	"english":     "Proofread for grammar slips before you send your answer.",
}

// TopicSource lists the catalog with the learner's starred flags applied.
type TopicSource interface {
	Topics(ctx context.Context) ([]catalog.Topic, error)
}

// Config controls optional score variability. With Jitter at zero the
// synthesizer is fully deterministic.
type Config struct {
	// Jitter is the maximum number of points added to or removed from each
	// dimension.
	Jitter int `yaml:"jitter"`

	// Seed makes jitter reproducible for the same input.
	Seed int64 `yaml:"seed"`
}

// DefaultConfig returns a deterministic configuration.
func DefaultConfig() Config {
	return Config{}
}

// Synthesizer turns a teach-back attempt into feedback.
type Synthesizer struct {
	topics TopicSource
	cfg    Config
	log    *logger.Logger
}

// NewSynthesizer creates a Synthesizer. A nil topics source, or one that
// fails, falls back to the built-in catalog without starred flags.
func NewSynthesizer(topics TopicSource, cfg Config, log *logger.Logger) *Synthesizer {
	if log == nil {
		log = logger.Nop()
	}
	return &Synthesizer{topics: topics, cfg: cfg, log: log}
}

// Synthesize scores the explanation and Q&A transcript.
func (s *Synthesizer) Synthesize(ctx context.Context, in Input) (*Result, error) {
	exemplar, err := catalog.GetExemplar(in.Topic.ID)
	if err != nil {
		exemplar = catalog.Exemplar{}
	}

	fullText := in.Explanation
	for _, item := range in.QA {
		if !item.Skipped {
			fullText += "\n" + item.Answer
		}
	}

	corrections := detectCorrections(fullText, exemplar)
	detected := len(corrections)
	if detected == 0 {
		corrections = exemplar.Corrections
	}

	scores := s.score(in, detected)
	total := scores.Total()
	missing := missingPoints(fullText, exemplar)

	next, err := s.suggest(ctx, in.Topic.ID)
	if err != nil {
		return nil, fmt.Errorf("suggest next topic: %w", err)
	}

	return &Result{
		Scores:              scores,
		Total:               total,
		Grade:               GradeFor(total),
		TopFixes:            topFixes(scores, missing),
		Corrections:         nonNil(corrections),
		MissingPoints:       nonNil(missing),
		ImprovedExplanation: exemplar.ModelExplanation,
		NextSuggestion:      next,
	}, nil
}

// BaseScore grows by one point per charsPerPoint characters of explanation.
func BaseScore(explanation string) int {
	length := utf8.RuneCountInString(strings.TrimSpace(explanation))
	return min(baseCap, baseFloor+length/charsPerPoint)
}

func (s *Synthesizer) score(in Input, detectedErrors int) Scores {
	base := BaseScore(in.Explanation)
	answered := qa.Answered(in.QA)

	raw := Scores{
		Correctness: base,
		Coverage:    base - coveragePenalty + coveragePerAnswer*answered,
		Clarity:     base - clarityPenalty + min(maxClarityBonus, countSentences(in.Explanation)),
		English:     base - englishPenalty - englishPerError*detectedErrors,
	}

	if s.cfg.Jitter > 0 {
		rng := s.rngFor(in)
		j := s.cfg.Jitter
		raw.Correctness += rng.IntN(2*j+1) - j
		raw.Coverage += rng.IntN(2*j+1) - j
		raw.Clarity += rng.IntN(2*j+1) - j
		raw.English += rng.IntN(2*j+1) - j
	}

	return raw.Clamped()
}

// rngFor derives a generator from the seed and the input so the same
// attempt always gets the same jitter.
func (s *Synthesizer) rngFor(in Input) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(in.Topic.ID))
	h.Write([]byte(in.Explanation))
	for _, item := range in.QA {
		h.Write([]byte(item.Answer))
	}
	return rand.New(rand.NewPCG(uint64(s.cfg.Seed), h.Sum64()))
}

// suggest picks the first other topic that is not starred, else the first
// other topic.
func (s *Synthesizer) suggest(ctx context.Context, currentID string) (catalog.Topic, error) {
	topics := catalog.AllTopics()
	if s.topics != nil {
		if ts, err := s.topics.Topics(ctx); err != nil {
			s.log.Warn("list topics for suggestion, using catalog", "error", err)
		} else {
			topics = ts
		}
	}

	var fallback *catalog.Topic
	for i := range topics {
		t := topics[i]
		if t.ID == currentID {
			continue
		}
		if !t.Starred {
			return t, nil
		}
		if fallback == nil {
			fallback = &topics[i]
		}
	}
	if fallback != nil {
		return *fallback, nil
	}
	return catalog.Topic{}, ErrNoSuggestion
}

func topFixes(scores Scores, missing []string) []string {
	dims := []struct {
		name  string
		score int
	}{
		{"correctness", scores.Correctness},
		{"coverage", scores.Coverage},
		{"clarity", scores.Clarity},
		{"english", scores.English},
	}

	var fixes []string
	for _, p := range missing {
		if len(fixes) == maxTopFixes-1 {
			break
		}
		fixes = append(fixes, "Mention that "+lowerFirst(p)+".")
	}

	// Weakest dimensions first; ties keep the declared order.
	for range dims {
		low := -1
		for i, d := range dims {
			if d.score < weakScore && (low < 0 || d.score < dims[low].score) {
				low = i
			}
		}
		if low < 0 || len(fixes) == maxTopFixes {
			break
		}
		fixes = append(fixes, dimensionFixes[dims[low].name])
		dims[low].score = weakScore
	}

	if len(fixes) == 0 {
		fixes = append(fixes, "Great work. Try teaching a harder topic next.")
	}
	return fixes
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return strings.ToLower(string(r)) + s[size:]
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
