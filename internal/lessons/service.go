package lessons

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/llm"
	"github.com/abhisek/teachback/internal/logger"
)

// Source is anything that can produce lessons for a topic.
type Source interface {
	GenerateLesson(ctx context.Context, topicID string) (*catalog.Lesson, error)
	RegenerateLesson(ctx context.Context, topicID string) (*catalog.Lesson, error)
}

// Service generates lessons with a language model. The last lesson per
// topic is cached so going back to a topic does not pay for a new one.
// When generation fails and a fallback is set, the fallback's lesson is
// returned instead.
type Service struct {
	provider llm.Provider
	cfg      Config
	fallback Source
	log      *logger.Logger

	mu    sync.Mutex
	cache map[string]*catalog.Lesson
}

// NewService creates a lesson generation service. fallback may be nil.
func NewService(provider llm.Provider, cfg Config, fallback Source, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		provider: provider,
		cfg:      cfg,
		fallback: fallback,
		log:      log,
		cache:    make(map[string]*catalog.Lesson),
	}
}

// GenerateLesson returns the cached lesson for topicID or generates one.
func (s *Service) GenerateLesson(ctx context.Context, topicID string) (*catalog.Lesson, error) {
	if l := s.cached(topicID); l != nil {
		return l, nil
	}
	l, err := s.generate(llm.WithPurpose(ctx, llm.PurposeLesson), topicID, nil, s.cfg.Temperature)
	if err != nil {
		return s.fallBack(ctx, topicID, err, Source.GenerateLesson)
	}
	s.store(l)
	return copyLesson(l), nil
}

// RegenerateLesson always asks for a new version, steering away from the
// cached lesson when there is one.
func (s *Service) RegenerateLesson(ctx context.Context, topicID string) (*catalog.Lesson, error) {
	prev := s.cached(topicID)
	l, err := s.generate(llm.WithPurpose(ctx, llm.PurposeLessonRegen), topicID, prev, s.cfg.RegenTemperature)
	if err != nil {
		return s.fallBack(ctx, topicID, err, Source.RegenerateLesson)
	}
	s.store(l)
	return copyLesson(l), nil
}

func (s *Service) fallBack(ctx context.Context, topicID string, cause error,
	fn func(Source, context.Context, string) (*catalog.Lesson, error)) (*catalog.Lesson, error) {
	if s.fallback == nil || errors.Is(cause, catalog.ErrUnknownTopic) || ctx.Err() != nil {
		return nil, cause
	}
	s.log.Warn("lesson generation failed, using built-in lesson", "topic", topicID, "error", cause)
	return fn(s.fallback, ctx, topicID)
}

func (s *Service) generate(ctx context.Context, topicID string, prev *catalog.Lesson, temp float64) (*catalog.Lesson, error) {
	topic, err := catalog.GetTopic(topicID)
	if err != nil {
		return nil, err
	}
	var points []catalog.KeyPoint
	if ex, err := catalog.GetExemplar(topicID); err == nil {
		points = ex.KeyPoints
	}

	req := llm.UserPrompt(lessonSystemPrompt, buildLessonPrompt(topic, points, prev))
	req.Schema = LessonSchema
	req.MaxTokens = s.cfg.MaxTokens
	req.Temperature = temp

	resp, err := s.provider.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate lesson for %s: %w", topicID, err)
	}
	var out lessonOutput
	if err := resp.Decode(&out); err != nil {
		return nil, fmt.Errorf("generate lesson for %s: %w", topicID, err)
	}
	return toLesson(topicID, out)
}

func toLesson(topicID string, out lessonOutput) (*catalog.Lesson, error) {
	l := &catalog.Lesson{
		ID:            uuid.NewString(),
		TopicID:       topicID,
		Title:         strings.TrimSpace(out.Title),
		CommonMistake: strings.TrimSpace(out.CommonMistake),
	}
	for _, sec := range out.Sections {
		l.Sections = append(l.Sections, catalog.Section{
			Heading:  strings.TrimSpace(sec.Heading),
			Body:     strings.TrimSpace(sec.Body),
			Examples: sec.Examples,
		})
	}
	for i, ex := range out.Exercises {
		if !slices.Contains(ex.Options, ex.Answer) {
			return nil, fmt.Errorf("exercise %d: answer %q is not one of the options", i+1, ex.Answer)
		}
		l.Exercises = append(l.Exercises, catalog.MiniExercise{
			Question:    ex.Question,
			Options:     ex.Options,
			Answer:      ex.Answer,
			Explanation: ex.Explanation,
		})
	}
	if l.Title == "" || len(l.Sections) == 0 {
		return nil, errors.New("lesson has no title or sections")
	}
	return l, nil
}

func (s *Service) cached(topicID string) *catalog.Lesson {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l, ok := s.cache[topicID]; ok {
		return copyLesson(l)
	}
	return nil
}

func (s *Service) store(l *catalog.Lesson) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cache[l.TopicID] = copyLesson(l)
}

func copyLesson(l *catalog.Lesson) *catalog.Lesson {
	out := *l
	out.Sections = make([]catalog.Section, len(l.Sections))
	for i, sec := range l.Sections {
		sec.Examples = slices.Clone(sec.Examples)
		out.Sections[i] = sec
	}
	out.Exercises = make([]catalog.MiniExercise, len(l.Exercises))
	for i, ex := range l.Exercises {
		ex.Options = slices.Clone(ex.Options)
		out.Exercises[i] = ex
	}
	return &out
}
