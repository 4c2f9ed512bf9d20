package lessons

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/llm"
)

func lessonJSON(title, answer string) llm.MockResponse {
	return llm.MockJSON(map[string]any{
		"title": title,
		"sections": []map[string]any{
			{"heading": "a or an", "body": "Use an before a vowel sound.", "examples": []string{"an hour", "a user"}},
			{"heading": "the", "body": "Use the for something specific.", "examples": []string{"the sun"}},
		},
		"common_mistake": "Say \"an hour\", not \"a hour\".",
		"exercises": []map[string]any{
			{"question": "___ umbrella", "options": []string{"a", "an"}, "answer": answer, "explanation": "Vowel sound."},
		},
	})
}

func TestGenerateLesson(t *testing.T) {
	mock := llm.NewMockProvider(lessonJSON("Articles in Practice", "an"))
	svc := NewService(mock, DefaultConfig(), nil, nil)

	l, err := svc.GenerateLesson(context.Background(), "articles")
	if err != nil {
		t.Fatalf("GenerateLesson: %v", err)
	}
	if l.ID == "" || l.TopicID != "articles" || l.Title != "Articles in Practice" {
		t.Errorf("lesson = %+v", l)
	}
	if len(l.Sections) != 2 || len(l.Exercises) != 1 {
		t.Errorf("sections/exercises = %d/%d, want 2/1", len(l.Sections), len(l.Exercises))
	}

	calls := mock.Calls()
	if len(calls) != 1 {
		t.Fatalf("calls = %d, want 1", len(calls))
	}
	prompt := calls[0].Messages[0].Content
	if !strings.Contains(prompt, "Topic: ") || calls[0].Schema != LessonSchema {
		t.Errorf("request = %+v", calls[0])
	}
	if strings.Contains(prompt, "different version") {
		t.Error("first lesson prompt should not ask for a different version")
	}

	again, err := svc.GenerateLesson(context.Background(), "articles")
	if err != nil {
		t.Fatalf("GenerateLesson cached: %v", err)
	}
	if again.ID != l.ID || len(mock.Calls()) != 1 {
		t.Errorf("second call should come from the cache")
	}
}

func TestRegenerateLessonAsksForNewVersion(t *testing.T) {
	mock := llm.NewMockProvider(lessonJSON("Articles", "an"), lessonJSON("Articles Again", "an"))
	svc := NewService(mock, DefaultConfig(), nil, nil)
	ctx := context.Background()

	first, err := svc.GenerateLesson(ctx, "articles")
	if err != nil {
		t.Fatalf("GenerateLesson: %v", err)
	}
	second, err := svc.RegenerateLesson(ctx, "articles")
	if err != nil {
		t.Fatalf("RegenerateLesson: %v", err)
	}
	if second.ID == first.ID || second.Title != "Articles Again" {
		t.Errorf("regenerated = %+v", second)
	}

	req := mock.Calls()[1]
	if !strings.Contains(req.Messages[0].Content, `"Articles"`) {
		t.Errorf("regen prompt does not mention the previous lesson: %s", req.Messages[0].Content)
	}
	if req.Temperature != DefaultConfig().RegenTemperature {
		t.Errorf("Temperature = %v, want regen temperature", req.Temperature)
	}

	cached, _ := svc.GenerateLesson(ctx, "articles")
	if cached.ID != second.ID {
		t.Error("cache should hold the regenerated lesson")
	}
}

func TestGenerateLessonFallsBack(t *testing.T) {
	tests := []struct {
		name string
		resp llm.MockResponse
	}{
		{"provider down", llm.MockResponse{Err: &llm.ErrProviderUnavailable{}}},
		{"answer not an option", lessonJSON("Articles", "the")},
		{"schema violation", llm.MockJSON(map[string]any{"title": "x"})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewService(llm.NewMockProvider(tt.resp), DefaultConfig(), catalog.NewStaticLessons(), nil)
			l, err := svc.GenerateLesson(context.Background(), "articles")
			if err != nil {
				t.Fatalf("GenerateLesson: %v", err)
			}
			want, _ := catalog.NewStaticLessons().GenerateLesson(context.Background(), "articles")
			if l.Title != want.Title {
				t.Errorf("Title = %q, want built-in %q", l.Title, want.Title)
			}
		})
	}
}

func TestGenerateLessonWithoutFallback(t *testing.T) {
	svc := NewService(llm.NewMockProvider(), DefaultConfig(), nil, nil)
	_, err := svc.GenerateLesson(context.Background(), "articles")
	var unavail *llm.ErrProviderUnavailable
	if !errors.As(err, &unavail) {
		t.Fatalf("err = %v, want ErrProviderUnavailable", err)
	}
}

func TestGenerateLessonUnknownTopic(t *testing.T) {
	mock := llm.NewMockProvider()
	svc := NewService(mock, DefaultConfig(), catalog.NewStaticLessons(), nil)
	_, err := svc.GenerateLesson(context.Background(), "klingon")
	if !errors.Is(err, catalog.ErrUnknownTopic) {
		t.Fatalf("err = %v, want ErrUnknownTopic", err)
	}
	if len(mock.Calls()) != 0 {
		t.Error("unknown topic should not reach the provider")
	}
}

func TestBuildLessonPrompt(t *testing.T) {
	topic, err := catalog.GetTopic("articles")
	if err != nil {
		t.Fatalf("GetTopic: %v", err)
	}
	p := buildLessonPrompt(topic, []catalog.KeyPoint{{Text: "an before vowel sounds"}}, nil)
	for _, want := range []string{topic.Title, string(topic.Level), "- an before vowel sounds", "Instructions:"} {
		if !strings.Contains(p, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}
