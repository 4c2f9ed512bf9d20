// Package app wires the session controller to its collaborators and runs
// the interactive terminal session.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/config"
	"github.com/abhisek/teachback/internal/dialogue"
	"github.com/abhisek/teachback/internal/feedback"
	"github.com/abhisek/teachback/internal/lessons"
	"github.com/abhisek/teachback/internal/llm"
	"github.com/abhisek/teachback/internal/logger"
	"github.com/abhisek/teachback/internal/qa"
	"github.com/abhisek/teachback/internal/session"
	"github.com/abhisek/teachback/internal/store"
)

// Options configure New. Config and Store are required.
type Options struct {
	Config   *config.Config
	Store    *store.Store
	Logger   *logger.Logger
	Observer session.Observer

	// LLM overrides the model configuration read from the environment.
	LLM *llm.Config
}

// App holds the collaborators shared by every learner's controller.
type App struct {
	cfg   *config.Config
	store *store.Store
	log   *logger.Logger
	obs   session.Observer

	content      session.ContentProvider
	lessonSource string
	partner      *dialogue.Partner
	qa           *qa.Provider
	synth        *feedback.Synthesizer
}

// New builds the application. Lessons come from a language model when the
// configuration asks for one (or, in auto mode, when one is available) and
// from the built-in lesson bank otherwise.
func New(ctx context.Context, opts Options) (*App, error) {
	if opts.Config == nil || opts.Store == nil {
		return nil, errors.New("app: config and store are required")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}

	a := &App{
		cfg:     opts.Config,
		store:   opts.Store,
		log:     log,
		obs:     opts.Observer,
		partner: dialogue.NewPartner(opts.Config.Dialogue.Policy),
		qa:      qa.NewProvider(),
		synth:   feedback.NewSynthesizer(opts.Store, opts.Config.Feedback, log.With("component", "feedback")),
	}
	if err := a.initContent(ctx, opts.LLM); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *App) initContent(ctx context.Context, override *llm.Config) error {
	static := catalog.NewStaticLessons()
	a.content, a.lessonSource = static, config.LessonsStatic

	mode := a.cfg.Lessons.Source
	if mode == config.LessonsStatic {
		return nil
	}

	llmCfg, ok := resolveLLM(override)
	if !ok {
		if mode == config.LessonsLLM {
			return errors.New("lessons source is llm but no model is configured; set TEACHBACK_LLM_PROVIDER and its API key")
		}
		a.log.Debug("no model configured, using built-in lessons")
		return nil
	}

	provider, err := llm.NewProvider(ctx, llmCfg, a.store.EventRepo(), a.log)
	if err != nil {
		if mode == config.LessonsLLM {
			return fmt.Errorf("init lesson model: %w", err)
		}
		a.log.Warn("model unavailable, using built-in lessons", "error", err)
		return nil
	}
	a.content = lessons.NewService(provider, lessons.DefaultConfig(), static, a.log)
	a.lessonSource = provider.Name() + "/" + provider.ModelID()
	return nil
}

// resolveLLM prefers an explicit override, then TEACHBACK_* variables,
// then vendor API key variables.
func resolveLLM(override *llm.Config) (llm.Config, bool) {
	if override != nil {
		return *override, true
	}
	if cfg := llm.ConfigFromEnv(); cfg.Validate() == nil {
		return cfg, true
	}
	return llm.DiscoverConfig()
}

// LessonSource names where lessons come from: "static" or provider/model.
func (a *App) LessonSource() string {
	return a.lessonSource
}

// Learner resolves an empty learner name to the configured one.
func (a *App) Learner(name string) string {
	if name == "" {
		return a.cfg.Learner
	}
	return name
}

// Store returns the application's store.
func (a *App) Store() *store.Store {
	return a.store
}

// Topics returns the catalog with starred flags.
func (a *App) Topics(ctx context.Context) ([]catalog.Topic, error) {
	return a.store.Topics(ctx)
}

// Controller creates a controller for learner. Callers should Restore it
// to resume saved progress and Close it when done.
func (a *App) Controller(learner string) *session.Controller {
	learner = a.Learner(learner)
	return session.NewController(session.Deps{
		Content:  a.content,
		Partner:  a.partner,
		QA:       a.qa,
		Synth:    a.synth,
		KV:       a.store.KVRepo(),
		Records:  a.store.RecordRepo(),
		Observer: a.obs,
		Logger:   a.log,
	}, session.Options{
		Learner:       learner,
		ConcludeDelay: a.cfg.Dialogue.ConcludeDelay,
	})
}
