package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/dialogue"
	"github.com/abhisek/teachback/internal/qa"
	"github.com/abhisek/teachback/internal/report"
	"github.com/abhisek/teachback/internal/session"
)

const helpText = `Commands:
  :next     go to the next step        :back    go to the previous step
  :hint     hint for the question      :skip    skip the question
  :regen    a different lesson         :refresh retry a failed load
  :retry    teach the topic again      :new     pick another topic
  :topics   list topics                :quit    leave (progress is kept)`

// TopicLister lists the catalog with starred flags.
type TopicLister interface {
	Topics(ctx context.Context) ([]catalog.Topic, error)
}

// Terminal runs a line-oriented teach-back session: each input line is
// either a :command or text for the current step.
type Terminal struct {
	ctrl   *session.Controller
	voice  dialogue.Voice
	out    io.Writer
	r      *report.Renderer
	topics TopicLister
}

// NewTerminal creates a Terminal. Student lines are spoken through voice;
// everything else is written to out.
func NewTerminal(ctrl *session.Controller, voice dialogue.Voice, out io.Writer, r *report.Renderer, topics TopicLister) *Terminal {
	return &Terminal{ctrl: ctrl, voice: voice, out: out, r: r, topics: topics}
}

// Run reads utterances until :quit, end of input or ctx is done.
func (t *Terminal) Run(ctx context.Context) error {
	lines := t.voice.Listen(ctx)
	t.show(ctx, session.State{}, t.ctrl.State())
	t.flushNotices()

	for {
		fmt.Fprint(t.out, "> ")
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(t.out)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		before := t.ctrl.State()
		quit, err := t.handle(ctx, before, line)
		t.reportErr(err)
		t.show(ctx, before, t.ctrl.State())
		t.flushNotices()
		if quit {
			return nil
		}
	}
}

func (t *Terminal) handle(ctx context.Context, s session.State, line string) (bool, error) {
	if strings.HasPrefix(line, ":") {
		return t.command(ctx, line)
	}
	if line == "" {
		return false, nil
	}

	switch s.Phase {
	case session.PhaseSetup:
		if err := t.ctrl.SelectTopic(ctx, line); err != nil {
			return false, err
		}
		return false, t.ctrl.Next(ctx)
	case session.PhaseLesson:
		t.say("Type :next when you are ready to teach it back.")
	case session.PhaseTeach:
		reply, err := t.ctrl.Teach(ctx, line)
		if err != nil {
			return false, err
		}
		if err := t.voice.Speak(ctx, reply.Question); err != nil {
			return false, err
		}
		if reply.Understood {
			t.say("(The student got it. Preparing your feedback...)")
			t.ctrl.Wait()
		}
	case session.PhaseQuestions:
		res, err := t.ctrl.Answer(ctx, line)
		if err != nil {
			return false, err
		}
		if res.CoachNote != "" {
			t.say("coach: " + res.CoachNote)
		}
	case session.PhaseFeedback:
		t.say("Type :retry to teach it again or :new for another topic.")
	}
	return false, nil
}

func (t *Terminal) command(ctx context.Context, cmd string) (bool, error) {
	switch cmd {
	case ":quit", ":q":
		return true, nil
	case ":help", ":h":
		t.say(helpText)
	case ":next":
		return false, t.ctrl.Next(ctx)
	case ":back":
		return false, t.ctrl.Back(ctx)
	case ":retry":
		return false, t.ctrl.Retry(ctx)
	case ":new":
		return false, t.ctrl.NewTopic(ctx)
	case ":skip":
		return false, t.ctrl.Skip(ctx)
	case ":regen":
		return false, t.ctrl.RegenerateLesson(ctx)
	case ":refresh":
		return false, t.ctrl.Refresh(ctx)
	case ":hint":
		h, err := t.ctrl.Hint(ctx)
		if err == nil {
			t.say("hint: " + h)
		}
		return false, err
	case ":topics":
		return false, t.listTopics(ctx)
	default:
		t.say(fmt.Sprintf("Unknown command %s. Type :help for the list.", cmd))
	}
	return false, nil
}

// show prints what changed between two states: a new phase, a new
// lesson, the next question or the feedback.
func (t *Terminal) show(ctx context.Context, before, after session.State) {
	moved := before.Phase != after.Phase || before.Generation != after.Generation

	switch after.Phase {
	case session.PhaseSetup:
		if moved {
			t.say("Pick a topic by its id.")
			_ = t.listTopics(ctx)
		}
	case session.PhaseLesson:
		if after.Lesson == nil {
			return
		}
		if moved || before.Lesson == nil || before.Lesson.ID != after.Lesson.ID {
			t.say(t.r.Lesson(after.Lesson))
			if len(after.Lesson.Exercises) > 0 {
				t.say(t.r.Exercises(after.Lesson.Exercises))
			}
			t.say("Type :next when you are ready to teach it back.")
		}
	case session.PhaseTeach:
		if moved || (len(before.Transcript) == 0 && len(after.Transcript) > 0) {
			t.say(fmt.Sprintf("Explain %q to the student.", after.Topic.Title))
			for _, turn := range after.Transcript {
				t.say(t.r.Turn(turn))
			}
			if after.Concluded && after.Feedback != nil {
				t.say("The student already understood. Type :next for your feedback or :retry to teach it again.")
			}
		}
	case session.PhaseQuestions:
		if after.CurrentQuestion == "" {
			return
		}
		if moved || before.QAIndex != after.QAIndex || before.CurrentQuestion != after.CurrentQuestion {
			t.say(fmt.Sprintf("Question %d of %d: %s", after.QAIndex+1, qa.RoundSize, after.CurrentQuestion))
		}
	case session.PhaseFeedback:
		if after.Feedback != nil && (moved || before.Feedback == nil) {
			t.say(t.r.Feedback(after.Feedback))
			t.say("Type :retry to teach it again, :new for another topic or :quit.")
		}
	}
}

func (t *Terminal) listTopics(ctx context.Context) error {
	ts, err := t.topics.Topics(ctx)
	if err != nil {
		return err
	}
	t.say(t.r.Topics(ts))
	return nil
}

func (t *Terminal) reportErr(err error) {
	// Content failures are already on the notice board.
	if err == nil || session.IsContentError(err) {
		return
	}
	switch {
	case errors.Is(err, session.ErrBusy):
		t.say("! still working on the last step, try again in a moment")
	case errors.Is(err, catalog.ErrUnknownTopic):
		t.say("! " + err.Error() + " (type :topics for the list)")
	default:
		t.say("! " + err.Error())
	}
}

func (t *Terminal) flushNotices() {
	for _, n := range t.ctrl.Notices().Drain() {
		t.say(fmt.Sprintf("[%s] %s", n.Level, n.Text))
	}
}

func (t *Terminal) say(s string) {
	fmt.Fprintln(t.out, strings.TrimRight(s, "\n"))
}
