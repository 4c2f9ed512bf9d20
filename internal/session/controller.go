package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/dialogue"
	"github.com/abhisek/teachback/internal/feedback"
	"github.com/abhisek/teachback/internal/logger"
	"github.com/abhisek/teachback/internal/qa"
	"github.com/abhisek/teachback/internal/store"
)

// DefaultConcludeDelay is how long the student's closing line stays on
// screen before Feedback opens.
const DefaultConcludeDelay = 1500 * time.Millisecond

// DefaultLearner is the learner key used by single-user front ends.
const DefaultLearner = "default"

// ContentProvider generates lessons for a topic.
type ContentProvider interface {
	GenerateLesson(ctx context.Context, topicID string) (*catalog.Lesson, error)
	RegenerateLesson(ctx context.Context, topicID string) (*catalog.Lesson, error)
}

// Partner plays the simulated student.
type Partner interface {
	Opening(ctx context.Context, topic catalog.Topic) (string, error)
	FollowUp(ctx context.Context, transcript []dialogue.Turn, utterance string) (dialogue.Reply, error)
}

// QAProvider serves the Q&A round.
type QAProvider interface {
	Question(ctx context.Context, index int) (string, error)
	Hint(ctx context.Context, index int) (string, error)
	Submit(ctx context.Context, index int, answer string) (qa.Result, error)
}

// Synthesizer turns an attempt into feedback.
type Synthesizer interface {
	Synthesize(ctx context.Context, in feedback.Input) (*feedback.Result, error)
}

// Observer is notified of session milestones.
type Observer interface {
	TurnTaken(understood bool)
	SessionCompleted(grade feedback.Grade)
	ContentFailed(op string)
}

// Deps are the collaborators of a Controller. KV, Records, Observer and
// Logger are optional.
type Deps struct {
	Content  ContentProvider
	Partner  Partner
	QA       QAProvider
	Synth    Synthesizer
	KV       store.KVRepo
	Records  store.RecordRepo
	Observer Observer
	Logger   *logger.Logger
}

// Options tune a Controller.
type Options struct {
	Learner       string
	ConcludeDelay time.Duration
}

// Controller owns one learner's session and drives it through the phases.
// It is safe for concurrent use; at most one collaborator call per
// generation is in flight.
type Controller struct {
	deps  Deps
	opts  Options
	log   *logger.Logger
	board *Board

	baseCtx context.Context
	cancel  context.CancelFunc
	pending sync.WaitGroup

	mu         sync.Mutex
	state      State
	busy       bool
	busyGen    uint64
	lastRecord *store.SessionRecord
}

// NewController creates a controller in the Setup phase.
func NewController(deps Deps, opts Options) *Controller {
	if opts.Learner == "" {
		opts.Learner = DefaultLearner
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	if deps.Observer == nil {
		deps.Observer = nopObserver{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Controller{
		deps:    deps,
		opts:    opts,
		log:     log.With("learner", opts.Learner),
		board:   &Board{},
		baseCtx: ctx,
		cancel:  cancel,
		state:   NewState(),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.clone()
}

// Notices returns the controller's notice board.
func (c *Controller) Notices() *Board {
	return c.board
}

// Processing reports whether a collaborator call is in flight.
func (c *Controller) Processing() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.isBusy()
}

// LastRecord returns the most recently saved completed record, if any.
func (c *Controller) LastRecord() *store.SessionRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastRecord
}

// Record flattens the current state into a record without saving it.
func (c *Controller) Record() *store.SessionRecord {
	return BuildRecord(c.State(), time.Now())
}

// Wait blocks until a scheduled conclusion has run.
func (c *Controller) Wait() {
	c.pending.Wait()
}

// Close cancels scheduled conclusions and waits for them to return.
func (c *Controller) Close() {
	c.cancel()
	c.pending.Wait()
}

// Restore loads the learner's saved state. Missing or malformed data is
// discarded and the controller starts from Setup.
func (c *Controller) Restore(ctx context.Context) State {
	s := NewState()
	if c.deps.KV != nil {
		data, err := c.deps.KV.Load(ctx, StateKey(c.opts.Learner))
		if err != nil {
			c.log.Warn("load session state", "error", err)
		} else if restored, ok := decodeState(data); ok {
			s = restored
		} else if data != nil {
			c.log.Debug("discarding unreadable session state", "bytes", len(data))
		}
	}

	c.mu.Lock()
	c.state = s
	c.busy = false
	c.mu.Unlock()

	c.log.Debug("session restored", "phase", s.Phase.String(), "topic", s.TopicID)
	if s.AwaitingConclusion() {
		// The conclude timer did not survive the previous run.
		if err := c.Refresh(ctx); err != nil {
			c.log.Warn("conclude restored session", "error", err)
		}
		return c.State()
	}
	return s.clone()
}

// SelectTopic picks the topic to study. Only allowed in Setup.
func (c *Controller) SelectTopic(ctx context.Context, topicID string) error {
	topic, err := catalog.GetTopic(topicID)
	if err != nil {
		return err
	}

	c.mu.Lock()
	if c.state.Phase != PhaseSetup {
		c.mu.Unlock()
		return ErrWrongPhase
	}
	c.state = Reduce(c.state, SelectTopic{Topic: topic, SessionID: uuid.NewString()})
	s := c.state
	c.mu.Unlock()

	c.persist(ctx, s)
	return nil
}

// Next advances one phase. Leaving Setup generates the lesson first; on
// failure the session stays in Setup. Entering a phase loads what it needs
// (opening question, Q&A question or feedback); if that load fails the
// phase change stands and Refresh retries it.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	s := c.state
	c.mu.Unlock()

	switch s.Phase {
	case PhaseSetup:
		if s.Topic == nil {
			return ErrNoTopic
		}
		if s.Lesson == nil {
			if err := c.loadLesson(ctx, false); err != nil {
				return err
			}
		}
	case PhaseTeach:
		if s.AwaitingConclusion() {
			return fmt.Errorf("%w: the student already understood", ErrWrongPhase)
		}
	case PhaseQuestions:
		if !qa.Complete(s.QA) {
			return fmt.Errorf("%w: answer or skip every question first", ErrWrongPhase)
		}
	case PhaseFeedback:
		return ErrWrongPhase
	}

	if err := c.transition(ctx, Next{}); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Back returns to the previous phase, keeping what was accumulated. After
// an early conclusion Back from Feedback returns to Teach, and Next goes
// straight back to the same feedback.
func (c *Controller) Back(ctx context.Context) error {
	if err := c.transition(ctx, Back{}); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// Retry starts a new teach-back attempt on the same topic and lesson.
// Completed records are not touched.
func (c *Controller) Retry(ctx context.Context) error {
	if err := c.transition(ctx, Retry{}); err != nil {
		return err
	}
	return c.Refresh(ctx)
}

// NewTopic discards the session and returns to Setup.
func (c *Controller) NewTopic(ctx context.Context) error {
	c.mu.Lock()
	c.state = Reduce(c.state, NewTopic{})
	c.mu.Unlock()

	if c.deps.KV != nil {
		if err := c.deps.KV.Remove(ctx, StateKey(c.opts.Learner)); err != nil {
			c.log.Warn("remove session state", "error", err)
		}
	}
	return nil
}

// RegenerateLesson asks the content provider for a fresh lesson. Only
// allowed in the Lesson phase.
func (c *Controller) RegenerateLesson(ctx context.Context) error {
	c.mu.Lock()
	phase := c.state.Phase
	c.mu.Unlock()
	if phase != PhaseLesson {
		return ErrWrongPhase
	}
	return c.loadLesson(ctx, true)
}

// Refresh loads whatever the current phase is missing: the opening
// question, the current Q&A question or the feedback. A concluded dialogue
// whose delay was lost opens Feedback right away. It is the explicit retry
// after a content failure.
func (c *Controller) Refresh(ctx context.Context) error {
	s := c.State()
	switch {
	case s.AwaitingConclusion():
		return c.conclude(ctx, s.Generation)
	case s.AwaitingOpening():
		return c.loadOpening(ctx)
	case s.AwaitingQuestion():
		return c.loadQuestion(ctx)
	case s.AwaitingFeedback():
		return c.synthesize(ctx)
	}
	return nil
}

// Teach submits one learner utterance and returns the student's reaction.
// When the student understood, Feedback opens after the conclude delay.
func (c *Controller) Teach(ctx context.Context, utterance string) (dialogue.Reply, error) {
	text := strings.TrimSpace(utterance)
	if text == "" {
		return dialogue.Reply{}, ErrEmptyAnswer
	}

	c.mu.Lock()
	s := c.state
	switch {
	case s.Phase != PhaseTeach || s.Concluded:
		c.mu.Unlock()
		return dialogue.Reply{}, ErrWrongPhase
	case c.isBusy():
		c.mu.Unlock()
		return dialogue.Reply{}, ErrBusy
	case s.AwaitingOpening():
		c.mu.Unlock()
		return dialogue.Reply{}, fmt.Errorf("%w: opening question not loaded", ErrWrongPhase)
	}
	prior := slices.Clone(s.Transcript)
	gen := c.begin()
	c.mu.Unlock()

	reply, err := c.deps.Partner.FollowUp(ctx, prior, text)

	c.mu.Lock()
	c.end(gen)
	if c.state.Generation != gen {
		c.mu.Unlock()
		return dialogue.Reply{}, ErrStale
	}
	if err != nil {
		c.mu.Unlock()
		return dialogue.Reply{}, c.fail("follow-up", err)
	}
	c.state = Reduce(c.state, LearnerSaid{Turn: dialogue.NewTurn(dialogue.RoleLearner, text)})
	c.state = Reduce(c.state, PartnerReplied{
		Turn:       dialogue.NewTurn(dialogue.RoleTutor, reply.Question),
		Understood: reply.Understood,
	})
	s = c.state
	c.mu.Unlock()

	c.deps.Observer.TurnTaken(reply.Understood)
	c.log.Debug("dialogue turn",
		"turns", dialogue.LearnerTurns(s.Transcript),
		"understood", reply.Understood)
	// Saved before the timer starts so the concluded Feedback is the last write.
	c.persist(ctx, s)
	if reply.Understood {
		c.mu.Lock()
		c.scheduleConclusion(s.Generation)
		c.mu.Unlock()
	}
	return reply, nil
}

// Hint returns the hint for the current question. It does not change state.
func (c *Controller) Hint(ctx context.Context) (string, error) {
	c.mu.Lock()
	s := c.state
	c.mu.Unlock()

	if s.Phase != PhaseQuestions {
		return "", ErrWrongPhase
	}
	if qa.Complete(s.QA) {
		return "", ErrRoundComplete
	}
	hint, err := c.deps.QA.Hint(ctx, s.QAIndex)
	if err != nil {
		return "", c.fail("hint", err)
	}
	return hint, nil
}

// Answer submits a non-empty answer to the current question.
func (c *Controller) Answer(ctx context.Context, answer string) (qa.Result, error) {
	text := strings.TrimSpace(answer)
	if text == "" {
		return qa.Result{}, ErrEmptyAnswer
	}

	c.mu.Lock()
	s := c.state
	if err := c.checkQuestion(s); err != nil {
		c.mu.Unlock()
		return qa.Result{}, err
	}
	gen := c.begin()
	c.mu.Unlock()

	res, err := c.deps.QA.Submit(ctx, s.QAIndex, text)

	c.mu.Lock()
	c.end(gen)
	if c.state.Generation != gen {
		c.mu.Unlock()
		return qa.Result{}, ErrStale
	}
	if err != nil {
		c.mu.Unlock()
		return qa.Result{}, c.fail("submit answer", err)
	}
	c.state = Reduce(c.state, AnswerRecorded{Item: qa.Item{
		Question:  s.CurrentQuestion,
		Answer:    text,
		CoachNote: res.CoachNote,
	}})
	s = c.state
	c.mu.Unlock()

	c.persist(ctx, s)
	return res, c.Refresh(ctx)
}

// Skip records the current question as skipped without asking the provider.
func (c *Controller) Skip(ctx context.Context) error {
	c.mu.Lock()
	s := c.state
	if err := c.checkQuestion(s); err != nil {
		c.mu.Unlock()
		return err
	}
	c.state = Reduce(c.state, AnswerRecorded{Item: qa.Skip(s.CurrentQuestion)})
	s = c.state
	c.mu.Unlock()

	c.persist(ctx, s)
	return c.Refresh(ctx)
}

// checkQuestion validates that an answer or skip is possible. Callers hold mu.
func (c *Controller) checkQuestion(s State) error {
	switch {
	case s.Phase != PhaseQuestions:
		return ErrWrongPhase
	case c.isBusy():
		return ErrBusy
	case qa.Complete(s.QA):
		return ErrRoundComplete
	case s.CurrentQuestion == "":
		return fmt.Errorf("%w: question not loaded", ErrWrongPhase)
	}
	return nil
}

func (c *Controller) transition(ctx context.Context, a Action) error {
	c.mu.Lock()
	before := c.state
	c.state = Reduce(c.state, a)
	s := c.state
	c.mu.Unlock()

	if s.Generation == before.Generation {
		return ErrWrongPhase
	}
	c.log.Debug("phase change", "from", before.Phase.String(), "to", s.Phase.String())
	c.persist(ctx, s)
	return nil
}

func (c *Controller) loadLesson(ctx context.Context, regenerate bool) error {
	c.mu.Lock()
	if c.isBusy() {
		c.mu.Unlock()
		return ErrBusy
	}
	topicID := c.state.TopicID
	gen := c.begin()
	c.mu.Unlock()

	var (
		lesson *catalog.Lesson
		err    error
		op     = "generate lesson"
	)
	if regenerate {
		op = "regenerate lesson"
		lesson, err = c.deps.Content.RegenerateLesson(ctx, topicID)
	} else {
		lesson, err = c.deps.Content.GenerateLesson(ctx, topicID)
	}

	c.mu.Lock()
	c.end(gen)
	if c.state.Generation != gen {
		c.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		c.mu.Unlock()
		return c.fail(op, err)
	}
	if lesson == nil || lesson.TopicID != topicID {
		c.mu.Unlock()
		return c.fail(op, fmt.Errorf("lesson does not belong to topic %q", topicID))
	}
	c.state = Reduce(c.state, LessonLoaded{Lesson: lesson})
	s := c.state
	c.mu.Unlock()

	c.persist(ctx, s)
	return nil
}

func (c *Controller) loadOpening(ctx context.Context) error {
	c.mu.Lock()
	if c.isBusy() {
		c.mu.Unlock()
		return ErrBusy
	}
	topic := *c.state.Topic
	gen := c.begin()
	c.mu.Unlock()

	question, err := c.deps.Partner.Opening(ctx, topic)

	c.mu.Lock()
	c.end(gen)
	if c.state.Generation != gen {
		c.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		c.mu.Unlock()
		return c.fail("opening question", err)
	}
	c.state = Reduce(c.state, OpeningAsked{Turn: dialogue.NewTurn(dialogue.RoleTutor, question)})
	s := c.state
	c.mu.Unlock()

	c.persist(ctx, s)
	return nil
}

func (c *Controller) loadQuestion(ctx context.Context) error {
	c.mu.Lock()
	if c.isBusy() {
		c.mu.Unlock()
		return ErrBusy
	}
	index := c.state.QAIndex
	gen := c.begin()
	c.mu.Unlock()

	question, err := c.deps.QA.Question(ctx, index)

	c.mu.Lock()
	c.end(gen)
	if c.state.Generation != gen {
		c.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		c.mu.Unlock()
		return c.fail("load question", err)
	}
	c.state = Reduce(c.state, QuestionLoaded{Index: index, Question: question})
	s := c.state
	c.mu.Unlock()

	c.persist(ctx, s)
	return nil
}

func (c *Controller) synthesize(ctx context.Context) error {
	c.mu.Lock()
	if c.isBusy() {
		c.mu.Unlock()
		return ErrBusy
	}
	in := feedback.Input{
		Topic:       *c.state.Topic,
		Explanation: c.state.Explanation,
		QA:          slices.Clone(c.state.QA),
	}
	gen := c.begin()
	c.mu.Unlock()

	res, err := c.deps.Synth.Synthesize(ctx, in)

	c.mu.Lock()
	c.end(gen)
	if c.state.Generation != gen {
		c.mu.Unlock()
		return ErrStale
	}
	if err != nil {
		c.mu.Unlock()
		return c.fail("synthesize feedback", err)
	}
	c.state = Reduce(c.state, FeedbackReady{Result: res})
	s := c.state
	c.mu.Unlock()

	c.saveRecord(ctx, s)
	c.persist(ctx, s)
	return nil
}

// scheduleConclusion opens Feedback after the conclude delay unless the
// learner moved on first. Callers hold mu.
func (c *Controller) scheduleConclusion(gen uint64) {
	c.pending.Add(1)
	go func() {
		defer c.pending.Done()

		timer := time.NewTimer(c.opts.ConcludeDelay)
		defer timer.Stop()
		select {
		case <-c.baseCtx.Done():
			return
		case <-timer.C:
		}

		if err := c.conclude(c.baseCtx, gen); err != nil && !errors.Is(err, ErrStale) {
			c.log.Warn("conclude session", "error", err)
		}
	}()
}

// conclude moves a concluded Teach phase of generation gen to Feedback and
// synthesizes it. It does nothing once the learner moved on.
func (c *Controller) conclude(ctx context.Context, gen uint64) error {
	c.mu.Lock()
	if c.state.Generation != gen || !c.state.AwaitingConclusion() {
		c.mu.Unlock()
		return nil
	}
	c.state = Reduce(c.state, GoTo{Phase: PhaseFeedback})
	s := c.state
	c.mu.Unlock()

	c.persist(ctx, s)
	return c.Refresh(ctx)
}

// saveRecord writes a completed record under a fresh id so that earlier
// attempts of the same session stay intact.
func (c *Controller) saveRecord(ctx context.Context, s State) {
	c.deps.Observer.SessionCompleted(s.Feedback.Grade)
	rec := BuildRecord(s, time.Now())
	if c.deps.Records == nil {
		c.mu.Lock()
		c.lastRecord = rec
		c.mu.Unlock()
		return
	}

	saved, err := c.deps.Records.Save(ctx, rec)
	if err != nil {
		c.log.Warn("save session record", "session", s.SessionID, "error", err)
		c.board.Post(NoticeWarn, "Your result could not be saved to history.")
		return
	}
	c.mu.Lock()
	c.lastRecord = saved
	c.mu.Unlock()
	c.log.Info("session completed", "session", s.SessionID, "topic", s.TopicID, "total", saved.TotalScore)
}

// persist saves the in-progress state. Failures are logged and ignored.
func (c *Controller) persist(ctx context.Context, s State) {
	if c.deps.KV == nil {
		return
	}
	data, err := encodeState(s)
	if err == nil {
		err = c.deps.KV.Save(ctx, StateKey(c.opts.Learner), data)
	}
	if err != nil {
		c.log.Warn("persist session state", "phase", s.Phase.String(), "error", err)
	}
}

var failureNotices = map[string]string{
	"generate lesson":     "Could not prepare the lesson. Try again.",
	"regenerate lesson":   "Could not generate a new version of the lesson. Try again.",
	"opening question":    "The student is not ready yet. Try again.",
	"follow-up":           "The student did not answer. Send your explanation again.",
	"load question":       "Could not load the next question. Try again.",
	"submit answer":       "Could not check your answer. Send it again.",
	"hint":                "No hint available right now.",
	"synthesize feedback": "Could not prepare your feedback. Try again.",
}

// fail reports a collaborator failure as a notice and a ContentError.
func (c *Controller) fail(op string, err error) error {
	c.board.Post(NoticeError, failureNotices[op])
	c.deps.Observer.ContentFailed(op)
	c.log.Warn("collaborator call failed", "op", op, "error", err)
	return &ContentError{Op: op, Err: err}
}

// begin marks a call in flight for the current generation. Callers hold mu.
func (c *Controller) begin() uint64 {
	c.busy = true
	c.busyGen = c.state.Generation
	return c.busyGen
}

// end clears the in-flight mark if it still belongs to gen. Callers hold mu.
func (c *Controller) end(gen uint64) {
	if c.busyGen == gen {
		c.busy = false
	}
}

// isBusy reports whether a call for the current generation is in flight.
// Calls from abandoned generations do not block. Callers hold mu.
func (c *Controller) isBusy() bool {
	return c.busy && c.busyGen == c.state.Generation
}

type nopObserver struct{}

func (nopObserver) TurnTaken(bool)                  {}
func (nopObserver) SessionCompleted(feedback.Grade) {}
func (nopObserver) ContentFailed(string)            {}
