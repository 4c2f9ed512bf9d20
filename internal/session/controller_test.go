package session

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/teachback/internal/catalog"
	"github.com/abhisek/teachback/internal/dialogue"
	"github.com/abhisek/teachback/internal/feedback"
	"github.com/abhisek/teachback/internal/qa"
	"github.com/abhisek/teachback/internal/store"
)

var errProvider = errors.New("provider down")

// flakyContent fails the first n lesson requests.
type flakyContent struct {
	*catalog.StaticLessons
	failures atomic.Int32
}

func (f *flakyContent) GenerateLesson(ctx context.Context, topicID string) (*catalog.Lesson, error) {
	if f.failures.Add(-1) >= 0 {
		return nil, errProvider
	}
	return f.StaticLessons.GenerateLesson(ctx, topicID)
}

// blockingPartner holds FollowUp until release is closed.
type blockingPartner struct {
	*dialogue.Partner
	entered chan struct{}
	release chan struct{}
}

func (b *blockingPartner) FollowUp(ctx context.Context, transcript []dialogue.Turn, utterance string) (dialogue.Reply, error) {
	close(b.entered)
	<-b.release
	return b.Partner.FollowUp(ctx, transcript, utterance)
}

// failingKV rejects every write.
type failingKV struct{}

func (failingKV) Save(context.Context, string, []byte) error { return errProvider }
func (failingKV) Load(context.Context, string) ([]byte, error) {
	return nil, errProvider
}
func (failingKV) Remove(context.Context, string) error { return errProvider }

type countingObserver struct {
	turns, completed, failures atomic.Int32
}

func (o *countingObserver) TurnTaken(bool)                  { o.turns.Add(1) }
func (o *countingObserver) SessionCompleted(feedback.Grade) { o.completed.Add(1) }
func (o *countingObserver) ContentFailed(string)            { o.failures.Add(1) }

func openStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func defaultDeps(st *store.Store) Deps {
	d := Deps{
		Content: catalog.NewStaticLessons(),
		Partner: dialogue.NewPartner(dialogue.DefaultPolicy()),
		QA:      qa.NewProvider(),
		Synth:   feedback.NewSynthesizer(nil, feedback.DefaultConfig(), nil),
	}
	if st != nil {
		d.KV = st.KVRepo()
		d.Records = st.RecordRepo()
	}
	return d
}

func newController(t *testing.T, deps Deps) *Controller {
	t.Helper()
	c := NewController(deps, Options{Learner: "alice"})
	t.Cleanup(c.Close)
	return c
}

// startTeaching selects a topic and advances to Teach.
func startTeaching(t *testing.T, c *Controller, topicID string) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, c.SelectTopic(ctx, topicID))
	require.NoError(t, c.Next(ctx))
	require.Equal(t, PhaseLesson, c.State().Phase)
	require.NoError(t, c.Next(ctx))
	require.Equal(t, PhaseTeach, c.State().Phase)
}

func TestController_FullRoundWithQuestions(t *testing.T) {
	st := openStore(t)
	obs := &countingObserver{}
	deps := defaultDeps(st)
	deps.Observer = obs
	c := newController(t, deps)
	ctx := context.Background()

	startTeaching(t, c, "present-perfect")
	s := c.State()
	require.Len(t, s.Transcript, 1)
	assert.Equal(t, dialogue.RoleTutor, s.Transcript[0].Role)

	reply, err := c.Teach(ctx, "It is have plus a participle.")
	require.NoError(t, err)
	assert.False(t, reply.Understood)

	require.NoError(t, c.Next(ctx))
	s = c.State()
	require.Equal(t, PhaseQuestions, s.Phase)
	require.NotEmpty(t, s.CurrentQuestion)

	res, err := c.Answer(ctx, "use have")
	require.NoError(t, err)
	assert.NotEmpty(t, res.CoachNote)
	assert.Equal(t, res.CoachNote, c.State().LastCoachNote)

	_, err = c.Answer(ctx, "I have visited Paris three times.")
	require.NoError(t, err)
	for i := 0; i < 3; i++ {
		require.NoError(t, c.Skip(ctx))
	}

	s = c.State()
	require.Equal(t, PhaseFeedback, s.Phase)
	require.Len(t, s.QA, qa.RoundSize)
	require.NotNil(t, s.Feedback)
	assert.NotEqual(t, "present-perfect", s.Feedback.NextSuggestion.ID)

	rec := c.LastRecord()
	require.NotNil(t, rec)
	assert.Equal(t, store.StatusCompleted, rec.Status)
	assert.Equal(t, s.SessionID, rec.SessionID)
	assert.Equal(t, s.Feedback.Total, rec.TotalScore)

	list, err := st.RecordRepo().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.EqualValues(t, 1, obs.turns.Load())
	assert.EqualValues(t, 1, obs.completed.Load())
}

func TestController_DialogueConcludesOnFifthUtterance(t *testing.T) {
	c := newController(t, defaultDeps(nil))
	ctx := context.Background()
	startTeaching(t, c, "articles")

	for i := 0; i < 4; i++ {
		reply, err := c.Teach(ctx, "short")
		require.NoError(t, err)
		require.False(t, reply.Understood, "utterance %d", i+1)
	}
	reply, err := c.Teach(ctx, "short")
	require.NoError(t, err)
	assert.True(t, reply.Understood)

	_, err = c.Teach(ctx, "one more")
	assert.ErrorIs(t, err, ErrWrongPhase)

	c.Wait()
	s := c.State()
	assert.Equal(t, PhaseFeedback, s.Phase)
	assert.NotNil(t, s.Feedback)
	assert.Empty(t, s.QA)
	assert.Len(t, s.Transcript, 11)
	assert.Equal(t, strings.Repeat("short\n", 4)+"short", s.Explanation)
	assert.Equal(t, store.StatusCompleted, c.LastRecord().Status)
}

func TestController_RetryCancelsPendingConclusion(t *testing.T) {
	c := NewController(defaultDeps(nil), Options{ConcludeDelay: time.Hour})
	t.Cleanup(c.Close)
	ctx := context.Background()
	startTeaching(t, c, "articles")

	for i := 0; i < 5; i++ {
		_, err := c.Teach(ctx, "short")
		require.NoError(t, err)
	}
	require.True(t, c.State().Concluded)

	require.NoError(t, c.Retry(ctx))
	s := c.State()
	assert.Equal(t, PhaseTeach, s.Phase)
	assert.False(t, s.Concluded)
	assert.Len(t, s.Transcript, 1, "fresh opening question")
	assert.Empty(t, s.Explanation)
	assert.Nil(t, c.LastRecord())
}

func TestController_RefreshConcludesWithoutWaiting(t *testing.T) {
	c := NewController(defaultDeps(nil), Options{ConcludeDelay: time.Hour})
	t.Cleanup(c.Close)
	ctx := context.Background()
	startTeaching(t, c, "articles")

	for i := 0; i < 5; i++ {
		_, err := c.Teach(ctx, "short")
		require.NoError(t, err)
	}
	require.True(t, c.State().AwaitingConclusion())

	require.NoError(t, c.Refresh(ctx))
	s := c.State()
	assert.Equal(t, PhaseFeedback, s.Phase)
	assert.NotNil(t, s.Feedback)
	assert.Equal(t, store.StatusCompleted, c.LastRecord().Status)
}

func TestController_RestoreFinishesConcludedDialogue(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	c := NewController(defaultDeps(st), Options{Learner: "alice", ConcludeDelay: time.Hour})
	startTeaching(t, c, "articles")
	for i := 0; i < 5; i++ {
		_, err := c.Teach(ctx, "short")
		require.NoError(t, err)
	}
	require.True(t, c.State().AwaitingConclusion())
	c.Close()

	resumed := newController(t, defaultDeps(st))
	s := resumed.Restore(ctx)
	assert.Equal(t, PhaseFeedback, s.Phase)
	require.NotNil(t, s.Feedback)
	assert.Empty(t, s.QA)
	assert.Len(t, s.Transcript, 11)

	list, err := st.RecordRepo().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, store.StatusCompleted, list[0].Status)

	again := newController(t, defaultDeps(st))
	assert.Equal(t, PhaseFeedback, again.Restore(ctx).Phase)
	list, err = st.RecordRepo().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1, "feedback is not recomputed on the next resume")
}

func TestController_BackAfterEarlyConclusion(t *testing.T) {
	st := openStore(t)
	c := newController(t, defaultDeps(st))
	ctx := context.Background()
	startTeaching(t, c, "articles")

	for i := 0; i < 5; i++ {
		_, err := c.Teach(ctx, "short")
		require.NoError(t, err)
	}
	c.Wait()
	first := c.State()
	require.Equal(t, PhaseFeedback, first.Phase)
	require.NotNil(t, first.Feedback)

	require.NoError(t, c.Back(ctx))
	s := c.State()
	assert.Equal(t, PhaseTeach, s.Phase, "questions are only asked when the dialogue did not conclude")
	assert.Equal(t, first.Feedback, s.Feedback)
	_, err := c.Teach(ctx, "one more")
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.ErrorIs(t, c.Skip(ctx), ErrWrongPhase)

	require.NoError(t, c.Next(ctx))
	s = c.State()
	assert.Equal(t, PhaseFeedback, s.Phase)
	assert.Empty(t, s.QA)
	assert.Equal(t, first.Feedback, s.Feedback)

	list, err := st.RecordRepo().List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestController_Validation(t *testing.T) {
	c := newController(t, defaultDeps(nil))
	ctx := context.Background()

	assert.ErrorIs(t, c.Next(ctx), ErrNoTopic)
	assert.ErrorIs(t, c.SelectTopic(ctx, "klingon"), catalog.ErrUnknownTopic)
	assert.ErrorIs(t, c.Back(ctx), ErrWrongPhase)

	_, err := c.Teach(ctx, "hello")
	assert.ErrorIs(t, err, ErrWrongPhase)

	startTeaching(t, c, "articles")
	_, err = c.Teach(ctx, "   ")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	assert.Len(t, c.State().Transcript, 1)

	_, err = c.Answer(ctx, "answer")
	assert.ErrorIs(t, err, ErrWrongPhase)
	assert.ErrorIs(t, c.SelectTopic(ctx, "make-vs-do"), ErrWrongPhase)
	assert.ErrorIs(t, c.RegenerateLesson(ctx), ErrWrongPhase)

	require.NoError(t, c.Next(ctx))
	_, err = c.Answer(ctx, "")
	assert.ErrorIs(t, err, ErrEmptyAnswer)
	assert.Empty(t, c.State().QA)
	assert.ErrorIs(t, c.Next(ctx), ErrWrongPhase, "round not complete")
}

func TestController_HintIsStateless(t *testing.T) {
	c := newController(t, defaultDeps(nil))
	ctx := context.Background()
	startTeaching(t, c, "articles")
	require.NoError(t, c.Next(ctx))

	before := c.State()
	first, err := c.Hint(ctx)
	require.NoError(t, err)
	second, err := c.Hint(ctx)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, before, c.State())
}

func TestController_SkipAllQuestions(t *testing.T) {
	c := newController(t, defaultDeps(nil))
	ctx := context.Background()
	startTeaching(t, c, "articles")
	require.NoError(t, c.Next(ctx))

	for i := 0; i < qa.RoundSize; i++ {
		require.NoError(t, c.Skip(ctx))
		assert.Equal(t, min(c.State().QAIndex, qa.RoundSize), len(c.State().QA))
	}
	assert.ErrorIs(t, c.Skip(ctx), ErrWrongPhase)

	s := c.State()
	require.Len(t, s.QA, qa.RoundSize)
	for _, item := range s.QA {
		assert.True(t, item.Skipped)
		assert.Equal(t, "", item.Answer)
	}
	assert.Equal(t, PhaseFeedback, s.Phase)
	require.NotNil(t, s.Feedback)
}

func TestController_ContentFailureIsNonFatal(t *testing.T) {
	obs := &countingObserver{}
	deps := defaultDeps(nil)
	content := &flakyContent{StaticLessons: catalog.NewStaticLessons()}
	content.failures.Store(1)
	deps.Content = content
	deps.Observer = obs
	c := newController(t, deps)
	ctx := context.Background()

	require.NoError(t, c.SelectTopic(ctx, "articles"))
	err := c.Next(ctx)
	require.Error(t, err)
	assert.True(t, IsContentError(err))
	assert.ErrorIs(t, err, errProvider)
	assert.Equal(t, PhaseSetup, c.State().Phase)
	assert.Nil(t, c.State().Lesson)

	notices := c.Notices().Drain()
	require.Len(t, notices, 1)
	assert.Equal(t, NoticeError, notices[0].Level)
	assert.EqualValues(t, 1, obs.failures.Load())

	require.NoError(t, c.Next(ctx), "explicit retry succeeds")
	assert.Equal(t, PhaseLesson, c.State().Phase)
}

func TestController_BusyAndStaleResults(t *testing.T) {
	partner := &blockingPartner{
		Partner: dialogue.NewPartner(dialogue.DefaultPolicy()),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	deps := defaultDeps(nil)
	deps.Partner = partner
	c := newController(t, deps)
	ctx := context.Background()
	startTeaching(t, c, "articles")

	done := make(chan error, 1)
	go func() {
		_, err := c.Teach(ctx, "The article a goes before consonant sounds.")
		done <- err
	}()
	<-partner.entered

	assert.True(t, c.Processing())
	_, err := c.Teach(ctx, "again")
	assert.ErrorIs(t, err, ErrBusy)

	require.NoError(t, c.Retry(ctx))
	assert.False(t, c.Processing())

	close(partner.release)
	assert.ErrorIs(t, <-done, ErrStale)

	s := c.State()
	assert.Len(t, s.Transcript, 1)
	assert.Empty(t, s.Explanation)
}

func TestController_RetryKeepsTopicAndRecords(t *testing.T) {
	st := openStore(t)
	c := newController(t, defaultDeps(st))
	ctx := context.Background()
	startTeaching(t, c, "make-vs-do")
	require.NoError(t, c.Next(ctx))
	for i := 0; i < qa.RoundSize; i++ {
		require.NoError(t, c.Skip(ctx))
	}
	done := c.State()
	require.NotNil(t, done.Feedback)

	require.NoError(t, c.Retry(ctx))
	s := c.State()
	assert.Equal(t, PhaseTeach, s.Phase)
	assert.Equal(t, done.SessionID, s.SessionID)
	assert.Equal(t, done.Topic, s.Topic)
	assert.Equal(t, done.Lesson, s.Lesson)
	assert.Empty(t, s.QA)
	assert.Zero(t, s.QAIndex)
	assert.Nil(t, s.Feedback)

	list, err := st.RecordRepo().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, store.StatusCompleted, list[0].Status)
}

func TestController_BackKeepsTranscript(t *testing.T) {
	c := newController(t, defaultDeps(nil))
	ctx := context.Background()
	startTeaching(t, c, "articles")
	_, err := c.Teach(ctx, "Use an before vowel sounds, like an apple or an hour.")
	require.NoError(t, err)

	require.NoError(t, c.Back(ctx))
	assert.Equal(t, PhaseLesson, c.State().Phase)
	require.NoError(t, c.Next(ctx))

	s := c.State()
	assert.Equal(t, PhaseTeach, s.Phase)
	assert.Len(t, s.Transcript, 3, "no second opening question")
}

func TestController_RestoreResumesSession(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	c := newController(t, defaultDeps(st))
	startTeaching(t, c, "articles")
	_, err := c.Teach(ctx, "Use a before consonant sounds and an before vowel sounds.")
	require.NoError(t, err)
	want := c.State()

	resumed := newController(t, defaultDeps(st))
	got := resumed.Restore(ctx)
	assert.Equal(t, want.Phase, got.Phase)
	assert.Equal(t, want.SessionID, got.SessionID)
	assert.Equal(t, want.Explanation, got.Explanation)
	assert.Len(t, got.Transcript, len(want.Transcript))

	other := NewController(defaultDeps(st), Options{Learner: "bob"})
	t.Cleanup(other.Close)
	assert.Equal(t, PhaseSetup, other.Restore(ctx).Phase)
}

func TestController_RestoreDiscardsCorruptState(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	blobs := []string{
		`{not json`,
		`{"version":99,"state":{"phase":1}}`,
		`{"version":1,"state":{"phase":7}}`,
		`{"version":1,"state":{"phase":3,"topicId":"articles"}}`,
		`{"version":1,"state":{"phase":4,"qa":[{"question":"q"}],"qaIndex":3}}`,
	}
	for _, blob := range blobs {
		require.NoError(t, st.KVRepo().Save(ctx, StateKey("alice"), []byte(blob)))
		c := newController(t, defaultDeps(st))
		s := c.Restore(ctx)
		assert.Equal(t, NewState(), s, blob)
		assert.NoError(t, c.SelectTopic(ctx, "articles"), blob)
	}
}

func TestController_PersistenceFailureIsNonFatal(t *testing.T) {
	deps := defaultDeps(nil)
	deps.KV = failingKV{}
	c := newController(t, deps)
	ctx := context.Background()

	assert.Equal(t, PhaseSetup, c.Restore(ctx).Phase)
	startTeaching(t, c, "articles")
	_, err := c.Teach(ctx, "An goes before vowel sounds.")
	assert.NoError(t, err)
	assert.NoError(t, c.NewTopic(ctx))
}

func TestController_NewTopicRemovesSavedState(t *testing.T) {
	st := openStore(t)
	c := newController(t, defaultDeps(st))
	ctx := context.Background()
	startTeaching(t, c, "articles")

	data, err := st.KVRepo().Load(ctx, StateKey("alice"))
	require.NoError(t, err)
	require.NotNil(t, data)

	require.NoError(t, c.NewTopic(ctx))
	assert.Equal(t, PhaseSetup, c.State().Phase)
	assert.Nil(t, c.State().Topic)

	data, err = st.KVRepo().Load(ctx, StateKey("alice"))
	require.NoError(t, err)
	assert.Nil(t, data)
}

func TestController_DeleteAllAfterCompletion(t *testing.T) {
	st := openStore(t)
	c := newController(t, defaultDeps(st))
	ctx := context.Background()
	startTeaching(t, c, "polite-requests")
	require.NoError(t, c.Next(ctx))
	for i := 0; i < qa.RoundSize; i++ {
		require.NoError(t, c.Skip(ctx))
	}
	require.NotNil(t, c.LastRecord())

	require.NoError(t, st.RecordRepo().DeleteAll(ctx))
	list, err := st.RecordRepo().List(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestController_RegenerateLesson(t *testing.T) {
	c := newController(t, defaultDeps(nil))
	ctx := context.Background()
	require.NoError(t, c.SelectTopic(ctx, "articles"))
	require.NoError(t, c.Next(ctx))

	first := c.State().Lesson.ID
	require.NoError(t, c.RegenerateLesson(ctx))
	assert.NotEqual(t, first, c.State().Lesson.ID)
	assert.Equal(t, "articles", c.State().Lesson.TopicID)
}
