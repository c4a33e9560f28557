package questionnaire

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/scoring"
	"github.com/harrison/neuroscreen/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

func newLoaded(t *testing.T, inst questions.Instrument, s *store.Store, opts ...Option) *Controller {
	t.Helper()
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	c, err := New(inst, s, opts...)
	require.NoError(t, err)
	require.NoError(t, c.Load(context.Background()))
	return c
}

// answerThrough answers every remaining question with pick and stops on the
// final question without submitting.
func answerThrough(t *testing.T, c *Controller, pick int) {
	t.Helper()
	ctx := context.Background()
	for {
		require.NoError(t, c.Answer(ctx, pick))
		if c.View().IsLast {
			return
		}
		require.NoError(t, c.Next(ctx))
	}
}

func TestNewUnknownInstrument(t *testing.T) {
	_, err := New(questions.Instrument("phq9"), store.New(store.NewMemoryStore()))
	assert.ErrorIs(t, err, questions.ErrUnknownInstrument)
}

func TestOperationsBeforeLoad(t *testing.T) {
	ctx := context.Background()
	c, err := New(questions.ADHD, store.New(store.NewMemoryStore()))
	require.NoError(t, err)

	assert.Equal(t, StateLoading, c.State())
	assert.True(t, c.View().Loading)

	assert.ErrorIs(t, c.Answer(ctx, 0), ErrNotReady)
	assert.ErrorIs(t, c.Next(ctx), ErrNotReady)
	assert.ErrorIs(t, c.Previous(ctx), ErrNotReady)
	_, err = c.Submit(ctx)
	assert.ErrorIs(t, err, ErrNotReady)
	assert.ErrorIs(t, c.Retake(ctx), ErrNotReady)
}

func TestFreshSession(t *testing.T) {
	c := newLoaded(t, questions.ADHD, store.New(store.NewMemoryStore()))

	v := c.View()
	assert.Equal(t, StateReady, v.State)
	assert.Equal(t, 0, v.Index)
	assert.Equal(t, 18, v.Total)
	assert.Equal(t, "q1", v.Question.ID)
	assert.Nil(t, v.Selected)
	assert.False(t, v.CanGoNext)
	assert.False(t, v.CanGoPrevious)
	assert.Equal(t, 6, v.ProgressPercent)

	assert.ErrorIs(t, c.Load(context.Background()), ErrInvalidTransition, "load runs once")
}

func TestStartLoadsInBackground(t *testing.T) {
	c, err := New(questions.Autism, store.New(store.NewMemoryStore()))
	require.NoError(t, err)

	select {
	case err := <-c.Start(context.Background()):
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("load did not complete")
	}
	assert.Equal(t, StateReady, c.State())
}

func TestNextRequiresAnswer(t *testing.T) {
	ctx := context.Background()
	c := newLoaded(t, questions.ADHD, store.New(store.NewMemoryStore()))

	err := c.Next(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)

	var te *TransitionError
	require.True(t, errors.As(err, &te))
	assert.Equal(t, "advance", te.Op)
	assert.Equal(t, StateReady, te.State)
	assert.Equal(t, 0, c.View().Index, "rejected next leaves the index alone")

	require.NoError(t, c.Answer(ctx, 2))
	assert.True(t, c.View().CanGoNext)
	require.NoError(t, c.Next(ctx))
	assert.Equal(t, 1, c.View().Index)
}

func TestAnswerValidation(t *testing.T) {
	ctx := context.Background()
	c := newLoaded(t, questions.Autism, store.New(store.NewMemoryStore()))

	assert.ErrorIs(t, c.Answer(ctx, 4), ErrInvalidTransition, "AQ-10 has four options")
	assert.ErrorIs(t, c.Answer(ctx, -1), ErrInvalidTransition)
	assert.Empty(t, c.Responses())
}

func TestAnswerReplacesPrevious(t *testing.T) {
	ctx := context.Background()
	c := newLoaded(t, questions.ADHD, store.New(store.NewMemoryStore()))

	require.NoError(t, c.Answer(ctx, 1))
	require.NoError(t, c.Answer(ctx, 4))

	assert.Equal(t, []scoring.Response{{QuestionID: "q1", ResponseIndex: 4}}, c.Responses())
	require.NotNil(t, c.View().Selected)
	assert.Equal(t, 4, *c.View().Selected)
}

func TestPreviousDoesNotRequireAnswer(t *testing.T) {
	ctx := context.Background()
	c := newLoaded(t, questions.ADHD, store.New(store.NewMemoryStore()))

	assert.ErrorIs(t, c.Previous(ctx), ErrInvalidTransition, "cannot go before the first question")

	require.NoError(t, c.Answer(ctx, 0))
	require.NoError(t, c.Next(ctx))
	require.NoError(t, c.Previous(ctx))
	assert.Equal(t, 0, c.View().Index)

	// Revisit and change the first answer, then move on again.
	require.NoError(t, c.Answer(ctx, 3))
	require.NoError(t, c.Next(ctx))
	assert.True(t, c.View().CanGoPrevious)
	assert.False(t, c.View().CanGoNext)
}

func TestCannotAdvancePastLastQuestion(t *testing.T) {
	ctx := context.Background()
	c := newLoaded(t, questions.Autism, store.New(store.NewMemoryStore()))

	answerThrough(t, c, 0)
	v := c.View()
	assert.True(t, v.IsLast)
	assert.Equal(t, 9, v.Index)
	assert.Equal(t, 100, v.ProgressPercent)

	assert.ErrorIs(t, c.Next(ctx), ErrInvalidTransition)
	assert.Equal(t, 9, c.View().Index)
}

func TestResumeFromStore(t *testing.T) {
	ctx := context.Background()
	s := store.New(store.NewMemoryStore())

	first := newLoaded(t, questions.ADHD, s)
	require.NoError(t, first.Answer(ctx, 3))
	require.NoError(t, first.Next(ctx))
	require.NoError(t, first.Answer(ctx, 1))

	second := newLoaded(t, questions.ADHD, s)
	v := second.View()
	assert.Equal(t, 1, v.Index)
	require.NotNil(t, v.Selected)
	assert.Equal(t, 1, *v.Selected)
	assert.Equal(t, first.Responses(), second.Responses())

	rec, err := s.LoadProgress(ctx, questions.ADHD)
	require.NoError(t, err)
	assert.Equal(t, fixedNow, rec.LastModified)
}

func TestResumeDropsUnknownAnswers(t *testing.T) {
	ctx := context.Background()
	s := store.New(store.NewMemoryStore())
	require.NoError(t, s.SaveProgress(ctx, questions.ADHD, &store.ProgressRecord{
		Responses: []scoring.Response{
			{QuestionID: "q1", ResponseIndex: 2},
			{QuestionID: "adhd-1", ResponseIndex: 4},
			{QuestionID: "q2", ResponseIndex: 9},
			{QuestionID: "q1", ResponseIndex: 3},
		},
		CurrentQuestionIndex: 40,
	}))

	c := newLoaded(t, questions.ADHD, s)
	assert.Equal(t, []scoring.Response{{QuestionID: "q1", ResponseIndex: 3}}, c.Responses())
	assert.Equal(t, 17, c.View().Index, "index clamped to the bank")

	warnings := c.Warnings()
	require.Len(t, warnings, 2)
	for _, w := range warnings {
		assert.ErrorIs(t, w, ErrUnknownQuestion)
	}
}

func TestResumeKeepsValidAnswersBesideMalformedOnes(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	doc := `{"responses":[{"questionId":"q1","responseIndex":1},{"questionId":"q2","responseIndex":2},` +
		`{"questionId":"q3","responseIndex":3},{"questionId":""}],"currentQuestionIndex":3}`
	require.NoError(t, mem.Put(ctx, store.ProgressKey(questions.ADHD), []byte(doc)))
	s := store.New(mem)

	c := newLoaded(t, questions.ADHD, s)
	saved := []scoring.Response{
		{QuestionID: "q1", ResponseIndex: 1},
		{QuestionID: "q2", ResponseIndex: 2},
		{QuestionID: "q3", ResponseIndex: 3},
	}
	assert.Equal(t, saved, c.Responses())
	assert.Equal(t, 3, c.View().Index)

	warnings := c.Warnings()
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrUnknownQuestion)

	require.NoError(t, c.Answer(ctx, 0))
	rec, err := s.LoadProgress(ctx, questions.ADHD)
	require.NoError(t, err)
	assert.Equal(t, append(saved, scoring.Response{QuestionID: "q4", ResponseIndex: 0}), rec.Responses)
	assert.Empty(t, rec.Dropped, "the malformed entry is not written back")
}

func TestLoadFailureDegradesToEmptySession(t *testing.T) {
	mem := store.NewMemoryStore()
	mem.SetFailReads(true)

	c := newLoaded(t, questions.Autism, store.New(mem))
	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, 0, c.View().Index)

	warnings := c.Warnings()
	require.Len(t, warnings, 1)
	assert.ErrorIs(t, warnings[0], ErrPersistenceUnavailable)
}

func TestLoadCorruptRecordDegrades(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	require.NoError(t, mem.Put(ctx, store.ProgressKey(questions.ADHD), []byte(`not json`)))

	c := newLoaded(t, questions.ADHD, store.New(mem))
	assert.Equal(t, StateReady, c.State())
	require.Len(t, c.Warnings(), 1)
	assert.ErrorIs(t, c.Warnings()[0], ErrPersistenceUnavailable)
}

func TestSaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	s := store.New(mem)
	c := newLoaded(t, questions.ADHD, s)

	require.NoError(t, c.Answer(ctx, 4))
	mem.SetFailWrites(true)

	err := c.Answer(ctx, 0)
	assert.ErrorIs(t, err, ErrPersistenceUnavailable)
	assert.Equal(t, []scoring.Response{{QuestionID: "q1", ResponseIndex: 4}}, c.Responses())

	err = c.Next(ctx)
	assert.ErrorIs(t, err, ErrPersistenceUnavailable)
	assert.Equal(t, 0, c.View().Index, "index rolled back")

	mem.SetFailWrites(false)
	rec, err := s.LoadProgress(ctx, questions.ADHD)
	require.NoError(t, err)
	assert.Equal(t, c.Responses(), rec.Responses, "memory and store agree after failures")
}

func TestInMemoryFallbackKeepsGoing(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	mem.SetFailWrites(true)
	c := newLoaded(t, questions.Autism, store.New(mem), WithInMemoryFallback())

	answerThrough(t, c, 0)
	assert.Equal(t, 9, c.View().Index)

	rec, err := c.Submit(ctx)
	require.NoError(t, err)
	assert.Len(t, rec.Responses, 10)
	assert.Equal(t, StateSubmitted, c.State())

	assert.NotEmpty(t, c.Warnings())
	for _, w := range c.Warnings() {
		assert.ErrorIs(t, w, ErrPersistenceUnavailable)
	}
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	s := store.New(store.NewMemoryStore())

	var hooked []questions.Instrument
	c := newLoaded(t, questions.ADHD, s, WithOnSubmit(func(i questions.Instrument, _ store.SubmissionRecord) {
		hooked = append(hooked, i)
	}))

	_, err := c.Submit(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition, "not at the final question")

	answerThrough(t, c, 4)
	rec, err := c.Submit(ctx)
	require.NoError(t, err)

	_, err = uuid.Parse(rec.ID)
	assert.NoError(t, err)
	assert.Equal(t, fixedNow, rec.CompletedAt)
	assert.Len(t, rec.Responses, 18)
	assert.Equal(t, StateSubmitted, c.State())
	assert.Equal(t, []questions.Instrument{questions.ADHD}, hooked)

	stored, err := s.LoadSubmission(ctx, questions.ADHD)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, stored.ID)
	assert.Equal(t, rec.Responses, stored.Responses)

	_, err = s.LoadProgress(ctx, questions.ADHD)
	assert.NoError(t, err, "submission keeps the progress record")

	result := scoring.ScoreADHD(stored.Responses)
	assert.Equal(t, 18, result.TotalScore)
	assert.Equal(t, scoring.RiskHigh, result.RiskLevel)

	// The session is frozen after submission.
	assert.ErrorIs(t, c.Answer(ctx, 0), ErrInvalidTransition)
	_, err = c.Submit(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	v := c.View()
	assert.False(t, v.CanGoNext)
	assert.False(t, v.CanGoPrevious)

	got, ok := c.Submission()
	require.True(t, ok)
	assert.Equal(t, rec.ID, got.ID)
}

func TestSubmitRequiresFinalAnswer(t *testing.T) {
	ctx := context.Background()
	c := newLoaded(t, questions.Autism, store.New(store.NewMemoryStore()))

	for i := 0; i < 9; i++ {
		require.NoError(t, c.Answer(ctx, 0))
		require.NoError(t, c.Next(ctx))
	}
	_, err := c.Submit(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateReady, c.State())
}

func TestSubmitRejectsGaps(t *testing.T) {
	ctx := context.Background()
	s := store.New(store.NewMemoryStore())
	require.NoError(t, s.SaveProgress(ctx, questions.Autism, &store.ProgressRecord{
		Responses:            []scoring.Response{{QuestionID: "aq10", ResponseIndex: 0}},
		CurrentQuestionIndex: 9,
	}))

	c := newLoaded(t, questions.Autism, s)
	_, err := c.Submit(ctx)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "9 question(s) unanswered")
}

func TestSubmitSaveFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	c := newLoaded(t, questions.Autism, store.New(mem))
	answerThrough(t, c, 1)

	mem.SetFailWrites(true)
	_, err := c.Submit(ctx)
	assert.ErrorIs(t, err, ErrPersistenceUnavailable)
	assert.Equal(t, StateReady, c.State())
	_, ok := c.Submission()
	assert.False(t, ok)
}

func TestRetake(t *testing.T) {
	ctx := context.Background()
	s := store.New(store.NewMemoryStore())
	c := newLoaded(t, questions.Autism, s)

	answerThrough(t, c, 0)
	_, err := c.Submit(ctx)
	require.NoError(t, err)

	require.NoError(t, c.Retake(ctx))
	assert.Equal(t, StateReady, c.State())
	assert.Equal(t, 0, c.View().Index)
	assert.Empty(t, c.Responses())

	_, err = s.LoadProgress(ctx, questions.Autism)
	assert.ErrorIs(t, err, store.ErrNotFound)
	_, err = s.LoadSubmission(ctx, questions.Autism)
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, c.Answer(ctx, 2), "session usable after retake")
}

func TestRetakeFailureKeepsState(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	c := newLoaded(t, questions.ADHD, store.New(mem))
	require.NoError(t, c.Answer(ctx, 1))

	mem.SetFailWrites(true)
	assert.ErrorIs(t, c.Retake(ctx), ErrPersistenceUnavailable)
	assert.Len(t, c.Responses(), 1)
}

// failDelete wraps a backend and fails Delete for one key.
type failDelete struct {
	store.Backend
	key string
}

func (f failDelete) Delete(ctx context.Context, key string) error {
	if key == f.key {
		return errors.New("disk detached")
	}
	return f.Backend.Delete(ctx, key)
}

func TestRetakeFailureLeavesStorageIntact(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemoryStore()
	for _, failing := range []string{store.SubmissionKey(questions.Autism), store.ProgressKey(questions.Autism)} {
		t.Run(failing, func(t *testing.T) {
			require.NoError(t, store.New(mem).ClearInstrument(ctx, questions.Autism))
			s := store.New(failDelete{Backend: mem, key: failing})
			c := newLoaded(t, questions.Autism, s)
			answerThrough(t, c, 0)
			_, err := c.Submit(ctx)
			require.NoError(t, err)

			assert.ErrorIs(t, c.Retake(ctx), ErrPersistenceUnavailable)
			assert.Equal(t, StateSubmitted, c.State())
			assert.Len(t, c.Responses(), 10)

			rec, err := s.LoadProgress(ctx, questions.Autism)
			require.NoError(t, err, "progress survives a failed retake")
			assert.Len(t, rec.Responses, 10)
			sub, err := s.LoadSubmission(ctx, questions.Autism)
			require.NoError(t, err)
			assert.Len(t, sub.Responses, 10)
		})
	}
}

func TestResponsesReturnsCopy(t *testing.T) {
	ctx := context.Background()
	c := newLoaded(t, questions.ADHD, store.New(store.NewMemoryStore()))
	require.NoError(t, c.Answer(ctx, 2))

	got := c.Responses()
	got[0].ResponseIndex = 0
	assert.Equal(t, 2, c.Responses()[0].ResponseIndex)
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "loading", StateLoading.String())
	assert.Equal(t, "ready", StateReady.String())
	assert.Equal(t, "submitting", StateSubmitting.String())
	assert.Equal(t, "submitted", StateSubmitted.String())
	assert.Equal(t, "unknown", State(42).String())
}
