package store

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	assert.Equal(t, "progress:adhd", ProgressKey(questions.ADHD))
	assert.Equal(t, "submission:autism", SubmissionKey(questions.Autism))
}

func TestProgressRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore())

	_, err := s.LoadProgress(ctx, questions.ADHD)
	assert.ErrorIs(t, err, ErrNotFound)

	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	rec := &ProgressRecord{
		Responses:            []scoring.Response{{QuestionID: "q1", ResponseIndex: 3}},
		CurrentQuestionIndex: 1,
		LastModified:         now,
	}
	require.NoError(t, s.SaveProgress(ctx, questions.ADHD, rec))

	got, err := s.LoadProgress(ctx, questions.ADHD)
	require.NoError(t, err)
	assert.Equal(t, RecordVersion, got.Version)
	assert.Equal(t, rec.Responses, got.Responses)
	assert.Equal(t, 1, got.CurrentQuestionIndex)
	assert.True(t, now.Equal(got.LastModified))

	_, err = s.LoadProgress(ctx, questions.Autism)
	assert.ErrorIs(t, err, ErrNotFound, "records are namespaced per instrument")
}

func TestSubmissionRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore())

	rec := &SubmissionRecord{
		ID:          "0b9f1f7e-5b7a-4a55-9a0e-3f1c9d1f3d10",
		Responses:   []scoring.Response{{QuestionID: "aq1", ResponseIndex: 0}},
		CompletedAt: time.Date(2026, 10, 15, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, s.SaveSubmission(ctx, questions.Autism, rec))

	got, err := s.LoadSubmission(ctx, questions.Autism)
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Responses, got.Responses)
}

func TestLoadRejectsMalformedDocuments(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{{{`},
		{"wrong shape", `{"responses":"q1"}`},
		{"negative index", `{"responses":[],"currentQuestionIndex":-2}`},
		{"response not an object", `{"responses":["q1"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			mem := NewMemoryStore()
			require.NoError(t, mem.Put(ctx, ProgressKey(questions.ADHD), []byte(tt.doc)))

			_, err := New(mem).LoadProgress(ctx, questions.ADHD)
			assert.ErrorIs(t, err, ErrCorrupt)
			assert.ErrorIs(t, err, ErrUnavailable)
		})
	}
}

func TestLoadDropsMalformedEntries(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	entries := `[{"questionId":"q1","responseIndex":4},{"questionId":"","responseIndex":1},` +
		`{"questionId":"q2","responseIndex":3},{"questionId":"q3","responseIndex":-1},null,{"questionId":"q4","responseIndex":0}]`
	require.NoError(t, mem.Put(ctx, ProgressKey(questions.ADHD), []byte(`{"responses":`+entries+`,"currentQuestionIndex":3}`)))
	require.NoError(t, mem.Put(ctx, SubmissionKey(questions.ADHD), []byte(`{"id":"s1","responses":`+entries+`}`)))
	s := New(mem)

	want := []scoring.Response{
		{QuestionID: "q1", ResponseIndex: 4},
		{QuestionID: "q2", ResponseIndex: 3},
		{QuestionID: "q4", ResponseIndex: 0},
	}

	rec, err := s.LoadProgress(ctx, questions.ADHD)
	require.NoError(t, err)
	assert.Equal(t, want, rec.Responses)
	assert.Equal(t, 3, rec.CurrentQuestionIndex)
	assert.Len(t, rec.Dropped, 3)

	sub, err := s.LoadSubmission(ctx, questions.ADHD)
	require.NoError(t, err)
	assert.Equal(t, want, sub.Responses)
	assert.Len(t, sub.Dropped, 3)
}

func TestSubmissionRequiresID(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	require.NoError(t, mem.Put(ctx, SubmissionKey(questions.ADHD), []byte(`{"responses":[]}`)))

	_, err := New(mem).LoadSubmission(ctx, questions.ADHD)
	assert.ErrorIs(t, err, ErrCorrupt)
}

func TestLoadKeepsUnknownQuestionIDs(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	doc := `{"responses":[{"questionId":"q99","responseIndex":1},{"questionId":"q1","responseIndex":4}],"currentQuestionIndex":1}`
	require.NoError(t, mem.Put(ctx, ProgressKey(questions.ADHD), []byte(doc)))

	rec, err := New(mem).LoadProgress(ctx, questions.ADHD)
	require.NoError(t, err)
	assert.Len(t, rec.Responses, 2, "unknown ids are filtered by the controller, not the store")
}

func TestSaveFailureSurfacesUnavailable(t *testing.T) {
	mem := NewMemoryStore()
	mem.SetFailWrites(true)

	err := New(mem).SaveProgress(context.Background(), questions.ADHD, &ProgressRecord{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

// deleteFailer fails Delete for a single key.
type deleteFailer struct {
	Backend
	key string
}

func (d deleteFailer) Delete(ctx context.Context, key string) error {
	if key == d.key {
		return fmt.Errorf("%w: delete %s", ErrUnavailable, key)
	}
	return d.Backend.Delete(ctx, key)
}

func TestClearInstrumentRollsBack(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	seed := New(mem)
	require.NoError(t, seed.SaveProgress(ctx, questions.Autism, &ProgressRecord{CurrentQuestionIndex: 4}))
	require.NoError(t, seed.SaveSubmission(ctx, questions.Autism, &SubmissionRecord{ID: "x"}))
	legacy := legacyIndexMapKey(questions.Autism)
	require.NoError(t, mem.Put(ctx, legacy, []byte(`{"0":1}`)))

	for _, failing := range []string{SubmissionKey(questions.Autism), ProgressKey(questions.Autism), legacy} {
		t.Run(failing, func(t *testing.T) {
			s := New(deleteFailer{Backend: mem, key: failing})

			err := s.ClearInstrument(ctx, questions.Autism)
			assert.ErrorIs(t, err, ErrUnavailable)

			rec, err := s.LoadProgress(ctx, questions.Autism)
			require.NoError(t, err)
			assert.Equal(t, 4, rec.CurrentQuestionIndex)
			sub, err := s.LoadSubmission(ctx, questions.Autism)
			require.NoError(t, err)
			assert.Equal(t, "x", sub.ID)
			_, err = mem.Get(ctx, legacy)
			assert.NoError(t, err)
		})
	}
}

func TestClearInstrument(t *testing.T) {
	ctx := context.Background()
	mem := NewMemoryStore()
	s := New(mem)

	require.NoError(t, s.SaveProgress(ctx, questions.ADHD, &ProgressRecord{}))
	require.NoError(t, s.SaveSubmission(ctx, questions.ADHD, &SubmissionRecord{ID: "x"}))
	require.NoError(t, s.SaveProgress(ctx, questions.Autism, &ProgressRecord{}))
	require.NoError(t, mem.Put(ctx, legacyIndexMapKey(questions.ADHD), []byte(`{"0":4}`)))

	require.NoError(t, s.ClearInstrument(ctx, questions.ADHD))

	_, err := s.LoadProgress(ctx, questions.ADHD)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = s.LoadSubmission(ctx, questions.ADHD)
	assert.ErrorIs(t, err, ErrNotFound, "legacy documents are cleared too")

	_, err = s.LoadProgress(ctx, questions.Autism)
	assert.NoError(t, err, "other instruments are untouched")
}

func TestOpen(t *testing.T) {
	for _, kind := range []string{"file", "sqlite", "memory", ""} {
		t.Run(kind, func(t *testing.T) {
			s, err := Open(kind, filepath.Join(t.TempDir(), "data"))
			require.NoError(t, err)
			defer s.Close()

			ctx := context.Background()
			require.NoError(t, s.SaveProgress(ctx, questions.Autism, &ProgressRecord{CurrentQuestionIndex: 2}))
			rec, err := s.LoadProgress(ctx, questions.Autism)
			require.NoError(t, err)
			assert.Equal(t, 2, rec.CurrentQuestionIndex)
		})
	}

	_, err := Open("redis", t.TempDir())
	assert.Error(t, err)
}

func TestJSONHelpersAcceptMaps(t *testing.T) {
	ctx := context.Background()
	s := New(NewMemoryStore())

	require.NoError(t, s.SaveJSON(ctx, "analytics:usage", map[string]int{"adhdStarts": 2}))

	var got map[string]int
	require.NoError(t, s.LoadJSON(ctx, "analytics:usage", &got))
	assert.Equal(t, 2, got["adhdStarts"])
}
