// Package questionnaire drives a single screening session: it resumes saved
// progress, records answers, enforces navigation rules and freezes the final
// response set into a submission record.
//
// Every mutation is written through to the progress store before the method
// returns, so abandoning a session at any point loses nothing.
package questionnaire

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/harrison/neuroscreen/internal/logger"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/scoring"
	"github.com/harrison/neuroscreen/internal/store"
)

// State is the lifecycle stage of a session.
type State int

const (
	StateLoading State = iota
	StateReady
	StateSubmitting
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	case StateSubmitting:
		return "submitting"
	case StateSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Persistence is the subset of the progress store a controller needs.
// *store.Store satisfies it.
type Persistence interface {
	LoadProgress(ctx context.Context, i questions.Instrument) (*store.ProgressRecord, error)
	SaveProgress(ctx context.Context, i questions.Instrument, rec *store.ProgressRecord) error
	SaveSubmission(ctx context.Context, i questions.Instrument, rec *store.SubmissionRecord) error
	ClearInstrument(ctx context.Context, i questions.Instrument) error
}

// Logger receives diagnostic messages. *logger.ConsoleLogger satisfies it.
type Logger interface {
	LogDebug(message string)
	LogWarn(message string)
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the diagnostic logger.
func WithLogger(l Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithInMemoryFallback keeps mutations in memory when the store fails and
// records a warning instead of returning an error.
func WithInMemoryFallback() Option {
	return func(c *Controller) { c.fallback = true }
}

// WithOnSubmit registers a callback run after a successful submission. The
// callback runs with the controller locked and must not call back into it.
func WithOnSubmit(fn func(questions.Instrument, store.SubmissionRecord)) Option {
	return func(c *Controller) { c.onSubmit = fn }
}

// Controller is a questionnaire session for one instrument. It is safe for
// concurrent use, though a single caller is the expected mode.
type Controller struct {
	mu         sync.Mutex
	instrument questions.Instrument
	bank       []questions.Question
	store      Persistence
	log        Logger
	now        func() time.Time
	fallback   bool
	onSubmit   func(questions.Instrument, store.SubmissionRecord)

	state      State
	index      int
	responses  []scoring.Response
	submission *store.SubmissionRecord
	warnings   []error
}

// New returns a controller in the Loading state. Call Load (or Start) before
// any other operation.
func New(instrument questions.Instrument, p Persistence, opts ...Option) (*Controller, error) {
	if err := questions.Validate(instrument); err != nil {
		return nil, err
	}
	bank := questions.List(instrument)

	c := &Controller{
		instrument: instrument,
		bank:       bank,
		store:      p,
		log:        logger.NewNoOpLogger(),
		now:        time.Now,
		state:      StateLoading,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Instrument returns the instrument this session administers.
func (c *Controller) Instrument() questions.Instrument {
	return c.instrument
}

// Start runs Load in the background. The channel yields Load's result and
// is then closed.
func (c *Controller) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	go func() {
		defer close(done)
		done <- c.Load(ctx)
	}()
	return done
}

// Load resumes saved progress, or starts fresh at the first question, and
// moves the session to Ready. A store read failure is not fatal: the session
// starts empty and a warning is recorded.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state != StateLoading {
		return c.transitionError("load", "session already loaded")
	}

	rec, err := c.store.LoadProgress(ctx, c.instrument)
	switch {
	case err == nil:
		c.resume(rec)
	case errors.Is(err, store.ErrNotFound):
		c.log.LogDebug(fmt.Sprintf("%s: no saved progress, starting at question 1", c.instrument))
	default:
		c.warn(fmt.Errorf("%w: load progress: %v", ErrPersistenceUnavailable, err))
	}

	c.state = StateReady
	return nil
}

// resume restores a progress record, dropping responses that reference
// unknown questions or invalid options.
func (c *Controller) resume(rec *store.ProgressRecord) {
	for _, r := range rec.Dropped {
		c.warn(fmt.Errorf("%w: dropping malformed saved answer %q=%d", ErrUnknownQuestion, r.QuestionID, r.ResponseIndex))
	}

	byID := make(map[string]int, len(rec.Responses))
	var kept []scoring.Response
	for _, r := range rec.Responses {
		if q, ok := c.question(r.QuestionID); !ok || !q.ValidOption(r.ResponseIndex) {
			c.warn(fmt.Errorf("%w: dropping saved answer %q=%d", ErrUnknownQuestion, r.QuestionID, r.ResponseIndex))
			continue
		}
		if i, seen := byID[r.QuestionID]; seen {
			kept[i] = r
			continue
		}
		byID[r.QuestionID] = len(kept)
		kept = append(kept, r)
	}

	c.responses = kept
	c.index = clamp(rec.CurrentQuestionIndex, 0, len(c.bank)-1)
	c.log.LogDebug(fmt.Sprintf("%s: resumed at question %d with %d answers", c.instrument, c.index+1, len(kept)))
}

func (c *Controller) question(id string) (questions.Question, bool) {
	for _, q := range c.bank {
		if q.ID == id {
			return q, true
		}
	}
	return questions.Question{}, false
}

// Answer records responseIndex for the current question, replacing any
// earlier answer to it.
func (c *Controller) Answer(ctx context.Context, responseIndex int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireReady("answer"); err != nil {
		return err
	}
	q := c.bank[c.index]
	if !q.ValidOption(responseIndex) {
		return c.transitionError("answer", fmt.Sprintf("option %d is not valid for %s (choose 0-%d)", responseIndex, q.ID, len(q.Options)-1))
	}

	snapshot := c.snapshot()
	c.setResponse(scoring.Response{QuestionID: q.ID, ResponseIndex: responseIndex})
	return c.persist(ctx, "answer", snapshot)
}

// Next advances to the following question. The current question must be
// answered and must not be the last one.
func (c *Controller) Next(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireReady("advance"); err != nil {
		return err
	}
	if _, ok := c.selected(); !ok {
		return c.transitionError("advance", "current question is unanswered")
	}
	if c.index >= len(c.bank)-1 {
		return c.transitionError("advance", "already at the final question; submit instead")
	}

	snapshot := c.snapshot()
	c.index++
	return c.persist(ctx, "advance", snapshot)
}

// Previous moves back one question. The target need not be answered.
func (c *Controller) Previous(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireReady("go back"); err != nil {
		return err
	}
	if c.index == 0 {
		return c.transitionError("go back", "already at the first question")
	}

	snapshot := c.snapshot()
	c.index--
	return c.persist(ctx, "go back", snapshot)
}

// Submit freezes the response set into a submission record. The session
// must be on the final question with every question answered. The progress
// record is left in place.
func (c *Controller) Submit(ctx context.Context) (store.SubmissionRecord, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.requireReady("submit"); err != nil {
		return store.SubmissionRecord{}, err
	}
	if c.index != len(c.bank)-1 {
		return store.SubmissionRecord{}, c.transitionError("submit", "not at the final question")
	}
	if _, ok := c.selected(); !ok {
		return store.SubmissionRecord{}, c.transitionError("submit", "final question is unanswered")
	}
	if missing := c.unanswered(); len(missing) > 0 {
		return store.SubmissionRecord{}, c.transitionError("submit", fmt.Sprintf("%d question(s) unanswered: %v", len(missing), missing))
	}

	c.state = StateSubmitting
	rec := store.SubmissionRecord{
		ID:          uuid.NewString(),
		Responses:   c.copyResponses(),
		CompletedAt: c.now().UTC(),
	}

	if err := c.store.SaveSubmission(ctx, c.instrument, &rec); err != nil {
		wrapped := fmt.Errorf("%w: submit: %v", ErrPersistenceUnavailable, err)
		if !c.fallback {
			c.state = StateReady
			return store.SubmissionRecord{}, wrapped
		}
		c.warn(wrapped)
	}

	c.submission = &rec
	c.state = StateSubmitted
	c.log.LogDebug(fmt.Sprintf("%s: submitted %d answers as %s", c.instrument, len(rec.Responses), rec.ID))

	if c.onSubmit != nil {
		c.onSubmit(c.instrument, rec)
	}
	return rec, nil
}

// Retake clears the saved progress and submission and restarts at the first
// question with no answers.
func (c *Controller) Retake(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == StateLoading {
		return ErrNotReady
	}

	if err := c.store.ClearInstrument(ctx, c.instrument); err != nil {
		wrapped := fmt.Errorf("%w: retake: %v", ErrPersistenceUnavailable, err)
		if !c.fallback {
			return wrapped
		}
		c.warn(wrapped)
	}

	c.index = 0
	c.responses = nil
	c.submission = nil
	c.state = StateReady
	return nil
}

// Submission returns the record produced by Submit in this session.
func (c *Controller) Submission() (store.SubmissionRecord, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.submission == nil {
		return store.SubmissionRecord{}, false
	}
	rec := *c.submission
	rec.Responses = append([]scoring.Response(nil), rec.Responses...)
	return rec, true
}

// Responses returns a copy of the current response set.
func (c *Controller) Responses() []scoring.Response {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.copyResponses()
}

// Warnings returns the non-fatal conditions raised so far.
func (c *Controller) Warnings() []error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]error(nil), c.warnings...)
}

// State returns the current lifecycle state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// View is the read-only snapshot consumed by the presentation layer.
type View struct {
	Instrument      questions.Instrument
	State           State
	Question        questions.Question
	Selected        *int
	Index           int
	Total           int
	Answered        int
	CanGoNext       bool
	CanGoPrevious   bool
	IsLast          bool
	Loading         bool
	Submitting      bool
	ProgressPercent int
}

// View returns the state needed to render the current question.
func (c *Controller) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()

	total := len(c.bank)
	v := View{
		Instrument: c.instrument,
		State:      c.state,
		Index:      c.index,
		Total:      total,
		Answered:   len(c.responses),
		Loading:    c.state == StateLoading,
		Submitting: c.state == StateSubmitting,
		IsLast:     c.index == total-1,
	}
	if c.state == StateLoading {
		return v
	}

	v.Question = c.bank[c.index]
	if idx, ok := c.selected(); ok {
		sel := idx
		v.Selected = &sel
	}
	ready := c.state == StateReady
	v.CanGoNext = ready && v.Selected != nil
	v.CanGoPrevious = ready && c.index > 0
	v.ProgressPercent = int(math.Round(float64(c.index+1) / float64(total) * 100))
	return v
}

type snapshot struct {
	index     int
	responses []scoring.Response
}

func (c *Controller) snapshot() snapshot {
	return snapshot{index: c.index, responses: c.copyResponses()}
}

func (c *Controller) restore(s snapshot) {
	c.index = s.index
	c.responses = s.responses
}

// persist writes the progress record. On failure the in-memory state is
// rolled back to snap, unless the in-memory fallback is enabled.
func (c *Controller) persist(ctx context.Context, op string, snap snapshot) error {
	rec := &store.ProgressRecord{
		Responses:            c.copyResponses(),
		CurrentQuestionIndex: c.index,
		LastModified:         c.now().UTC(),
	}
	err := c.store.SaveProgress(ctx, c.instrument, rec)
	if err == nil {
		return nil
	}

	wrapped := fmt.Errorf("%w: %s: %v", ErrPersistenceUnavailable, op, err)
	if c.fallback {
		c.warn(wrapped)
		return nil
	}
	c.restore(snap)
	return wrapped
}

func (c *Controller) requireReady(op string) error {
	switch c.state {
	case StateReady:
		return nil
	case StateLoading:
		return ErrNotReady
	case StateSubmitted:
		return c.transitionError(op, "questionnaire already submitted; retake to start again")
	default:
		return c.transitionError(op, "submission in progress")
	}
}

func (c *Controller) transitionError(op, reason string) error {
	return &TransitionError{Op: op, State: c.state, Index: c.index, Reason: reason}
}

func (c *Controller) selected() (int, bool) {
	id := c.bank[c.index].ID
	for _, r := range c.responses {
		if r.QuestionID == id {
			return r.ResponseIndex, true
		}
	}
	return 0, false
}

func (c *Controller) setResponse(resp scoring.Response) {
	for i, r := range c.responses {
		if r.QuestionID == resp.QuestionID {
			c.responses[i] = resp
			return
		}
	}
	c.responses = append(c.responses, resp)
}

func (c *Controller) unanswered() []string {
	answered := make(map[string]bool, len(c.responses))
	for _, r := range c.responses {
		answered[r.QuestionID] = true
	}
	var missing []string
	for _, q := range c.bank {
		if !answered[q.ID] {
			missing = append(missing, q.ID)
		}
	}
	return missing
}

func (c *Controller) copyResponses() []scoring.Response {
	return append([]scoring.Response(nil), c.responses...)
}

func (c *Controller) warn(err error) {
	c.warnings = append(c.warnings, err)
	c.log.LogWarn(err.Error())
}

func clamp(v, lo, hi int) int {
	return max(lo, min(v, hi))
}
