// Package analytics keeps local usage counters: questionnaire starts and
// completions, result exports, command visits and sessions. Counters live
// in the progress store under a single key and never leave the machine.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/store"
)

// Key is the store key of the usage counters.
const Key = "analytics:usage"

// ErrUnknownCounter is returned by Increment for names outside UsageStats.
var ErrUnknownCounter = errors.New("analytics: unknown counter")

// Counter names a UsageStats field by its JSON name.
type Counter string

const (
	ADHDStarts        Counter = "adhdStarts"
	AutismStarts      Counter = "autismStarts"
	ADHDCompletions   Counter = "adhdCompletions"
	AutismCompletions Counter = "autismCompletions"
	ADHDExports       Counter = "adhdExports"
	AutismExports     Counter = "autismExports"
	HomeVisits        Counter = "homeVisits"
	ADHDVisits        Counter = "adhdVisits"
	AutismVisits      Counter = "autismVisits"
	AnalyticsVisits   Counter = "analyticsVisits"
	AboutVisits       Counter = "aboutVisits"
	TotalSessions     Counter = "totalSessions"
)

// UsageStats is the persisted counter set.
type UsageStats struct {
	ADHDStarts        int       `json:"adhdStarts" validate:"gte=0"`
	AutismStarts      int       `json:"autismStarts" validate:"gte=0"`
	ADHDCompletions   int       `json:"adhdCompletions" validate:"gte=0"`
	AutismCompletions int       `json:"autismCompletions" validate:"gte=0"`
	ADHDExports       int       `json:"adhdExports" validate:"gte=0"`
	AutismExports     int       `json:"autismExports" validate:"gte=0"`
	HomeVisits        int       `json:"homeVisits" validate:"gte=0"`
	ADHDVisits        int       `json:"adhdVisits" validate:"gte=0"`
	AutismVisits      int       `json:"autismVisits" validate:"gte=0"`
	AnalyticsVisits   int       `json:"analyticsVisits" validate:"gte=0"`
	AboutVisits       int       `json:"aboutVisits" validate:"gte=0"`
	TotalSessions     int       `json:"totalSessions" validate:"gte=0"`
	LastUpdated       time.Time `json:"lastUpdated"`
}

func (s *UsageStats) field(c Counter) *int {
	switch c {
	case ADHDStarts:
		return &s.ADHDStarts
	case AutismStarts:
		return &s.AutismStarts
	case ADHDCompletions:
		return &s.ADHDCompletions
	case AutismCompletions:
		return &s.AutismCompletions
	case ADHDExports:
		return &s.ADHDExports
	case AutismExports:
		return &s.AutismExports
	case HomeVisits:
		return &s.HomeVisits
	case ADHDVisits:
		return &s.ADHDVisits
	case AutismVisits:
		return &s.AutismVisits
	case AnalyticsVisits:
		return &s.AnalyticsVisits
	case AboutVisits:
		return &s.AboutVisits
	case TotalSessions:
		return &s.TotalSessions
	default:
		return nil
	}
}

// StartCounter is the questionnaire start counter of i.
func StartCounter(i questions.Instrument) Counter {
	return pick(i, ADHDStarts, AutismStarts)
}

// CompletionCounter is the submission counter of i.
func CompletionCounter(i questions.Instrument) Counter {
	return pick(i, ADHDCompletions, AutismCompletions)
}

// ExportCounter is the result export counter of i.
func ExportCounter(i questions.Instrument) Counter {
	return pick(i, ADHDExports, AutismExports)
}

// VisitCounter counts listings of i's questions.
func VisitCounter(i questions.Instrument) Counter {
	return pick(i, ADHDVisits, AutismVisits)
}

func pick(i questions.Instrument, adhd, autism Counter) Counter {
	if i == questions.Autism {
		return autism
	}
	return adhd
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock replaces time.Now for LastUpdated.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) { t.now = now }
}

// Disabled turns every mutation into a no-op. Reads still work.
func Disabled() Option {
	return func(t *Tracker) { t.disabled = true }
}

// Tracker reads and updates the usage counters.
type Tracker struct {
	mu       sync.Mutex
	store    *store.Store
	now      func() time.Time
	disabled bool
}

// New returns a Tracker persisting through s.
func New(s *store.Store, opts ...Option) *Tracker {
	t := &Tracker{store: s, now: time.Now}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Enabled reports whether mutations are recorded.
func (t *Tracker) Enabled() bool {
	return !t.disabled
}

// Stats returns the current counters; all zero when none are stored.
func (t *Tracker) Stats(ctx context.Context) (UsageStats, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.load(ctx)
}

func (t *Tracker) load(ctx context.Context) (UsageStats, error) {
	var stats UsageStats
	err := t.store.LoadJSON(ctx, Key, &stats)
	if errors.Is(err, store.ErrNotFound) {
		return UsageStats{}, nil
	}
	if err != nil {
		return UsageStats{}, fmt.Errorf("read usage stats: %w", err)
	}
	return stats, nil
}

// Increment adds one to counter c.
func (t *Tracker) Increment(ctx context.Context, c Counter) error {
	if t.disabled {
		return nil
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	stats, err := t.load(ctx)
	if errors.Is(err, store.ErrCorrupt) {
		// Unreadable counters restart from zero rather than blocking tracking
		stats, err = UsageStats{}, nil
	}
	if err != nil {
		return err
	}

	f := stats.field(c)
	if f == nil {
		return fmt.Errorf("%w: %q", ErrUnknownCounter, c)
	}
	*f++
	stats.LastUpdated = t.now().UTC()

	if err := t.store.SaveJSON(ctx, Key, &stats); err != nil {
		return fmt.Errorf("save usage stats: %w", err)
	}
	return nil
}

// Reset removes all counters.
func (t *Tracker) Reset(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.Clear(ctx, Key)
}

// Export returns the counters as indented JSON.
func (t *Tracker) Export(ctx context.Context) ([]byte, error) {
	stats, err := t.Stats(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode usage stats: %w", err)
	}
	return data, nil
}

// Summary holds the rates derived from a UsageStats.
type Summary struct {
	Stats                UsageStats
	ADHDCompletionRate   float64 // percent of starts, 0 when no starts
	AutismCompletionRate float64
	TotalUsers           int // max(home visits, sessions)
	MostPopular          questions.Instrument
	EngagementRate       float64 // completions per user, percent
}

// Summarize derives completion and engagement rates.
func Summarize(s UsageStats) Summary {
	sum := Summary{
		Stats:                s,
		ADHDCompletionRate:   rate(s.ADHDCompletions, s.ADHDStarts),
		AutismCompletionRate: rate(s.AutismCompletions, s.AutismStarts),
		TotalUsers:           max(s.HomeVisits, s.TotalSessions),
		MostPopular:          questions.Autism,
	}
	if s.ADHDStarts > s.AutismStarts {
		sum.MostPopular = questions.ADHD
	}
	sum.EngagementRate = rate(s.ADHDCompletions+s.AutismCompletions, sum.TotalUsers)
	return sum
}

// rate returns part/whole as a percentage rounded to one decimal.
func rate(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}

// String renders the summary as a plain-text report.
func (s Summary) String() string {
	st := s.Stats
	var b strings.Builder

	b.WriteString("=== NeuroScreen Usage Analytics ===\n\n")

	b.WriteString("QUESTIONNAIRE METRICS:\n")
	fmt.Fprintf(&b, "  ADHD: %d starts -> %d completions (%.1f%%)\n", st.ADHDStarts, st.ADHDCompletions, s.ADHDCompletionRate)
	fmt.Fprintf(&b, "  Autism: %d starts -> %d completions (%.1f%%)\n\n", st.AutismStarts, st.AutismCompletions, s.AutismCompletionRate)

	b.WriteString("VISITS:\n")
	fmt.Fprintf(&b, "  Home: %d\n  ADHD info: %d\n  Autism info: %d\n  About: %d\n  Analytics: %d\n\n",
		st.HomeVisits, st.ADHDVisits, st.AutismVisits, st.AboutVisits, st.AnalyticsVisits)

	b.WriteString("EXPORTS:\n")
	fmt.Fprintf(&b, "  ADHD results: %d\n  Autism results: %d\n\n", st.ADHDExports, st.AutismExports)

	b.WriteString("SESSIONS:\n")
	fmt.Fprintf(&b, "  Total sessions: %d\n", st.TotalSessions)
	if st.LastUpdated.IsZero() {
		b.WriteString("  Last updated: never\n\n")
	} else {
		fmt.Fprintf(&b, "  Last updated: %s\n\n", st.LastUpdated.Format(time.DateOnly))
	}

	b.WriteString("INSIGHTS:\n")
	fmt.Fprintf(&b, "  Total users: ~%d\n", s.TotalUsers)
	fmt.Fprintf(&b, "  Most popular: %s screener\n", popularName(s.MostPopular))
	fmt.Fprintf(&b, "  Engagement rate: %.1f%%\n", s.EngagementRate)

	return b.String()
}

func popularName(i questions.Instrument) string {
	if i == questions.ADHD {
		return "ADHD"
	}
	return "Autism"
}
