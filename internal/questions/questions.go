// Package questions holds the compiled-in question banks for the two
// screening instruments (ASRS-v1.1 and AQ-10).
//
// Banks are immutable. Every accessor returns copies so callers cannot
// mutate the shared content.
package questions

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownInstrument is returned when an instrument name is not recognised.
	ErrUnknownInstrument = errors.New("questions: unknown instrument")
	// ErrQuestionNotFound is returned when a question index is out of range.
	ErrQuestionNotFound = errors.New("questions: question not found")
)

// Instrument identifies a screening questionnaire.
type Instrument string

const (
	ADHD   Instrument = "adhd"
	Autism Instrument = "autism"
)

// Instruments lists every supported instrument in display order.
func Instruments() []Instrument {
	return []Instrument{ADHD, Autism}
}

// ParseInstrument converts a user supplied name into an Instrument.
func ParseInstrument(name string) (Instrument, error) {
	switch Instrument(strings.ToLower(strings.TrimSpace(name))) {
	case ADHD:
		return ADHD, nil
	case Autism:
		return Autism, nil
	default:
		return "", fmt.Errorf("%w: %q (expected adhd or autism)", ErrUnknownInstrument, name)
	}
}

// Label returns the human readable instrument name used in exports.
func (i Instrument) Label() string {
	switch i {
	case ADHD:
		return "ADHD (ASRS-v1.1)"
	case Autism:
		return "Autism (AQ-10)"
	default:
		return string(i)
	}
}

// Part partitions ADHD questions into the two predictive tiers.
type Part string

const (
	PartNone Part = ""
	PartA    Part = "A"
	PartB    Part = "B"
)

// Question is a single item of a question bank.
type Question struct {
	ID      string
	Text    string
	Part    Part
	Options []string
	// ScoringIndices are the option positions that count toward the clinical score.
	ScoringIndices []int
}

// ValidOption reports whether responseIndex addresses one of the options.
func (q Question) ValidOption(responseIndex int) bool {
	return responseIndex >= 0 && responseIndex < len(q.Options)
}

// IsScoring reports whether responseIndex is a clinically scoring answer.
func (q Question) IsScoring(responseIndex int) bool {
	for _, idx := range q.ScoringIndices {
		if idx == responseIndex {
			return true
		}
	}
	return false
}

// OptionLabel returns the label for responseIndex, or "" when out of range.
func (q Question) OptionLabel(responseIndex int) string {
	if !q.ValidOption(responseIndex) {
		return ""
	}
	return q.Options[responseIndex]
}

// ScoringPattern joins the scoring option labels, e.g. "Often or Very Often".
func (q Question) ScoringPattern() string {
	labels := make([]string, 0, len(q.ScoringIndices))
	for _, idx := range q.ScoringIndices {
		labels = append(labels, q.OptionLabel(idx))
	}
	return strings.Join(labels, " or ")
}

func (q Question) clone() Question {
	c := q
	c.Options = append([]string(nil), q.Options...)
	c.ScoringIndices = append([]int(nil), q.ScoringIndices...)
	return c
}

func bank(instrument Instrument) ([]Question, error) {
	switch instrument {
	case ADHD:
		return adhdQuestions, nil
	case Autism:
		return autismQuestions, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownInstrument, instrument)
	}
}

// List returns the ordered questions of an instrument. Unknown instruments
// yield an empty list.
func List(instrument Instrument) []Question {
	qs, err := bank(instrument)
	if err != nil {
		return nil
	}
	out := make([]Question, len(qs))
	for i, q := range qs {
		out[i] = q.clone()
	}
	return out
}

// Count returns the number of questions in an instrument's bank.
func Count(instrument Instrument) int {
	qs, _ := bank(instrument)
	return len(qs)
}

// At returns the question at a zero-based position.
func At(instrument Instrument, index int) (Question, error) {
	qs, err := bank(instrument)
	if err != nil {
		return Question{}, err
	}
	if index < 0 || index >= len(qs) {
		return Question{}, fmt.Errorf("%w: %s index %d (have %d)", ErrQuestionNotFound, instrument, index, len(qs))
	}
	return qs[index].clone(), nil
}

// Find looks a question up by id.
func Find(instrument Instrument, id string) (Question, bool) {
	qs, err := bank(instrument)
	if err != nil {
		return Question{}, false
	}
	for _, q := range qs {
		if q.ID == id {
			return q.clone(), true
		}
	}
	return Question{}, false
}

// IndexOf returns the position of the question with the given id, or -1.
func IndexOf(instrument Instrument, id string) int {
	qs, _ := bank(instrument)
	for i, q := range qs {
		if q.ID == id {
			return i
		}
	}
	return -1
}

// Validate checks the structural invariants of an instrument's bank:
// at least two options per question, scoring indices inside the option
// range and pairwise distinct ids.
func Validate(instrument Instrument) error {
	qs, err := bank(instrument)
	if err != nil {
		return err
	}
	return validateBank(qs)
}

func validateBank(qs []Question) error {
	seen := make(map[string]bool, len(qs))
	for i, q := range qs {
		if q.ID == "" {
			return fmt.Errorf("question %d: empty id", i)
		}
		if seen[q.ID] {
			return fmt.Errorf("question %d: duplicate id %q", i, q.ID)
		}
		seen[q.ID] = true

		if len(q.Options) < 2 {
			return fmt.Errorf("question %s: needs at least 2 options, got %d", q.ID, len(q.Options))
		}
		for _, idx := range q.ScoringIndices {
			if !q.ValidOption(idx) {
				return fmt.Errorf("question %s: scoring index %d out of range", q.ID, idx)
			}
		}
	}
	return nil
}
