package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/scoring"
)

// Legacy documents come from the browser build of the screener, which kept
// everything in local storage under these keys:
//
//	<instrument>-questionnaire            {responses, currentQuestion, timestamp}
//	<instrument>-questionnaire_results    {responses, completedAt, questionnaireType}
//	<instrument>-questionnaire-responses  {"<question index>": <response index>, ...}
//
// Timestamps are milliseconds since the epoch. The index map is the oldest
// layout and is keyed by question position, not id.

func legacyProgressKey(i questions.Instrument) string {
	return string(i) + "-questionnaire"
}

func legacyResultsKey(i questions.Instrument) string {
	return string(i) + "-questionnaire_results"
}

func legacyIndexMapKey(i questions.Instrument) string {
	return string(i) + "-questionnaire-responses"
}

func legacyKeys(i questions.Instrument) []string {
	return []string{legacyProgressKey(i), legacyResultsKey(i), legacyIndexMapKey(i)}
}

type legacyProgress struct {
	Responses       []scoring.Response `json:"responses"`
	CurrentQuestion int                `json:"currentQuestion"`
	Timestamp       int64              `json:"timestamp"`
}

type legacyResults struct {
	Responses   []scoring.Response `json:"responses"`
	CompletedAt int64              `json:"completedAt"`
}

func (s *Store) migrateLegacyProgress(ctx context.Context, i questions.Instrument) (*ProgressRecord, error) {
	data, err := s.backend.Get(ctx, legacyProgressKey(i))
	if err != nil {
		return nil, err
	}

	var old legacyProgress
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, fmt.Errorf("migrate %s: %w: %w: %v", legacyProgressKey(i), ErrUnavailable, ErrCorrupt, err)
	}

	rec := &ProgressRecord{
		Responses:            keepWellFormed(old.Responses),
		CurrentQuestionIndex: max(old.CurrentQuestion, 0),
		LastModified:         fromMillis(old.Timestamp),
	}
	if err := s.SaveProgress(ctx, i, rec); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", legacyProgressKey(i), err)
	}
	if err := s.Clear(ctx, legacyProgressKey(i)); err != nil {
		return nil, err
	}
	return rec, nil
}

// migrateLegacySubmission upgrades the newest legacy results document found,
// writes it under the current key and removes the legacy copy.
func (s *Store) migrateLegacySubmission(ctx context.Context, i questions.Instrument) (*SubmissionRecord, error) {
	rec, key, err := s.readLegacySubmission(ctx, i)
	if err != nil {
		return nil, err
	}

	rec.ID = uuid.NewString()
	if err := s.SaveSubmission(ctx, i, rec); err != nil {
		return nil, fmt.Errorf("migrate %s: %w", key, err)
	}
	if err := s.Clear(ctx, key); err != nil {
		return nil, err
	}
	return rec, nil
}

func (s *Store) readLegacySubmission(ctx context.Context, i questions.Instrument) (*SubmissionRecord, string, error) {
	key := legacyResultsKey(i)
	data, err := s.backend.Get(ctx, key)
	if err == nil {
		var old legacyResults
		if err := json.Unmarshal(data, &old); err != nil {
			return nil, key, fmt.Errorf("migrate %s: %w: %w: %v", key, ErrUnavailable, ErrCorrupt, err)
		}
		return &SubmissionRecord{
			Responses:   keepWellFormed(old.Responses),
			CompletedAt: fromMillis(old.CompletedAt),
		}, key, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, key, err
	}

	key = legacyIndexMapKey(i)
	data, err = s.backend.Get(ctx, key)
	if err != nil {
		return nil, key, err
	}
	responses, err := responsesFromIndexMap(i, data)
	if err != nil {
		return nil, key, fmt.Errorf("migrate %s: %w: %w: %v", key, ErrUnavailable, ErrCorrupt, err)
	}
	return &SubmissionRecord{Responses: responses}, key, nil
}

// responsesFromIndexMap converts {"<question index>": <response index>} into
// responses keyed by the bank's question ids. Positions outside the bank are
// dropped.
func responsesFromIndexMap(i questions.Instrument, data []byte) ([]scoring.Response, error) {
	var byIndex map[string]int
	if err := json.Unmarshal(data, &byIndex); err != nil {
		return nil, err
	}

	positions := make([]int, 0, len(byIndex))
	answers := make(map[int]int, len(byIndex))
	for k, v := range byIndex {
		pos, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("question index %q is not a number", k)
		}
		positions = append(positions, pos)
		answers[pos] = v
	}
	sort.Ints(positions)

	responses := make([]scoring.Response, 0, len(positions))
	for _, pos := range positions {
		q, err := questions.At(i, pos)
		if err != nil {
			continue
		}
		responses = append(responses, scoring.Response{QuestionID: q.ID, ResponseIndex: answers[pos]})
	}
	return keepWellFormed(responses), nil
}

// keepWellFormed drops entries that would fail record validation.
func keepWellFormed(responses []scoring.Response) []scoring.Response {
	out := make([]scoring.Response, 0, len(responses))
	for _, r := range responses {
		if r.QuestionID == "" || r.ResponseIndex < 0 {
			continue
		}
		out = append(out, r)
	}
	return out
}

func fromMillis(ms int64) time.Time {
	if ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// ImportLegacy copies raw browser storage entries (key to JSON string) into
// the backend and returns the imported keys in order. Only keys belonging to
// the legacy layout are accepted; the documents are migrated on the next load.
func (s *Store) ImportLegacy(ctx context.Context, entries map[string]string) ([]string, error) {
	allowed := make(map[string]bool)
	for _, i := range questions.Instruments() {
		for _, k := range legacyKeys(i) {
			allowed[k] = true
		}
	}

	keys := make([]string, 0, len(entries))
	for k := range entries {
		if allowed[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	for _, k := range keys {
		if err := s.backend.Put(ctx, k, []byte(entries[k])); err != nil {
			return nil, fmt.Errorf("import %s: %w", k, err)
		}
	}
	return keys, nil
}
