// Package store persists questionnaire progress and submissions.
//
// A Store layers typed records, validation and legacy-format migration over
// a Backend, which is a plain durable key/value byte store. Three backends
// are provided: FileStore (one JSON document per key, flock guarded),
// SQLiteStore and MemoryStore.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/harrison/neuroscreen/internal/questions"
	"github.com/harrison/neuroscreen/internal/scoring"
)

var (
	// ErrNotFound is returned when no record exists under a key.
	ErrNotFound = errors.New("store: record not found")
	// ErrUnavailable marks persistence failures (I/O errors, locked or full
	// storage, undecodable documents). Callers degrade to in-memory state.
	ErrUnavailable = errors.New("store: persistence unavailable")
	// ErrCorrupt marks a stored document that does not match the record schema.
	ErrCorrupt = errors.New("store: corrupt record")
)

// RecordVersion is the schema version written by this package.
const RecordVersion = 2

// Backend is a durable key/value byte store. Get returns ErrNotFound for
// missing keys and Delete of a missing key is not an error.
type Backend interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, data []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ProgressKey is the key of an instrument's in-flight progress record.
func ProgressKey(i questions.Instrument) string {
	return "progress:" + string(i)
}

// SubmissionKey is the key of an instrument's final submission record.
func SubmissionKey(i questions.Instrument) string {
	return "submission:" + string(i)
}

// ProgressRecord is the persisted state of an unfinished questionnaire.
//
// Responses are validated one entry at a time on load: a malformed entry is
// moved to Dropped and the rest of the record survives.
type ProgressRecord struct {
	Version              int                `json:"version"`
	Responses            []scoring.Response `json:"responses"`
	CurrentQuestionIndex int                `json:"currentQuestionIndex" validate:"gte=0"`
	LastModified         time.Time          `json:"lastModified"`
	Dropped              []scoring.Response `json:"-"`
}

// SubmissionRecord is the frozen response set of a completed questionnaire.
// Malformed entries are moved to Dropped on load, as for ProgressRecord.
type SubmissionRecord struct {
	Version     int                `json:"version"`
	ID          string             `json:"id" validate:"required"`
	Responses   []scoring.Response `json:"responses"`
	CompletedAt time.Time          `json:"completedAt"`
	Dropped     []scoring.Response `json:"-"`
}

// Store reads and writes typed records through a Backend.
type Store struct {
	backend  Backend
	validate *validator.Validate
}

// New wraps a backend.
func New(backend Backend) *Store {
	return &Store{
		backend:  backend,
		validate: validator.New(),
	}
}

// Open creates a Store for the named backend kind ("file", "sqlite" or
// "memory") rooted at dataDir.
func Open(kind, dataDir string) (*Store, error) {
	switch kind {
	case "file", "":
		fs, err := NewFileStore(dataDir)
		if err != nil {
			return nil, err
		}
		return New(fs), nil
	case "sqlite":
		ss, err := NewSQLiteStore(sqlitePath(dataDir))
		if err != nil {
			return nil, err
		}
		return New(ss), nil
	case "memory":
		return New(NewMemoryStore()), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q (expected file, sqlite or memory)", kind)
	}
}

// Backend exposes the underlying key/value store.
func (s *Store) Backend() Backend {
	return s.backend
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// LoadProgress returns the progress record of an instrument. When only a
// legacy progress document exists it is migrated first.
func (s *Store) LoadProgress(ctx context.Context, i questions.Instrument) (*ProgressRecord, error) {
	var rec ProgressRecord
	err := s.LoadJSON(ctx, ProgressKey(i), &rec)
	if errors.Is(err, ErrNotFound) {
		return s.migrateLegacyProgress(ctx, i)
	}
	if err != nil {
		return nil, err
	}
	rec.Responses, rec.Dropped = s.splitResponses(rec.Responses)
	return &rec, nil
}

// SaveProgress writes the progress record of an instrument.
func (s *Store) SaveProgress(ctx context.Context, i questions.Instrument, rec *ProgressRecord) error {
	rec.Version = RecordVersion
	return s.SaveJSON(ctx, ProgressKey(i), rec)
}

// LoadSubmission returns the submission record of an instrument, migrating
// legacy result documents when no current-format record exists.
func (s *Store) LoadSubmission(ctx context.Context, i questions.Instrument) (*SubmissionRecord, error) {
	var rec SubmissionRecord
	err := s.LoadJSON(ctx, SubmissionKey(i), &rec)
	if errors.Is(err, ErrNotFound) {
		return s.migrateLegacySubmission(ctx, i)
	}
	if err != nil {
		return nil, err
	}
	rec.Responses, rec.Dropped = s.splitResponses(rec.Responses)
	return &rec, nil
}

// SaveSubmission writes the submission record of an instrument.
func (s *Store) SaveSubmission(ctx context.Context, i questions.Instrument, rec *SubmissionRecord) error {
	rec.Version = RecordVersion
	return s.SaveJSON(ctx, SubmissionKey(i), rec)
}

// Clear removes the record stored under key.
func (s *Store) Clear(ctx context.Context, key string) error {
	if err := s.backend.Delete(ctx, key); err != nil {
		return fmt.Errorf("clear %s: %w", key, err)
	}
	return nil
}

// ClearInstrument removes both the progress and the submission record of an
// instrument, along with any legacy documents. It is all or nothing: when a
// delete fails, documents already removed are written back before the error
// is returned.
func (s *Store) ClearInstrument(ctx context.Context, i questions.Instrument) error {
	keys := append([]string{SubmissionKey(i), ProgressKey(i)}, legacyKeys(i)...)

	snapshot := make(map[string][]byte, len(keys))
	for _, key := range keys {
		data, err := s.backend.Get(ctx, key)
		switch {
		case errors.Is(err, ErrNotFound):
		case err != nil:
			return fmt.Errorf("clear %s: %w", key, err)
		default:
			snapshot[key] = data
		}
	}

	for n, key := range keys {
		if err := s.Clear(ctx, key); err != nil {
			if rerr := s.restore(context.WithoutCancel(ctx), keys[:n], snapshot); rerr != nil {
				return errors.Join(err, rerr)
			}
			return err
		}
	}
	return nil
}

// restore writes back the snapshotted documents of keys.
func (s *Store) restore(ctx context.Context, keys []string, snapshot map[string][]byte) error {
	var errs []error
	for _, key := range keys {
		data, ok := snapshot[key]
		if !ok {
			continue
		}
		if err := s.backend.Put(ctx, key, data); err != nil {
			errs = append(errs, fmt.Errorf("restore %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// LoadJSON decodes and validates the document under key into v.
func (s *Store) LoadJSON(ctx context.Context, key string, v interface{}) error {
	data, err := s.backend.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("load %s: %w: %w: %v", key, ErrUnavailable, ErrCorrupt, err)
	}
	if err := s.validateRecord(v); err != nil {
		return fmt.Errorf("load %s: %w: %w: %v", key, ErrUnavailable, ErrCorrupt, err)
	}
	return nil
}

// SaveJSON encodes v and writes it under key.
func (s *Store) SaveJSON(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.backend.Put(ctx, key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// splitResponses separates entries that pass validation from those that do
// not. The input slice is returned unchanged when every entry is valid.
func (s *Store) splitResponses(rs []scoring.Response) (kept, dropped []scoring.Response) {
	for i, r := range rs {
		if err := s.validate.Struct(r); err == nil {
			if dropped != nil {
				kept = append(kept, r)
			}
			continue
		}
		if dropped == nil {
			kept = append(make([]scoring.Response, 0, len(rs)), rs[:i]...)
		}
		dropped = append(dropped, r)
	}
	if dropped == nil {
		return rs, nil
	}
	return kept, dropped
}

// validateRecord runs struct validation. Values that are not structs (maps,
// slices) are accepted as decoded.
func (s *Store) validateRecord(v interface{}) error {
	err := s.validate.Struct(v)
	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil
	}
	return err
}
