// Package selection persists the most recent numbered listing so that a
// later invocation can turn a bare number back into the identifier the user
// saw on that line.
//
// The file holds a kind discriminator and the ordered entries. It is replaced
// as a whole by every listing and only read by number-resolving commands.
package selection

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// Kind tags what a listing held
type Kind string

const (
	KindTasks Kind = "tasks"
	KindRuns  Kind = "runs"
)

// Entry is one numbered line of a listing
type Entry struct {
	ID string `json:"id"`
	// Extra is optional display context, e.g. the task of a run
	Extra string `json:"extra,omitempty"`
}

// Lookup failures. All of them satisfy errors.Is(err, ErrNotFound).
var (
	ErrNotFound     = errors.New("selection not found")
	ErrEmpty        = fmt.Errorf("%w: no saved listing", ErrNotFound)
	ErrKindMismatch = fmt.Errorf("%w: last listing was of a different kind", ErrNotFound)
	ErrOutOfRange   = fmt.Errorf("%w: number out of range", ErrNotFound)
)

type document struct {
	Kind    Kind      `json:"kind"`
	Entries []Entry   `json:"entries"`
	SavedAt time.Time `json:"saved_at"`
}

// Store is a file-backed selection cache
type Store struct {
	path string
}

// NewStore returns a store backed by the file at path
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns the backing file
func (s *Store) Path() string {
	return s.path
}

// Save replaces the stored listing. Entries are numbered from 1 in the
// order given.
func (s *Store) Save(kind Kind, entries []Entry) error {
	if entries == nil {
		entries = []Entry{}
	}
	data, err := json.MarshalIndent(document{
		Kind:    kind,
		Entries: entries,
		SavedAt: time.Now().UTC(),
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode selection: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("create selection dir: %w", err)
	}

	lock := flock.New(s.path + ".lock")
	if err := lock.Lock(); err != nil {
		return fmt.Errorf("lock selection: %w", err)
	}
	defer lock.Unlock()

	tmp, err := os.CreateTemp(dir, ".selection-*.tmp")
	if err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write selection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write selection: %w", err)
	}
	return nil
}

// Resolve returns the entry shown as number (1-based) in the last listing,
// provided that listing was of the given kind. It only reads the local file.
func (s *Store) Resolve(kind Kind, number int) (Entry, error) {
	doc, err := s.load()
	if err != nil {
		return Entry{}, err
	}
	if doc.Kind != kind {
		return Entry{}, fmt.Errorf("%w (holds %s, want %s)", ErrKindMismatch, doc.Kind, kind)
	}
	if number < 1 || number > len(doc.Entries) {
		return Entry{}, fmt.Errorf("%w (%d not in 1-%d)", ErrOutOfRange, number, len(doc.Entries))
	}
	return doc.Entries[number-1], nil
}

// load reads the document. A missing, unreadable or corrupt file is
// reported as ErrEmpty.
func (s *Store) load() (document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return document{}, ErrEmpty
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil || doc.Kind == "" {
		return document{}, ErrEmpty
	}
	return doc, nil
}
