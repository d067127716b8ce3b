package selection

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "cache", "selection.json"))
}

func entries(ids ...string) []Entry {
	out := make([]Entry, len(ids))
	for i, id := range ids {
		out[i] = Entry{ID: id}
	}
	return out
}

func TestSaveThenResolveEveryPosition(t *testing.T) {
	listings := [][]string{
		{"only-one"},
		{"send-email-batch", "cleanup-cron"},
		{"a", "b", "c", "d", "e", "f", "g", "h", "i", "j", "k", "l"},
	}

	for _, ids := range listings {
		t.Run(fmt.Sprintf("len=%d", len(ids)), func(t *testing.T) {
			s := newTestStore(t)
			if err := s.Save(KindTasks, entries(ids...)); err != nil {
				t.Fatalf("Save() error = %v", err)
			}
			for i, want := range ids {
				got, err := s.Resolve(KindTasks, i+1)
				if err != nil {
					t.Fatalf("Resolve(%d) error = %v", i+1, err)
				}
				if got.ID != want {
					t.Errorf("Resolve(%d) = %q, want %q", i+1, got.ID, want)
				}
			}
		})
	}
}

func TestResolveOutOfRange(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(KindTasks, entries("a", "b", "c")); err != nil {
		t.Fatal(err)
	}

	for _, n := range []int{0, -1, 4, 5, 100} {
		_, err := s.Resolve(KindTasks, n)
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("Resolve(%d) error = %v, want ErrOutOfRange", n, err)
		}
		if !errors.Is(err, ErrNotFound) {
			t.Errorf("Resolve(%d) error should wrap ErrNotFound", n)
		}
	}
}

func TestResolveKindMismatch(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(KindRuns, entries("run_1", "run_2")); err != nil {
		t.Fatal(err)
	}

	// 1 is in range for the runs listing but must not resolve as a task
	_, err := s.Resolve(KindTasks, 1)
	if !errors.Is(err, ErrKindMismatch) {
		t.Errorf("Resolve(tasks, 1) error = %v, want ErrKindMismatch", err)
	}

	got, err := s.Resolve(KindRuns, 2)
	if err != nil || got.ID != "run_2" {
		t.Errorf("Resolve(runs, 2) = %v, %v", got, err)
	}
}

func TestResolveEmpty(t *testing.T) {
	s := newTestStore(t)

	_, err := s.Resolve(KindTasks, 1)
	if !errors.Is(err, ErrEmpty) {
		t.Errorf("Resolve() on missing file error = %v, want ErrEmpty", err)
	}
}

func TestResolveCorruptFile(t *testing.T) {
	s := newTestStore(t)
	if err := os.MkdirAll(filepath.Dir(s.Path()), 0700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(s.Path(), []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Resolve(KindTasks, 1); !errors.Is(err, ErrEmpty) {
		t.Errorf("Resolve() on corrupt file error = %v, want ErrEmpty", err)
	}
}

func TestSaveOverwrites(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(KindTasks, entries("a", "b", "c")); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(KindTasks, entries("z")); err != nil {
		t.Fatal(err)
	}

	got, err := s.Resolve(KindTasks, 1)
	if err != nil || got.ID != "z" {
		t.Errorf("Resolve(1) = %v, %v, want z", got, err)
	}
	if _, err := s.Resolve(KindTasks, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Resolve(2) after overwrite error = %v, want ErrOutOfRange", err)
	}
}

func TestSaveSupersedesOtherKind(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(KindRuns, entries("run_1")); err != nil {
		t.Fatal(err)
	}
	if err := s.Save(KindTasks, entries("task-a")); err != nil {
		t.Fatal(err)
	}

	if _, err := s.Resolve(KindRuns, 1); !errors.Is(err, ErrKindMismatch) {
		t.Errorf("Resolve(runs, 1) error = %v, want ErrKindMismatch", err)
	}
}

func TestSaveEmptyListing(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(KindTasks, nil); err != nil {
		t.Fatalf("Save(nil) error = %v", err)
	}

	if _, err := s.Resolve(KindTasks, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Resolve(1) on empty listing error = %v, want ErrOutOfRange", err)
	}
}

func TestSaveKeepsExtra(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(KindRuns, []Entry{{ID: "run_1", Extra: "send-email"}}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Resolve(KindRuns, 1)
	if err != nil {
		t.Fatal(err)
	}
	if got.Extra != "send-email" {
		t.Errorf("Extra = %q", got.Extra)
	}
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	s := newTestStore(t)
	if err := s.Save(KindTasks, entries("a")); err != nil {
		t.Fatal(err)
	}

	files, err := os.ReadDir(filepath.Dir(s.Path()))
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		if filepath.Ext(f.Name()) == ".tmp" {
			t.Errorf("leftover temp file %s", f.Name())
		}
	}
}

func TestSaveFailsOnUnwritableLocation(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0600); err != nil {
		t.Fatal(err)
	}

	// parent path is a regular file, so the directory cannot be created
	s := NewStore(filepath.Join(blocker, "selection.json"))
	if err := s.Save(KindTasks, entries("a")); err == nil {
		t.Error("Save() should fail when the directory cannot be created")
	}
}
