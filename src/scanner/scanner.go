// Package scanner discovers task identifiers declared in local source files.
package scanner

import (
	"bytes"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/apimgr/trigger/src/model"
)

// DefaultRoot is the folder scanned when none is configured
const DefaultRoot = "tasks"

// Default file globs, relative to the root
var (
	DefaultInclude = []string{"**/*.ts"}
	DefaultExclude = []string{"**/node_modules/**"}
)

// maxFileSize is the largest source file read; bigger files are skipped
var maxFileSize int64 = 4 << 20

// binarySniffLen is how many leading bytes are checked for NUL
const binarySniffLen = 8000

// idPattern matches an `id: "..."` field inside a task declaration
var idPattern = regexp.MustCompile(`\bid:\s*['"]([^'"\n]+)['"]`)

// Scanner walks a directory tree for task declarations
type Scanner struct {
	Root    string
	Include []string
	Exclude []string
}

// New returns a scanner with defaults filled in for empty arguments
func New(root string, include, exclude []string) *Scanner {
	if root == "" {
		root = DefaultRoot
	}
	if len(include) == 0 {
		include = DefaultInclude
	}
	if exclude == nil {
		exclude = DefaultExclude
	}
	return &Scanner{Root: root, Include: include, Exclude: exclude}
}

// Scan returns the task identifiers found under Root, deduplicated with the
// first occurrence kept. Files are visited in lexicographic order of their
// slash-separated path relative to Root, and matches within a file in order
// of appearance, so an unchanged tree always yields the same sequence.
// A non-empty search keeps identifiers containing it, ignoring case.
//
// A missing root, unreadable files and binary files are not errors; they
// just contribute nothing.
func (s *Scanner) Scan(search string) []model.Task {
	tasks := make([]model.Task, 0)

	info, err := os.Stat(s.Root)
	if err != nil || !info.IsDir() {
		slog.Debug("scan root unavailable", "root", s.Root, "error", err)
		return tasks
	}

	fsys := os.DirFS(s.Root)
	files := s.sourceFiles(fsys)

	search = strings.ToLower(search)
	seen := make(map[string]bool)

	for _, rel := range files {
		for _, id := range extractIDs(fsys, rel) {
			if seen[id] {
				continue
			}
			if search != "" && !strings.Contains(strings.ToLower(id), search) {
				continue
			}
			seen[id] = true
			tasks = append(tasks, model.Task{
				ID:   id,
				Path: path.Join(filepath.ToSlash(s.Root), rel),
			})
		}
	}
	return tasks
}

// sourceFiles lists matching files, sorted
func (s *Scanner) sourceFiles(fsys fs.FS) []string {
	var files []string

	_ = fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			slog.Debug("scan skipped", "path", p, "error", err)
			if d != nil && d.IsDir() && p != "." {
				return fs.SkipDir
			}
			return nil
		}
		if p == "." {
			return nil
		}
		if matchAny(s.Exclude, p) {
			if d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if matchAny(s.Include, p) {
			files = append(files, p)
		}
		return nil
	})

	sort.Strings(files)
	return files
}

// extractIDs returns declared ids in order of appearance. Unreadable,
// oversized and binary files yield nothing.
func extractIDs(fsys fs.FS, rel string) []string {
	info, err := fs.Stat(fsys, rel)
	if err != nil {
		slog.Debug("scan skipped", "path", rel, "error", err)
		return nil
	}
	if info.Size() > maxFileSize {
		slog.Debug("scan skipped: file too large", "path", rel, "size", info.Size(), "limit", maxFileSize)
		return nil
	}

	data, err := fs.ReadFile(fsys, rel)
	if err != nil {
		slog.Debug("scan skipped", "path", rel, "error", err)
		return nil
	}
	if isBinary(data) {
		return nil
	}

	var ids []string
	for _, m := range idPattern.FindAllSubmatch(data, -1) {
		id := string(m[1])
		// template placeholders such as $campaignId or ${name}
		if strings.HasPrefix(id, "$") || strings.Contains(id, "${") {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

func isBinary(data []byte) bool {
	if len(data) > binarySniffLen {
		data = data[:binarySniffLen]
	}
	return bytes.IndexByte(data, 0) >= 0
}

func matchAny(patterns []string, p string) bool {
	for _, pattern := range patterns {
		if ok, _ := doublestar.Match(pattern, p); ok {
			return true
		}
	}
	return false
}
