package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dshills/codereview/internal/review"
)

// DefaultDir is the history directory relative to the repository root.
const DefaultDir = ".codereview-history"

const (
	latestFile = "latest.json"
	indexFile  = "index.json"
	idLayout   = "2006-01-02T15:04:05.000Z"
)

// Entry is one stored review.
type Entry struct {
	ID         string               `json:"id"`
	RunID      string               `json:"runId"`
	Timestamp  time.Time            `json:"timestamp"`
	Model      string               `json:"model"`
	Mode       string               `json:"mode"`
	IssueCount int                  `json:"issueCount"`
	Issues     []review.ReviewIssue `json:"issues"`
	LGTM       []string             `json:"lgtm"`
}

// Meta describes the run that produced a review.
type Meta struct {
	Model string
	Mode  string
	// RunID links the entry to a report; a new one is generated when empty.
	RunID string
}

// Store reads and writes review history under a project root.
type Store struct {
	root string
	dir  string
	now  func() time.Time
}

// New creates a Store. dir is resolved against root unless it is absolute;
// an empty dir means DefaultDir.
func New(root, dir string) *Store {
	if dir == "" {
		dir = DefaultDir
	}
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(root, dir)
	}
	return &Store{root: root, dir: dir, now: time.Now}
}

// Dir returns the history directory path.
func (s *Store) Dir() string {
	return s.dir
}

// Save stores r as a new entry and makes it the latest one.
func (s *Store) Save(r review.ParsedReview, meta Meta) (Entry, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return Entry{}, fmt.Errorf("creating history directory: %w", err)
	}
	if err := s.ensureGitignore(); err != nil {
		return Entry{}, err
	}

	now := s.now().UTC()
	entry := Entry{
		ID:         s.uniqueID(now),
		RunID:      meta.RunID,
		Timestamp:  now,
		Model:      meta.Model,
		Mode:       meta.Mode,
		IssueCount: len(r.Issues),
		Issues:     r.Issues,
		LGTM:       r.LGTM,
	}
	if entry.RunID == "" {
		entry.RunID = uuid.NewString()
	}
	if entry.Issues == nil {
		entry.Issues = []review.ReviewIssue{}
	}
	if entry.LGTM == nil {
		entry.LGTM = []string{}
	}

	data, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return Entry{}, fmt.Errorf("marshaling history entry: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, entry.ID+".json"), data, 0o644); err != nil {
		return Entry{}, fmt.Errorf("writing history entry: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, latestFile), data, 0o644); err != nil {
		return Entry{}, fmt.Errorf("writing latest entry: %w", err)
	}

	index := s.readIndex()
	index = append(index, entry.ID)
	idx, err := json.MarshalIndent(index, "", "  ")
	if err != nil {
		return Entry{}, fmt.Errorf("marshaling history index: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, indexFile), idx, 0o644); err != nil {
		return Entry{}, fmt.Errorf("writing history index: %w", err)
	}

	return entry, nil
}

// Latest returns the most recent entry, or nil when nothing was saved yet.
func (s *Store) Latest() (*Entry, error) {
	entry, err := readEntry(filepath.Join(s.dir, latestFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading latest review: %w", err)
	}
	return entry, nil
}

// List returns up to count entries, newest first. A count of zero or less
// returns everything. Entries that cannot be read are skipped.
func (s *Store) List(count int) ([]Entry, error) {
	index := s.readIndex()
	entries := make([]Entry, 0, len(index))
	for i := len(index) - 1; i >= 0; i-- {
		if count > 0 && len(entries) >= count {
			break
		}
		entry, err := readEntry(filepath.Join(s.dir, index[i]+".json"))
		if err != nil {
			continue
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Clear removes every stored entry, the latest pointer and the index.
// It returns how many entries were removed.
func (s *Store) Clear() (int, error) {
	files, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("reading history directory: %w", err)
	}
	var removed int
	for _, f := range files {
		name := f.Name()
		if filepath.Ext(name) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return removed, fmt.Errorf("removing %s: %w", name, err)
		}
		if name != latestFile && name != indexFile {
			removed++
		}
	}
	return removed, nil
}

func (s *Store) uniqueID(t time.Time) string {
	base := strings.NewReplacer(":", "-", ".", "-").Replace(t.Format(idLayout))
	id := base
	for n := 1; ; n++ {
		if _, err := os.Stat(filepath.Join(s.dir, id+".json")); os.IsNotExist(err) {
			return id
		}
		id = fmt.Sprintf("%s-%d", base, n)
	}
}

// readIndex returns the saved ids. A missing or corrupt index reads as empty.
func (s *Store) readIndex() []string {
	data, err := os.ReadFile(filepath.Join(s.dir, indexFile))
	if err != nil {
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil
	}
	return ids
}

func (s *Store) ensureGitignore() error {
	rel, err := filepath.Rel(s.root, s.dir)
	if err != nil || strings.HasPrefix(rel, "..") {
		return nil
	}
	rel = filepath.ToSlash(rel)

	path := filepath.Join(s.root, ".gitignore")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading .gitignore: %w", err)
	}
	if strings.Contains(string(data), rel) {
		return nil
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("opening .gitignore: %w", err)
	}
	defer f.Close()
	if _, err := fmt.Fprintf(f, "\n# Code review history\n%s/\n", rel); err != nil {
		return fmt.Errorf("updating .gitignore: %w", err)
	}
	return nil
}

func readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", filepath.Base(path), err)
	}
	return &entry, nil
}

