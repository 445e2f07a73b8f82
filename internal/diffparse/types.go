package diffparse

// LineType classifies a single line inside a hunk.
type LineType string

const (
	LineAdd     LineType = "add"
	LineRemove  LineType = "remove"
	LineContext LineType = "context"
)

// FileStatus describes what happened to a file in the diff.
type FileStatus string

const (
	StatusAdded    FileStatus = "added"
	StatusModified FileStatus = "modified"
	StatusDeleted  FileStatus = "deleted"
	StatusRenamed  FileStatus = "renamed"
)

// DiffLine is one add, remove, or context line with its marker stripped.
type DiffLine struct {
	Type       LineType `json:"type"`
	LineNumber int      `json:"lineNumber"`
	Content    string   `json:"content"`
}

// DiffHunk is a contiguous block of lines under one "@@ ... @@" header.
type DiffHunk struct {
	Header string     `json:"header"`
	Lines  []DiffLine `json:"lines"`
}

// DiffFile is a single file section of the diff.
type DiffFile struct {
	Path      string     `json:"path"`
	OldPath   string     `json:"oldPath,omitempty"`
	Status    FileStatus `json:"status"`
	Additions int        `json:"additions"`
	Deletions int        `json:"deletions"`
	Hunks     []DiffHunk `json:"hunks"`
}

// DiffResult holds every parsed file plus the raw text it came from.
type DiffResult struct {
	Files          []DiffFile `json:"files"`
	TotalAdditions int        `json:"totalAdditions"`
	TotalDeletions int        `json:"totalDeletions"`
	Raw            string     `json:"-"`
}

// Paths returns the new-side path of every file, in diff order.
func (r DiffResult) Paths() []string {
	paths := make([]string, 0, len(r.Files))
	for _, f := range r.Files {
		paths = append(paths, f.Path)
	}
	return paths
}

// Filter returns a copy of r holding only the files keep accepts. Totals are
// recomputed from the kept files; Raw is carried over untouched.
func (r DiffResult) Filter(keep func(DiffFile) bool) DiffResult {
	out := DiffResult{Files: []DiffFile{}, Raw: r.Raw}
	for _, f := range r.Files {
		if !keep(f) {
			continue
		}
		out.Files = append(out.Files, f)
		out.TotalAdditions += f.Additions
		out.TotalDeletions += f.Deletions
	}
	return out
}
