package diffparse

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	fileHeaderPrefix  = "diff --git "
	newFileMarker     = "new file mode"
	deletedFileMarker = "deleted file mode"
)

var (
	// Matches the remainder of a "diff --git " line, e.g. "a/x.go b/x.go".
	filePathsPattern  = regexp.MustCompile(`a/(.+?) b/(.+)$`)
	hunkHeaderPattern = regexp.MustCompile(`^(@@ .+ @@)`)
	hunkRangePattern  = regexp.MustCompile(`@@ -\d+(?:,\d+)? \+(\d+)(?:,\d+)? @@`)
)

type lexState int

const (
	stateBeforeSection lexState = iota
	stateFileHeader
	stateHunkHeader
	stateHunkBody
)

// section accumulates one file while the lexer is inside it.
type section struct {
	oldPath   string
	newPath   string
	isNew     bool
	isDeleted bool
	hunks     []DiffHunk
}

type lexer struct {
	state lexState
	cur   *section
	hunk  *DiffHunk
	next  int // current position in the target file
	files []DiffFile
}

// Parse converts raw unified-diff text into a DiffResult. Sections with an
// unrecognised file header are skipped without being reported.
func Parse(raw string) DiffResult {
	if strings.TrimSpace(raw) == "" {
		return DiffResult{Files: []DiffFile{}, Raw: raw}
	}

	lx := &lexer{}
	for _, line := range strings.Split(raw, "\n") {
		lx.feed(line)
	}
	lx.closeSection()

	result := DiffResult{Files: lx.files, Raw: raw}
	if result.Files == nil {
		result.Files = []DiffFile{}
	}
	for _, f := range result.Files {
		result.TotalAdditions += f.Additions
		result.TotalDeletions += f.Deletions
	}
	return result
}

func (lx *lexer) feed(line string) {
	if rest, ok := strings.CutPrefix(line, fileHeaderPrefix); ok {
		lx.closeSection()
		lx.openSection(rest)
		return
	}

	switch lx.state {
	case stateBeforeSection:
		// Either no section has started yet or the current one is being skipped.
	case stateFileHeader:
		if lx.openHunk(line) {
			return
		}
		switch {
		case strings.HasPrefix(line, newFileMarker):
			lx.cur.isNew = true
		case strings.HasPrefix(line, deletedFileMarker):
			lx.cur.isDeleted = true
		}
	case stateHunkHeader, stateHunkBody:
		if lx.openHunk(line) {
			return
		}
		lx.state = stateHunkBody
		lx.bodyLine(line)
	}
}

func (lx *lexer) openSection(paths string) {
	m := filePathsPattern.FindStringSubmatch(paths)
	if m == nil {
		lx.state = stateBeforeSection
		return
	}
	lx.cur = &section{oldPath: m[1], newPath: m[2], hunks: []DiffHunk{}}
	lx.state = stateFileHeader
}

func (lx *lexer) openHunk(line string) bool {
	m := hunkHeaderPattern.FindStringSubmatch(line)
	if m == nil {
		return false
	}
	lx.closeHunk()
	lx.hunk = &DiffHunk{Header: m[1], Lines: []DiffLine{}}
	lx.next = hunkStart(m[1])
	lx.state = stateHunkHeader
	return true
}

func (lx *lexer) bodyLine(line string) {
	if line == "" {
		return
	}
	switch line[0] {
	case '+':
		lx.record(LineAdd, line[1:])
		lx.next++
	case '-':
		lx.record(LineRemove, line[1:])
	case ' ':
		lx.record(LineContext, line[1:])
		lx.next++
	}
}

func (lx *lexer) record(t LineType, content string) {
	lx.hunk.Lines = append(lx.hunk.Lines, DiffLine{Type: t, LineNumber: lx.next, Content: content})
}

func (lx *lexer) closeHunk() {
	if lx.hunk == nil {
		return
	}
	lx.cur.hunks = append(lx.cur.hunks, *lx.hunk)
	lx.hunk = nil
}

func (lx *lexer) closeSection() {
	if lx.cur == nil {
		lx.state = stateBeforeSection
		return
	}
	lx.closeHunk()

	s := lx.cur
	file := DiffFile{
		Path:   s.newPath,
		Status: sectionStatus(s),
		Hunks:  s.hunks,
	}
	if file.Status == StatusRenamed {
		file.OldPath = s.oldPath
	}
	for _, h := range s.hunks {
		for _, l := range h.Lines {
			switch l.Type {
			case LineAdd:
				file.Additions++
			case LineRemove:
				file.Deletions++
			}
		}
	}
	lx.files = append(lx.files, file)
	lx.cur = nil
	lx.state = stateBeforeSection
}

func sectionStatus(s *section) FileStatus {
	switch {
	case s.isNew:
		return StatusAdded
	case s.isDeleted:
		return StatusDeleted
	case s.oldPath != s.newPath:
		return StatusRenamed
	default:
		return StatusModified
	}
}

// hunkStart returns the new-range start of a hunk header, or 1 when the
// header carries no parsable range.
func hunkStart(header string) int {
	m := hunkRangePattern.FindStringSubmatch(header)
	if m == nil {
		return 1
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 1
	}
	return n
}
