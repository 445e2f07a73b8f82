package diffparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const twoFileDiff = `diff --git a/main.go b/main.go
index 1111111..2222222 100644
--- a/main.go
+++ b/main.go
@@ -1,4 +1,5 @@ package main
 package main
-import "os"
+import (
+	"os"
+)
 func main() {}
diff --git a/util.go b/util.go
index 3333333..4444444 100644
--- a/util.go
+++ b/util.go
@@ -10,3 +10,2 @@ func helper() {
 	a := 1
-	b := 2
 	return a
`

func TestParse_Empty(t *testing.T) {
	for _, raw := range []string{"", "   ", "\n\t\n"} {
		res := Parse(raw)
		assert.Empty(t, res.Files, "input %q", raw)
		assert.Zero(t, res.TotalAdditions)
		assert.Zero(t, res.TotalDeletions)
	}
}

func TestParse_TwoFiles(t *testing.T) {
	res := Parse(twoFileDiff)
	require.Len(t, res.Files, 2)

	main := res.Files[0]
	assert.Equal(t, "main.go", main.Path)
	assert.Equal(t, StatusModified, main.Status)
	assert.Empty(t, main.OldPath)
	assert.Equal(t, 3, main.Additions)
	assert.Equal(t, 1, main.Deletions)
	require.Len(t, main.Hunks, 1)
	assert.Equal(t, "@@ -1,4 +1,5 @@", main.Hunks[0].Header)

	util := res.Files[1]
	assert.Equal(t, "util.go", util.Path)
	assert.Equal(t, 0, util.Additions)
	assert.Equal(t, 1, util.Deletions)

	assert.Equal(t, 3, res.TotalAdditions)
	assert.Equal(t, 2, res.TotalDeletions)
	assert.Equal(t, twoFileDiff, res.Raw)
}

func TestParse_LineNumbers(t *testing.T) {
	res := Parse(twoFileDiff)
	lines := res.Files[0].Hunks[0].Lines

	want := []DiffLine{
		{Type: LineContext, LineNumber: 1, Content: "package main"},
		{Type: LineRemove, LineNumber: 2, Content: `import "os"`},
		{Type: LineAdd, LineNumber: 2, Content: "import ("},
		{Type: LineAdd, LineNumber: 3, Content: "\t\"os\""},
		{Type: LineAdd, LineNumber: 4, Content: ")"},
		{Type: LineContext, LineNumber: 5, Content: "func main() {}"},
	}
	assert.Equal(t, want, lines)
}

func TestParse_AddedFileConsecutiveLines(t *testing.T) {
	raw := `diff --git a/new.go b/new.go
new file mode 100644
index 0000000..5555555
--- /dev/null
+++ b/new.go
@@ -0,0 +10,3 @@
+one
+two
+three
`
	res := Parse(raw)
	require.Len(t, res.Files, 1)
	f := res.Files[0]
	assert.Equal(t, StatusAdded, f.Status)
	require.Len(t, f.Hunks, 1)

	var got []int
	for _, l := range f.Hunks[0].Lines {
		assert.Equal(t, LineAdd, l.Type)
		got = append(got, l.LineNumber)
	}
	assert.Equal(t, []int{10, 11, 12}, got)
}

func TestParse_RemovalDoesNotAdvance(t *testing.T) {
	raw := `diff --git a/a.go b/a.go
--- a/a.go
+++ b/a.go
@@ -7,2 +7,2 @@
 keep
-old
+new
`
	lines := Parse(raw).Files[0].Hunks[0].Lines
	require.Len(t, lines, 3)
	assert.Equal(t, LineContext, lines[0].Type)
	assert.Equal(t, LineRemove, lines[1].Type)
	assert.Equal(t, lines[0].LineNumber+1, lines[1].LineNumber)
	assert.Equal(t, LineAdd, lines[2].Type)
	assert.Equal(t, lines[1].LineNumber, lines[2].LineNumber)
}

func TestParse_Status(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		status  FileStatus
		path    string
		oldPath string
	}{
		{
			name:   "deleted",
			raw:    "diff --git a/gone.go b/gone.go\ndeleted file mode 100644\n--- a/gone.go\n+++ /dev/null\n@@ -1,1 +0,0 @@\n-bye\n",
			status: StatusDeleted,
			path:   "gone.go",
		},
		{
			name:    "renamed",
			raw:     "diff --git a/old/name.go b/new/name.go\nsimilarity index 100%\nrename from old/name.go\nrename to new/name.go\n",
			status:  StatusRenamed,
			path:    "new/name.go",
			oldPath: "old/name.go",
		},
		{
			name:   "new file wins over rename",
			raw:    "diff --git a/x.go b/y.go\nnew file mode 100644\n",
			status: StatusAdded,
			path:   "y.go",
		},
		{
			name:   "modified",
			raw:    "diff --git a/m.go b/m.go\n--- a/m.go\n+++ b/m.go\n@@ -1 +1 @@\n-a\n+b\n",
			status: StatusModified,
			path:   "m.go",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Parse(tt.raw)
			require.Len(t, res.Files, 1)
			assert.Equal(t, tt.status, res.Files[0].Status)
			assert.Equal(t, tt.path, res.Files[0].Path)
			assert.Equal(t, tt.oldPath, res.Files[0].OldPath)
		})
	}
}

func TestParse_BinaryFileHasNoHunks(t *testing.T) {
	raw := "diff --git a/logo.png b/logo.png\nnew file mode 100644\nindex 0000000..abcdef0\nBinary files /dev/null and b/logo.png differ\n"
	res := Parse(raw)
	require.Len(t, res.Files, 1)
	f := res.Files[0]
	assert.Equal(t, StatusAdded, f.Status)
	assert.Empty(t, f.Hunks)
	assert.Zero(t, f.Additions)
	assert.Zero(t, f.Deletions)
}

func TestParse_MalformedHeaderSkipped(t *testing.T) {
	raw := `diff --git garbage-without-paths
@@ -1 +1 @@
+ignored
diff --git a/ok.go b/ok.go
--- a/ok.go
+++ b/ok.go
@@ -1 +1,2 @@
 x
+y
`
	res := Parse(raw)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "ok.go", res.Files[0].Path)
	assert.Equal(t, 1, res.TotalAdditions)
}

func TestParse_IgnoresOtherLineShapes(t *testing.T) {
	raw := "diff --git a/a.txt b/a.txt\n--- a/a.txt\n+++ b/a.txt\n@@ -1 +1 @@\n-a\n\\ No newline at end of file\n+b\n\\ No newline at end of file\n"
	lines := Parse(raw).Files[0].Hunks[0].Lines
	require.Len(t, lines, 2)
	assert.Equal(t, LineRemove, lines[0].Type)
	assert.Equal(t, LineAdd, lines[1].Type)
	assert.Equal(t, 1, lines[1].LineNumber)
}

func TestParse_UnparsableRangeDefaultsToOne(t *testing.T) {
	raw := "diff --git a/a.txt b/a.txt\n@@ weird header @@\n+first\n+second\n"
	lines := Parse(raw).Files[0].Hunks[0].Lines
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].LineNumber)
	assert.Equal(t, 2, lines[1].LineNumber)
}

func TestParse_MultipleHunksResetCounter(t *testing.T) {
	raw := "diff --git a/a.go b/a.go\n--- a/a.go\n+++ b/a.go\n@@ -1,1 +1,2 @@\n x\n+y\n@@ -40,1 +41,2 @@ func f() {\n z\n+w\n"
	f := Parse(raw).Files[0]
	require.Len(t, f.Hunks, 2)
	assert.Equal(t, "@@ -40,1 +41,2 @@", f.Hunks[1].Header)
	assert.Equal(t, 41, f.Hunks[1].Lines[0].LineNumber)
	assert.Equal(t, 42, f.Hunks[1].Lines[1].LineNumber)
	assert.Equal(t, 2, f.Additions)
}

func TestParse_CountsMatchTotals(t *testing.T) {
	res := Parse(twoFileDiff)
	var adds, dels int
	for _, f := range res.Files {
		var fa, fd int
		for _, h := range f.Hunks {
			for _, l := range h.Lines {
				switch l.Type {
				case LineAdd:
					fa++
				case LineRemove:
					fd++
				}
			}
		}
		assert.Equal(t, fa, f.Additions, f.Path)
		assert.Equal(t, fd, f.Deletions, f.Path)
		adds += f.Additions
		dels += f.Deletions
	}
	assert.Equal(t, adds, res.TotalAdditions)
	assert.Equal(t, dels, res.TotalDeletions)
}

func TestParse_Idempotent(t *testing.T) {
	assert.Equal(t, Parse(twoFileDiff), Parse(twoFileDiff))
}

func TestDiffResult_Filter(t *testing.T) {
	res := Parse(twoFileDiff)
	kept := res.Filter(func(f DiffFile) bool { return f.Path != "main.go" })

	require.Len(t, kept.Files, 1)
	assert.Equal(t, "util.go", kept.Files[0].Path)
	assert.Equal(t, 0, kept.TotalAdditions)
	assert.Equal(t, 1, kept.TotalDeletions)
	assert.Len(t, res.Files, 2, "original result must not change")
}

func TestDiffResult_Paths(t *testing.T) {
	assert.Equal(t, []string{"main.go", "util.go"}, Parse(twoFileDiff).Paths())
	assert.Empty(t, Parse("").Paths())
}
