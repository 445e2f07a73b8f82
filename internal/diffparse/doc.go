// Package diffparse turns raw unified-diff text into structured files, hunks,
// and lines.
//
// [Parse] never fails. It runs a small line lexer over the input with four
// states (before a section, inside a file header, just after a hunk header,
// inside a hunk body) and drops any file section whose "diff --git" header
// does not name an a/ and b/ path. Line numbers always refer to the new
// (target) side of the diff: added and context lines advance the counter,
// removed lines report the current position without advancing it.
package diffparse
