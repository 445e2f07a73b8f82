// Package gitctx reads the change set to review from a git repository.
//
// [GetDiff] shells out to git for the raw unified diff (work tree, staged, or
// against a base revision) using a five-line context window. Repository
// detection and metadata ([GetRepoMeta], [HooksDir]) go through go-git so no
// git process is needed for them. [ReadFileContext] loads the full current
// content of changed files with bounded concurrency.
package gitctx
