// Package history persists review results so a run can be compared with the
// one before it.
//
// Each saved review becomes <id>.json inside the history directory
// (.codereview-history by default), where id is the UTC timestamp with
// ':' and '.' replaced by '-'. latest.json always mirrors the newest entry
// and index.json lists every id in save order. When the project has a
// .gitignore that does not mention the history directory yet, Save appends
// it.
package history
