// Package output renders review reports for people and for tools.
//
// [WriteReview] and [WriteDelta] print the colored terminal view. The
// exporters turn a [*review.Report] into machine formats:
//   - github: pull request review comments (go-github request shape)
//   - markdown: a compact summary for PR descriptions or chat
//   - sarif: SARIF v2.1.0 for code scanning uploads
//   - json: the full report
//
// Use [GetExporter] for a format name, or [Export] to write straight to a
// file or stdout.
package output
