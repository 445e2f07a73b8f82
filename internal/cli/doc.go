// Package cli wires together the Cobra command tree for the codereview
// binary.
//
// It defines the root command and all subcommands (review, init, config,
// hook, history, models, version), binds flags, reads configuration, runs
// the review engine, and returns deterministic exit codes for hooks and CI
// gating.
package cli
