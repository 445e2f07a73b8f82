// Codereview is a local-first CLI that reviews git changes with a model
// running on your own machine.
//
// It sends the diff to Ollama (or another local OpenAI-compatible server),
// parses the free-text answer into severity-tagged issues, compares them
// with the previous run, and exits with deterministic codes suitable for git
// hooks and CI gating.
//
// Usage:
//
//	codereview init --hook              # write .codereview.yaml and a pre-push hook
//	codereview review                   # review the diff against the base branch
//	codereview review --staged          # review staged changes
//	codereview review --since-last      # also show what changed since the last run
//	codereview review --export sarif --export-output review.sarif
//	codereview history                  # list past runs
//	codereview models doctor            # check the inference server and model
package main
