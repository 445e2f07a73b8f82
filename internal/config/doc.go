// Package config loads and merges codereview configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CODEREVIEW_MODEL, CODEREVIEW_BASE_BRANCH,
//     OLLAMA_HOST, CODEREVIEW_FAIL_ON, CODEREVIEW_LOG_LEVEL, CODEREVIEW_PROVIDER)
//  3. The project file .codereview.yaml, found in the working directory or
//     up to three of its parents
//  4. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Init] to write a default config
// file, and [Set] to update a single key in the config file.
package config
