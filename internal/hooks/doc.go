// Package hooks installs and removes the git hooks that run a review before
// pushing or committing.
//
// The hook body lives between marker comments, so a hook file that already
// holds other commands keeps them across install and uninstall. Blocking
// hooks abort the git operation when the review exits with 1 (issues at or
// above the fail-on threshold); advisory hooks only print a notice. Any other
// non-zero exit, such as the inference server being down, never blocks.
package hooks
