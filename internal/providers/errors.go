package providers

import (
	"errors"
	"fmt"
	"strings"
)

type rateLimitError struct {
	statusCode int
}

func (e *rateLimitError) Error() string {
	if e.statusCode != 0 {
		return fmt.Sprintf("rate limited (status %d)", e.statusCode)
	}
	return "rate limited"
}

type authError struct {
	message string
}

func (e *authError) Error() string {
	return "authentication error: " + e.message
}

type serverError struct {
	statusCode int
	body       string
}

func (e *serverError) Error() string {
	return fmt.Sprintf("server error (status %d): %s", e.statusCode, e.body)
}

type unavailableError struct {
	server string
	host   string
	err    error
}

func (e *unavailableError) Error() string {
	switch e.server {
	case "ollama":
		return fmt.Sprintf("Ollama not running or unreachable at %s\nStart it with: ollama serve", e.host)
	case "":
		return fmt.Sprintf("inference server not running or unreachable at %s", e.host)
	default:
		return fmt.Sprintf("%s server not running or unreachable at %s", e.server, e.host)
	}
}

func (e *unavailableError) Unwrap() error { return e.err }

type modelMissingError struct {
	model     string
	available []string
}

func (e *modelMissingError) Error() string {
	return fmt.Sprintf("model %q not found. Available: %s\nRun: ollama pull %s",
		e.model, strings.Join(e.available, ", "), e.model)
}

// IsAuthError checks if an error is an authentication error.
func IsAuthError(err error) bool {
	var ae *authError
	return errors.As(err, &ae)
}

// IsUnavailable reports whether err means the inference server cannot serve
// the request at all: it is unreachable or the model is not installed.
func IsUnavailable(err error) bool {
	var ue *unavailableError
	var me *modelMissingError
	return errors.As(err, &ue) || errors.As(err, &me)
}
