// Package providers talks to the local inference server that performs the
// review.
//
// Two backends implement [Backend]: [Ollama], which uses the native Ollama
// API client, and [OpenAICompat] for local servers exposing the OpenAI chat
// completions protocol such as LM Studio. Both retry with exponential
// back-off on rate limiting and 503 responses.
//
// [HealthCheck] confirms that the server is reachable and the requested
// model is installed before a review starts. [IsUnavailable] classifies the
// errors that mean no review can run at all.
package providers
