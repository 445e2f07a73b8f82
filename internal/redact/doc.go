// Package redact removes secrets from diff content before it is sent to the
// local model.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS credentials, bearer tokens, connection strings with
// inline passwords, and well-known vendor token prefixes.
//
// Path-based redaction is also supported: files whose paths match configured
// glob patterns are withheld from the prompt entirely rather than being
// scanned line by line.
package redact
