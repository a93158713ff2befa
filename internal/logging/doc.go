// Package logging provides structured logging utilities for gmailsink.
//
// This package centralizes logging patterns to ensure consistent, structured
// logging throughout the codebase using the standard library's slog package.
//
// # Security Considerations
//
//   - Mailbox owner emails are hashed (UserHash) to prevent PII leakage while
//     still allowing correlation across a run
//   - Credentials and tokens are never logged directly; use SanitizeToken
package logging
