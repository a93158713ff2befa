// Package gmail provides a read-only client for one delegated Gmail mailbox.
//
// Each Client is bound to a single impersonated user and offers the two
// operations the sync pipeline needs:
//   - Windowed message listing with pagination (ListMessageIDs, DayWindowQuery)
//   - Body extraction with per-message retries (FetchBody)
//
// Body extraction walks the MIME part tree and prefers text/plain over
// text/html; base64url decoding falls back to standard base64 for payloads
// that arrive standard-encoded.
package gmail
