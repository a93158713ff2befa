// Package google handles service-account authentication for Google APIs.
//
// Unlike interactive OAuth flows, this package authenticates with a
// Workspace service account that has domain-wide delegation. The
// Impersonator wraps the parsed JWT config and hands out per-mailbox HTTP
// clients, mirroring how the delegation subject is set per user.
package google
