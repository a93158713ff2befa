// Package ingest orchestrates the Gmail-to-Snowflake sync.
//
// Mailboxes are processed sequentially; within a mailbox, body fetches fan
// out over a bounded errgroup. All collected rows are loaded in a single
// batched insert at the end of the run, so a failed run loads nothing.
package ingest
