// Package config loads the sync configuration from the environment.
//
// The environment contract matches the CI job that dispatches gmailsink:
// Snowflake credentials via SNOWFLAKE_*, the service-account JSON via
// GOOGLE_APPLICATION_CREDENTIALS, and the mailboxes to sync via EMAILS.
// A .env file in the working directory is honored for local runs.
package config
