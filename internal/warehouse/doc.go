// Package warehouse loads extracted email bodies into Snowflake.
//
// The Store wraps a database/sql pool over the gosnowflake driver and
// appends rows to a single table in batched, transactional inserts. The
// table is append-only; deduplication is left to downstream models.
package warehouse
