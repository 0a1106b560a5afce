// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, allowing business rules to remain
// independent of specific database technologies or persistence details.
//
// Two implementations exist: internal/platform/postgres (pgx) and
// internal/platform/sqlite (sqlx with go-sqlite3). Both bind a full set of
// stores to one transaction through the Transactor interface.
package store
