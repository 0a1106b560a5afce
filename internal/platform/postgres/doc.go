// Package postgres implements the internal/store interfaces on PostgreSQL
// through the pgx database/sql driver. Schema migrations are embedded and
// applied with goose. Per-key serialization uses transaction-scoped
// advisory locks for progress records and SELECT ... FOR UPDATE for habits.
package postgres
