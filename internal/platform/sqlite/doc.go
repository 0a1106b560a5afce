// Package sqlite implements the internal/store interfaces on SQLite using
// sqlx and the go-sqlite3 driver. It backs local development and the
// service-level tests.
//
// Times are always bound in UTC so that the driver's text encoding sorts
// chronologically. The pool is limited to one connection, which makes every
// transaction exclusive; Lock and GetForUpdate rely on that.
package sqlite
