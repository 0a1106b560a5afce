// Package testutils provides shared helpers for tests across the codebase.
//
// Helper functions follow these naming conventions:
//   - New*: build a ready-to-use dependency (database, stores, clock)
//   - Create*: build valid domain entities in memory
//   - MustInsert*: persist entities and fail the test on error
package testutils
