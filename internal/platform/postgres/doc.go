// Package postgres implements the store interfaces on PostgreSQL via
// database/sql over the pgx driver. Writes to scheduler-owned state use
// version-guarded conditional updates so concurrent reviews of the same
// card or streak surface as retryable conflicts instead of silent
// lost updates.
package postgres
