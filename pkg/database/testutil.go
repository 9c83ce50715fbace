package database

import (
	pgxmock "github.com/pashagolub/pgxmock/v4"
)

// NewMockPool returns a pgxmock pool for repository tests. It satisfies
// DBTX, so it drops in anywhere a real pool would. Tests should finish with
// ExpectationsWereMet to catch unfulfilled expectations.
func NewMockPool() (pgxmock.PgxPoolIface, error) {
	return pgxmock.NewPool()
}
