package store

import (
	"database/sql"
)

// NewTestStore creates a Store for testing on the given (usually in-memory)
// database, running migrations first. This is only intended for use in tests.
func NewTestStore(sqlDB *sql.DB) (*Store, error) {
	if err := prepare(sqlDB); err != nil {
		return nil, err
	}
	return newStore(sqlDB), nil
}
