package datastore

import (
	"database/sql"
	"fmt"

	// pq is the PostgreSQL driver
	_ "github.com/lib/pq"
)

// DB is the shared connection pool. The store functions in this package all
// go through it; InitDB must run before any of them.
var DB *sql.DB

// InitDB opens the Postgres connection pool and verifies it with a ping.
func InitDB(dataSourceName string) error {
	var err error
	DB, err = sql.Open("postgres", dataSourceName)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	if err = DB.Ping(); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	return nil
}
