// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"
)

// Driver names registered by the imported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database of the given type and verifies the
// connection.
func Open(dbType, url string) (*sql.DB, error) {
	var driver string
	switch dbType {
	case "postgres":
		driver = DriverPostgres
	case "sqlite", "":
		driver = DriverSQLite
	default:
		return nil, fmt.Errorf("unsupported database type %q", dbType)
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", driver, err)
	}

	// SQLite allows one writer; serialize through a single connection
	if driver == DriverSQLite {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s: %w", driver, err)
	}
	return conn, nil
}

// IsUniqueViolation reports whether err is a unique-constraint failure from
// either driver.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return isSQLiteUniqueViolation(err)
}
