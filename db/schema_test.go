// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"testing"
)

func TestCreateSchemaIdempotent(t *testing.T) {
	conn, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	for i := 0; i < 2; i++ {
		if err := CreateSchema(conn); err != nil {
			t.Fatalf("CreateSchema() pass %d error = %v", i+1, err)
		}
	}

	for _, table := range []string{"vote_session", "idea", "voter", "vote", "result_snapshot"} {
		var name string
		err := conn.QueryRow(`SELECT name FROM sqlite_master WHERE type = 'table' AND name = $1`, table).Scan(&name)
		if err != nil {
			t.Errorf("table %s missing: %v", table, err)
		}
	}
}

func TestIsUniqueViolation(t *testing.T) {
	conn, err := Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer conn.Close()

	if err := CreateSchema(conn); err != nil {
		t.Fatal(err)
	}

	insert := `INSERT INTO vote_session (id, title, creator_name, method) VALUES ($1, 'T', 'C', 'borda')`
	if _, err := conn.Exec(insert, "s1"); err != nil {
		t.Fatal(err)
	}

	_, err = conn.Exec(insert, "s1")
	if err == nil {
		t.Fatal("expected duplicate key error")
	}
	if !IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = false, want true", err)
	}

	// CHECK failures are not uniqueness failures
	_, err = conn.Exec(`INSERT INTO vote_session (id, title, creator_name, method) VALUES ('s2', 'T', 'C', 'plurality')`)
	if err == nil {
		t.Fatal("expected check constraint error")
	}
	if IsUniqueViolation(err) {
		t.Errorf("IsUniqueViolation(%v) = true, want false", err)
	}
}

func TestOpenUnsupported(t *testing.T) {
	if _, err := Open("mysql", "whatever"); err == nil {
		t.Error("expected error for unsupported database type")
	}
}
