package db

import (
	"database/sql"
	"os"
	"path/filepath"

	_ "embed"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var Schema string

// OpenDB opens (and creates if needed) the sqlite database at path and applies
// the schema. ":memory:" opens an in-memory database.
func OpenDB(schema, path string) (*sql.DB, error) {
	if path != ":memory:" {
		err := os.MkdirAll(filepath.Dir(path), 0755)
		if err != nil {
			return nil, err
		}
	}

	sqlite, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every new connection would otherwise get its own empty database
		sqlite.SetMaxOpenConns(1)
	}

	_, err = sqlite.Exec(schema)
	if err != nil {
		sqlite.Close()
		return nil, err
	}
	return sqlite, nil
}
