package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

// MemoryDSN keeps the chronicle for the lifetime of the process only.
const MemoryDSN = ":memory:"

type Config struct {
	DSN string
}

func isMemory(dsn string) bool {
	return dsn == "" || dsn == MemoryDSN || strings.Contains(dsn, "mode=memory")
}

// ensureDir creates the parent directory of a file-backed database.
func ensureDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Open opens the SQLite database. An empty DSN means in-memory.
func Open(cfg Config) (*sql.DB, error) {
	dsn := cfg.DSN
	if dsn == "" {
		dsn = MemoryDSN
	}
	if !isMemory(dsn) {
		if err := ensureDir(dsn); err != nil {
			return nil, err
		}
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if isMemory(dsn) {
		// Every pooled connection to :memory: would see its own empty database.
		conn.SetMaxOpenConns(1)
	}
	return conn, nil
}
