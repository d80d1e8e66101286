package namecache

import (
	"bufio"
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/roach88/pakview/internal/asset"
)

//go:embed schema.sql
var schemaSQL string

// Schema version tracking:
// 0 - Empty database
// 1 - asset_names table
const currentSchemaVersion = 1

// Cache is a persistent GUID to name mapping.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path.
// Applies required pragmas and the schema automatically.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open name cache: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to name cache: %w", err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("name cache schema version %d is newer than supported %d", version, currentSchemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("failed to execute schema: %w", err)
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}

	return nil
}

// LookupName implements asset.NameCache. Database errors are reported as
// a miss; use Get to see them.
func (c *Cache) LookupName(guid asset.GUID) (string, bool) {
	name, ok, err := c.Get(context.Background(), guid)
	if err != nil {
		return "", false
	}
	return name, ok
}

// Get returns the cached name for guid.
func (c *Cache) Get(ctx context.Context, guid asset.GUID) (string, bool, error) {
	var name string
	err := c.db.QueryRowContext(ctx,
		"SELECT name FROM asset_names WHERE guid = ?", int64(guid),
	).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get name %s: %w", guid, err)
	}
	return name, true, nil
}

// PutName stores or replaces the name for guid.
func (c *Cache) PutName(ctx context.Context, guid asset.GUID, name string) error {
	if guid.IsZero() {
		return fmt.Errorf("put name: zero GUID")
	}
	if name == "" {
		return fmt.Errorf("put name %s: empty name", guid)
	}
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO asset_names (guid, name) VALUES (?, ?)
		ON CONFLICT(guid) DO UPDATE SET name = excluded.name
	`, int64(guid), name)
	if err != nil {
		return fmt.Errorf("put name %s: %w", guid, err)
	}
	return nil
}

// Count returns the number of cached names.
func (c *Cache) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM asset_names").Scan(&n); err != nil {
		return 0, fmt.Errorf("count names: %w", err)
	}
	return n, nil
}

// ImportLines reads "GUID name" lines from r and stores them in a single
// transaction. Blank lines and lines starting with '#' are skipped. The
// name is the rest of the line after the GUID, trimmed. It returns the
// number of names stored.
func (c *Cache) ImportLines(ctx context.Context, r io.Reader) (int, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("import names: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO asset_names (guid, name) VALUES (?, ?)
		ON CONFLICT(guid) DO UPDATE SET name = excluded.name
	`)
	if err != nil {
		return 0, fmt.Errorf("import names: %w", err)
	}
	defer stmt.Close()

	scanner := bufio.NewScanner(r)
	count, lineNo := 0, 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		sep := strings.IndexAny(line, " \t")
		if sep < 0 {
			return 0, fmt.Errorf("import names: line %d: expected \"GUID name\"", lineNo)
		}
		guidText, name := line[:sep], strings.TrimSpace(line[sep:])
		if name == "" {
			return 0, fmt.Errorf("import names: line %d: expected \"GUID name\"", lineNo)
		}
		guid, err := asset.ParseGUID(guidText)
		if err != nil {
			return 0, fmt.Errorf("import names: line %d: %w", lineNo, err)
		}
		if guid.IsZero() {
			return 0, fmt.Errorf("import names: line %d: zero GUID", lineNo)
		}

		if _, err := stmt.ExecContext(ctx, int64(guid), name); err != nil {
			return 0, fmt.Errorf("import names: line %d: %w", lineNo, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("import names: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("import names: %w", err)
	}
	return count, nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (c *Cache) verifyPragma(name, expected string) error {
	var value string
	if err := c.db.QueryRow(fmt.Sprintf("PRAGMA %s", name)).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
