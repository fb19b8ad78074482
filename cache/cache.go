// Package cache stores extracted declarations in SQLite, keyed by the hash
// of the source they were extracted from, so unchanged files are not parsed
// again.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tliron/commonlog"
	_ "modernc.org/sqlite"

	"github.com/dhamidi/damap/format"
	"github.com/dhamidi/damap/model"
)

var log = commonlog.GetLogger("damap.cache")

type Cache struct {
	db     *sql.DB
	dbPath string
}

// Open opens or creates the cache database at path.
func Open(path string) (*Cache, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}

	// Writers from several goroutines queue on the single connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	c := &Cache{db: db, dbPath: path}
	if err := c.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	log.Debugf("opened cache %s", path)
	return c, nil
}

func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func (c *Cache) Path() string {
	return c.dbPath
}

// Hash returns the content hash used as cache key.
func Hash(src []byte) string {
	sum := sha256.Sum256(src)
	return hex.EncodeToString(sum[:])
}

// Lookup returns the declarations stored for the content hash under
// variant, which identifies the extraction settings. ok is false when
// nothing was stored, which is different from storing no declarations.
func (c *Cache) Lookup(hash, variant string) (decls []model.Declaration, ok bool, err error) {
	var storedAt string
	err = c.db.QueryRow(`
		SELECT stored_at FROM results WHERE content_hash = ? AND variant = ?`,
		hash, variant).Scan(&storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup %s: %w", hash, err)
	}

	rows, err := c.db.Query(`
		SELECT data FROM declarations
		WHERE content_hash = ? AND variant = ?
		ORDER BY position`, hash, variant)
	if err != nil {
		return nil, false, fmt.Errorf("query declarations: %w", err)
	}
	defer rows.Close()

	decls = []model.Declaration{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, false, fmt.Errorf("scan row: %w", err)
		}
		d, err := format.UnmarshalDeclaration([]byte(data))
		if err != nil {
			return nil, false, fmt.Errorf("cached declaration for %s: %w", hash, err)
		}
		decls = append(decls, d)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("iterate rows: %w", err)
	}
	return decls, true, nil
}

// Store replaces what is stored for the content hash under variant.
func (c *Cache) Store(hash, variant string, decls []model.Declaration) error {
	tx, err := c.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM declarations WHERE content_hash = ? AND variant = ?`, hash, variant); err != nil {
		return fmt.Errorf("clear declarations: %w", err)
	}
	if _, err := tx.Exec(`
		INSERT OR REPLACE INTO results (content_hash, variant, stored_at)
		VALUES (?, ?, ?)`,
		hash, variant, time.Now().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("store result: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO declarations (content_hash, variant, position, name, data)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, d := range decls {
		data, err := format.MarshalDeclaration(d)
		if err != nil {
			return fmt.Errorf("encode %s: %w", d.Name(), err)
		}
		if _, err := stmt.Exec(hash, variant, i, d.Name(), string(data)); err != nil {
			return fmt.Errorf("insert %s: %w", d.Name(), err)
		}
	}
	return tx.Commit()
}

// Clear removes all cached data.
func (c *Cache) Clear() error {
	_, err := c.db.Exec("DELETE FROM declarations; DELETE FROM results; DELETE FROM file_index;")
	if err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

type Stats struct {
	Results      int64
	Declarations int64
	Files        int64
}

func (c *Cache) Stats() (*Stats, error) {
	var stats Stats
	for _, q := range []struct {
		table string
		dst   *int64
	}{
		{"results", &stats.Results},
		{"declarations", &stats.Declarations},
		{"file_index", &stats.Files},
	} {
		if err := c.db.QueryRow("SELECT COUNT(*) FROM " + q.table).Scan(q.dst); err != nil {
			return nil, fmt.Errorf("count %s: %w", q.table, err)
		}
	}
	return &stats, nil
}
