package cache

import (
	"fmt"
	"time"
)

type FileEntry struct {
	Path      string
	Hash      string
	ScannedAt time.Time
}

// SetFileScanned records the content hash last extracted for path.
func (c *Cache) SetFileScanned(path, hash string) error {
	_, err := c.db.Exec(`
		INSERT OR REPLACE INTO file_index (file_path, content_hash, scanned_at)
		VALUES (?, ?, ?)`,
		path, hash, time.Now().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("set file scanned %s: %w", path, err)
	}
	return nil
}

func (c *Cache) FileEntries() ([]FileEntry, error) {
	rows, err := c.db.Query(`
		SELECT file_path, content_hash, scanned_at FROM file_index ORDER BY file_path`)
	if err != nil {
		return nil, fmt.Errorf("query file entries: %w", err)
	}
	defer rows.Close()

	var entries []FileEntry
	for rows.Next() {
		var entry FileEntry
		var scannedAt string
		if err := rows.Scan(&entry.Path, &entry.Hash, &scannedAt); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		entry.ScannedAt, _ = time.Parse(time.RFC3339, scannedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate rows: %w", err)
	}
	return entries, nil
}

func (c *Cache) DeleteFileEntry(path string) error {
	if _, err := c.db.Exec("DELETE FROM file_index WHERE file_path = ?", path); err != nil {
		return fmt.Errorf("delete file entry %s: %w", path, err)
	}
	return nil
}
