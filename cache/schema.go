package cache

// Tables:
//   - results: one row per extracted content hash and settings variant
//   - declarations: the declarations of a result, in source order
//   - file_index: the content hash last seen for each path
const schemaSQL = `
CREATE TABLE IF NOT EXISTS results (
    content_hash TEXT NOT NULL,
    variant TEXT NOT NULL,
    stored_at TEXT NOT NULL,
    PRIMARY KEY (content_hash, variant)
);

CREATE TABLE IF NOT EXISTS declarations (
    content_hash TEXT NOT NULL,
    variant TEXT NOT NULL,
    position INTEGER NOT NULL,
    name TEXT NOT NULL,
    data TEXT NOT NULL,
    PRIMARY KEY (content_hash, variant, position)
);

CREATE TABLE IF NOT EXISTS file_index (
    file_path TEXT PRIMARY KEY,
    content_hash TEXT NOT NULL,
    scanned_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_declarations_name ON declarations(name);
`

func (c *Cache) initSchema() error {
	_, err := c.db.Exec(schemaSQL)
	return err
}
