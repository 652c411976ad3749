package kb

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ppiankov/clausula/internal/model"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS passages (
	id               TEXT PRIMARY KEY,
	source_title     TEXT NOT NULL,
	jurisdiction_tag TEXT NOT NULL DEFAULT '',
	body             TEXT NOT NULL,
	embedding        BLOB
);
`

// Corpus is the persistent passage store backed by SQLite
type Corpus struct {
	db *sql.DB
}

// Open opens (or creates) the corpus database at path and runs migrations.
// Use ":memory:" for an ephemeral corpus.
func Open(path string) (*Corpus, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open corpus: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return &Corpus{db: db}, nil
}

// Close closes the underlying database connection
func (c *Corpus) Close() error {
	return c.db.Close()
}

// Upsert inserts or replaces one passage
func (c *Corpus) Upsert(ctx context.Context, p model.Passage) error {
	if p.ID == "" {
		return fmt.Errorf("upsert passage: empty id")
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO passages (id, source_title, jurisdiction_tag, body, embedding)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   source_title = excluded.source_title,
		   jurisdiction_tag = excluded.jurisdiction_tag,
		   body = excluded.body,
		   embedding = excluded.embedding`,
		p.ID, p.SourceTitle, p.JurisdictionTag, p.Text, encodeEmbedding(p.Embedding),
	)
	if err != nil {
		return fmt.Errorf("upsert passage %s: %w", p.ID, err)
	}
	return nil
}

// UpsertBatch writes all passages in one transaction
func (c *Corpus) UpsertBatch(ctx context.Context, passages []model.Passage) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO passages (id, source_title, jurisdiction_tag, body, embedding)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   source_title = excluded.source_title,
		   jurisdiction_tag = excluded.jurisdiction_tag,
		   body = excluded.body,
		   embedding = excluded.embedding`)
	if err != nil {
		return fmt.Errorf("prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, p := range passages {
		if p.ID == "" {
			return fmt.Errorf("upsert batch: empty passage id")
		}
		if _, err := stmt.ExecContext(ctx, p.ID, p.SourceTitle, p.JurisdictionTag, p.Text, encodeEmbedding(p.Embedding)); err != nil {
			return fmt.Errorf("upsert passage %s: %w", p.ID, err)
		}
	}
	return tx.Commit()
}

// Get fetches one passage by id
func (c *Corpus) Get(ctx context.Context, id string) (model.Passage, error) {
	var p model.Passage
	var blob []byte
	err := c.db.QueryRowContext(ctx,
		`SELECT id, source_title, jurisdiction_tag, body, embedding FROM passages WHERE id = ?`, id,
	).Scan(&p.ID, &p.SourceTitle, &p.JurisdictionTag, &p.Text, &blob)
	if err != nil {
		return model.Passage{}, fmt.Errorf("get passage %s: %w", id, err)
	}
	p.Embedding = decodeEmbedding(blob)
	return p, nil
}

// Count reports the number of stored passages
func (c *Corpus) Count(ctx context.Context) (int, error) {
	var n int
	if err := c.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM passages`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count passages: %w", err)
	}
	return n, nil
}

// MissingEmbeddings returns the passages that have no stored vector yet,
// in id order
func (c *Corpus) MissingEmbeddings(ctx context.Context) ([]model.Passage, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, source_title, jurisdiction_tag, body FROM passages
		 WHERE embedding IS NULL OR length(embedding) = 0 ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list unembedded: %w", err)
	}
	defer rows.Close()

	var out []model.Passage
	for rows.Next() {
		var p model.Passage
		if err := rows.Scan(&p.ID, &p.SourceTitle, &p.JurisdictionTag, &p.Text); err != nil {
			return nil, fmt.Errorf("scan passage: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// SetEmbedding stores the vector for one passage
func (c *Corpus) SetEmbedding(ctx context.Context, id string, vec []float32) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE passages SET embedding = ? WHERE id = ?`, encodeEmbedding(vec), id)
	if err != nil {
		return fmt.Errorf("set embedding %s: %w", id, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("set embedding %s: passage not found", id)
	}
	return nil
}

// Snapshot loads the whole corpus into memory for retrieval
func (c *Corpus) Snapshot(ctx context.Context) (*Snapshot, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT id, source_title, jurisdiction_tag, body, embedding FROM passages ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("snapshot corpus: %w", err)
	}
	defer rows.Close()

	var passages []model.Passage
	for rows.Next() {
		var p model.Passage
		var blob []byte
		if err := rows.Scan(&p.ID, &p.SourceTitle, &p.JurisdictionTag, &p.Text, &blob); err != nil {
			return nil, fmt.Errorf("scan passage: %w", err)
		}
		p.Embedding = decodeEmbedding(blob)
		passages = append(passages, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("snapshot corpus: %w", err)
	}
	return NewSnapshot(passages), nil
}

// Stats summarizes corpus state for the kb stats command
type Stats struct {
	Total    int            `json:"total"`    // Passages stored
	Embedded int            `json:"embedded"` // Passages with a vector
	Sources  map[string]int `json:"sources"`  // Passage count per source title
	Tags     map[string]int `json:"tags"`     // Passage count per jurisdiction tag
}

// Stats reports corpus totals with per-source and per-jurisdiction breakdowns
func (c *Corpus) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Sources: make(map[string]int), Tags: make(map[string]int)}

	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(CASE WHEN embedding IS NOT NULL AND length(embedding) > 0 THEN 1 END)
		 FROM passages`).Scan(&stats.Total, &stats.Embedded)
	if err != nil {
		return Stats{}, fmt.Errorf("corpus stats: %w", err)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT source_title, COUNT(*) FROM passages GROUP BY source_title`)
	if err != nil {
		return Stats{}, fmt.Errorf("corpus stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var title string
		var n int
		if err := rows.Scan(&title, &n); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		stats.Sources[title] = n
	}
	if err := rows.Err(); err != nil {
		return Stats{}, fmt.Errorf("corpus stats: %w", err)
	}

	tagRows, err := c.db.QueryContext(ctx,
		`SELECT jurisdiction_tag, COUNT(*) FROM passages GROUP BY jurisdiction_tag`)
	if err != nil {
		return Stats{}, fmt.Errorf("corpus stats: %w", err)
	}
	defer tagRows.Close()
	for tagRows.Next() {
		var tag string
		var n int
		if err := tagRows.Scan(&tag, &n); err != nil {
			return Stats{}, fmt.Errorf("scan stats: %w", err)
		}
		stats.Tags[tag] = n
	}
	return stats, tagRows.Err()
}

// encodeEmbedding packs a vector as little-endian float32 bytes. A nil or
// empty vector encodes as nil so SQL NULL round-trips.
func encodeEmbedding(vec []float32) []byte {
	if len(vec) == 0 {
		return nil
	}
	buf := make([]byte, len(vec)*4)
	for i, f := range vec {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

func decodeEmbedding(b []byte) []float32 {
	if len(b) < 4 {
		return nil
	}
	vec := make([]float32, len(b)/4)
	for i := range vec {
		vec[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return vec
}
