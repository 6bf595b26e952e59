package wardrobe

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/okian/closet/internal/domain/garment"
	"github.com/okian/closet/pkg/logger"
	"github.com/okian/closet/pkg/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS garments (
	id          TEXT PRIMARY KEY,
	name        TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL,
	formality   INTEGER NOT NULL CHECK (formality BETWEEN 1 AND 10),
	style_tags  TEXT NOT NULL DEFAULT '[]',
	brand       TEXT NOT NULL DEFAULT '',
	image_ref   TEXT NOT NULL DEFAULT '',
	created_at  TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_garments_category ON garments(category);
`

// SQLiteStore keeps garments in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger logger.Logger
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath and applies the schema.
func NewSQLiteStore(dbPath string, opts ...SQLiteOption) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("pragma busy_timeout: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	s := &SQLiteStore{
		db:     db,
		logger: logger.GetOrDiscard().Named("wardrobe-sqlite"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Wardrobe implements Provider.
func (s *SQLiteStore) Wardrobe(ctx context.Context) (garment.Wardrobe, error) {
	items, err := s.List(ctx)
	if err != nil {
		metrics.RecordWardrobeLoadError()
		return garment.Wardrobe{}, err
	}
	return build(items)
}

// Add inserts or replaces a garment.
func (s *SQLiteStore) Add(ctx context.Context, g garment.Garment) (garment.Garment, error) {
	g = withID(g)
	if err := g.Validate(); err != nil {
		return garment.Garment{}, err
	}
	tags, tagsJSON, err := encodeTags(&g)
	if err != nil {
		return garment.Garment{}, err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO garments (id, name, category, formality, style_tags, brand, image_ref, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   category = excluded.category,
		   formality = excluded.formality,
		   style_tags = excluded.style_tags,
		   brand = excluded.brand,
		   image_ref = excluded.image_ref`,
		g.ID, g.Name, string(g.Category), g.Formality, tagsJSON, g.Brand, g.ImageRef,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return garment.Garment{}, fmt.Errorf("insert garment: %w", err)
	}
	s.logger.Debug(ctx, "garment stored",
		logger.String("id", g.ID),
		logger.String("category", string(g.Category)))
	g.StyleTags = nil
	if len(tags) > 0 {
		g.StyleTags = tags
	}
	return g, nil
}

// List returns every garment ordered by category then id.
func (s *SQLiteStore) List(ctx context.Context) ([]garment.Garment, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, category, formality, style_tags, brand, image_ref FROM garments`)
	if err != nil {
		return nil, fmt.Errorf("query garments: %w", err)
	}
	defer rows.Close()

	var out []garment.Garment
	for rows.Next() {
		var (
			g        garment.Garment
			category string
			tagsJSON string
		)
		if err := rows.Scan(&g.ID, &g.Name, &category, &g.Formality, &tagsJSON, &g.Brand, &g.ImageRef); err != nil {
			return nil, fmt.Errorf("scan garment: %w", err)
		}
		if g.Category, err = garment.ParseCategory(category); err != nil {
			return nil, fmt.Errorf("garment %s: %w", g.ID, err)
		}
		if err := json.Unmarshal([]byte(tagsJSON), &g.StyleTags); err != nil {
			return nil, fmt.Errorf("unmarshal style tags for %s: %w", g.ID, err)
		}
		if len(g.StyleTags) == 0 {
			g.StyleTags = nil
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate garments: %w", err)
	}
	sortGarments(out)
	return out, nil
}

// Delete removes a garment by id.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM garments WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete garment: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete garment: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Import adds every item in one transaction.
func (s *SQLiteStore) Import(ctx context.Context, items []garment.Garment) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO garments (id, name, category, formality, style_tags, brand, image_ref, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("prepare import: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	for i := range items {
		g := withID(items[i])
		if err := g.Validate(); err != nil {
			return 0, err
		}
		_, tagsJSON, err := encodeTags(&g)
		if err != nil {
			return 0, err
		}
		if _, err := stmt.ExecContext(ctx, g.ID, g.Name, string(g.Category), g.Formality,
			tagsJSON, g.Brand, g.ImageRef, now); err != nil {
			return 0, fmt.Errorf("import garment %s: %w", g.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit import: %w", err)
	}
	return len(items), nil
}

// encodeTags stores normalised tags as a JSON array.
func encodeTags(g *garment.Garment) ([]string, string, error) {
	tags := g.Tags()
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return nil, "", fmt.Errorf("marshal style tags: %w", err)
	}
	return tags, string(b), nil
}
