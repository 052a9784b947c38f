// Package postgres provides the Postgres-backed link store.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmacha/linkdex/internal/link"
)

// uniqueViolation is the SQLSTATE raised when the url constraint trips.
const uniqueViolation = "23505"

// Config controls the Postgres connection pool.
type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
}

type pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// LinkStore implements link.Store on a pgx connection pool.
type LinkStore struct {
	pool pool
}

// NewLinkStore connects a pool using the provided config.
func NewLinkStore(ctx context.Context, cfg Config) (*LinkStore, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("db.dsn is required")
	}
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if cfg.MaxConns > 0 {
		poolCfg.MaxConns = cfg.MaxConns
	}
	if cfg.MinConns > 0 {
		poolCfg.MinConns = cfg.MinConns
	}
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}
	p, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &LinkStore{pool: p}, nil
}

// NewLinkStoreWithPool constructs a store from an existing pool (primarily
// for testing).
func NewLinkStoreWithPool(p pool) (*LinkStore, error) {
	if p == nil {
		return nil, fmt.Errorf("pool is required")
	}
	return &LinkStore{pool: p}, nil
}

// Close releases the underlying pool resources.
func (s *LinkStore) Close() {
	if s == nil || s.pool == nil {
		return
	}
	s.pool.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS links (
	id          TEXT PRIMARY KEY,
	url         TEXT NOT NULL UNIQUE,
	title       TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	image_url   TEXT NOT NULL DEFAULT '',
	category    TEXT NOT NULL DEFAULT '',
	tags        TEXT[] NOT NULL DEFAULT '{}',
	ai_summary  TEXT NOT NULL DEFAULT '',
	domain      TEXT NOT NULL,
	status      TEXT NOT NULL,
	metadata    JSONB,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// Migrate creates the links table when it does not exist.
func (s *LinkStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create links table: %w", err)
	}
	return nil
}

const linkColumns = `id, url, title, description, image_url, category, tags,
	ai_summary, domain, status, metadata, created_at, updated_at`

// Create inserts a new record; the UNIQUE constraint on url is the
// authoritative duplicate guard.
func (s *LinkStore) Create(ctx context.Context, l link.Link) (link.Link, error) {
	metaJSON, err := marshalMetadata(l.Metadata)
	if err != nil {
		return link.Link{}, err
	}
	tags := l.Tags
	if tags == nil {
		tags = []string{}
	}
	query := `
INSERT INTO links (id, url, title, description, image_url, category, tags, ai_summary, domain, status, metadata)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
RETURNING ` + linkColumns
	row := s.pool.QueryRow(ctx, query,
		l.ID, l.URL, l.Title, l.Description, l.ImageURL, l.Category,
		tags, l.AISummary, l.Domain, string(l.Status), metaJSON,
	)
	created, err := scanLink(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return link.Link{}, link.ErrDuplicateURL
		}
		return link.Link{}, fmt.Errorf("insert link: %w", err)
	}
	return created, nil
}

// GetByURL fetches a record by its unique URL.
func (s *LinkStore) GetByURL(ctx context.Context, url string) (link.Link, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM links WHERE url = $1`, url)
	l, err := scanLink(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return link.Link{}, link.ErrNotFound
	}
	if err != nil {
		return link.Link{}, fmt.Errorf("select link by url: %w", err)
	}
	return l, nil
}

// GetByID fetches a record by identifier.
func (s *LinkStore) GetByID(ctx context.Context, id string) (link.Link, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+linkColumns+` FROM links WHERE id = $1`, id)
	l, err := scanLink(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return link.Link{}, link.ErrNotFound
	}
	if err != nil {
		return link.Link{}, fmt.Errorf("select link by id: %w", err)
	}
	return l, nil
}

// List returns up to link.ListLimit matching records, newest first.
func (s *LinkStore) List(ctx context.Context, filter link.ListFilter) ([]link.Link, error) {
	query := `SELECT ` + linkColumns + ` FROM links`
	var (
		clauses []string
		args    []any
	)
	if filter.Category != "" {
		args = append(args, filter.Category)
		clauses = append(clauses, fmt.Sprintf("category = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	for i, clause := range clauses {
		if i == 0 {
			query += " WHERE " + clause
		} else {
			query += " AND " + clause
		}
	}
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", link.ListLimit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	defer rows.Close()

	var out []link.Link
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scan link row: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate link rows: %w", err)
	}
	return out, nil
}

// UpdateTerminal applies the single post-creation mutation. The status
// predicate guarantees terminal states are never overwritten.
func (s *LinkStore) UpdateTerminal(ctx context.Context, id string, upd link.TerminalUpdate) (link.Link, error) {
	if !upd.Status.Terminal() {
		return link.Link{}, fmt.Errorf("update status %q is not terminal", upd.Status)
	}
	metaJSON, err := marshalMetadata(upd.Metadata)
	if err != nil {
		return link.Link{}, err
	}
	tags := upd.Tags
	if tags == nil {
		tags = []string{}
	}
	query := `
UPDATE links
SET status = $2, title = $3, description = $4, image_url = $5, category = $6,
	tags = $7, ai_summary = $8, metadata = $9, updated_at = now()
WHERE id = $1 AND status = $10
RETURNING ` + linkColumns
	row := s.pool.QueryRow(ctx, query,
		id, string(upd.Status), upd.Title, upd.Description, upd.ImageURL,
		upd.Category, tags, upd.AISummary, metaJSON, string(link.StatusProcessing),
	)
	l, err := scanLink(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return link.Link{}, link.ErrNotFound
	}
	if err != nil {
		return link.Link{}, fmt.Errorf("update link: %w", err)
	}
	return l, nil
}

// Delete removes a record; missing ids are a no-op.
func (s *LinkStore) Delete(ctx context.Context, id string) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM links WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}

func marshalMetadata(meta *link.PageMetadata) ([]byte, error) {
	if meta == nil {
		return nil, nil
	}
	out, err := json.Marshal(meta)
	if err != nil {
		return nil, fmt.Errorf("marshal metadata: %w", err)
	}
	return out, nil
}

func scanLink(row pgx.Row) (link.Link, error) {
	var (
		l        link.Link
		status   string
		metaJSON []byte
	)
	err := row.Scan(
		&l.ID, &l.URL, &l.Title, &l.Description, &l.ImageURL, &l.Category,
		&l.Tags, &l.AISummary, &l.Domain, &status, &metaJSON,
		&l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		return link.Link{}, err
	}
	l.Status = link.Status(status)
	if len(metaJSON) > 0 {
		var meta link.PageMetadata
		if err := json.Unmarshal(metaJSON, &meta); err != nil {
			return link.Link{}, fmt.Errorf("unmarshal metadata: %w", err)
		}
		l.Metadata = &meta
	}
	return l, nil
}
