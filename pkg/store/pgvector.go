package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"

	"github.com/xhad/infographic/internal/types"
)

// ErrNotFound is returned by Get for an unknown id.
var ErrNotFound = errors.New("analysis not found")

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,62}$`)

type AnalysisStoreConfig struct {
	ConnString  string
	TableName   string
	VectorDim   int
	SearchLimit int
}

// AnalysisStore archives analyses in Postgres, with an optional pgvector
// embedding per row for similarity lookups.
type AnalysisStore struct {
	config AnalysisStoreConfig
	table  string
	pool   *pgxpool.Pool
}

func NewWithConfig(ctx context.Context, config AnalysisStoreConfig) (*AnalysisStore, error) {
	if config.TableName == "" {
		config.TableName = "analyses"
	}
	if config.VectorDim == 0 {
		config.VectorDim = 1536 // Default for OpenAI embeddings
	}
	if config.SearchLimit == 0 {
		config.SearchLimit = 5
	}
	if !tableNamePattern.MatchString(config.TableName) {
		return nil, fmt.Errorf("invalid table name %q", config.TableName)
	}
	if config.VectorDim < 1 {
		return nil, fmt.Errorf("invalid vector dimension %d", config.VectorDim)
	}

	pool, err := pgxpool.New(ctx, config.ConnString)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s := &AnalysisStore{
		config: config,
		table:  pgx.Identifier{config.TableName}.Sanitize(),
		pool:   pool,
	}

	if err := s.initialize(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return s, nil
}

func (s *AnalysisStore) initialize(ctx context.Context) error {
	// Enable pgvector extension
	if _, err := s.pool.Exec(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTable := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			title TEXT,
			summary TEXT,
			theme TEXT,
			analysis JSONB NOT NULL,
			embedding vector(%d),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.table, s.config.VectorDim)

	if _, err := s.pool.Exec(ctx, createTable); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	createIndex := fmt.Sprintf(`
		CREATE INDEX IF NOT EXISTS %s
		ON %s
		USING hnsw (embedding vector_cosine_ops)`,
		pgx.Identifier{s.config.TableName + "_embedding_idx"}.Sanitize(), s.table)

	if _, err := s.pool.Exec(ctx, createIndex); err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}

	return nil
}

// Save inserts rec or replaces the row with the same id.
func (s *AnalysisStore) Save(ctx context.Context, rec types.Record) error {
	if rec.ID == "" {
		return errors.New("record id is required")
	}
	payload, err := json.Marshal(rec.Analysis)
	if err != nil {
		return fmt.Errorf("failed to encode analysis: %w", err)
	}
	embedding, err := s.vector(rec.Embedding)
	if err != nil {
		return err
	}
	createdAt := rec.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	stmt := fmt.Sprintf(`
		INSERT INTO %s (id, source, title, summary, theme, analysis, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			source = EXCLUDED.source,
			title = EXCLUDED.title,
			summary = EXCLUDED.summary,
			theme = EXCLUDED.theme,
			analysis = EXCLUDED.analysis,
			embedding = EXCLUDED.embedding`,
		s.table)

	_, err = tx.Exec(ctx, stmt,
		rec.ID,
		rec.Source,
		strings.ToValidUTF8(rec.Analysis.Title, ""),
		strings.ToValidUTF8(rec.Analysis.Summary, ""),
		rec.Theme,
		payload,
		embedding,
		createdAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Get loads the record stored under id.
func (s *AnalysisStore) Get(ctx context.Context, id string) (*types.Record, error) {
	query := fmt.Sprintf(`
		SELECT id, source, theme, analysis, embedding, created_at
		FROM %s
		WHERE id = $1`, s.table)

	rec, err := scanRecord(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// Similar returns the stored analyses closest to embedding by cosine
// distance. Rows saved without an embedding are skipped.
func (s *AnalysisStore) Similar(ctx context.Context, embedding []float32, limit int) ([]types.Record, error) {
	if limit <= 0 {
		limit = s.config.SearchLimit
	}
	vec, err := s.vector(embedding)
	if err != nil {
		return nil, err
	}
	if vec == nil {
		return nil, errors.New("query embedding is empty")
	}

	query := fmt.Sprintf(`
		SELECT id, source, theme, analysis, embedding, created_at
		FROM %s
		WHERE embedding IS NOT NULL
		ORDER BY embedding <=> $1
		LIMIT $2`,
		s.table)

	rows, err := s.pool.Query(ctx, query, vec, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}
	defer rows.Close()

	records := []types.Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to query analyses: %w", err)
	}

	return records, nil
}

func (s *AnalysisStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// vector converts an embedding into a query argument; nil stands for NULL.
func (s *AnalysisStore) vector(embedding []float32) (any, error) {
	if len(embedding) == 0 {
		return nil, nil
	}
	if len(embedding) != s.config.VectorDim {
		return nil, fmt.Errorf("embedding has %d dimensions, table expects %d", len(embedding), s.config.VectorDim)
	}
	return pgvector.NewVector(embedding), nil
}

func scanRecord(row pgx.Row) (*types.Record, error) {
	var (
		rec       types.Record
		theme     *string
		payload   []byte
		embedding *pgvector.Vector
	)
	if err := row.Scan(&rec.ID, &rec.Source, &theme, &payload, &embedding, &rec.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan row: %w", err)
	}
	if theme != nil {
		rec.Theme = *theme
	}
	if embedding != nil {
		rec.Embedding = embedding.Slice()
	}
	if err := json.Unmarshal(payload, &rec.Analysis); err != nil {
		return nil, fmt.Errorf("failed to decode analysis %s: %w", rec.ID, err)
	}
	return &rec, nil
}
