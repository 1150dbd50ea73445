package docstore

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// pgStore implementa Store sobre Postgres con una columna JSONB.
// Update usa el operador || de JSONB, así el merge es atómico en el servidor.
type pgStore struct {
	pool *pgxpool.Pool
}

const pgSchema = `
CREATE TABLE IF NOT EXISTS document (
    collection  TEXT        NOT NULL,
    key         TEXT        NOT NULL,
    doc         JSONB       NOT NULL,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (collection, key)
);`

// NewPostgres crea un Store sobre Postgres y asegura el esquema.
func NewPostgres(ctx context.Context, cfg Config) (Store, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("docstore: parse DSN: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		poolCfg.MaxConns = int32(cfg.MaxOpenConns)
	} else {
		poolCfg.MaxConns = 10
	}
	if cfg.MaxIdleConns > 0 {
		poolCfg.MinConns = int32(cfg.MaxIdleConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("docstore: connect: %w", err)
	}
	if _, err := pool.Exec(ctx, pgSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("docstore: ensure schema: %w", err)
	}
	return &pgStore{pool: pool}, nil
}

func (s *pgStore) Get(ctx context.Context, collection, key string) (Document, error) {
	var b []byte
	err := s.pool.QueryRow(ctx,
		`SELECT doc FROM document WHERE collection=$1 AND key=$2`,
		collection, key,
	).Scan(&b)
	if err == pgx.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var doc Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (s *pgStore) Create(ctx context.Context, collection, key string, doc Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`INSERT INTO document (collection, key, doc) VALUES ($1, $2, $3)
         ON CONFLICT (collection, key) DO NOTHING`,
		collection, key, b,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrExists
	}
	return nil
}

func (s *pgStore) Update(ctx context.Context, collection, key string, fields Document) error {
	b, err := json.Marshal(fields)
	if err != nil {
		return err
	}
	tag, err := s.pool.Exec(ctx,
		`UPDATE document SET doc = doc || $3::jsonb, updated_at = now()
         WHERE collection=$1 AND key=$2`,
		collection, key, b,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *pgStore) Delete(ctx context.Context, collection, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM document WHERE collection=$1 AND key=$2`, collection, key)
	return err
}

func (s *pgStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *pgStore) Close() error {
	s.pool.Close()
	return nil
}
