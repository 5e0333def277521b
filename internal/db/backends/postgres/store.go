// Package postgres serves posts from Postgres through a bounded pgx pool.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sentimentdb/sentiment-api/internal/db/entities"
	"github.com/sentimentdb/sentiment-api/internal/db/interfaces"
	"github.com/sentimentdb/sentiment-api/internal/db/query"
	"github.com/sentimentdb/sentiment-api/internal/posts"
)

// QueryExecMode is the pgx execution mode every store query uses.
const QueryExecMode = pgx.QueryExecModeExec

// Store checks a connection out of the pool for every query. At most
// MaxConns queries run at once; the rest wait for a connection to return.
type Store struct {
	pool    *pgxpool.Pool
	builder *query.Builder
}

var _ interfaces.PostStore = (*Store)(nil)

// NewStore parses dsn and builds a pool capped at maxConns connections.
// Connections are established lazily; call Ping to verify reachability.
func NewStore(ctx context.Context, dsn string, maxConns int) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = int32(maxConns)
	}
	// Parameters are typed from the Go value (int8, float8), not from the
	// column, so an id wider than an INTEGER column compares instead of
	// failing to encode.
	cfg.ConnConfig.DefaultQueryExecMode = QueryExecMode

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}
	return &Store{
		pool:    pool,
		builder: query.NewBuilder(entities.PostSchema, query.Dollar),
	}, nil
}

func (s *Store) FindPosts(ctx context.Context, q *interfaces.Query) ([]posts.Post, error) {
	sql, args, err := s.builder.Select(q)
	if err != nil {
		return nil, err
	}

	rows, err := s.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, &interfaces.DatabaseError{Op: "query posts", Err: err}
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[posts.Post])
	if err != nil {
		return nil, &interfaces.DatabaseError{Op: "scan posts", Err: err}
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		return &interfaces.DatabaseError{Op: "ping", Err: err}
	}
	return nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Stat exposes pool usage.
func (s *Store) Stat() *pgxpool.Stat {
	return s.pool.Stat()
}
