// Package sqlite serves posts from a SQLite file. It backs local development
// and the HTTP integration tests with the same SQL the Postgres store runs.
package sqlite

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/sentimentdb/sentiment-api/internal/db/entities"
	"github.com/sentimentdb/sentiment-api/internal/db/interfaces"
	"github.com/sentimentdb/sentiment-api/internal/db/query"
	"github.com/sentimentdb/sentiment-api/internal/posts"
)

const DriverName = "sqlite3"

type Store struct {
	conn    *sqlx.DB
	builder *query.Builder
}

var _ interfaces.PostStore = (*Store)(nil)

// NewStore opens the database at path with at most maxConns open connections.
func NewStore(path string, maxConns int) (*Store, error) {
	conn, err := sqlx.Open(DriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	if maxConns > 0 {
		conn.SetMaxOpenConns(maxConns)
		conn.SetMaxIdleConns(maxConns)
	}
	return &Store{
		conn:    conn,
		builder: query.NewBuilder(entities.PostSchema, query.Question),
	}, nil
}

// DB exposes the underlying handle for migrations and seeding.
func (s *Store) DB() *sqlx.DB {
	return s.conn
}

func (s *Store) FindPosts(ctx context.Context, q *interfaces.Query) ([]posts.Post, error) {
	sql, args, err := s.builder.Select(q)
	if err != nil {
		return nil, err
	}

	var out []posts.Post
	if err := s.conn.SelectContext(ctx, &out, sql, args...); err != nil {
		return nil, &interfaces.DatabaseError{Op: "query posts", Err: err}
	}
	return out, nil
}

func (s *Store) Ping(ctx context.Context) error {
	if err := s.conn.PingContext(ctx); err != nil {
		return &interfaces.DatabaseError{Op: "ping", Err: err}
	}
	return nil
}

func (s *Store) Close() error {
	return s.conn.Close()
}
