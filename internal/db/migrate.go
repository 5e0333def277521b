package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/sentimentdb/sentiment-api/internal/db/migrations"
	"github.com/sentimentdb/sentiment-api/internal/posts"
)

// Goose dialect names for the supported backends.
const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

const insertPost = `
	INSERT INTO posts (id, date, url, subreddit, title, author, url_contained, sentiment, content)
	VALUES (:id, :date, :url, :subreddit, :title, :author, :url_contained, :sentiment, :content)
	ON CONFLICT (id) DO NOTHING
`

func init() {
	goose.SetBaseFS(migrations.FS)
}

// Migrate applies the embedded schema migrations.
func Migrate(ctx context.Context, conn *sql.DB, dialect string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.UpContext(ctx, conn, "."); err != nil {
		return fmt.Errorf("migration up failed: %w", err)
	}
	return nil
}

// Rollback reverts the most recent migration.
func Rollback(ctx context.Context, conn *sql.DB, dialect string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	if err := goose.DownContext(ctx, conn, "."); err != nil {
		return fmt.Errorf("migration down failed: %w", err)
	}
	return nil
}

// Status prints the migration status through goose's logger.
func Status(ctx context.Context, conn *sql.DB, dialect string) error {
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}
	return goose.StatusContext(ctx, conn, ".")
}

// Seed inserts rows in one transaction, skipping ids that already exist.
// Only the migrate command and tests write to the table.
func Seed(ctx context.Context, conn *sqlx.DB, rows []posts.Post) error {
	if len(rows) == 0 {
		return nil
	}

	tx, err := conn.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareNamedContext(ctx, insertPost)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, p := range rows {
		if _, err := stmt.ExecContext(ctx, p); err != nil {
			return fmt.Errorf("failed to insert post %d: %w", p.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
