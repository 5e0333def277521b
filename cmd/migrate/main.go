package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/sentimentdb/sentiment-api/internal/config"
	"github.com/sentimentdb/sentiment-api/internal/db"
	"github.com/sentimentdb/sentiment-api/internal/db/backends/sqlite"
	"github.com/sentimentdb/sentiment-api/internal/log"

	_ "github.com/jackc/pgx/v5/stdlib"
)

const usage = `Usage: migrate [flags] COMMAND

Commands:
  up      apply all pending migrations
  down    roll back the most recent migration
  status  print migration status
  seed    insert the development fixture posts (existing ids are skipped)
`

var (
	flags   = flag.NewFlagSet("migrate", flag.ExitOnError)
	timeout = flags.Duration("timeout", time.Minute, "overall command timeout")
)

func main() {
	flags.Usage = func() { fmt.Fprint(os.Stderr, usage); flags.PrintDefaults() }
	flags.Parse(os.Args[1:])
	args := flags.Args()

	if len(args) < 1 {
		flags.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger, err := log.NewSugar(cfg.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, cfg, args[0], logger); err != nil {
		logger.Fatalw("Migrate command failed", "command", args[0], "error", err)
	}
	logger.Infow("Migrate command finished", "command", args[0])
}

func run(ctx context.Context, cfg *config.Config, command string, logger *zap.SugaredLogger) error {
	driver, dialect := "pgx", db.DialectPostgres
	if cfg.Database.Type == "sqlite" {
		driver, dialect = sqlite.DriverName, db.DialectSQLite
	}

	conn, err := sqlx.Open(driver, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	if err := conn.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	switch command {
	case "up":
		return db.Migrate(ctx, conn.DB, dialect)
	case "down":
		return db.Rollback(ctx, conn.DB, dialect)
	case "status":
		return db.Status(ctx, conn.DB, dialect)
	case "seed":
		fixtures := db.PostFixtures()
		logger.Infow("Seeding fixture posts", "count", len(fixtures))
		return db.Seed(ctx, conn, fixtures)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}
