package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sentimentdb/sentiment-api/internal/db/backends/postgres"
	"github.com/sentimentdb/sentiment-api/internal/db/backends/sqlite"
	"github.com/sentimentdb/sentiment-api/internal/db/interfaces"
)

var ErrUnsupportedType = errors.New("unsupported database type")

// Config holds database configuration
type Config struct {
	Type           string        // "postgres" or "sqlite"
	DSN            string        // Connection string, or file path for sqlite
	MaxConns       int           // Upper bound on concurrently checked-out connections
	ConnectTimeout time.Duration // Bound on the startup ping
}

// NewStore creates a post store for the configured backend without touching the network.
func NewStore(ctx context.Context, config *Config) (interfaces.PostStore, error) {
	if config == nil || config.DSN == "" {
		return nil, fmt.Errorf("database connection string is required")
	}

	switch config.Type {
	case "", "postgres":
		return postgres.NewStore(ctx, config.DSN, config.MaxConns)
	case "sqlite":
		return sqlite.NewStore(config.DSN, config.MaxConns)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, config.Type)
	}
}

// Open creates the store and verifies it is reachable, so startup fails fast.
func Open(ctx context.Context, config *Config) (interfaces.PostStore, error) {
	store, err := NewStore(ctx, config)
	if err != nil {
		return nil, err
	}

	timeout := config.ConnectTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := store.Ping(pingCtx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return store, nil
}
