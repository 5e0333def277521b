package interfaces

import (
	"context"

	"github.com/sentimentdb/sentiment-api/internal/posts"
)

// PostStore is the read-only view of the posts table the HTTP layer depends on.
type PostStore interface {
	// FindPosts runs q and returns the matching rows; an empty result is not an error.
	FindPosts(ctx context.Context, q *Query) ([]posts.Post, error)

	// Ping checks that a connection can be checked out and used.
	Ping(ctx context.Context) error

	// Close releases every connection held by the store.
	Close() error
}
