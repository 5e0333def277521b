package store

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/sentimentdb/sentiment-api/internal/db/interfaces"
	"github.com/sentimentdb/sentiment-api/internal/posts"
)

// CachedPostStore serves post queries from the result cache and falls
// through to the wrapped store on a miss. Concurrent identical misses share
// one store call.
type CachedPostStore struct {
	next   interfaces.PostStore
	cache  *Cache
	ttl    time.Duration
	group  singleflight.Group
	logger *zap.SugaredLogger
}

var _ interfaces.PostStore = (*CachedPostStore)(nil)

func NewCachedPostStore(next interfaces.PostStore, cache *Cache, ttl time.Duration, logger *zap.SugaredLogger) *CachedPostStore {
	return &CachedPostStore{
		next:   next,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

func (s *CachedPostStore) FindPosts(ctx context.Context, q *interfaces.Query) ([]posts.Post, error) {
	if !s.cache.Enabled() {
		return s.next.FindPosts(ctx, q)
	}

	key := KeyPosts + q.Key()

	var cached []posts.Post
	err := s.cache.Get(ctx, key, &cached)
	if err == nil {
		return cached, nil
	}
	if !errors.Is(err, ErrCacheMiss) && s.logger != nil {
		s.logger.Warnw("Cache read failed; querying store", "key", key, "error", err)
	}

	// The shared call is detached from every caller; a caller whose context
	// ends only stops waiting.
	ch := s.group.DoChan(key, func() (interface{}, error) {
		sharedCtx := context.WithoutCancel(ctx)
		rows, err := s.next.FindPosts(sharedCtx, q)
		if err != nil {
			return nil, err
		}
		if err := s.cache.Set(sharedCtx, key, rows, s.ttl); err != nil && s.logger != nil {
			s.logger.Warnw("Cache write failed", "key", key, "error", err)
		}
		return rows, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, res.Err
	}
	if res.Shared && s.logger != nil {
		s.logger.Debugw("Coalesced post query", "key", key)
	}

	rows := res.Val.([]posts.Post)
	// Callers own their slice.
	out := make([]posts.Post, len(rows))
	copy(out, rows)
	return out, nil
}

func (s *CachedPostStore) Ping(ctx context.Context) error {
	return s.next.Ping(ctx)
}

func (s *CachedPostStore) Close() error {
	return s.next.Close()
}
