package realtime

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
)

// FetchFunc loads the current contents of a collection from the server.
type FetchFunc func(ctx context.Context) (any, error)

// CollectionCache holds client-side copies of server collections and
// refreshes them when the push channel signals a change. Invalidation is
// whole-collection: an event names the collection that changed, not the
// record, so the cache drops the copy and refetches everything.
type CollectionCache struct {
	store   *gocache.Cache
	fetches map[string]FetchFunc
	logger  zerolog.Logger
}

// NewCollectionCache creates a cache whose entries live until invalidated or
// until ttl passes, whichever comes first. Logger may be nil.
func NewCollectionCache(ttl time.Duration, logger *zerolog.Logger) *CollectionCache {
	l := zerolog.Nop()
	if logger != nil {
		l = *logger
	}
	return &CollectionCache{
		store:   gocache.New(ttl, 2*ttl),
		fetches: make(map[string]FetchFunc),
		logger:  l,
	}
}

// Register binds a collection name to its fetch function. Must be called
// before the collection is read or invalidated.
func (c *CollectionCache) Register(name string, fetch FetchFunc) {
	c.fetches[name] = fetch
}

// Get returns the cached collection, fetching it on a miss.
func (c *CollectionCache) Get(ctx context.Context, name string) (any, error) {
	if value, ok := c.store.Get(name); ok {
		return value, nil
	}
	return c.refresh(ctx, name)
}

// Invalidate drops the cached copy of a collection and refetches it in the
// background, so the next read is warm.
func (c *CollectionCache) Invalidate(name string) {
	c.store.Delete(name)

	if _, ok := c.fetches[name]; !ok {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if _, err := c.refresh(ctx, name); err != nil {
			c.logger.Warn().Err(err).Str("collection", name).Msg("Background refetch failed")
		}
	}()
}

// refresh fetches a collection and stores the result.
func (c *CollectionCache) refresh(ctx context.Context, name string) (any, error) {
	fetch, ok := c.fetches[name]
	if !ok {
		return nil, nil
	}
	value, err := fetch(ctx)
	if err != nil {
		return nil, err
	}
	c.store.Set(name, value, gocache.DefaultExpiration)
	return value, nil
}
