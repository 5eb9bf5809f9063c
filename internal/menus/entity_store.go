package menus

import (
	"context"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/goliatone/go-navsync/internal/identity"
)

const (
	defaultEntityTTL     = 10 * time.Minute
	defaultEntityCleanup = 15 * time.Minute
)

// CacheItemStore keeps published menu items in a go-cache instance, keyed
// by query.
type CacheItemStore struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
}

// NewCacheItemStore creates a store whose entries expire after ttl. A
// non-positive ttl keeps entries until they are invalidated.
func NewCacheItemStore(ttl time.Duration) *CacheItemStore {
	expiration := ttl
	cleanup := defaultEntityCleanup
	if ttl <= 0 {
		expiration = gocache.NoExpiration
		cleanup = 0
	}
	return &CacheItemStore{
		cache: gocache.New(expiration, cleanup),
		ttl:   expiration,
	}
}

// NewDefaultItemStore uses a ten minute expiry.
func NewDefaultItemStore() *CacheItemStore {
	return NewCacheItemStore(defaultEntityTTL)
}

// Get returns the items last published for queryKey under the menu item entity.
func (s *CacheItemStore) Get(_ context.Context, queryKey string) ([]MenuItem, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.queryLocked(EntityKind, EntityName, queryKey)
}

// Publish stores records under queryKey. With invalidate every cached query
// of the entity is dropped first; otherwise records are merged into the
// existing query result by id, keeping the existing order and appending new ids.
func (s *CacheItemStore) Publish(_ context.Context, kind, name string, records []MenuItem, queryKey string, invalidate bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if invalidate {
		prefix := queryPrefix(kind, name)
		for key := range s.cache.Items() {
			if strings.HasPrefix(key, prefix) {
				s.cache.Delete(key)
			}
		}
	}

	if strings.TrimSpace(queryKey) == "" {
		return
	}

	existing, _ := s.queryLocked(kind, name, queryKey)
	merged := mergeItems(existing, records)
	s.cache.Set(queryCacheKey(kind, name, queryKey), merged, s.ttl)
}

func (s *CacheItemStore) queryLocked(kind, name, queryKey string) ([]MenuItem, bool) {
	raw, ok := s.cache.Get(queryCacheKey(kind, name, queryKey))
	if !ok {
		return nil, false
	}
	items, ok := raw.([]MenuItem)
	if !ok {
		return nil, false
	}
	return cloneItems(items), true
}

func mergeItems(existing, incoming []MenuItem) []MenuItem {
	out := cloneItems(existing)
	index := make(map[int64]int, len(out))
	for i, item := range out {
		index[item.ID] = i
	}
	for _, item := range incoming {
		if pos, ok := index[item.ID]; ok {
			out[pos] = item.Clone()
			continue
		}
		index[item.ID] = len(out)
		out = append(out, item.Clone())
	}
	return out
}

func cloneItems(items []MenuItem) []MenuItem {
	out := make([]MenuItem, len(items))
	for i, item := range items {
		out[i] = item.Clone()
	}
	return out
}

func queryPrefix(kind, name string) string {
	return kind + ":" + name + ":query:"
}

func queryCacheKey(kind, name, queryKey string) string {
	return queryPrefix(kind, name) + identity.QueryUUID(queryKey).String()
}
