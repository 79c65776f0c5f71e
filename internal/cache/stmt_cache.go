// Package cache provides an LRU cache for database prepared statements.
package cache

import (
	"container/list"
	"database/sql"
	"sync"
	"sync/atomic"
)

// DefaultStmtCacheCapacity is the default maximum number of cached prepared
// statements. Batched mutations reuse one statement per distinct chunk shape,
// so the working set stays small in practice.
const DefaultStmtCacheCapacity = 1000

// StmtCache stores prepared statements with LRU eviction.
type StmtCache struct {
	mu       sync.Mutex
	capacity int
	items    map[string]*list.Element
	lruList  *list.List

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type cacheEntry struct {
	key  string
	stmt *sql.Stmt
}

// NewStmtCache creates a prepared statement cache with default capacity.
func NewStmtCache() *StmtCache {
	return NewStmtCacheWithCapacity(DefaultStmtCacheCapacity)
}

// NewStmtCacheWithCapacity creates a prepared statement cache with the given
// capacity; non-positive capacities fall back to the default.
func NewStmtCacheWithCapacity(capacity int) *StmtCache {
	if capacity <= 0 {
		capacity = DefaultStmtCacheCapacity
	}
	return &StmtCache{
		capacity: capacity,
		items:    make(map[string]*list.Element, capacity),
		lruList:  list.New(),
	}
}

// Get retrieves a prepared statement by SQL text. Accessing a statement moves
// it to the front of the LRU list.
func (sc *StmtCache) Get(key string) (*sql.Stmt, bool) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	elem, ok := sc.items[key]
	if !ok {
		sc.misses.Add(1)
		return nil, false
	}

	sc.lruList.MoveToFront(elem)
	sc.hits.Add(1)
	return elem.Value.(*cacheEntry).stmt, true
}

// Set stores a prepared statement keyed by SQL text. At capacity, the least
// recently used statement is evicted and closed.
func (sc *StmtCache) Set(key string, stmt *sql.Stmt) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if elem, ok := sc.items[key]; ok {
		sc.lruList.MoveToFront(elem)
		entry := elem.Value.(*cacheEntry)
		_ = entry.stmt.Close() // Best effort close.
		entry.stmt = stmt
		return
	}

	if sc.lruList.Len() >= sc.capacity {
		sc.evictOldest()
	}

	sc.items[key] = sc.lruList.PushFront(&cacheEntry{key: key, stmt: stmt})
}

// evictOldest removes and closes the least recently used statement.
// Must be called with the lock held.
func (sc *StmtCache) evictOldest() {
	elem := sc.lruList.Back()
	if elem == nil {
		return
	}

	sc.lruList.Remove(elem)
	entry := elem.Value.(*cacheEntry)
	delete(sc.items, entry.key)
	_ = entry.stmt.Close()
	sc.evictions.Add(1)
}

// Clear closes and removes all cached prepared statements.
func (sc *StmtCache) Clear() {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	for elem := sc.lruList.Front(); elem != nil; elem = elem.Next() {
		_ = elem.Value.(*cacheEntry).stmt.Close() // Best effort close.
	}

	sc.items = make(map[string]*list.Element, sc.capacity)
	sc.lruList.Init()
}

// Stats holds cache performance metrics.
type Stats struct {
	Size      int
	Capacity  int
	Hits      uint64
	Misses    uint64
	Evictions uint64
	HitRate   float64
}

// Stats returns cache statistics.
func (sc *StmtCache) Stats() Stats {
	sc.mu.Lock()
	size := sc.lruList.Len()
	sc.mu.Unlock()

	hits := sc.hits.Load()
	misses := sc.misses.Load()

	hitRate := 0.0
	if total := hits + misses; total > 0 {
		hitRate = float64(hits) / float64(total)
	}

	return Stats{
		Size:      size,
		Capacity:  sc.capacity,
		Hits:      hits,
		Misses:    misses,
		Evictions: sc.evictions.Load(),
		HitRate:   hitRate,
	}
}
