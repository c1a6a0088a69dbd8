package database

import (
	"container/list"
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/NewLifeSMP/NewLifeBotGo/pkg/logger"
)

// DataManagerOptions contains configuration for a DataManager
type DataManagerOptions struct {
	MaxCacheSize int
	TTL          time.Duration
}

// DefaultDataManagerOptions returns default options for DataManager
func DefaultDataManagerOptions() DataManagerOptions {
	return DataManagerOptions{
		MaxCacheSize: 1000,
		TTL:          5 * time.Minute,
	}
}

type cacheEntry struct {
	key     string
	value   any
	expires time.Time
}

// lruCache is a size-bounded LRU with per-entry expiry.
type lruCache struct {
	items map[string]*list.Element
	order *list.List
	max   int
	ttl   time.Duration
	now   func() time.Time
	mu    sync.Mutex
}

func newLRUCache(max int, ttl time.Duration) *lruCache {
	return &lruCache{
		items: make(map[string]*list.Element),
		order: list.New(),
		max:   max,
		ttl:   ttl,
		now:   time.Now,
	}
}

func (c *lruCache) get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		return nil, false
	}
	entry := elem.Value.(*cacheEntry)
	if c.ttl > 0 && c.now().After(entry.expires) {
		c.order.Remove(elem)
		delete(c.items, key)
		return nil, false
	}
	c.order.MoveToFront(elem)
	return entry.value, true
}

func (c *lruCache) put(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	entry := &cacheEntry{key: key, value: value, expires: c.now().Add(c.ttl)}
	if elem, ok := c.items[key]; ok {
		elem.Value = entry
		c.order.MoveToFront(elem)
		return
	}
	c.items[key] = c.order.PushFront(entry)

	if c.max > 0 && c.order.Len() > c.max {
		oldest := c.order.Back()
		if oldest != nil {
			delete(c.items, oldest.Value.(*cacheEntry).key)
			c.order.Remove(oldest)
		}
	}
}

func (c *lruCache) remove(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

func (c *lruCache) clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]*list.Element)
	c.order = list.New()
}

func (c *lruCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// DataManager provides cached single-document access to a MongoDB collection.
// Multi-document reads are never cached.
type DataManager[T any] struct {
	name       string
	dbInstance *Database
	cache      *lruCache
	options    DataManagerOptions
}

// NewDataManager creates a new DataManager for a collection
func NewDataManager[T any](collectionName string, db *Database, opts ...DataManagerOptions) *DataManager[T] {
	dmOptions := DefaultDataManagerOptions()
	if len(opts) > 0 {
		dmOptions = opts[0]
	}

	return &DataManager[T]{
		name:       collectionName,
		dbInstance: db,
		cache:      newLRUCache(dmOptions.MaxCacheSize, dmOptions.TTL),
		options:    dmOptions,
	}
}

// cacheKey builds a deterministic key from a query by sorting its fields.
func cacheKey(collection string, query bson.M) string {
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, query[k]))
	}
	return fmt.Sprintf("%s:{%s}", collection, strings.Join(parts, ","))
}

// Get returns one document from the cache or the database. A missing
// document yields ErrNotFound and is not cached.
func (dm *DataManager[T]) Get(ctx context.Context, query bson.M) (*T, error) {
	key := cacheKey(dm.name, query)
	if v, ok := dm.cache.get(key); ok {
		return v.(*T), nil
	}

	col, err := dm.dbInstance.collection(dm.name)
	if err != nil {
		return nil, err
	}

	var result T
	if err := col.FindOne(ctx, query).Decode(&result); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		logger.Warn(fmt.Sprintf("Read from %s failed: %v", dm.name, err), "DataManager")
		return nil, err
	}

	dm.cache.put(key, &result)
	return &result, nil
}

// GetAll returns every document matching query, bypassing the cache.
func (dm *DataManager[T]) GetAll(ctx context.Context, query bson.M, opts ...*options.FindOptions) ([]T, error) {
	col, err := dm.dbInstance.collection(dm.name)
	if err != nil {
		return nil, err
	}
	return findMany[T](ctx, col, query, opts...)
}

// Insert adds a document and drops any cached entry for query.
func (dm *DataManager[T]) Insert(ctx context.Context, doc *T, query bson.M) error {
	col, err := dm.dbInstance.collection(dm.name)
	if err != nil {
		return err
	}
	if _, err := col.InsertOne(ctx, doc); err != nil {
		return err
	}
	dm.Invalidate(query)
	return nil
}

// Set upserts the fields in data into the document matching query and
// caches the result.
func (dm *DataManager[T]) Set(ctx context.Context, query bson.M, data any) (*T, error) {
	col, err := dm.dbInstance.collection(dm.name)
	if err != nil {
		return nil, err
	}

	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var result T
	if err := col.FindOneAndUpdate(ctx, query, bson.M{"$set": data}, opts).Decode(&result); err != nil {
		logger.Error(fmt.Sprintf("Write to %s failed: %v", dm.name, err), "DataManager")
		return nil, err
	}

	dm.cache.put(cacheKey(dm.name, query), &result)
	return &result, nil
}

// Delete removes one document and its cache entry.
func (dm *DataManager[T]) Delete(ctx context.Context, query bson.M) (bool, error) {
	dm.Invalidate(query)

	col, err := dm.dbInstance.collection(dm.name)
	if err != nil {
		return false, err
	}
	res, err := col.DeleteOne(ctx, query)
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

// Invalidate drops the cache entry for query.
func (dm *DataManager[T]) Invalidate(query bson.M) {
	dm.cache.remove(cacheKey(dm.name, query))
}

// ClearCache clears the entire cache
func (dm *DataManager[T]) ClearCache() {
	dm.cache.clear()
}

// CacheSize returns the current cache size
func (dm *DataManager[T]) CacheSize() int {
	return dm.cache.len()
}

// PrimeCache logs the cache configuration. Entries are filled on demand.
func (dm *DataManager[T]) PrimeCache() {
	logger.System(fmt.Sprintf("Cache for '%s' ready (max %d entries, ttl %s)", dm.name, dm.options.MaxCacheSize, dm.options.TTL), "DataManager")
}
