package cache

import (
	"context"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"
)

// Cache is a read-through Redis cache. A nil *Cache always calls the loader.
type Cache struct {
	RDB *redis.Client
	TTL time.Duration
	// RepeatDelete is how long after Invalidate the keys are dropped a second
	// time, for loads that read the old rows in another process.
	RepeatDelete time.Duration

	sf  singleflight.Group
	mu  sync.Mutex
	gen map[string]uint64
}

func New(addr, pass string, db int, ttl time.Duration) *Cache {
	return &Cache{
		RDB:          redis.NewClient(&redis.Options{Addr: addr, Password: pass, DB: db}),
		TTL:          ttl,
		RepeatDelete: time.Second,
		gen:          make(map[string]uint64),
	}
}

func (c *Cache) generation(key string) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen[key]
}

func (c *Cache) GetOrLoad(ctx context.Context, key string, load func(context.Context) ([]byte, error)) ([]byte, error) {
	if c == nil {
		return load(ctx)
	}
	if b, err := c.RDB.Get(ctx, key).Bytes(); err == nil {
		return b, nil
	}
	// collapse concurrent misses into one load
	v, err, _ := c.sf.Do(key, func() (any, error) {
		g := c.generation(key)
		b, e := load(ctx)
		if e != nil {
			return nil, e
		}
		// an Invalidate during the load means b may predate the write
		c.mu.Lock()
		if c.gen[key] == g {
			_ = c.RDB.Set(ctx, key, b, c.TTL).Err()
		}
		c.mu.Unlock()
		return b, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// Invalidate drops keys now and again after RepeatDelete. Loads already in
// flight keep their result out of Redis. Redis errors are ignored; entries
// expire anyway.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	c.mu.Lock()
	if c.gen == nil {
		c.gen = make(map[string]uint64)
	}
	for _, k := range keys {
		c.gen[k]++
		c.sf.Forget(k)
	}
	_ = c.RDB.Del(ctx, keys...).Err()
	c.mu.Unlock()

	if c.RepeatDelete > 0 {
		time.AfterFunc(c.RepeatDelete, func() {
			_ = c.RDB.Del(context.Background(), keys...).Err()
		})
	}
}

func (c *Cache) Close() error {
	if c == nil {
		return nil
	}
	return c.RDB.Close()
}

func GetOrLoadJSON[T any](c *Cache, ctx context.Context, key string, load func(ctx context.Context) (T, error)) (T, error) {
	var out T
	if c == nil {
		return load(ctx)
	}
	b, err := c.GetOrLoad(ctx, key, func(ctx context.Context) ([]byte, error) {
		v, e := load(ctx)
		if e != nil {
			return nil, e
		}
		return json.Marshal(v)
	})
	if err != nil {
		return out, err
	}
	if e := json.Unmarshal(b, &out); e != nil {
		return out, e
	}
	return out, nil
}
