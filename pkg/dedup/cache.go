// Package dedup provides a thread-safe request-deduplication cache with TTL
// expiry and LRU eviction. It sits read-through/write-through around the
// model call: it never invokes the model itself, it only remembers responses
// for requests whose canonical fingerprints match.
package dedup

import (
	"container/list"
	"errors"
	"math"
	"sync"
	"time"

	"github.com/fpt/relay/pkg/api"
)

// Sentinel errors for cache construction.
var (
	ErrInvalidCapacity = errors.New("dedup: capacity must be positive")
	ErrInvalidTTL      = errors.New("dedup: ttl must be positive")
)

// Config is read once at construction and not hot-reloadable.
type Config struct {
	Enabled  bool
	Capacity int
	TTL      time.Duration
}

// entry is one cached response. expiresAt is fixed at creation; a hit bumps
// hitCount and recency but never the expiry.
type entry struct {
	key       string
	response  *api.ChatCompletionResponse
	createdAt time.Time
	expiresAt time.Time
	hitCount  int
}

// RequestCache is a fixed-capacity LRU cache keyed by request fingerprints.
// One mutex guards the map, the recency list, and the counters; every
// operation runs to completion under it, so the structure and the stats can
// never be observed mid-update.
type RequestCache struct {
	mu    sync.Mutex
	cfg   Config
	items map[string]*list.Element
	order *list.List // front = most recently used, back = eviction victim

	hits        uint64
	misses      uint64
	evictions   uint64
	expirations uint64

	now func() time.Time
}

// New validates the configuration and builds an empty cache. Misconfiguration
// fails fast here rather than degrading at use time; the bounds are checked
// even when the cache is disabled so a bad config is never silently carried.
func New(cfg Config) (*RequestCache, error) {
	if cfg.Capacity <= 0 {
		return nil, ErrInvalidCapacity
	}
	if cfg.TTL <= 0 {
		return nil, ErrInvalidTTL
	}

	return &RequestCache{
		cfg:   cfg,
		items: make(map[string]*list.Element),
		order: list.New(),
		now:   time.Now,
	}, nil
}

// Enabled reports whether the cache participates in request handling.
func (c *RequestCache) Enabled() bool {
	return c.cfg.Enabled
}

// Get returns the stored response for an equivalent request, if any. A hit
// promotes the entry to most recently used and bumps its hit counter. A
// logically expired entry is removed on this touch and reported as a miss.
// When the cache is disabled every call is a miss with no side effects.
func (c *RequestCache) Get(req *api.ChatCompletionRequest) (*api.ChatCompletionResponse, bool) {
	if !c.cfg.Enabled {
		return nil, false
	}

	key := Fingerprint(req)

	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}

	e := elem.Value.(*entry)
	if c.now().After(e.expiresAt) {
		c.order.Remove(elem)
		delete(c.items, key)
		c.expirations++
		c.misses++
		return nil, false
	}

	c.order.MoveToFront(elem)
	e.hitCount++
	c.hits++
	return e.response, true
}

// Put stores a response for a request. At capacity the least-recently-used
// entry is evicted first; recency is the sole eviction signal, independent of
// how close any entry is to its TTL. Storing over an existing fingerprint
// replaces the payload and resets the entry's lifetime.
func (c *RequestCache) Put(req *api.ChatCompletionRequest, resp *api.ChatCompletionResponse) {
	if !c.cfg.Enabled {
		return
	}

	key := Fingerprint(req)
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		e := elem.Value.(*entry)
		e.response = resp
		e.createdAt = now
		e.expiresAt = now.Add(c.cfg.TTL)
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.cfg.Capacity {
		c.evictOldest()
	}

	e := &entry{
		key:       key,
		response:  resp,
		createdAt: now,
		expiresAt: now.Add(c.cfg.TTL),
	}
	c.items[key] = c.order.PushFront(e)
}

// Clear removes every entry and returns how many were held. Counters are
// preserved; Clear is an operator action, not a statistical reset.
func (c *RequestCache) Clear() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	count := len(c.items)
	c.items = make(map[string]*list.Element)
	c.order.Init()
	return count
}

// CleanupExpired sweeps out every logically expired entry and returns the
// number removed. Outside this sweep and the Get touch, an expired entry
// keeps occupying its capacity slot.
func (c *RequestCache) CleanupExpired() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for elem := c.order.Front(); elem != nil; {
		next := elem.Next()
		e := elem.Value.(*entry)
		if now.After(e.expiresAt) {
			c.order.Remove(elem)
			delete(c.items, e.key)
			c.expirations++
			removed++
		}
		elem = next
	}
	return removed
}

// Stats is a point-in-time snapshot of cache effectiveness.
type Stats struct {
	Enabled     bool    `json:"enabled"`
	Hits        uint64  `json:"hits"`
	Misses      uint64  `json:"misses"`
	Evictions   uint64  `json:"evictions"`
	Expirations uint64  `json:"expirations"`
	HitRate     float64 `json:"hit_rate_percent"`
	Size        int     `json:"size"`
	Capacity    int     `json:"capacity"`
	TTLSeconds  int     `json:"ttl_seconds"`
}

// Stats returns a consistent snapshot taken under the lock.
func (c *RequestCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = math.Round(float64(c.hits)/float64(total)*10000) / 100
	}

	return Stats{
		Enabled:     c.cfg.Enabled,
		Hits:        c.hits,
		Misses:      c.misses,
		Evictions:   c.evictions,
		Expirations: c.expirations,
		HitRate:     hitRate,
		Size:        len(c.items),
		Capacity:    c.cfg.Capacity,
		TTLSeconds:  int(c.cfg.TTL / time.Second),
	}
}

// evictOldest removes the back of the recency list. Callers hold the lock.
func (c *RequestCache) evictOldest() {
	back := c.order.Back()
	if back == nil {
		return
	}
	e := back.Value.(*entry)
	c.order.Remove(back)
	delete(c.items, e.key)
	c.evictions++
}
