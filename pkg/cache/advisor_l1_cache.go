package cache

import (
	"container/list"
	"sync"
	"time"
)

type l1Entry struct {
	key       string
	data      []byte
	expiresAt time.Time
}

// L1Cache is an in-process LRU with per-entry TTL.
type L1Cache struct {
	mu      sync.Mutex
	maxSize int
	ttl     time.Duration
	items   map[string]*list.Element
	order   *list.List // front = most recently used
	now     func() time.Time
}

// NewL1Cache creates a cache holding at most maxSize entries.
func NewL1Cache(maxSize int, ttl time.Duration) *L1Cache {
	if maxSize <= 0 {
		maxSize = 256
	}
	return &L1Cache{
		maxSize: maxSize,
		ttl:     ttl,
		items:   make(map[string]*list.Element),
		order:   list.New(),
		now:     time.Now,
	}
}

// Get returns a live entry and marks it recently used.
func (c *L1Cache) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		return nil, false
	}
	entry := el.Value.(*l1Entry)
	if c.now().After(entry.expiresAt) {
		c.order.Remove(el)
		delete(c.items, key)
		return nil, false
	}
	c.order.MoveToFront(el)
	return entry.data, true
}

// Set stores data, evicting the least recently used entry when full.
func (c *L1Cache) Set(key string, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	expires := c.now().Add(c.ttl)
	if el, ok := c.items[key]; ok {
		entry := el.Value.(*l1Entry)
		entry.data = data
		entry.expiresAt = expires
		c.order.MoveToFront(el)
		return
	}

	if c.order.Len() >= c.maxSize {
		if oldest := c.order.Back(); oldest != nil {
			c.order.Remove(oldest)
			delete(c.items, oldest.Value.(*l1Entry).key)
		}
	}
	c.items[key] = c.order.PushFront(&l1Entry{key: key, data: data, expiresAt: expires})
}

// Delete removes key if present.
func (c *L1Cache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.items[key]; ok {
		c.order.Remove(el)
		delete(c.items, key)
	}
}

// Len returns the number of stored entries, expired ones included.
func (c *L1Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}
