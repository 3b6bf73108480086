package service

import (
	"sync"
	"time"
)

// ClientCache keeps live platform connections keyed by session id so
// authenticated requests reuse a connected handle instead of redialing on
// every call. Bounded and time-evicting; evicted connections are closed.
type ClientCache struct {
	mu      sync.Mutex
	entries map[string]*cacheEntry
	ttl     time.Duration
	max     int
	clock   Clock
}

type cacheEntry struct {
	conn     PlatformConn
	lastUsed time.Time
}

func NewClientCache(max int, ttl time.Duration, clock Clock) *ClientCache {
	if clock == nil {
		clock = RealClock{}
	}
	return &ClientCache{
		entries: make(map[string]*cacheEntry),
		ttl:     ttl,
		max:     max,
		clock:   clock,
	}
}

func (c *ClientCache) Get(sessionID string) (PlatformConn, bool) {
	c.mu.Lock()
	entry, ok := c.entries[sessionID]
	if ok && c.stale(entry) {
		delete(c.entries, sessionID)
		c.mu.Unlock()
		_ = entry.conn.Close()
		return nil, false
	}
	if ok {
		entry.lastUsed = c.clock.Now()
	}
	c.mu.Unlock()
	if !ok {
		return nil, false
	}
	return entry.conn, true
}

// Put stores conn under sessionID, closing any connection it displaces. When
// the cache is full the least recently used entry is evicted first.
func (c *ClientCache) Put(sessionID string, conn PlatformConn) {
	var closing []PlatformConn

	c.mu.Lock()
	if old, ok := c.entries[sessionID]; ok {
		closing = append(closing, old.conn)
		delete(c.entries, sessionID)
	}
	closing = append(closing, c.sweepLocked()...)
	if c.max > 0 {
		for len(c.entries) >= c.max {
			oldest := ""
			var oldestSeen time.Time
			for id, entry := range c.entries {
				if oldest == "" || entry.lastUsed.Before(oldestSeen) {
					oldest = id
					oldestSeen = entry.lastUsed
				}
			}
			closing = append(closing, c.entries[oldest].conn)
			delete(c.entries, oldest)
		}
	}
	c.entries[sessionID] = &cacheEntry{conn: conn, lastUsed: c.clock.Now()}
	c.mu.Unlock()

	for _, old := range closing {
		_ = old.Close()
	}
}

func (c *ClientCache) Evict(sessionID string) {
	c.mu.Lock()
	entry, ok := c.entries[sessionID]
	if ok {
		delete(c.entries, sessionID)
	}
	c.mu.Unlock()
	if ok {
		_ = entry.conn.Close()
	}
}

// Close evicts everything. Used on shutdown.
func (c *ClientCache) Close() {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()
	for _, entry := range entries {
		_ = entry.conn.Close()
	}
}

func (c *ClientCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *ClientCache) sweepLocked() []PlatformConn {
	var stale []PlatformConn
	for id, entry := range c.entries {
		if c.stale(entry) {
			stale = append(stale, entry.conn)
			delete(c.entries, id)
		}
	}
	return stale
}

func (c *ClientCache) stale(entry *cacheEntry) bool {
	return c.ttl > 0 && entry.lastUsed.Before(c.clock.Now().Add(-c.ttl))
}
