package cache

import (
	"sync"

	"tagcheck/internal/compare"
	"tagcheck/internal/textutil"
)

// SessionCache remembers comparison sessions by the content of both
// documents, so unchanged pairs are not compared twice in one run.
type SessionCache struct {
	mu     sync.RWMutex
	memory map[string]*compare.Session // key → session
	hits   int
}

// NewSessionCache creates an empty cache.
func NewSessionCache() *SessionCache {
	return &SessionCache{memory: make(map[string]*compare.Session)}
}

// Key derives the cache key for a document pair. variant distinguishes
// settings that change the result (mode, header prefix, language).
func Key(original, translated, variant string) string {
	return textutil.Hash(variant + "\x00" + textutil.Hash(original) + "\x00" + textutil.Hash(translated))
}

// Get returns the cached session for key.
func (c *SessionCache) Get(key string) (*compare.Session, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.memory[key]
	if ok {
		c.hits++
	}
	return s, ok
}

// Set stores a session under key.
func (c *SessionCache) Set(key string, s *compare.Session) {
	c.mu.Lock()
	c.memory[key] = s
	c.mu.Unlock()
}

// Len returns the number of cached sessions.
func (c *SessionCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.memory)
}

// Hits returns how many lookups were served from the cache.
func (c *SessionCache) Hits() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hits
}
