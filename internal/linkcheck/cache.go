package linkcheck

import (
	"context"
	"sync"
	"time"
)

// Entry is one cached verification result. State stores the Outcome
// state as an int so the entry round-trips through JSON unchanged.
type Entry struct {
	URL       string    `json:"url"`
	Status    int       `json:"status"`
	State     int       `json:"state"`
	Detail    string    `json:"detail,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Cache stores per-URL verification results. TTL enforcement happens at
// the call site; the cache only remembers when an entry was written.
type Cache interface {
	Get(ctx context.Context, url string) (*Entry, bool, error)
	Put(ctx context.Context, entry *Entry) error
	Close() error
}

// EventPublisher emits broken-link events to an external broker.
type EventPublisher interface {
	PublishBrokenLink(ctx context.Context, event *BrokenLinkEvent) error
}

// BrokenLinkEvent is the payload published when a link check fails.
type BrokenLinkEvent struct {
	URL       string    `json:"url"`
	Status    int       `json:"status"`
	Detail    string    `json:"detail"`
	Sources   []string  `json:"sources,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MemoryCache is the in-process cache used when no NATS URL is
// configured. It outlives a single lint run inside the daemon.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[string]*Entry
}

// NewMemoryCache creates an empty in-process cache.
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{entries: make(map[string]*Entry)}
}

// Get returns the stored entry for url, if any.
func (m *MemoryCache) Get(_ context.Context, url string) (*Entry, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	entry, ok := m.entries[url]
	if !ok {
		return nil, false, nil
	}
	cp := *entry
	return &cp, true, nil
}

// Put stores an entry, replacing any previous result for the URL.
func (m *MemoryCache) Put(_ context.Context, entry *Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *entry
	m.entries[entry.URL] = &cp
	return nil
}

// Close is a no-op for the in-process cache.
func (m *MemoryCache) Close() error { return nil }
