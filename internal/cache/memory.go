package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// Memory is a process-local Store used when redis is unreachable at startup.
// Expired entries are swept in the background until Close is called.
type Memory struct {
	items *ttlcache.Cache[string, []byte]
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-process store and starts its sweeper.
func NewMemory() *Memory {
	items := ttlcache.New[string, []byte](
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)
	go items.Start()
	return &Memory{items: items}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, error) {
	item := m.live(key)
	if item == nil {
		return nil, nil
	}
	return append([]byte(nil), item.Value()...), nil
}

func (m *Memory) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = ttlcache.NoTTL
	}
	m.items.Set(key, append([]byte(nil), value...), ttl)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.items.Delete(key)
	return nil
}

func (m *Memory) TTL(_ context.Context, key string) (time.Duration, error) {
	item := m.live(key)
	if item == nil || item.ExpiresAt().IsZero() {
		return 0, nil
	}
	return time.Until(item.ExpiresAt()), nil
}

// Close stops the sweeper.
func (m *Memory) Close() error {
	m.items.Stop()
	return nil
}

// live returns the item unless it is missing or already past its expiry.
func (m *Memory) live(key string) *ttlcache.Item[string, []byte] {
	item := m.items.Get(key)
	if item == nil {
		return nil
	}
	if exp := item.ExpiresAt(); !exp.IsZero() && !time.Now().Before(exp) {
		m.items.Delete(key)
		return nil
	}
	return item
}
