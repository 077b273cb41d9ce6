package session

import (
	"context"
	"maps"
	"sync"
	"time"

	"github.com/spaolacci/murmur3"

	"github.com/yndnr/dms-portal/internal/core/domain"
)

// Backend persists tab sessions between requests.
type Backend interface {
	// Load returns the values stored for id and refreshes its idle timer.
	// It returns domain.ErrSessionNotFound when id is unknown or idle too long.
	Load(ctx context.Context, id ID) (map[string]string, error)

	// Apply merges changes into the values stored for id, creating the
	// session when it is unknown. A session left with no values is dropped.
	// Concurrent Apply calls for one id must not lose each other's keys.
	Apply(ctx context.Context, id ID, changes Changes) error

	// Delete drops id. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id ID) error

	// Close releases backend resources.
	Close() error
}

// DefaultShardCount is the default number of memory backend shards.
const DefaultShardCount = 16

// MemoryBackend keeps tab sessions in process memory.
// Keys are spread over shards by murmur3 hash to reduce lock contention.
type MemoryBackend struct {
	shards  []*memShard
	mask    uint32
	idleTTL time.Duration
	now     func() time.Time
}

type memShard struct {
	mu    sync.Mutex
	items map[ID]*memEntry
}

type memEntry struct {
	values   map[string]string
	lastSeen time.Time
}

// NewMemoryBackend creates a memory backend. A zero idleTTL keeps sessions
// until they are deleted.
func NewMemoryBackend(idleTTL time.Duration) *MemoryBackend {
	return newMemoryBackend(DefaultShardCount, idleTTL, time.Now)
}

func newMemoryBackend(shardCount int, idleTTL time.Duration, now func() time.Time) *MemoryBackend {
	if shardCount <= 0 || shardCount&(shardCount-1) != 0 {
		shardCount = DefaultShardCount
	}
	m := &MemoryBackend{
		shards:  make([]*memShard, shardCount),
		mask:    uint32(shardCount - 1),
		idleTTL: idleTTL,
		now:     now,
	}
	for i := range m.shards {
		m.shards[i] = &memShard{items: make(map[ID]*memEntry)}
	}
	return m
}

func (m *MemoryBackend) shard(id ID) *memShard {
	return m.shards[murmur3.Sum32([]byte(id))&m.mask]
}

func (m *MemoryBackend) expired(e *memEntry, now time.Time) bool {
	return m.idleTTL > 0 && now.Sub(e.lastSeen) > m.idleTTL
}

// Load implements Backend.
func (m *MemoryBackend) Load(_ context.Context, id ID) (map[string]string, error) {
	sh := m.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	e, ok := sh.items[id]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	now := m.now()
	if m.expired(e, now) {
		delete(sh.items, id)
		return nil, domain.ErrSessionNotFound
	}
	e.lastSeen = now
	return maps.Clone(e.values), nil
}

// Apply implements Backend. The merge runs under the shard lock.
func (m *MemoryBackend) Apply(_ context.Context, id ID, changes Changes) error {
	sh := m.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	now := m.now()
	var current map[string]string
	if e, ok := sh.items[id]; ok && !m.expired(e, now) {
		current = e.values
	}
	values := changes.Apply(current)
	if len(values) == 0 {
		delete(sh.items, id)
		return nil
	}
	sh.items[id] = &memEntry{values: values, lastSeen: now}
	return nil
}

// Delete implements Backend.
func (m *MemoryBackend) Delete(_ context.Context, id ID) error {
	sh := m.shard(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.items, id)
	return nil
}

// Sweep drops sessions idle longer than the TTL and returns how many went.
func (m *MemoryBackend) Sweep() int {
	if m.idleTTL <= 0 {
		return 0
	}
	now := m.now()
	removed := 0
	for _, sh := range m.shards {
		sh.mu.Lock()
		for id, e := range sh.items {
			if m.expired(e, now) {
				delete(sh.items, id)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Len returns the number of stored sessions, including idle ones not yet swept.
func (m *MemoryBackend) Len() int {
	n := 0
	for _, sh := range m.shards {
		sh.mu.Lock()
		n += len(sh.items)
		sh.mu.Unlock()
	}
	return n
}

// Close implements Backend.
func (m *MemoryBackend) Close() error {
	for _, sh := range m.shards {
		sh.mu.Lock()
		clear(sh.items)
		sh.mu.Unlock()
	}
	return nil
}

// RunSweeper calls Sweep every interval until ctx is done.
// report, when set, receives the number of live sessions after each sweep.
func (m *MemoryBackend) RunSweeper(ctx context.Context, interval time.Duration, report func(live int)) {
	if interval <= 0 || m.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
			if report != nil {
				report(m.Len())
			}
		}
	}
}
