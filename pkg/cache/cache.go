// Package cache is the in-memory query cache shared by every entity use case,
// partitioned by identity scope.
package cache

import (
	"slices"
	"strings"
	"sync"
)

type entry struct {
	key   Key
	value any
}

// mark is the sequence number of the latest installed write of a key
type mark struct {
	scope Scope
	seq   uint64
}

// Cache holds query results keyed by scoped keys. Writes are sequenced: each
// key remembers the sequence number of its latest installed write, and a
// ticket reserved before that write can no longer commit.
type Cache struct {
	mu        sync.Mutex
	entries   map[string]entry
	installed map[string]mark
	gens      map[Scope]uint64
	seq       uint64
}

// New creates an empty cache
func New() *Cache {
	return &Cache{
		entries:   make(map[string]entry),
		installed: make(map[string]mark),
		gens:      make(map[Scope]uint64),
	}
}

// Ticket is a reservation for a future write of one key
type Ticket struct {
	key Key
	seq uint64
	gen uint64
}

// Key returns the key the ticket was reserved for
func (t Ticket) Key() Key {
	return t.key
}

// For returns a ticket for another key in the same scope. It keeps the
// sequence number and scope generation of t, so a write whose key is known only
// once a response arrives still fails to commit after its scope was cleared.
func (t Ticket) For(base ...string) Ticket {
	return Ticket{key: t.key.WithBase(base...), seq: t.seq, gen: t.gen}
}

// Get returns the value stored under key
func (c *Cache) Get(key Key) (any, bool) {
	if key.IsZero() {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key.id]
	return e.value, ok
}

// Lookup returns the value under key when it has type T
func Lookup[T any](c *Cache, key Key) (T, bool) {
	v, ok := c.Get(key)
	if !ok {
		var zero T
		return zero, false
	}
	typed, ok := v.(T)
	return typed, ok
}

// Set installs value unconditionally, superseding outstanding tickets
func (c *Cache) Set(key Key, value any) {
	if key.IsZero() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.install(key, value, c.seq)
}

// Reserve issues a ticket for a write of key that will complete later
func (c *Cache) Reserve(key Key) Ticket {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	return Ticket{key: key, seq: c.seq, gen: c.gens[key.scope]}
}

// Commit installs value if no newer write of the key has been installed and
// the key's scope has not been cleared since the ticket was reserved.
func (c *Cache) Commit(t Ticket, value any) bool {
	if t.key.IsZero() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.gens[t.key.scope] != t.gen {
		return false
	}
	if t.seq <= c.installed[t.key.id].seq {
		return false
	}
	c.install(t.key, value, t.seq)
	return true
}

func (c *Cache) install(key Key, value any, seq uint64) {
	c.entries[key.id] = entry{key: key, value: value}
	c.supersede(key, seq)
}

func (c *Cache) supersede(key Key, seq uint64) {
	c.installed[key.id] = mark{scope: key.scope, seq: seq}
}

// Delete removes key and supersedes outstanding tickets for it
func (c *Cache) Delete(key Key) {
	if key.IsZero() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	c.evict(key, c.seq)
}

func (c *Cache) evict(key Key, seq uint64) {
	delete(c.entries, key.id)
	c.supersede(key, seq)
}

// DeleteWhere removes every entry whose key matches and returns the count
func (c *Cache) DeleteWhere(match func(Key) bool) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	n := 0
	for _, e := range c.entries {
		if match(e.key) {
			c.evict(e.key, c.seq)
			n++
		}
	}
	return n
}

// ClearScope removes every entry of scope. Tickets reserved in that scope
// before the clear can no longer commit.
func (c *Cache) ClearScope(scope Scope) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gens[scope]++
	n := 0
	for id, e := range c.entries {
		if e.key.scope == scope {
			delete(c.entries, id)
			n++
		}
	}
	for id, m := range c.installed {
		if m.scope == scope {
			delete(c.installed, id)
		}
	}
	return n
}

// Keys returns all keys sorted by their serialized form
func (c *Cache) Keys() []Key {
	c.mu.Lock()
	defer c.mu.Unlock()

	keys := make([]Key, 0, len(c.entries))
	for _, e := range c.entries {
		keys = append(keys, e.key)
	}
	slices.SortFunc(keys, func(a, b Key) int {
		return strings.Compare(a.id, b.id)
	})
	return keys
}

// Len returns the number of entries
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// RewriteFunc maps one entry to its replacement. keep=false drops the entry.
// The returned key must be in the same scope as the input key.
type RewriteFunc func(key Key, value any) (newKey Key, newValue any, keep bool)

// Rewrite passes every entry through fn while holding the cache lock, so no
// reader observes a partially rewritten cache.
func (c *Cache) Rewrite(fn RewriteFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seq++
	current := make([]entry, 0, len(c.entries))
	for _, e := range c.entries {
		current = append(current, e)
	}
	slices.SortFunc(current, func(a, b entry) int {
		return strings.Compare(a.key.id, b.key.id)
	})

	next := make(map[string]entry, len(current))
	for _, e := range current {
		k, v, keep := fn(e.key, e.value)
		c.supersede(e.key, c.seq)
		if !keep || k.IsZero() || k.scope != e.key.scope {
			continue
		}
		next[k.id] = entry{key: k, value: v}
		c.supersede(k, c.seq)
	}
	c.entries = next
}
