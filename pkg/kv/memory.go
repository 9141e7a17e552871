package kv

import (
	"context"
	"slices"
	"sync"

	"github.com/m-mizutani/goerr/v2"
)

// Memory is an in-process Store that keeps insertion order
type Memory struct {
	mu      sync.RWMutex
	values  map[string][]byte
	order   []string
	quota   int
	used    int
	failing error
}

// MemoryOption configures Memory
type MemoryOption func(*Memory)

// WithQuota limits the total size of keys plus values in bytes
func WithQuota(bytes int) MemoryOption {
	return func(m *Memory) {
		m.quota = bytes
	}
}

// NewMemory creates an empty Memory store
func NewMemory(opts ...MemoryOption) *Memory {
	m := &Memory{values: make(map[string][]byte)}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FailWith makes every subsequent operation return err. Pass nil to recover.
func (m *Memory) FailWith(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failing = err
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failing != nil {
		return nil, false, m.failing
	}

	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	return slices.Clone(v), true, nil
}

func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	return m.Apply(ctx, Put(key, value))
}

func (m *Memory) Delete(ctx context.Context, key string) error {
	return m.Apply(ctx, Remove(key))
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.failing != nil {
		return nil, m.failing
	}
	return slices.Clone(m.order), nil
}

func (m *Memory) Apply(_ context.Context, ops ...Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failing != nil {
		return m.failing
	}

	// compute the resulting usage before touching anything
	used := m.used
	sizes := make(map[string]int, len(ops))
	for _, op := range ops {
		if op.Key == "" {
			return ErrEmptyKey
		}
		prev, seen := sizes[op.Key]
		if !seen {
			if v, ok := m.values[op.Key]; ok {
				prev = len(op.Key) + len(v)
			}
		}
		next := 0
		if !op.Delete {
			next = len(op.Key) + len(op.Value)
		}
		used += next - prev
		sizes[op.Key] = next
	}
	if m.quota > 0 && used > m.quota {
		return goerr.Wrap(ErrQuotaExceeded, "batch rejected", goerr.V("used", used), goerr.V("quota", m.quota))
	}

	for _, op := range ops {
		if op.Delete {
			if _, ok := m.values[op.Key]; ok {
				delete(m.values, op.Key)
				m.order = slices.DeleteFunc(m.order, func(k string) bool { return k == op.Key })
			}
			continue
		}
		if _, ok := m.values[op.Key]; !ok {
			m.order = append(m.order, op.Key)
		}
		m.values[op.Key] = slices.Clone(op.Value)
	}
	m.used = used
	return nil
}

var _ Store = (*Memory)(nil)
