package cache

import (
	"context"
	"sync"

	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

// Resolver binds cache keys to the current identity and tears scopes down when
// the identity changes. It is the only way to obtain a Key.
type Resolver struct {
	cache *Cache

	mu       sync.RWMutex
	identity model.Identity
	signedIn bool
}

// NewResolver creates a resolver over c. The session starts anonymous.
func NewResolver(c *Cache) *Resolver {
	return &Resolver{cache: c}
}

// Cache returns the cache the resolver partitions
func (r *Resolver) Cache() *Cache {
	return r.cache
}

// Identity returns the current identity. ok is false in the playground.
func (r *Resolver) Identity() (model.Identity, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.identity, r.signedIn
}

// Scope returns the scope of the current identity
func (r *Resolver) Scope() Scope {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.scopeLocked()
}

func (r *Resolver) scopeLocked() Scope {
	if !r.signedIn {
		return Playground()
	}
	return User(r.identity.ID)
}

// ScopedKey returns base bound to the current identity. The same base and
// identity always produce the same key. An empty base yields the zero Key.
func (r *Resolver) ScopedKey(base ...string) Key {
	return newKey(r.Scope(), base)
}

// ClearUserCache removes the current identity's entries and nothing else
func (r *Resolver) ClearUserCache() int {
	scope := r.Scope()
	if scope.IsPlayground() {
		return 0
	}
	return r.cache.ClearScope(scope)
}

// ClearPlaygroundCache removes entries that belong to no identity
func (r *Resolver) ClearPlaygroundCache() int {
	return r.cache.ClearScope(Playground())
}

// InvalidateBase removes the current scope's entries whose base starts with
// prefix
func (r *Resolver) InvalidateBase(prefix ...string) int {
	scope := r.Scope()
	return r.cache.DeleteWhere(func(k Key) bool {
		return k.scope == scope && k.HasPrefix(prefix...)
	})
}

// Observe applies an identity signal. Entering a user scope clears the
// playground entries, and leaving a user scope clears that user's entries
// before the new identity becomes visible.
func (r *Resolver) Observe(ctx context.Context, signal model.IdentitySignal) {
	next, signedIn := signal.Current()

	r.mu.Lock()
	defer r.mu.Unlock()

	prev := r.scopeLocked()
	to := Playground()
	if signedIn {
		to = User(next.ID)
	}
	if prev == to {
		return
	}

	// every transition tears down the outgoing scope
	cleared := r.cache.ClearScope(prev)
	logging.From(ctx).Debug("identity changed",
		"from", prev.String(),
		"to", to.String(),
		"cleared", cleared,
	)

	r.identity = next
	r.signedIn = signedIn
}
