package cache

import (
	"encoding/json"
	"slices"
)

const userTag = "user:"

// Scope partitions the cache. The zero value is the playground scope.
type Scope struct {
	user string
}

// Playground returns the scope of unauthenticated entries
func Playground() Scope {
	return Scope{}
}

// User returns the scope of one identity
func User(id string) Scope {
	return Scope{user: id}
}

// IsPlayground reports whether s is the unauthenticated scope
func (s Scope) IsPlayground() bool {
	return s.user == ""
}

// UserID returns the identity of a user scope, or "" for the playground
func (s Scope) UserID() string {
	return s.user
}

func (s Scope) String() string {
	if s.IsPlayground() {
		return "playground"
	}
	return userTag + s.user
}

// Key is a cache key bound to a scope. Keys are built only by
// Resolver.ScopedKey so that no entry can be addressed without a scope. The
// zero Key addresses nothing.
type Key struct {
	scope Scope
	base  []string
	id    string
}

func newKey(scope Scope, base []string) Key {
	if len(base) == 0 {
		return Key{}
	}
	k := Key{scope: scope, base: slices.Clone(base)}
	k.id = k.encode()
	return k
}

// IsZero reports whether the key addresses nothing
func (k Key) IsZero() bool {
	return len(k.base) == 0
}

// Scope returns the scope the key belongs to
func (k Key) Scope() Scope {
	return k.scope
}

// Base returns a copy of the unscoped segments
func (k Key) Base() []string {
	return slices.Clone(k.base)
}

// HasPrefix reports whether the first base segments equal prefix
func (k Key) HasPrefix(prefix ...string) bool {
	if len(prefix) > len(k.base) {
		return false
	}
	return slices.Equal(k.base[:len(prefix)], prefix)
}

// WithBase returns a key in the same scope with new segments
func (k Key) WithBase(base ...string) Key {
	return newKey(k.scope, base)
}

// String serializes the key as a JSON array. User scoped keys carry a leading
// "user:<id>" segment, playground keys carry only the base segments.
func (k Key) String() string {
	return k.id
}

func (k Key) encode() string {
	segments := make([]string, 0, len(k.base)+1)
	if !k.scope.IsPlayground() {
		segments = append(segments, userTag+k.scope.user)
	}
	segments = append(segments, k.base...)
	b, _ := json.Marshal(segments)
	return string(b)
}
