// Package kv defines the persistent key-value store that backs client-side
// state, the equivalent of browser local storage. All operations complete
// synchronously; Apply commits a batch atomically.
package kv

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrQuotaExceeded = goerr.New("storage quota exceeded")
	ErrEmptyKey      = goerr.New("key is empty")
)

// Op is one write in a batch. Delete removes Key and ignores Value.
type Op struct {
	Key    string
	Value  []byte
	Delete bool
}

// Put returns a write op
func Put(key string, value []byte) Op {
	return Op{Key: key, Value: value}
}

// Remove returns a delete op
func Remove(key string) Op {
	return Op{Key: key, Delete: true}
}

// Store is a string-keyed byte store
type Store interface {
	// Get returns the value of key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Set writes value under key
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Absent keys are not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists all keys in storage order
	Keys(ctx context.Context) ([]string, error)

	// Apply commits all ops or none of them
	Apply(ctx context.Context, ops ...Op) error
}
