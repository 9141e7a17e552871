// Package auth holds the identity and bearer token of the signed-in user
package auth

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/kv"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
)

// storageKey lives outside the draft partition so clearing drafts keeps the session
const storageKey = "auth_credentials"

// Credentials is safe for concurrent use
type Credentials struct {
	mu       sync.RWMutex
	identity model.Identity
	token    string
}

// Set signs the user in
func (c *Credentials) Set(identity model.Identity, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = identity
	c.token = token
}

// Clear signs the user out
func (c *Credentials) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.identity = model.Identity{}
	c.token = ""
}

// Token returns the bearer token of the signed-in user
func (c *Credentials) Token() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token, c.token != ""
}

// UserID returns the id of the signed-in user
func (c *Credentials) UserID() (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.identity.ID, c.identity.ID != ""
}

// Signal returns the identity signal for the cache resolver
func (c *Credentials) Signal() model.IdentitySignal {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.identity.ID == "" {
		return model.Anonymous()
	}
	return model.Authenticated(c.identity.ID)
}

type stored struct {
	UserID string `json:"user_id"`
	Token  string `json:"token"`
}

// Save persists the credentials in store
func Save(ctx context.Context, store kv.Store, c *Credentials) error {
	id, _ := c.UserID()
	token, _ := c.Token()
	raw, err := json.Marshal(stored{UserID: id, Token: token})
	if err != nil {
		return goerr.Wrap(err, "failed to encode credentials")
	}
	if err := store.Set(ctx, storageKey, raw); err != nil {
		return goerr.Wrap(err, "failed to save credentials")
	}
	return nil
}

// Load restores credentials saved by Save. Missing credentials yield an
// anonymous holder.
func Load(ctx context.Context, store kv.Store) (*Credentials, error) {
	c := &Credentials{}
	raw, found, err := store.Get(ctx, storageKey)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load credentials")
	}
	if !found {
		return c, nil
	}

	var s stored
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, goerr.Wrap(err, "failed to decode credentials")
	}
	if s.UserID != "" && s.Token != "" {
		c.Set(model.Identity{ID: s.UserID}, s.Token)
	}
	return c, nil
}

// Forget removes saved credentials
func Forget(ctx context.Context, store kv.Store) error {
	if err := store.Delete(ctx, storageKey); err != nil {
		return goerr.Wrap(err, "failed to remove credentials")
	}
	return nil
}
