// Package draft keeps entities created before sign-in in a reserved partition
// of the key-value store. Every operation absorbs storage failures: the error
// is logged through the context logger and the caller sees false or an empty
// result.
package draft

import (
	"context"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/kv"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/merge"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

const maxAllocAttempts = 8

var (
	ErrIDCollision = goerr.New("failed to allocate unique draft id")
	ErrInvalid     = goerr.New("draft does not match schema")
)

// Draft is one stored record together with its address
type Draft struct {
	Type model.EntityType `json:"type"`
	ID   model.EntityID   `json:"id"`
	Data merge.Fields     `json:"data"`
}

// Decode unmarshals the stored record into v, typically a wire struct
func (d Draft) Decode(v any) error {
	return d.Data.Decode(v)
}

// Store is the Draft Store
type Store struct {
	kv         kv.Store
	ids        *idGenerator
	validators map[model.EntityType]Validator
}

// Option configures Store
type Option func(*Store)

// WithClock replaces the time source of temp id allocation
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.ids.now = now
	}
}

// WithSuffix replaces the random suffix source of temp id allocation
func WithSuffix(suffix func() string) Option {
	return func(s *Store) {
		s.ids.suffix = suffix
	}
}

// WithValidator registers a record validator for one entity type
func WithValidator(t model.EntityType, v Validator) Option {
	return func(s *Store) {
		s.validators[t] = v
	}
}

// WithValidators registers several validators, see WireValidators
func WithValidators(m map[model.EntityType]Validator) Option {
	return func(s *Store) {
		for t, v := range m {
			s.validators[t] = v
		}
	}
}

// New creates a Draft Store on top of store
func New(store kv.Store, opts ...Option) *Store {
	s := &Store{
		kv:         store,
		ids:        newIDGenerator(),
		validators: make(map[model.EntityType]Validator),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SaveDraft stores data as a new draft and returns its temp id. The stored
// record carries the id in its "id" field.
func (s *Store) SaveDraft(ctx context.Context, t model.EntityType, data any) (model.EntityID, bool) {
	id, err := s.save(ctx, t, data)
	if err != nil {
		logging.From(ctx).Warn("failed to save draft", "error", err, "type", t)
		return "", false
	}
	return id, true
}

func (s *Store) save(ctx context.Context, t model.EntityType, data any) (model.EntityID, error) {
	if err := t.Validate(); err != nil {
		return "", err
	}
	fields, err := merge.ToFields(data)
	if err != nil {
		return "", err
	}

	for range maxAllocAttempts {
		id := s.ids.next()
		key := NewKey(t, id).String()
		_, exists, err := s.kv.Get(ctx, key)
		if err != nil {
			return "", goerr.Wrap(err, "failed to check draft key", goerr.V("key", key))
		}
		if exists {
			continue
		}

		if err := s.write(ctx, t, id, fields); err != nil {
			return "", err
		}
		return id, nil
	}

	return "", goerr.Wrap(ErrIDCollision, "all candidate ids taken", goerr.V("type", t))
}

// GetDrafts returns all drafts of one type in storage order. Entries that do
// not parse or fail validation are skipped.
func (s *Store) GetDrafts(ctx context.Context, t model.EntityType) []Draft {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		logging.From(ctx).Warn("failed to list drafts", "error", err, "type", t)
		return []Draft{}
	}

	drafts := []Draft{}
	for _, k := range keys {
		key, ok := ParseKey(k)
		if !ok || key.Type != t {
			continue
		}
		d, found, err := s.load(ctx, key)
		if err != nil {
			logging.From(ctx).Warn("skip corrupted draft", "error", err, "key", k)
			continue
		}
		if found {
			drafts = append(drafts, d)
		}
	}
	return drafts
}

// GetDraft returns one draft. ok is false if it is absent or corrupted.
func (s *Store) GetDraft(ctx context.Context, t model.EntityType, id model.EntityID) (Draft, bool) {
	d, found, err := s.load(ctx, NewKey(t, id))
	if err != nil {
		logging.From(ctx).Warn("failed to read draft", "error", err, "type", t, "id", id)
		return Draft{}, false
	}
	return d, found
}

// HasDraft reports whether an entry is stored under the draft's key, even one
// that GetDraft skips as corrupted
func (s *Store) HasDraft(ctx context.Context, t model.EntityType, id model.EntityID) bool {
	_, found, err := s.kv.Get(ctx, NewKey(t, id).String())
	if err != nil {
		logging.From(ctx).Warn("failed to read draft", "error", err, "type", t, "id", id)
		return false
	}
	return found
}

// UpdateDraftPreserveFields overlays partial onto the stored record at the top
// level. Fields absent from partial keep their stored values. Returns false if
// the draft does not exist.
func (s *Store) UpdateDraftPreserveFields(ctx context.Context, t model.EntityType, id model.EntityID, partial any) bool {
	if err := s.update(ctx, t, id, partial, true); err != nil {
		logging.From(ctx).Warn("failed to update draft", "error", err, "type", t, "id", id)
		return false
	}
	return true
}

// PutDraft replaces the record of an existing draft. Returns false if the
// draft does not exist.
func (s *Store) PutDraft(ctx context.Context, t model.EntityType, id model.EntityID, data any) bool {
	if err := s.update(ctx, t, id, data, false); err != nil {
		logging.From(ctx).Warn("failed to put draft", "error", err, "type", t, "id", id)
		return false
	}
	return true
}

var errNoDraft = goerr.New("draft not found")

func (s *Store) update(ctx context.Context, t model.EntityType, id model.EntityID, data any, preserve bool) error {
	current, found, err := s.load(ctx, NewKey(t, id))
	if err != nil {
		return err
	}
	if !found {
		return goerr.Wrap(errNoDraft, "no draft to update", goerr.V("key", NewKey(t, id).String()))
	}

	update, err := merge.ToFields(data)
	if err != nil {
		return err
	}
	if preserve {
		update = merge.Shallow(current.Data, update)
	}
	return s.write(ctx, t, id, update)
}

// RemoveDraft deletes one draft. Absent drafts are ignored.
func (s *Store) RemoveDraft(ctx context.Context, t model.EntityType, id model.EntityID) {
	if err := s.kv.Delete(ctx, NewKey(t, id).String()); err != nil {
		logging.From(ctx).Warn("failed to remove draft", "error", err, "type", t, "id", id)
	}
}

// ClearAllPlayground deletes every draft of every type and the promotion
// record, and leaves all other keys alone. Returns the number of drafts
// removed.
func (s *Store) ClearAllPlayground(ctx context.Context) int {
	keys, err := s.kv.Keys(ctx)
	if err != nil {
		logging.From(ctx).Warn("failed to list drafts", "error", err)
		return 0
	}

	var ops []kv.Op
	removed := 0
	for _, k := range keys {
		if _, ok := ParseKey(k); ok {
			ops = append(ops, kv.Remove(k))
			removed++
		} else if k == promotionsKey {
			ops = append(ops, kv.Remove(k))
		}
	}
	if len(ops) == 0 {
		return 0
	}
	if err := s.kv.Apply(ctx, ops...); err != nil {
		logging.From(ctx).Warn("failed to clear drafts", "error", err)
		return 0
	}
	return removed
}

func (s *Store) load(ctx context.Context, key Key) (Draft, bool, error) {
	raw, found, err := s.kv.Get(ctx, key.String())
	if err != nil {
		return Draft{}, false, goerr.Wrap(err, "failed to read draft", goerr.V("key", key.String()))
	}
	if !found {
		return Draft{}, false, nil
	}

	fields, err := merge.Parse(raw)
	if err != nil {
		return Draft{}, false, goerr.Wrap(err, "stored draft is not an object", goerr.V("key", key.String()))
	}
	if err := s.validate(key.Type, fields); err != nil {
		return Draft{}, false, goerr.Wrap(err, "stored draft is invalid", goerr.V("key", key.String()))
	}
	return Draft{Type: key.Type, ID: key.ID, Data: fields}, true, nil
}

func (s *Store) write(ctx context.Context, t model.EntityType, id model.EntityID, fields merge.Fields) error {
	raw, err := s.encode(t, id, fields)
	if err != nil {
		return err
	}
	key := NewKey(t, id).String()
	if err := s.kv.Set(ctx, key, raw); err != nil {
		return goerr.Wrap(err, "failed to write draft", goerr.V("key", key))
	}
	return nil
}

// encode pins the id field and validates the record
func (s *Store) encode(t model.EntityType, id model.EntityID, fields merge.Fields) ([]byte, error) {
	pinned := merge.Shallow(fields, nil)
	if err := pinned.Set("id", id); err != nil {
		return nil, err
	}
	if err := s.validate(t, pinned); err != nil {
		return nil, err
	}
	return pinned.Bytes()
}

func (s *Store) validate(t model.EntityType, fields merge.Fields) error {
	v, ok := s.validators[t]
	if !ok {
		return nil
	}
	if err := v(fields); err != nil {
		return goerr.Wrap(ErrInvalid, err.Error(), goerr.V("type", t))
	}
	return nil
}
