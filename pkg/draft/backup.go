package draft

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/kv"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/utils/logging"
)

// SnapshotVersion is the format version written by Export
const SnapshotVersion = 1

var ErrSnapshotVersion = goerr.New("unsupported snapshot version")

// Snapshot is a copy of the whole playground partition
type Snapshot struct {
	Version    int       `json:"version"`
	ExportedAt time.Time `json:"exported_at"`
	Drafts     []Draft   `json:"drafts"`
}

// Encode writes the snapshot as JSON
func (x Snapshot) Encode(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(x); err != nil {
		return goerr.Wrap(err, "failed to encode snapshot")
	}
	return nil
}

// DecodeSnapshot reads a snapshot written by Encode
func DecodeSnapshot(r io.Reader) (Snapshot, error) {
	var x Snapshot
	if err := json.NewDecoder(r).Decode(&x); err != nil {
		return Snapshot{}, goerr.Wrap(err, "failed to decode snapshot")
	}
	if x.Version != SnapshotVersion {
		return Snapshot{}, goerr.Wrap(ErrSnapshotVersion, "cannot read snapshot", goerr.V("version", x.Version))
	}
	return x, nil
}

// Export copies every readable draft in storage order
func (s *Store) Export(ctx context.Context) Snapshot {
	x := Snapshot{
		Version:    SnapshotVersion,
		ExportedAt: s.ids.now().UTC(),
		Drafts:     []Draft{},
	}

	keys, err := s.kv.Keys(ctx)
	if err != nil {
		logging.From(ctx).Warn("failed to list drafts", "error", err)
		return x
	}
	for _, k := range keys {
		key, ok := ParseKey(k)
		if !ok {
			continue
		}
		d, found, err := s.load(ctx, key)
		if err != nil {
			logging.From(ctx).Warn("skip corrupted draft", "error", err, "key", k)
			continue
		}
		if found {
			x.Drafts = append(x.Drafts, d)
		}
	}
	return x
}

// Import replaces the playground partition with the snapshot contents in one
// batch. Nothing changes if any draft in the snapshot is invalid.
func (s *Store) Import(ctx context.Context, x Snapshot) bool {
	if err := s.importSnapshot(ctx, x); err != nil {
		logging.From(ctx).Warn("failed to import drafts", "error", err)
		return false
	}
	return true
}

func (s *Store) importSnapshot(ctx context.Context, x Snapshot) error {
	if x.Version != SnapshotVersion {
		return goerr.Wrap(ErrSnapshotVersion, "cannot import snapshot", goerr.V("version", x.Version))
	}

	keys, err := s.kv.Keys(ctx)
	if err != nil {
		return goerr.Wrap(err, "failed to list drafts")
	}

	incoming := make(map[string][]byte, len(x.Drafts))
	var ops []kv.Op
	for _, d := range x.Drafts {
		if err := d.Type.Validate(); err != nil {
			return err
		}
		if !d.ID.IsTemp() {
			return goerr.New("draft id is not temporary", goerr.V("id", d.ID))
		}
		raw, err := s.encode(d.Type, d.ID, d.Data)
		if err != nil {
			return goerr.Wrap(err, "invalid draft in snapshot", goerr.V("id", d.ID))
		}
		k := NewKey(d.Type, d.ID).String()
		incoming[k] = raw
		ops = append(ops, kv.Put(k, raw))
	}
	for _, k := range keys {
		if _, ok := ParseKey(k); !ok {
			continue
		}
		if _, ok := incoming[k]; !ok {
			ops = append(ops, kv.Remove(k))
		}
	}

	if len(ops) == 0 {
		return nil
	}
	if err := s.kv.Apply(ctx, ops...); err != nil {
		return goerr.Wrap(err, "failed to commit import")
	}
	return nil
}
