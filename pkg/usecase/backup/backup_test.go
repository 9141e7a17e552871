package backup_test

import (
	"bytes"
	"context"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/adapter"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/draft"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/kv"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/usecase/backup"
)

// mockStorage keeps objects in memory
type mockStorage struct {
	mu      sync.Mutex
	objects map[string][]byte
}

type objectWriter struct {
	bytes.Buffer
	done func([]byte)
}

func (w *objectWriter) Close() error {
	w.done(w.Bytes())
	return nil
}

func (m *mockStorage) Put(_ context.Context, key string) (io.WriteCloser, error) {
	return &objectWriter{done: func(b []byte) {
		m.mu.Lock()
		defer m.mu.Unlock()
		m.objects[key] = append([]byte(nil), b...)
	}}, nil
}

func (m *mockStorage) Get(_ context.Context, key string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.objects[key]
	if !ok {
		return nil, goerr.Wrap(adapter.ErrObjectNotFound, "missing", goerr.V("key", key))
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func TestPushPull(t *testing.T) {
	ctx := context.Background()
	storage := &mockStorage{objects: map[string][]byte{}}

	src := draft.New(kv.NewMemory())
	id, ok := src.SaveDraft(ctx, model.EntityTypeCompany, map[string]any{"name": "Acme"})
	gt.True(t, ok)

	n, err := backup.New(src, storage).Push(ctx, "b.json")
	gt.NoError(t, err)
	gt.Equal(t, n, 1)

	dst := draft.New(kv.NewMemory())
	n, err = backup.New(dst, storage).Pull(ctx, "b.json")
	gt.NoError(t, err)
	gt.Equal(t, n, 1)

	d, ok := dst.GetDraft(ctx, model.EntityTypeCompany, id)
	gt.True(t, ok)
	gt.Equal(t, string(d.Data["name"]), `"Acme"`)
}

func TestPullMissingObject(t *testing.T) {
	ctx := context.Background()
	uc := backup.New(draft.New(kv.NewMemory()), &mockStorage{objects: map[string][]byte{}})

	_, err := uc.Pull(ctx, "nothing.json")
	gt.Error(t, err).Is(adapter.ErrObjectNotFound)
}

func TestPullRejectedSnapshot(t *testing.T) {
	ctx := context.Background()
	storage := &mockStorage{objects: map[string][]byte{
		"bad.json": []byte(`{"version":1,"drafts":[{"type":"company","id":"c-1","data":{}}]}`),
	}}
	uc := backup.New(draft.New(kv.NewMemory()), storage)

	_, err := uc.Pull(ctx, "bad.json")
	gt.Error(t, err).Is(backup.ErrImportRejected)
}

func TestObjectName(t *testing.T) {
	uc := backup.New(nil, nil, backup.WithClock(func() time.Time {
		return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	}))
	gt.Equal(t, uc.ObjectName(), "drafts-20260102T030405Z.json")
}
