package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/kv"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/kv/sqlite"
)

func openStore(t *testing.T) (*sqlite.Store, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "state.db")
	store, err := sqlite.Open(path)
	gt.NoError(t, err)
	t.Cleanup(func() {
		_ = store.Close()
	})
	return store, path
}

func TestOpenRequiresPath(t *testing.T) {
	_, err := sqlite.Open("  ")
	gt.Error(t, err)
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store, _ := openStore(t)

	_, ok, err := store.Get(ctx, "missing")
	gt.NoError(t, err)
	gt.False(t, ok)

	gt.NoError(t, store.Set(ctx, "a", []byte(`{"name":"Acme"}`)))
	v, ok, err := store.Get(ctx, "a")
	gt.NoError(t, err)
	gt.True(t, ok)
	gt.Equal(t, string(v), `{"name":"Acme"}`)

	gt.NoError(t, store.Set(ctx, "a", []byte(`{}`)))
	v, _, err = store.Get(ctx, "a")
	gt.NoError(t, err)
	gt.Equal(t, string(v), `{}`)

	gt.NoError(t, store.Delete(ctx, "a"))
	gt.NoError(t, store.Delete(ctx, "a"))
	_, ok, err = store.Get(ctx, "a")
	gt.NoError(t, err)
	gt.False(t, ok)
}

func TestStoreKeysKeepFirstWriteOrder(t *testing.T) {
	ctx := context.Background()
	store, _ := openStore(t)

	gt.NoError(t, store.Set(ctx, "z", []byte("1")))
	gt.NoError(t, store.Set(ctx, "m", []byte("2")))
	gt.NoError(t, store.Set(ctx, "z", []byte("3")))
	gt.NoError(t, store.Set(ctx, "a", []byte("4")))

	keys, err := store.Keys(ctx)
	gt.NoError(t, err)
	gt.Equal(t, keys, []string{"z", "m", "a"})
}

func TestStoreApplyRollsBack(t *testing.T) {
	ctx := context.Background()
	store, _ := openStore(t)
	gt.NoError(t, store.Set(ctx, "keep", []byte("1")))

	err := store.Apply(ctx, kv.Remove("keep"), kv.Put("new", []byte("2")), kv.Put("", []byte("3")))
	gt.Error(t, err)

	_, ok, err := store.Get(ctx, "keep")
	gt.NoError(t, err)
	gt.True(t, ok)
	_, ok, err = store.Get(ctx, "new")
	gt.NoError(t, err)
	gt.False(t, ok)
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "state.db")

	first, err := sqlite.Open(path)
	gt.NoError(t, err)
	gt.NoError(t, first.Apply(ctx, kv.Put("a", []byte("1")), kv.Put("b", nil)))
	gt.NoError(t, first.Close())

	second, err := sqlite.Open(path)
	gt.NoError(t, err)
	defer func() {
		_ = second.Close()
	}()

	v, ok, err := second.Get(ctx, "a")
	gt.NoError(t, err)
	gt.True(t, ok)
	gt.Equal(t, string(v), "1")

	v, ok, err = second.Get(ctx, "b")
	gt.NoError(t, err)
	gt.True(t, ok)
	gt.Equal(t, len(v), 0)
}
