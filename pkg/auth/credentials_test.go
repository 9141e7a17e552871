package auth_test

import (
	"context"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/auth"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/kv"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
)

func TestCredentials(t *testing.T) {
	var c auth.Credentials
	_, ok := c.Token()
	gt.False(t, ok)
	gt.False(t, c.Signal().IsAuthenticated)

	c.Set(model.Identity{ID: "u1"}, "tok")
	token, ok := c.Token()
	gt.True(t, ok)
	gt.Equal(t, token, "tok")
	id, ok := c.Signal().Current()
	gt.True(t, ok)
	gt.Equal(t, id.ID, "u1")

	c.Clear()
	_, ok = c.UserID()
	gt.False(t, ok)
}

func TestSaveLoadForget(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()

	loaded, err := auth.Load(ctx, store)
	gt.NoError(t, err)
	_, ok := loaded.UserID()
	gt.False(t, ok)

	c := &auth.Credentials{}
	c.Set(model.Identity{ID: "u1"}, "tok")
	gt.NoError(t, auth.Save(ctx, store, c))

	loaded, err = auth.Load(ctx, store)
	gt.NoError(t, err)
	id, ok := loaded.UserID()
	gt.True(t, ok)
	gt.Equal(t, id, "u1")

	gt.NoError(t, auth.Forget(ctx, store))
	loaded, err = auth.Load(ctx, store)
	gt.NoError(t, err)
	_, ok = loaded.Token()
	gt.False(t, ok)
}
