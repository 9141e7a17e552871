package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/adapter/api"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/adapter/api/apitest"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model/wire"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/repository"
)

type staticToken string

func (s staticToken) Token() (string, bool) {
	return string(s), s != ""
}

func setup(t *testing.T, token string) (*apitest.Server, *api.Client) {
	t.Helper()
	backend := apitest.New()
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)

	client, err := api.New(srv.URL, staticToken(token))
	gt.NoError(t, err)
	return backend, client
}

func TestResourceCRUD(t *testing.T) {
	ctx := context.Background()
	backend, client := setup(t, "tok")
	accounts := api.NewResource[wire.Account](client, model.EntityTypeAccount)

	created, err := accounts.Create(ctx, wire.Account{Name: "Mid market", CompanyID: "c-1"})
	gt.NoError(t, err)
	gt.NotEqual(t, created.ID, "")
	gt.Equal(t, created.CompanyID, "c-1")

	got, err := accounts.Get(ctx, created.ID)
	gt.NoError(t, err)
	gt.Equal(t, got.Name, "Mid market")

	got.Description = "updated"
	updated, err := accounts.Update(ctx, created.ID, got)
	gt.NoError(t, err)
	gt.Equal(t, updated.Description, "updated")
	gt.Equal(t, updated.Name, "Mid market")
	gt.Equal(t, updated.CreatedAt, created.CreatedAt)

	gt.NoError(t, accounts.Delete(ctx, created.ID))
	_, err = accounts.Get(ctx, created.ID)
	gt.Error(t, err).Is(repository.ErrNotFound)

	gt.Equal(t, backend.Requests(), []string{
		"POST /accounts",
		"GET /accounts/" + created.ID,
		"PUT /accounts/" + created.ID,
		"DELETE /accounts/" + created.ID,
		"GET /accounts/" + created.ID,
	})
}

func TestResourceListByParent(t *testing.T) {
	ctx := context.Background()
	_, client := setup(t, "tok")
	accounts := api.NewResource[wire.Account](client, model.EntityTypeAccount)

	_, err := accounts.Create(ctx, wire.Account{Name: "a1", CompanyID: "c-1"})
	gt.NoError(t, err)
	_, err = accounts.Create(ctx, wire.Account{Name: "a2", CompanyID: "c-2"})
	gt.NoError(t, err)

	list, err := accounts.List(ctx, "c-1")
	gt.NoError(t, err)
	gt.A(t, list).Length(1)
	gt.Equal(t, list[0].Name, "a1")

	all, err := accounts.List(ctx, "")
	gt.NoError(t, err)
	gt.A(t, all).Length(2)
}

func TestResourcePartitionsByToken(t *testing.T) {
	ctx := context.Background()
	backend := apitest.New()
	srv := httptest.NewServer(backend)
	defer srv.Close()

	alice, err := api.New(srv.URL, staticToken("alice"))
	gt.NoError(t, err)
	bob, err := api.New(srv.URL, staticToken("bob"))
	gt.NoError(t, err)

	_, err = api.NewResource[wire.Company](alice, model.EntityTypeCompany).Create(ctx, wire.Company{Name: "Acme"})
	gt.NoError(t, err)

	list, err := api.NewResource[wire.Company](bob, model.EntityTypeCompany).List(ctx, "")
	gt.NoError(t, err)
	gt.A(t, list).Length(0)
	gt.A(t, backend.Records("alice", "companies")).Length(1)
}

func TestResourceStatusErrors(t *testing.T) {
	ctx := context.Background()
	backend, client := setup(t, "tok")
	companies := api.NewResource[wire.Company](client, model.EntityTypeCompany)

	backend.FailNext(http.MethodPost, http.StatusInternalServerError)
	_, err := companies.Create(ctx, wire.Company{Name: "Acme"})
	gt.Error(t, err).Is(api.ErrStatus)

	_, err = companies.Create(ctx, wire.Company{Name: "Acme"})
	gt.NoError(t, err)

	_, err = companies.Update(ctx, "missing", wire.Company{Name: "x"})
	gt.Error(t, err).Is(repository.ErrNotFound)
}

func TestResourceRequiresToken(t *testing.T) {
	backend, client := setup(t, "")
	companies := api.NewResource[wire.Company](client, model.EntityTypeCompany)

	_, err := companies.List(context.Background(), "")
	gt.Error(t, err).Is(api.ErrNoToken)
	gt.A(t, backend.Requests()).Length(0)
}

func TestNewRejectsBadURL(t *testing.T) {
	_, err := api.New("ftp://example.com", staticToken("tok"))
	gt.Error(t, err)
}
