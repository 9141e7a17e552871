package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model/wire"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/repository"
)

// Resource is the REST collection of one entity type
type Resource[W any] struct {
	client     *Client
	entityType model.EntityType
}

var _ repository.Client[wire.Company] = (*Resource[wire.Company])(nil)

// NewResource binds the collection of entity type t
func NewResource[W any](client *Client, t model.EntityType) *Resource[W] {
	return &Resource[W]{client: client, entityType: t}
}

func (r *Resource[W]) collection() string {
	return wire.Collection(r.entityType)
}

// Create sends POST /{collection}
func (r *Resource[W]) Create(ctx context.Context, record W) (W, error) {
	var out W
	if err := r.client.do(ctx, http.MethodPost, r.collection(), nil, record, &out); err != nil {
		var zero W
		return zero, err
	}
	return out, nil
}

// Get sends GET /{collection}/{id}
func (r *Resource[W]) Get(ctx context.Context, id string) (W, error) {
	var out W
	if err := r.client.do(ctx, http.MethodGet, r.collection()+"/"+url.PathEscape(id), nil, nil, &out); err != nil {
		var zero W
		return zero, err
	}
	return out, nil
}

// Update sends PUT /{collection}/{id} with the complete record
func (r *Resource[W]) Update(ctx context.Context, id string, record W) (W, error) {
	var out W
	if err := r.client.do(ctx, http.MethodPut, r.collection()+"/"+url.PathEscape(id), nil, record, &out); err != nil {
		var zero W
		return zero, err
	}
	return out, nil
}

// Delete sends DELETE /{collection}/{id}
func (r *Resource[W]) Delete(ctx context.Context, id string) error {
	return r.client.do(ctx, http.MethodDelete, r.collection()+"/"+url.PathEscape(id), nil, nil, nil)
}

// List sends GET /{collection}, filtered by the parent field when parentID is set
func (r *Resource[W]) List(ctx context.Context, parentID string) ([]W, error) {
	query := url.Values{}
	if field := wire.ParentField(r.entityType); field != "" && parentID != "" {
		query.Set(field, parentID)
	}

	out := []W{}
	if err := r.client.do(ctx, http.MethodGet, r.collection(), query, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
