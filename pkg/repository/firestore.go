package repository

import (
	"context"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model"
	"github.com/phillipou/blossomer-gtm-app-sub000/pkg/model/wire"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const usersCollection = "users"

// NewFirestoreClient connects to a Firestore database
func NewFirestoreClient(ctx context.Context, projectID, databaseID string) (*firestore.Client, error) {
	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID),
		)
	}
	return client, nil
}

// Firestore stores wire records of one entity type directly in Cloud Firestore
// under users/{uid}/{collection}/{id}
type Firestore[W any, PW wire.Stampable[W]] struct {
	client     *firestore.Client
	entityType model.EntityType
	owner      Owner
	now        func() time.Time
}

// NewFirestore creates a Firestore backend for entity type t
func NewFirestore[W any, PW wire.Stampable[W]](client *firestore.Client, t model.EntityType, owner Owner) *Firestore[W, PW] {
	return &Firestore[W, PW]{
		client:     client,
		entityType: t,
		owner:      owner,
		now:        time.Now,
	}
}

func (r *Firestore[W, PW]) collection() (*firestore.CollectionRef, error) {
	uid, ok := r.owner.UserID()
	if !ok {
		return nil, goerr.Wrap(ErrNoOwner, "cannot access firestore", goerr.V("type", r.entityType))
	}
	return r.client.Collection(usersCollection).Doc(uid).Collection(wire.Collection(r.entityType)), nil
}

func (r *Firestore[W, PW]) Create(ctx context.Context, record W) (W, error) {
	var zero W
	coll, err := r.collection()
	if err != nil {
		return zero, err
	}

	PW(&record).Stamp(uuid.NewString(), r.now())
	id := PW(&record).RecordID()
	if _, err := coll.Doc(id).Create(ctx, record); err != nil {
		return zero, goerr.Wrap(err, "failed to create document", goerr.V("id", id))
	}
	return record, nil
}

func (r *Firestore[W, PW]) Get(ctx context.Context, id string) (W, error) {
	var zero W
	coll, err := r.collection()
	if err != nil {
		return zero, err
	}

	snap, err := coll.Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return zero, goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id), goerr.V("type", r.entityType))
		}
		return zero, goerr.Wrap(err, "failed to get document", goerr.V("id", id))
	}

	var record W
	if err := snap.DataTo(&record); err != nil {
		return zero, goerr.Wrap(err, "failed to decode document", goerr.V("id", id))
	}
	return record, nil
}

// Update replaces the document in a transaction. The creation time of the
// stored document is kept.
func (r *Firestore[W, PW]) Update(ctx context.Context, id string, record W) (W, error) {
	var zero W
	coll, err := r.collection()
	if err != nil {
		return zero, err
	}
	doc := coll.Doc(id)
	next := record

	err = r.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(doc)
		if err != nil {
			if status.Code(err) == codes.NotFound {
				return goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id), goerr.V("type", r.entityType))
			}
			return goerr.Wrap(err, "failed to get document", goerr.V("id", id))
		}

		var stored W
		if err := snap.DataTo(&stored); err != nil {
			return goerr.Wrap(err, "failed to decode document", goerr.V("id", id))
		}

		next = record
		PW(&next).Restamp(id, PW(&stored).CreatedStamp(), r.now())
		return tx.Set(doc, next)
	})
	if err != nil {
		return zero, err
	}
	return next, nil
}

func (r *Firestore[W, PW]) Delete(ctx context.Context, id string) error {
	coll, err := r.collection()
	if err != nil {
		return err
	}

	if _, err := coll.Doc(id).Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return goerr.Wrap(ErrNotFound, "document not found", goerr.V("id", id), goerr.V("type", r.entityType))
		}
		return goerr.Wrap(err, "failed to delete document", goerr.V("id", id))
	}
	return nil
}

func (r *Firestore[W, PW]) List(ctx context.Context, parentID string) ([]W, error) {
	coll, err := r.collection()
	if err != nil {
		return nil, err
	}

	query := coll.Query
	if field := wire.ParentField(r.entityType); field != "" && parentID != "" {
		query = coll.Where(field, "==", parentID)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	records := []W{}
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate documents", goerr.V("type", r.entityType))
		}

		var record W
		if err := snap.DataTo(&record); err != nil {
			return nil, goerr.Wrap(err, "failed to decode document", goerr.V("id", snap.Ref.ID))
		}
		records = append(records, record)
	}
	return records, nil
}
