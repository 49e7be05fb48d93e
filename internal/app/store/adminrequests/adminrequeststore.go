// internal/app/store/adminrequests/adminrequeststore.go
package adminrequeststore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the admin_requests collection name.
const Collection = "admin_requests"

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create stores a new signup request. Status is always PENDING regardless
// of what the caller passes.
func (s *Store) Create(ctx context.Context, r models.AdminRequest) (models.AdminRequest, error) {
	now := time.Now().UTC()
	r.ID = primitive.NewObjectID()
	r.NameCI = text.Fold(r.Name)
	r.Status = models.AdminRequestPending
	r.CreatedAt = now
	r.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, r); err != nil {
		return models.AdminRequest{}, err
	}
	return r, nil
}

// GetPendingByID returns the PENDING request with id, or
// mongo.ErrNoDocuments when there is none.
func (s *Store) GetPendingByID(ctx context.Context, id primitive.ObjectID) (models.AdminRequest, error) {
	var r models.AdminRequest
	err := s.c.FindOne(ctx, bson.M{"_id": id, "status": models.AdminRequestPending}).Decode(&r)
	if err != nil {
		return models.AdminRequest{}, err
	}
	return r, nil
}

// ListPending returns every PENDING request, newest first.
func (s *Store) ListPending(ctx context.Context) ([]models.AdminRequest, error) {
	cur, err := s.c.Find(ctx,
		bson.M{"status": models.AdminRequestPending},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.AdminRequest{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountPending returns the size of the pending queue.
func (s *Store) CountPending(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{"status": models.AdminRequestPending})
}

// DeletePending removes a PENDING request. Returns the number of documents
// deleted (0 or 1); 0 means the request was already resolved or never existed.
func (s *Store) DeletePending(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id, "status": models.AdminRequestPending})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// NormalizeStatuses rewrites stored statuses that differ from a canonical
// value only in case or surrounding space, e.g. a legacy "pending". It
// returns how many documents were rewritten and how many carry a status
// that maps to no known value; those are left as they are.
func (s *Store) NormalizeStatuses(ctx context.Context) (fixed, unknown int64, err error) {
	canonical := make(bson.A, 0, len(models.AdminRequestStatuses))
	for _, st := range models.AdminRequestStatuses {
		canonical = append(canonical, st)
	}

	cur, err := s.c.Find(ctx,
		bson.M{"status": bson.M{"$nin": canonical}},
		options.Find().SetProjection(bson.M{"status": 1}),
	)
	if err != nil {
		return 0, 0, err
	}
	defer cur.Close(ctx)

	for cur.Next(ctx) {
		var doc struct {
			ID     primitive.ObjectID `bson:"_id"`
			Status bson.RawValue      `bson:"status"`
		}
		if err := cur.Decode(&doc); err != nil {
			return fixed, unknown, err
		}
		raw, ok := doc.Status.StringValueOK()
		if !ok {
			unknown++
			continue
		}
		st, perr := models.ParseAdminRequestStatus(raw)
		if perr != nil {
			unknown++
			continue
		}
		res, err := s.c.UpdateOne(ctx,
			bson.M{"_id": doc.ID, "status": raw},
			bson.M{"$set": bson.M{"status": st, "updated_at": time.Now().UTC()}},
		)
		if err != nil {
			return fixed, unknown, err
		}
		fixed += res.ModifiedCount
	}
	return fixed, unknown, cur.Err()
}
