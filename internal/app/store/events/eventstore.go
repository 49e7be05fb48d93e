// internal/app/store/events/eventstore.go
package eventstore

import (
	"context"
	"errors"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/oneheartblacktown/hub/internal/app/system/geo"
	"github.com/oneheartblacktown/hub/internal/app/system/paging"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the events collection name.
const Collection = "events"

// ErrBadAdminID is returned when an event is written without an owner.
var ErrBadAdminID = errors.New("event must belong to an admin")

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

var byDate = bson.D{{Key: "date", Value: 1}, {Key: "_id", Value: 1}}

// Create inserts e with a fresh id and timestamps.
func (s *Store) Create(ctx context.Context, e models.Event) (models.Event, error) {
	if e.AdminID.IsZero() {
		return models.Event{}, ErrBadAdminID
	}
	now := time.Now().UTC()
	e.ID = primitive.NewObjectID()
	e.NameCI = text.Fold(e.Name)
	e.CreatedAt = now
	e.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// GetByID returns mongo.ErrNoDocuments when no event has id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Event, error) {
	var e models.Event
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&e); err != nil {
		return models.Event{}, err
	}
	return e, nil
}

// Update replaces the editable fields of the event and returns the stored
// document. Ownership and creation time are never changed.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, e models.Event) (models.Event, error) {
	return s.update(ctx, id, e, bson.M{}, options.After)
}

// UpdateAndReassign is Update that also moves the event to adminID in the
// same write. It returns the event as it was before the write so callers
// can see the previous owner.
func (s *Store) UpdateAndReassign(ctx context.Context, id primitive.ObjectID, e models.Event, adminID primitive.ObjectID) (models.Event, error) {
	if adminID.IsZero() {
		return models.Event{}, ErrBadAdminID
	}
	return s.update(ctx, id, e, bson.M{"admin_id": adminID}, options.Before)
}

func (s *Store) update(ctx context.Context, id primitive.ObjectID, e models.Event, set bson.M, ret options.ReturnDocument) (models.Event, error) {
	set["name"] = e.Name
	set["name_ci"] = text.Fold(e.Name)
	set["description"] = e.Description
	set["date"] = e.Date
	set["location"] = e.Location
	set["lat"] = e.Lat
	set["lng"] = e.Lng
	set["frequency"] = e.Frequency
	set["has_opportunity"] = e.HasOpportunity
	set["updated_at"] = time.Now().UTC()

	unset := bson.M{}
	optional := func(key string, v *string) {
		if v == nil {
			unset[key] = ""
		} else {
			set[key] = *v
		}
	}
	optional("photo", e.Photo)
	optional("registration_link", e.RegistrationLink)
	optional("opportunity", e.Opportunity)

	update := bson.M{"$set": set}
	if len(unset) > 0 {
		update["$unset"] = unset
	}

	var out models.Event
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(ret),
	).Decode(&out)
	if err != nil {
		return models.Event{}, err
	}
	return out, nil
}

// GetWithAdmin returns one event joined with its owner's name.
func (s *Store) GetWithAdmin(ctx context.Context, id primitive.ObjectID) (models.EventWithAdmin, error) {
	pipeline := mongo.Pipeline{{{Key: "$match", Value: bson.M{"_id": id}}}}
	pipeline = append(pipeline, lookupAdminName()...)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return models.EventWithAdmin{}, err
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return models.EventWithAdmin{}, err
		}
		return models.EventWithAdmin{}, mongo.ErrNoDocuments
	}
	var out models.EventWithAdmin
	if err := cur.Decode(&out); err != nil {
		return models.EventWithAdmin{}, err
	}
	return out, nil
}

// Delete removes the event and reports how many documents were deleted.
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// ListByAdmin returns the admin's events ordered by date ascending.
func (s *Store) ListByAdmin(ctx context.Context, adminID primitive.ObjectID) ([]models.Event, error) {
	return s.find(ctx, bson.M{"admin_id": adminID}, options.Find().SetSort(byDate))
}

// BoxFilter translates a bounding box into a range query on lat/lng.
// A nil box matches every event.
func BoxFilter(b *geo.Box) bson.M {
	if b == nil {
		return bson.M{}
	}
	f := bson.M{"lat": bson.M{"$gte": b.MinLat, "$lte": b.MaxLat}}
	switch len(b.Lng) {
	case 0:
	case 1:
		f["lng"] = bson.M{"$gte": b.Lng[0].Min, "$lte": b.Lng[0].Max}
	default:
		or := make(bson.A, 0, len(b.Lng))
		for _, r := range b.Lng {
			or = append(or, bson.M{"lng": bson.M{"$gte": r.Min, "$lte": r.Max}})
		}
		f["$or"] = or
	}
	return f
}

// FindInBox returns one page of events inside b, ordered by date ascending.
func (s *Store) FindInBox(ctx context.Context, b *geo.Box, p paging.Page) ([]models.Event, error) {
	return s.find(ctx, BoxFilter(b), p.ApplyToFind(options.Find().SetSort(byDate)))
}

// CountInBox counts the events inside b.
func (s *Store) CountInBox(ctx context.Context, b *geo.Box) (int64, error) {
	return s.c.CountDocuments(ctx, BoxFilter(b))
}

// FindAllInBox returns every event inside b, ordered by date ascending.
// Used by the precise distance pass, which filters in memory.
func (s *Store) FindAllInBox(ctx context.Context, b *geo.Box) ([]models.Event, error) {
	return s.find(ctx, BoxFilter(b), options.Find().SetSort(byDate))
}

func (s *Store) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Event, error) {
	cur, err := s.c.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Event{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// lookupAdminName joins the owner's display name as admin_name.
func lookupAdminName() []bson.D {
	return []bson.D{
		{{Key: "$lookup", Value: bson.M{
			"from":         "admins",
			"localField":   "admin_id",
			"foreignField": "_id",
			"as":           "owner",
		}}},
		{{Key: "$addFields", Value: bson.M{
			"admin_name": bson.M{"$ifNull": bson.A{bson.M{"$arrayElemAt": bson.A{"$owner.name", 0}}, ""}},
		}}},
		{{Key: "$project", Value: bson.M{"owner": 0}}},
	}
}

// ListOpportunities returns events flagged as opportunities with non-empty
// opportunity text and a date on or after from, ordered by date ascending.
func (s *Store) ListOpportunities(ctx context.Context, from time.Time) ([]models.Opportunity, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{
			"has_opportunity": true,
			"opportunity":     bson.M{"$exists": true, "$nin": bson.A{nil, ""}},
			"date":            bson.M{"$gte": from},
		}}},
		{{Key: "$sort", Value: byDate}},
	}
	pipeline = append(pipeline, lookupAdminName()...)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Opportunity{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListWithAdmin returns every event with its owner's name, ordered by date
// ascending. Optional adminID narrows the list to one owner.
func (s *Store) ListWithAdmin(ctx context.Context, adminID *primitive.ObjectID) ([]models.EventWithAdmin, error) {
	match := bson.M{}
	if adminID != nil {
		match["admin_id"] = *adminID
	}
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: byDate}},
	}
	pipeline = append(pipeline, lookupAdminName()...)

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.EventWithAdmin{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
