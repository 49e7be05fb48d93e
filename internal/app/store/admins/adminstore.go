// internal/app/store/admins/adminstore.go
package adminstore

import (
	"context"
	"errors"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection is the admins collection name.
const Collection = "admins"

type Store struct {
	c *mongo.Collection
}

var ErrDuplicateEmail = errors.New("an admin with this email already exists")

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection(Collection)}
}

// Create inserts a new admin. PasswordHash must already be a bcrypt hash.
func (s *Store) Create(ctx context.Context, a models.Admin) (models.Admin, error) {
	now := time.Now().UTC()
	a.ID = primitive.NewObjectID()
	a.NameCI = text.Fold(a.Name)
	a.CreatedAt = now
	a.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, a); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Admin{}, ErrDuplicateEmail
		}
		return models.Admin{}, err
	}
	return a, nil
}

// GetByID returns mongo.ErrNoDocuments when no admin has id.
func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		return models.Admin{}, err
	}
	return a, nil
}

// GetByEmail looks up an admin by normalized email.
func (s *Store) GetByEmail(ctx context.Context, email string) (models.Admin, error) {
	var a models.Admin
	if err := s.c.FindOne(ctx, bson.M{"email": email}).Decode(&a); err != nil {
		return models.Admin{}, err
	}
	return a, nil
}

// EmailExists reports whether any admin uses email.
func (s *Store) EmailExists(ctx context.Context, email string) (bool, error) {
	return s.exists(ctx, bson.M{"email": email})
}

// EmailExistsForOther reports whether an admin other than excludeID uses email.
// An admin keeping its own address is not a conflict.
func (s *Store) EmailExistsForOther(ctx context.Context, email string, excludeID primitive.ObjectID) (bool, error) {
	return s.exists(ctx, bson.M{
		"email": email,
		"_id":   bson.M{"$ne": excludeID},
	})
}

func (s *Store) exists(ctx context.Context, filter bson.M) (bool, error) {
	err := s.c.FindOne(ctx, filter, options.FindOne().SetProjection(bson.M{"_id": 1})).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Update overwrites the profile fields of admin id with those in a and
// refreshes UpdatedAt. The password hash is never touched here.
// Returns the stored document, mongo.ErrNoDocuments, or ErrDuplicateEmail.
func (s *Store) Update(ctx context.Context, id primitive.ObjectID, a models.Admin) (models.Admin, error) {
	set := bson.M{
		"name":            a.Name,
		"name_ci":         text.Fold(a.Name),
		"email":           a.Email,
		"description":     a.Description,
		"address":         a.Address,
		"contact_details": a.ContactDetails,
		"lat":             a.Lat,
		"lng":             a.Lng,
		"updated_at":      time.Now().UTC(),
	}
	update := bson.M{"$set": set}
	if a.Logo != nil {
		set["logo"] = *a.Logo
	} else {
		update["$unset"] = bson.M{"logo": ""}
	}

	var out models.Admin
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, update,
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&out)
	if err != nil {
		if wafflemongo.IsDup(err) {
			return models.Admin{}, ErrDuplicateEmail
		}
		return models.Admin{}, err
	}
	return out, nil
}

// List returns every admin ordered by name.
func (s *Store) List(ctx context.Context) ([]models.Admin, error) {
	cur, err := s.c.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{
		{Key: "name_ci", Value: 1},
		{Key: "_id", Value: 1},
	}))
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	out := []models.Admin{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Delete removes an admin by ID. Returns the number of documents deleted (0 or 1).
func (s *Store) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := s.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}
