// internal/domain/models/admin.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Admin is an active organization account. It owns zero or more events
// through Event.AdminID.
type Admin struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"`
	Email          string             `bson:"email" json:"email"` // unique (uniq_admins_email)
	PasswordHash   string             `bson:"password_hash" json:"-"`
	Description    string             `bson:"description" json:"description"`
	Address        string             `bson:"address" json:"address"`
	ContactDetails string             `bson:"contact_details" json:"contactDetails"`
	Logo           *string            `bson:"logo,omitempty" json:"logo,omitempty"`
	Lat            float64            `bson:"lat" json:"lat"`
	Lng            float64            `bson:"lng" json:"lng"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}
