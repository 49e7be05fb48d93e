// internal/domain/models/event.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Frequency is how often an event recurs.
type Frequency string

const (
	FrequencyOnceOff Frequency = "Once Off"
	FrequencyWeekly  Frequency = "Weekly"
	FrequencyMonthly Frequency = "Monthly"
)

// Frequencies is the canonical list used by validation and the collection schema.
var Frequencies = []Frequency{FrequencyOnceOff, FrequencyWeekly, FrequencyMonthly}

// IsValidFrequency reports whether f is one of Frequencies (exact match).
func IsValidFrequency(f string) bool {
	for _, v := range Frequencies {
		if string(v) == f {
			return true
		}
	}
	return false
}

// Event is a scheduled community activity owned by an admin.
//
// Description and Opportunity hold sanitized rich text (HTML).
// HasOpportunity implies a non-empty Opportunity; the write path enforces it.
type Event struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	Name             string             `bson:"name" json:"name"`
	NameCI           string             `bson:"name_ci" json:"-"`
	Description      string             `bson:"description" json:"description"`
	Date             time.Time          `bson:"date" json:"date"`
	Location         string             `bson:"location" json:"location"`
	Lat              float64            `bson:"lat" json:"lat"`
	Lng              float64            `bson:"lng" json:"lng"`
	Frequency        Frequency          `bson:"frequency" json:"frequency"`
	Photo            *string            `bson:"photo,omitempty" json:"photo,omitempty"`
	RegistrationLink *string            `bson:"registration_link,omitempty" json:"registrationLink,omitempty"`
	HasOpportunity   bool               `bson:"has_opportunity" json:"hasOpportunity"`
	Opportunity      *string            `bson:"opportunity,omitempty" json:"opportunity,omitempty"`
	AdminID          primitive.ObjectID `bson:"admin_id" json:"adminId"`
	CreatedAt        time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt        time.Time          `bson:"updated_at" json:"updatedAt"`
}

// EventWithAdmin is an event joined with its owner's display name.
type EventWithAdmin struct {
	Event     `bson:",inline"`
	AdminName string `bson:"admin_name" json:"adminName"`
}

// Opportunity is the public projection of an event that recruits volunteers.
type Opportunity struct {
	ID               primitive.ObjectID `bson:"_id" json:"id"`
	Name             string             `bson:"name" json:"name"`
	Date             time.Time          `bson:"date" json:"date"`
	Location         string             `bson:"location" json:"location"`
	Description      string             `bson:"description" json:"description"`
	Opportunity      string             `bson:"opportunity" json:"opportunity"`
	Photo            *string            `bson:"photo,omitempty" json:"photo,omitempty"`
	RegistrationLink *string            `bson:"registration_link,omitempty" json:"registrationLink,omitempty"`
	AdminID          primitive.ObjectID `bson:"admin_id" json:"adminId"`
	AdminName        string             `bson:"admin_name" json:"adminName"`
}
