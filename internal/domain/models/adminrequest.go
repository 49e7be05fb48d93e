// internal/domain/models/adminrequest.go
package models

import (
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AdminRequestStatus is the lifecycle state of an admin signup request.
// Only PENDING is ever stored; APPROVED and REJECTED name the transient
// outcomes of a superadmin decision (the request is deleted on resolve).
type AdminRequestStatus string

const (
	AdminRequestPending  AdminRequestStatus = "PENDING"
	AdminRequestApproved AdminRequestStatus = "APPROVED"
	AdminRequestRejected AdminRequestStatus = "REJECTED"
)

// AdminRequestStatuses lists every canonical status value.
var AdminRequestStatuses = []AdminRequestStatus{
	AdminRequestPending,
	AdminRequestApproved,
	AdminRequestRejected,
}

// ParseAdminRequestStatus maps any casing of a status onto its canonical value.
func ParseAdminRequestStatus(s string) (AdminRequestStatus, error) {
	up := AdminRequestStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range AdminRequestStatuses {
		if up == st {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown admin request status %q", s)
}

// AdminRequest is a pending application to become an organization admin.
type AdminRequest struct {
	ID             primitive.ObjectID `bson:"_id" json:"id"`
	Name           string             `bson:"name" json:"name"`
	NameCI         string             `bson:"name_ci" json:"-"`
	Email          string             `bson:"email" json:"email"`
	PasswordHash   string             `bson:"password_hash" json:"-"` // bcrypt, copied verbatim on approval
	Description    string             `bson:"description" json:"description"`
	Address        string             `bson:"address" json:"address"`
	ContactDetails string             `bson:"contact_details" json:"contactDetails"`
	Logo           *string            `bson:"logo,omitempty" json:"logo,omitempty"`
	Lat            float64            `bson:"lat" json:"lat"`
	Lng            float64            `bson:"lng" json:"lng"`
	Status         AdminRequestStatus `bson:"status" json:"status"`
	CreatedAt      time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

// ToAdmin builds the Admin record produced by approving r.
// The password hash is carried over untouched.
func (r AdminRequest) ToAdmin() Admin {
	return Admin{
		Name:           r.Name,
		Email:          r.Email,
		PasswordHash:   r.PasswordHash,
		Description:    r.Description,
		Address:        r.Address,
		ContactDetails: r.ContactDetails,
		Logo:           r.Logo,
		Lat:            r.Lat,
		Lng:            r.Lng,
	}
}
