// internal/app/system/authz/authz.go
package authz

import (
	"net/http"

	"github.com/oneheartblacktown/hub/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsSuperAdmin reports whether the request carries a superadmin identity.
func IsSuperAdmin(r *http.Request) bool {
	u, ok := auth.CurrentUser(r)
	return ok && u.IsSuperAdmin
}

// AdminID returns the caller's admin id. ok is false for anonymous
// callers, the superadmin, and malformed ids (fail closed).
func AdminID(r *http.Request) (primitive.ObjectID, bool) {
	u, ok := auth.CurrentUser(r)
	if !ok {
		return primitive.NilObjectID, false
	}
	return u.AdminObjectID()
}

// CanActForAdmin reports whether the caller may modify data owned by
// adminID: the admin themselves, or the superadmin.
func CanActForAdmin(r *http.Request, adminID primitive.ObjectID) bool {
	if IsSuperAdmin(r) {
		return true
	}
	id, ok := AdminID(r)
	return ok && !adminID.IsZero() && id == adminID
}
