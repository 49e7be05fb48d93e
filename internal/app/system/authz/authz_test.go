package authz_test

import (
	"net/http/httptest"
	"testing"

	"github.com/oneheartblacktown/hub/internal/app/system/auth"
	"github.com/oneheartblacktown/hub/internal/app/system/authz"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func adminUser(id primitive.ObjectID) *auth.TokenUser {
	return &auth.TokenUser{ID: id.Hex(), Role: auth.RoleAdmin}
}

func superUser() *auth.TokenUser {
	return &auth.TokenUser{Username: "root", Role: auth.RoleSuperAdmin, IsSuperAdmin: true}
}

func TestIsSuperAdmin(t *testing.T) {
	req := httptest.NewRequest("GET", "/test", nil)
	if authz.IsSuperAdmin(req) {
		t.Error("anonymous request reported as superadmin")
	}
	if authz.IsSuperAdmin(auth.WithTestUser(req, adminUser(primitive.NewObjectID()))) {
		t.Error("admin reported as superadmin")
	}
	if !authz.IsSuperAdmin(auth.WithTestUser(req, superUser())) {
		t.Error("superadmin not reported as superadmin")
	}
}

func TestAdminID(t *testing.T) {
	id := primitive.NewObjectID()
	req := auth.WithTestUser(httptest.NewRequest("GET", "/test", nil), adminUser(id))

	got, ok := authz.AdminID(req)
	if !ok || got != id {
		t.Errorf("AdminID: got %v/%v, want %v/true", got, ok, id)
	}

	bad := auth.WithTestUser(httptest.NewRequest("GET", "/test", nil), &auth.TokenUser{ID: "nope", Role: auth.RoleAdmin})
	if _, ok := authz.AdminID(bad); ok {
		t.Error("malformed id accepted")
	}

	super := auth.WithTestUser(httptest.NewRequest("GET", "/test", nil), superUser())
	if _, ok := authz.AdminID(super); ok {
		t.Error("superadmin has no admin id")
	}
}

func TestCanActForAdmin(t *testing.T) {
	self := primitive.NewObjectID()
	other := primitive.NewObjectID()
	base := httptest.NewRequest("PUT", "/admins/x", nil)

	tests := []struct {
		name   string
		user   *auth.TokenUser
		target primitive.ObjectID
		want   bool
	}{
		{"anonymous", nil, self, false},
		{"self", adminUser(self), self, true},
		{"other admin", adminUser(self), other, false},
		{"zero target", adminUser(self), primitive.NilObjectID, false},
		{"superadmin", superUser(), other, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := base
			if tt.user != nil {
				req = auth.WithTestUser(base, tt.user)
			}
			if got := authz.CanActForAdmin(req, tt.target); got != tt.want {
				t.Errorf("CanActForAdmin: got %v, want %v", got, tt.want)
			}
		})
	}
}
