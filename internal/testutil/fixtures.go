package testutil

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/go-chi/chi/v5"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

// FixturePassword is the plaintext password of every fixture admin and request.
const FixturePassword = "secret123"

var (
	fixtureHash  string
	fixtureError error
)

func init() {
	b, err := bcrypt.GenerateFromPassword([]byte(FixturePassword), bcrypt.MinCost)
	fixtureHash, fixtureError = string(b), err
}

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that call a handler method directly.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
	}
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// Fixtures inserts test documents directly, bypassing stores and handlers.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a Fixtures for db.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	if fixtureError != nil {
		t.Fatalf("hash fixture password: %v", fixtureError)
	}
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database.
func (f *Fixtures) DB() *mongo.Database { return f.db }

// PasswordHash returns the bcrypt hash of FixturePassword.
func (f *Fixtures) PasswordHash() string { return fixtureHash }

// CreateAdmin inserts an admin whose password is FixturePassword.
func (f *Fixtures) CreateAdmin(ctx context.Context, name, email string) models.Admin {
	f.t.Helper()

	now := time.Now().UTC()
	a := models.Admin{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NameCI:         text.Fold(name),
		Email:          email,
		PasswordHash:   fixtureHash,
		Description:    "Test organization",
		Address:        "1 Church St, Parramatta NSW",
		ContactDetails: "02 9999 0000",
		Lat:            -33.7688,
		Lng:            150.9051,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("admins").InsertOne(ctx, a); err != nil {
		f.t.Fatalf("failed to create test admin: %v", err)
	}
	return a
}

// CreateAdminRequest inserts a PENDING request whose password is FixturePassword.
func (f *Fixtures) CreateAdminRequest(ctx context.Context, name, email string) models.AdminRequest {
	f.t.Helper()

	now := time.Now().UTC()
	r := models.AdminRequest{
		ID:             primitive.NewObjectID(),
		Name:           name,
		NameCI:         text.Fold(name),
		Email:          email,
		PasswordHash:   fixtureHash,
		Description:    "We run a weekly food pantry",
		Address:        "12 George St, Parramatta NSW",
		ContactDetails: "0400 000 000",
		Lat:            -33.77,
		Lng:            150.90,
		Status:         models.AdminRequestPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if _, err := f.db.Collection("admin_requests").InsertOne(ctx, r); err != nil {
		f.t.Fatalf("failed to create test admin request: %v", err)
	}
	return r
}

// CreateEvent inserts e after filling in id, timestamps, and defaults
// (frequency Once Off, date tomorrow, name "Test event").
func (f *Fixtures) CreateEvent(ctx context.Context, e models.Event) models.Event {
	f.t.Helper()

	now := time.Now().UTC()
	if e.ID.IsZero() {
		e.ID = primitive.NewObjectID()
	}
	if e.Name == "" {
		e.Name = "Test event"
	}
	e.NameCI = text.Fold(e.Name)
	if e.Frequency == "" {
		e.Frequency = models.FrequencyOnceOff
	}
	if e.Date.IsZero() {
		e.Date = now.Add(24 * time.Hour)
	}
	e.Date = e.Date.UTC().Truncate(time.Millisecond)
	e.CreatedAt, e.UpdatedAt = now, now

	if _, err := f.db.Collection("events").InsertOne(ctx, e); err != nil {
		f.t.Fatalf("failed to create test event: %v", err)
	}
	return e
}

// Opportunity is a convenience for building Event.Opportunity.
func Opportunity(s string) *string { return &s }
