package validators_test

import (
	"testing"
	"time"

	"github.com/oneheartblacktown/hub/internal/app/system/validators"
	"github.com/oneheartblacktown/hub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestEnsureAll_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("first EnsureAll failed: %v", err)
	}
	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("second EnsureAll failed: %v", err)
	}
}

func TestEnsureAll_CreatesCollections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	names, err := db.ListCollectionNames(ctx, bson.M{})
	if err != nil {
		t.Fatalf("ListCollectionNames failed: %v", err)
	}
	have := make(map[string]bool)
	for _, n := range names {
		have[n] = true
	}
	for _, want := range []string{"admins", "admin_requests", "events"} {
		if !have[want] {
			t.Errorf("expected collection %q to exist", want)
		}
	}
}

func TestEnsureAll_RejectsBadStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("admin_requests").InsertOne(ctx, bson.M{
		"_id":           primitive.NewObjectID(),
		"name":          "Grace Church",
		"email":         "pastor@gmail.com",
		"password_hash": "$2a$10$abc",
		"status":        "pending", // wrong case
		"created_at":    time.Now(),
	})
	if err == nil {
		t.Error("expected lowercase status to be rejected by the validator")
	}
}

func TestEnsureAll_RejectsBadFrequency(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if err := validators.EnsureAll(ctx, db); err != nil {
		t.Fatalf("EnsureAll failed: %v", err)
	}

	_, err := db.Collection("events").InsertOne(ctx, bson.M{
		"_id":             primitive.NewObjectID(),
		"name":            "Food drive",
		"date":            time.Now(),
		"frequency":       "Daily",
		"admin_id":        primitive.NewObjectID(),
		"has_opportunity": false,
	})
	if err == nil {
		t.Error("expected unknown frequency to be rejected by the validator")
	}
}
