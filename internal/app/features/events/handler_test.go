package events_test

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	"github.com/oneheartblacktown/hub/internal/app/features/events"
	eventstore "github.com/oneheartblacktown/hub/internal/app/store/events"
	"github.com/oneheartblacktown/hub/internal/app/system/auth"
	"github.com/oneheartblacktown/hub/internal/app/system/geo"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"github.com/oneheartblacktown/hub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var parramatta = geo.Point{Lat: -33.7688, Lng: 150.9051}

func newHandler(db *mongo.Database) *events.Handler {
	logger := zap.NewNop()
	return events.NewHandler(db, uierrors.NewErrorLogger(logger), logger)
}

type listBody struct {
	Events []struct {
		ID         string   `json:"id"`
		Name       string   `json:"name"`
		Date       string   `json:"date"`
		DistanceKm *float64 `json:"distanceKm"`
	} `json:"events"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func list(t *testing.T, h *events.Handler, query string) (*httptest.ResponseRecorder, listBody) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeList(rec, testutil.NewRequest(http.MethodGet, "/events"+query))
	var body listBody
	if rec.Code == http.StatusOK {
		testutil.DecodeJSON(t, rec, &body)
	}
	return rec, body
}

func names(b listBody) []string {
	out := make([]string, len(b.Events))
	for i, e := range b.Events {
		out[i] = e.Name
	}
	return out
}

func TestServeList_GeofenceIncludesCentreExcludesFarPoint(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fixtures.CreateAdmin(ctx, "Grace", "pastor@gmail.com")
	far := geo.Destination(parramatta, 90, 50)
	fixtures.CreateEvent(ctx, models.Event{Name: "Centre", AdminID: admin.ID, Lat: parramatta.Lat, Lng: parramatta.Lng})
	fixtures.CreateEvent(ctx, models.Event{Name: "Fifty km east", AdminID: admin.ID, Lat: far.Lat, Lng: far.Lng})

	for _, precise := range []string{"", "&precise=true"} {
		rec, body := list(t, h, "?lat=-33.7688&lng=150.9051&radius=5"+precise)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d", rec.Code)
		}
		if got := names(body); len(got) != 1 || got[0] != "Centre" {
			t.Errorf("precise=%q: got %v, want [Centre]", precise, got)
		}
		if body.Events[0].DistanceKm == nil || *body.Events[0].DistanceKm != 0 {
			t.Errorf("centre distance: got %v", body.Events[0].DistanceKm)
		}
	}
}

func TestServeList_BoxCornerAdmittedUnlessPrecise(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fixtures.CreateAdmin(ctx, "Grace", "pastor@gmail.com")

	// Just inside the north-east corner of the 5 km box: about 7 km away.
	box := geo.BoundingBox(parramatta, 5)
	corner := geo.Point{Lat: box.MaxLat - 0.001, Lng: box.Lng[0].Max - 0.001}
	fixtures.CreateEvent(ctx, models.Event{Name: "Corner", AdminID: admin.ID, Lat: corner.Lat, Lng: corner.Lng})

	_, loose := list(t, h, "?lat=-33.7688&lng=150.9051&radius=5")
	if len(loose.Events) != 1 {
		t.Errorf("bounding box should admit the corner, got %v", names(loose))
	}
	_, precise := list(t, h, "?lat=-33.7688&lng=150.9051&radius=5&precise=true")
	if len(precise.Events) != 0 || precise.Total != 0 {
		t.Errorf("precise pass should drop the corner, got %v", names(precise))
	}
}

func TestServeList_PagingAndOrder(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fixtures.CreateAdmin(ctx, "Grace", "pastor@gmail.com")
	base := time.Now().UTC().Add(24 * time.Hour)
	for i := 4; i >= 0; i-- {
		fixtures.CreateEvent(ctx, models.Event{
			Name:    fmt.Sprintf("E%d", i),
			AdminID: admin.ID,
			Date:    base.Add(time.Duration(i) * time.Hour),
			Lat:     parramatta.Lat,
			Lng:     parramatta.Lng,
		})
	}

	for _, precise := range []string{"", "&precise=true"} {
		rec, body := list(t, h, "?lat=-33.7688&lng=150.9051&radius=5&page=2&limit=2"+precise)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d", rec.Code)
		}
		if got := names(body); len(got) != 2 || got[0] != "E2" || got[1] != "E3" {
			t.Errorf("precise=%q page 2: got %v, want [E2 E3]", precise, got)
		}
		if body.Total != 5 || body.TotalPages != 3 || body.Page != 2 || body.Limit != 2 {
			t.Errorf("precise=%q meta: %+v", precise, body)
		}
	}

	_, all := list(t, h, "")
	if all.Total != 5 || all.Limit != 10 || all.TotalPages != 1 {
		t.Errorf("unfiltered meta: total=%d limit=%d pages=%d", all.Total, all.Limit, all.TotalPages)
	}
	if all.Events[0].DistanceKm != nil {
		t.Error("distanceKm should be absent without a centre")
	}
	if _, err := time.Parse(time.RFC3339Nano, all.Events[0].Date); err != nil {
		t.Errorf("date %q is not RFC 3339: %v", all.Events[0].Date, err)
	}
}

func TestServeList_EmptyResultIsEmptyArray(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)

	rec, body := list(t, h, "?lat=10&lng=10&radius=1")
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if body.Events == nil || len(body.Events) != 0 || body.TotalPages != 0 {
		t.Errorf("unexpected body: %s", rec.Body.String())
	}
}

func TestServeList_BadQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)

	tests := []struct {
		query string
		msg   string
	}{
		{"?lat=abc&lng=1&radius=1", events.MsgBadLat},
		{"?lat=91&lng=1&radius=1", events.MsgBadLat},
		{"?lat=1&lng=181&radius=1", events.MsgBadLng},
		{"?lat=1&lng=1&radius=0", events.MsgBadRadius},
		{"?lat=1&lng=1&radius=-3", events.MsgBadRadius},
		{"?lat=1&lng=1", events.MsgIncompleteQuery},
		{"?radius=5", events.MsgIncompleteQuery},
	}
	for _, tt := range tests {
		rec, _ := list(t, h, tt.query)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status %d, want 400", tt.query, rec.Code)
			continue
		}
		if msg := testutil.Message(t, rec); msg != tt.msg {
			t.Errorf("%s: message %q, want %q", tt.query, msg, tt.msg)
		}
	}
}

func TestServeView(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fixtures.CreateAdmin(ctx, "Grace", "pastor@gmail.com")
	e := fixtures.CreateEvent(ctx, models.Event{Name: "Picnic", AdminID: admin.ID})

	req := testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/"), "id", e.ID.Hex())
	rec := httptest.NewRecorder()
	h.ServeView(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}

	req = testutil.WithChiURLParam(testutil.NewRequest(http.MethodGet, "/"), "id", primitive.NewObjectID().Hex())
	rec = httptest.NewRecorder()
	h.ServeView(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing event: got %d, want 404", rec.Code)
	}
}

func eventBody(extra map[string]any) map[string]any {
	body := map[string]any{
		"name":        "Food Drive",
		"description": "<p>Bring cans</p>",
		"date":        "2030-03-01T09:00",
		"location":    "Church Hall",
		"lat":         "-33.7688",
		"lng":         "150.9051",
		"frequency":   "Weekly",
	}
	for k, v := range extra {
		body[k] = v
	}
	return body
}

func call(t *testing.T, fn http.HandlerFunc, method, id string, user *auth.TokenUser, body any) *httptest.ResponseRecorder {
	t.Helper()
	req := testutil.NewJSONRequest(t, method, "/admin/events/"+id, body)
	if id != "" {
		req = testutil.WithChiURLParam(req, "id", id)
	}
	if user != nil {
		req = testutil.WithUser(req, user)
	}
	rec := httptest.NewRecorder()
	fn(rec, req)
	return rec
}

func TestHandleCreate_OwnedByCaller(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fixtures.CreateAdmin(ctx, "Grace", "pastor@gmail.com")
	other := fixtures.CreateAdmin(ctx, "Other", "other@gmail.com")

	rec := call(t, h.HandleCreate, http.MethodPost, "", testutil.AdminUser(admin.ID),
		eventBody(map[string]any{"adminId": other.ID.Hex(), "hasOpportunity": "on", "opportunity": "Drivers needed"}))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
	var created struct {
		ID string `json:"id"`
	}
	testutil.DecodeJSON(t, rec, &created)

	e, err := eventstore.New(db).GetByID(ctx, testutil.MustObjectID(t, created.ID))
	if err != nil {
		t.Fatalf("stored event: %v", err)
	}
	if e.AdminID != admin.ID {
		t.Errorf("owner: got %s, want caller %s", e.AdminID.Hex(), admin.ID.Hex())
	}
	if !e.HasOpportunity || e.Opportunity == nil || *e.Opportunity != "Drivers needed" {
		t.Errorf("opportunity not stored: %+v", e)
	}
}

func TestHandleCreate_SuperAdminNamesOwner(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fixtures.CreateAdmin(ctx, "Grace", "pastor@gmail.com")

	rec := call(t, h.HandleCreate, http.MethodPost, "", testutil.SuperAdminUser(), eventBody(nil))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("without adminId: got %d, want 400", rec.Code)
	}
	rec = call(t, h.HandleCreate, http.MethodPost, "", testutil.SuperAdminUser(),
		eventBody(map[string]any{"adminId": primitive.NewObjectID().Hex()}))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown adminId: got %d, want 400", rec.Code)
	}
	rec = call(t, h.HandleCreate, http.MethodPost, "", testutil.SuperAdminUser(),
		eventBody(map[string]any{"adminId": admin.ID.Hex()}))
	if rec.Code != http.StatusCreated {
		t.Errorf("with adminId: got %d, want 201", rec.Code)
	}
}

func TestHandleCreate_OpportunityRequiresText(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	admin := fixtures.CreateAdmin(ctx, "Grace", "pastor@gmail.com")

	rec := call(t, h.HandleCreate, http.MethodPost, "", testutil.AdminUser(admin.ID),
		eventBody(map[string]any{"hasOpportunity": true, "opportunity": "<p></p>"}))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if msg := testutil.Message(t, rec); msg != events.MsgOpportunityRequired {
		t.Errorf("message: got %q", msg)
	}
}

func TestHandleUpdateDelete_Ownership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	fixtures := testutil.NewFixtures(t, db)
	h := newHandler(db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	owner := fixtures.CreateAdmin(ctx, "Owner", "owner@gmail.com")
	stranger := fixtures.CreateAdmin(ctx, "Stranger", "stranger@gmail.com")
	e := fixtures.CreateEvent(ctx, models.Event{Name: "Picnic", AdminID: owner.ID})

	rec := call(t, h.HandleUpdate, http.MethodPut, e.ID.Hex(), testutil.AdminUser(stranger.ID), eventBody(nil))
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger update: got %d, want 403", rec.Code)
	}
	rec = call(t, h.HandleDelete, http.MethodDelete, e.ID.Hex(), testutil.AdminUser(stranger.ID), nil)
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger delete: got %d, want 403", rec.Code)
	}

	rec = call(t, h.HandleUpdate, http.MethodPut, e.ID.Hex(), testutil.AdminUser(owner.ID),
		eventBody(map[string]any{"name": "Picnic in the park"}))
	if rec.Code != http.StatusOK {
		t.Fatalf("owner update: got %d (body %s)", rec.Code, rec.Body.String())
	}
	stored, _ := eventstore.New(db).GetByID(ctx, e.ID)
	if stored.Name != "Picnic in the park" || stored.AdminID != owner.ID {
		t.Errorf("update not applied: %+v", stored)
	}

	rec = call(t, h.HandleDelete, http.MethodDelete, e.ID.Hex(), testutil.SuperAdminUser(), nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("superadmin delete: got %d", rec.Code)
	}
	if msg := testutil.Message(t, rec); msg != events.MsgDeleted {
		t.Errorf("message: got %q", msg)
	}
	rec = call(t, h.HandleDelete, http.MethodDelete, e.ID.Hex(), testutil.SuperAdminUser(), nil)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", rec.Code)
	}
}

func TestManageRoutes_RequireToken(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(db)
	tm := testutil.NewTokenManager(t)
	router := events.ManageRoutes(h, tm)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/", eventBody(nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}
