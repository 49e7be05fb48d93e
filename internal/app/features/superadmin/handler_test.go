package superadmin_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	"github.com/oneheartblacktown/hub/internal/app/features/superadmin"
	auditstore "github.com/oneheartblacktown/hub/internal/app/store/audit"
	eventstore "github.com/oneheartblacktown/hub/internal/app/store/events"
	"github.com/oneheartblacktown/hub/internal/app/system/auditlog"
	"github.com/oneheartblacktown/hub/internal/app/system/ratelimit"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"github.com/oneheartblacktown/hub/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const testPassword = "correct horse battery staple"

func newHandler(t *testing.T, db *mongo.Database) *superadmin.Handler {
	t.Helper()
	logger := zap.NewNop()
	creds := superadmin.Credentials{Username: testutil.SuperAdminUsername, Password: testPassword}
	return superadmin.NewHandler(db, testutil.NewTokenManager(t), creds, uierrors.NewErrorLogger(logger), logger)
}

// serve routes req through Routes, authenticated as the superadmin when
// withToken is set.
func serve(t *testing.T, h *superadmin.Handler, req *http.Request, withToken bool) *httptest.ResponseRecorder {
	t.Helper()
	if withToken {
		tok, err := h.Tokens.MintSuperAdmin(testutil.SuperAdminUsername)
		if err != nil {
			t.Fatalf("mint: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rec := httptest.NewRecorder()
	superadmin.Routes(h, h.Tokens).ServeHTTP(rec, req)
	return rec
}

func TestHandleSignin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth", map[string]string{
		"username": testutil.SuperAdminUsername,
		"password": testPassword,
	})
	rec := serve(t, h, req, false)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string `json:"message"`
		Token   string `json:"token"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Message != superadmin.MsgAuthenticated {
		t.Errorf("message: got %q", resp.Message)
	}
	u, err := h.Tokens.Parse(resp.Token)
	if err != nil {
		t.Fatalf("parse token: %v", err)
	}
	if !u.IsSuperAdmin || u.Username != testutil.SuperAdminUsername {
		t.Errorf("token identity: got %+v", u)
	}
}

func TestHandleSignin_Failures(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	tests := []struct {
		name   string
		body   any
		status int
		msg    string
	}{
		{"wrong password", map[string]string{"username": testutil.SuperAdminUsername, "password": "nope"}, http.StatusUnauthorized, superadmin.MsgInvalidCredentials},
		{"wrong username", map[string]string{"username": "admin", "password": testPassword}, http.StatusUnauthorized, superadmin.MsgInvalidCredentials},
		{"missing password", map[string]string{"username": testutil.SuperAdminUsername}, http.StatusBadRequest, superadmin.MsgCredentialsMissing},
		{"missing username", map[string]string{"password": testPassword}, http.StatusBadRequest, superadmin.MsgCredentialsMissing},
		{"malformed body", "{", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, h, testutil.NewJSONRequest(t, http.MethodPost, "/auth", tt.body), false)
			if rec.Code != tt.status {
				t.Fatalf("status: got %d, want %d", rec.Code, tt.status)
			}
			if tt.msg != "" {
				if msg := testutil.Message(t, rec); msg != tt.msg {
					t.Errorf("message: got %q, want %q", msg, tt.msg)
				}
			}
		})
	}
}

func TestHandleSignin_UnconfiguredRejectsEmpty(t *testing.T) {
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	h := superadmin.NewHandler(db, testutil.NewTokenManager(t), superadmin.Credentials{}, uierrors.NewErrorLogger(logger), logger)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/auth", map[string]string{"username": "x", "password": "y"})
	rec := serve(t, h, req, false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status: got %d, want 401", rec.Code)
	}
}

func TestRoutes_RequireSuperAdmin(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fixtures := testutil.NewFixtures(t, db)
	admin := fixtures.CreateAdmin(ctx, "Grace", "pastor@gmail.com")

	for _, path := range []string{"/admins", "/events"} {
		rec := serve(t, h, testutil.NewRequest(http.MethodGet, path), false)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("%s without token: got %d, want 401", path, rec.Code)
		}

		req := testutil.NewRequest(http.MethodGet, path)
		tok, _ := h.Tokens.MintAdmin(admin.ID)
		req.Header.Set("Authorization", "Bearer "+tok)
		rec = httptest.NewRecorder()
		superadmin.Routes(h, h.Tokens).ServeHTTP(rec, req)
		if rec.Code != http.StatusForbidden {
			t.Errorf("%s with admin token: got %d, want 403", path, rec.Code)
		}
	}
}

func TestServeAdmins(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fixtures := testutil.NewFixtures(t, db)
	fixtures.CreateAdmin(ctx, "Zion Chapel", "zion@gmail.com")
	fixtures.CreateAdmin(ctx, "Grace Church", "grace@gmail.com")

	rec := serve(t, h, testutil.NewRequest(http.MethodGet, "/admins"), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var list []struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	testutil.DecodeJSON(t, rec, &list)
	if len(list) != 2 || list[0].Name != "Grace Church" || list[1].Name != "Zion Chapel" {
		t.Errorf("admins: got %+v", list)
	}
}

func TestServeEvents_AllAndFiltered(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fixtures := testutil.NewFixtures(t, db)
	grace := fixtures.CreateAdmin(ctx, "Grace Church", "grace@gmail.com")
	zion := fixtures.CreateAdmin(ctx, "Zion Chapel", "zion@gmail.com")
	fixtures.CreateEvent(ctx, models.Event{Name: "Grace picnic", AdminID: grace.ID})
	fixtures.CreateEvent(ctx, models.Event{Name: "Zion choir", AdminID: zion.ID})

	type body struct {
		Events []struct {
			Name      string `json:"name"`
			AdminName string `json:"adminName"`
		} `json:"events"`
	}

	rec := serve(t, h, testutil.NewRequest(http.MethodGet, "/events"), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var all body
	testutil.DecodeJSON(t, rec, &all)
	if len(all.Events) != 2 {
		t.Fatalf("events: got %+v", all.Events)
	}

	rec = serve(t, h, testutil.NewRequest(http.MethodGet, "/events?adminId="+zion.ID.Hex()), true)
	var one body
	testutil.DecodeJSON(t, rec, &one)
	if len(one.Events) != 1 || one.Events[0].Name != "Zion choir" || one.Events[0].AdminName != "Zion Chapel" {
		t.Errorf("filtered: got %+v", one.Events)
	}

	rec = serve(t, h, testutil.NewRequest(http.MethodGet, "/events?adminId=nope"), true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad filter: got %d, want 400", rec.Code)
	}
}

func TestHandleUpdateEvent_Reassign(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fixtures := testutil.NewFixtures(t, db)
	grace := fixtures.CreateAdmin(ctx, "Grace Church", "grace@gmail.com")
	zion := fixtures.CreateAdmin(ctx, "Zion Chapel", "zion@gmail.com")
	e := fixtures.CreateEvent(ctx, models.Event{Name: "Picnic", AdminID: grace.ID})

	body := map[string]any{
		"name":      "Joint picnic",
		"date":      "2030-03-01T09:00",
		"location":  "Park",
		"lat":       -33.7688,
		"lng":       150.9051,
		"frequency": "Once Off",
		"adminId":   zion.ID.Hex(),
	}
	rec := serve(t, h, testutil.NewJSONRequest(t, http.MethodPut, "/events/"+e.ID.Hex(), body), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var resp struct {
		Name      string `json:"name"`
		AdminID   string `json:"adminId"`
		AdminName string `json:"adminName"`
	}
	testutil.DecodeJSON(t, rec, &resp)
	if resp.Name != "Joint picnic" || resp.AdminID != zion.ID.Hex() || resp.AdminName != "Zion Chapel" {
		t.Errorf("response: got %+v", resp)
	}

	stored, err := eventstore.New(db).GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.AdminID != zion.ID {
		t.Errorf("owner: got %s, want %s", stored.AdminID.Hex(), zion.ID.Hex())
	}

	body["adminId"] = "64b000000000000000000000"
	rec = serve(t, h, testutil.NewJSONRequest(t, http.MethodPut, "/events/"+e.ID.Hex(), body), true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("unknown owner: got %d, want 400", rec.Code)
	}
	if msg := testutil.Message(t, rec); msg != superadmin.MsgAdminNotFound {
		t.Errorf("message: got %q", msg)
	}

	delete(body, "adminId")
	rec = serve(t, h, testutil.NewJSONRequest(t, http.MethodPut, "/events/64b000000000000000000000", body), true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("missing event: got %d, want 404", rec.Code)
	}
}

func TestHandleDeleteEvent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)

	ctx, cancel := testutil.TestContext()
	defer cancel()
	fixtures := testutil.NewFixtures(t, db)
	admin := fixtures.CreateAdmin(ctx, "Grace Church", "grace@gmail.com")
	e := fixtures.CreateEvent(ctx, models.Event{AdminID: admin.ID})

	rec := serve(t, h, testutil.NewRequest(http.MethodDelete, "/events/"+e.ID.Hex()), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	if msg := testutil.Message(t, rec); msg != superadmin.MsgEventDeleted {
		t.Errorf("message: got %q", msg)
	}

	rec = serve(t, h, testutil.NewRequest(http.MethodDelete, "/events/"+e.ID.Hex()), true)
	if rec.Code != http.StatusNotFound {
		t.Errorf("second delete: got %d, want 404", rec.Code)
	}
	rec = serve(t, h, testutil.NewRequest(http.MethodDelete, "/events/xyz"), true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: got %d, want 400", rec.Code)
	}
}

func TestHandleSignin_Throttled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)
	h.Limiter = ratelimit.NewAuthLimiter(2, 100)
	defer h.Limiter.Close()

	body := map[string]string{"username": testutil.SuperAdminUsername, "password": "nope"}
	for i := 0; i < 2; i++ {
		rec := serve(t, h, testutil.NewJSONRequest(t, http.MethodPost, "/auth", body), false)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("attempt %d: got %d, want 401", i+1, rec.Code)
		}
	}
	rec := serve(t, h, testutil.NewJSONRequest(t, http.MethodPost, "/auth", body), false)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("third attempt: got %d, want 429", rec.Code)
	}
	if msg := testutil.Message(t, rec); msg != ratelimit.MsgTooManyFromClient {
		t.Errorf("message: got %q", msg)
	}
}

func TestServeAudit(t *testing.T) {
	db := testutil.SetupTestDB(t)
	h := newHandler(t, db)
	h.Audit = auditlog.New(auditstore.New(db), zap.NewNop(), auditlog.Config{Auth: auditlog.All, Admin: auditlog.All})

	good := testutil.NewJSONRequest(t, http.MethodPost, "/auth", map[string]string{
		"username": testutil.SuperAdminUsername,
		"password": testPassword,
	})
	if rec := serve(t, h, good, false); rec.Code != http.StatusOK {
		t.Fatalf("signin: got %d", rec.Code)
	}
	bad := testutil.NewJSONRequest(t, http.MethodPost, "/auth", map[string]string{
		"username": testutil.SuperAdminUsername,
		"password": "wrong",
	})
	if rec := serve(t, h, bad, false); rec.Code != http.StatusUnauthorized {
		t.Fatalf("bad signin: got %d", rec.Code)
	}

	type page struct {
		Events     []auditstore.Event `json:"events"`
		Page       int                `json:"page"`
		Total      int64              `json:"total"`
		TotalPages int                `json:"totalPages"`
	}

	rec := serve(t, h, httptest.NewRequest(http.MethodGet, "/audit?category=auth", nil), true)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var all page
	testutil.DecodeJSON(t, rec, &all)
	if all.Total != 2 || len(all.Events) != 2 || all.Page != 1 || all.TotalPages != 1 {
		t.Fatalf("page: got %+v", all)
	}
	if all.Events[0].EventType != auditstore.EventSuperAdminLoginFailed {
		t.Errorf("newest first: got %q", all.Events[0].EventType)
	}

	rec = serve(t, h, httptest.NewRequest(http.MethodGet, "/audit?eventType="+auditstore.EventSuperAdminLoginSuccess, nil), true)
	var one page
	testutil.DecodeJSON(t, rec, &one)
	if one.Total != 1 || !one.Events[0].Success {
		t.Errorf("filtered: got %+v", one)
	}

	rec = serve(t, h, httptest.NewRequest(http.MethodGet, "/audit?adminId=nope", nil), true)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad adminId: got %d, want 400", rec.Code)
	}

	rec = serve(t, h, httptest.NewRequest(http.MethodGet, "/audit", nil), false)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("anonymous: got %d, want 401", rec.Code)
	}
}
