// internal/app/features/adminauth/login.go
package adminauth

import (
	"context"
	"net/http"

	"github.com/oneheartblacktown/hub/internal/app/features/adminrequests"
	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	adminstore "github.com/oneheartblacktown/hub/internal/app/store/admins"
	"github.com/oneheartblacktown/hub/internal/app/system/authutil"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/normalize"
	"github.com/oneheartblacktown/hub/internal/app/system/ratelimit"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// authForm is the body of POST /admin-auth. With isLogin set only email
// and password are read; otherwise the whole signup payload is.
type authForm struct {
	adminrequests.SignupForm
	IsLogin formutil.Bool `json:"isLogin"`
}

type loginResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
	AdminID string `json:"adminId"`
}

// HandleAuth dispatches on isLogin.
// POST /admin-auth
func (h *Handler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	var f authForm
	if err := formutil.DecodeJSON(w, r, &f); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode admin-auth body failed", err, formutil.MsgInvalidBody)
		return
	}
	if f.IsLogin.Value {
		h.login(w, r, f.Email.Value, f.Password.Value)
		return
	}
	h.signup(w, r, f.SignupForm)
}

// HandleLogin accepts only credentials.
// POST /admin-auth/login
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var f authForm
	if err := formutil.DecodeJSON(w, r, &f); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode login body failed", err, formutil.MsgInvalidBody)
		return
	}
	h.login(w, r, f.Email.Value, f.Password.Value)
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request, email, password string) {
	email = normalize.Email(email)
	if email == "" || password == "" {
		h.ErrLog.LogBadRequest(w, r, "login without credentials", nil, MsgCredentialsMissing)
		return
	}
	if ok, msg := h.Limiter.Check(r, ratelimit.AdminRealm, email); !ok {
		h.Log.Warn("admin login throttled", zap.String("email", email))
		h.Audit.LoginThrottled(r.Context(), r, email)
		ratelimit.TooMany(w, msg)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "admin login")
	defer cancel()

	admin, ok := h.authenticate(ctx, email, password)
	if !ok {
		h.Log.Info("admin login failed", zap.String("email", email))
		h.Audit.LoginFailed(ctx, r, email, "invalid_credentials")
		uierrors.RenderUnauthorized(w, r, MsgInvalidCredentials)
		return
	}

	token, err := h.Tokens.MintAdmin(admin.ID)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "mint admin token failed", err, MsgLoginFailed)
		return
	}

	h.Limiter.Succeeded(ratelimit.AdminRealm, email)
	h.Audit.LoginSuccess(ctx, r, admin.ID, email)
	h.Log.Info("admin logged in", zap.String("admin_id", admin.ID.Hex()))
	formutil.JSON(w, http.StatusOK, loginResponse{
		Message: MsgLoginSuccessful,
		Token:   token,
		AdminID: admin.ID.Hex(),
	})
}

// authenticate reports whether password matches the admin stored under
// email. Every failure, including a lookup error, is a plain false.
func (h *Handler) authenticate(ctx context.Context, email, password string) (models.Admin, bool) {
	admin, err := adminstore.New(h.DB).GetByEmail(ctx, email)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			h.Log.Error("admin lookup failed during login", zap.Error(err))
		}
		authutil.CheckPassword(h.dummy(), password)
		return models.Admin{}, false
	}
	if !authutil.CheckPassword(admin.PasswordHash, password) {
		return models.Admin{}, false
	}
	return admin, true
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request, f adminrequests.SignupForm) {
	if !h.SignupLimiter.AllowClient(r) {
		h.Log.Warn("admin-auth signup rate limited", zap.String("ip", ratelimit.ClientIP(r)))
		ratelimit.TooMany(w, ratelimit.MsgTooManySubmissions)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "admin signup")
	defer cancel()

	req, err := adminrequests.Submit(ctx, h.DB, f, h.BcryptCost)
	if err != nil {
		h.ErrLog.Render(w, r, "admin signup failed", err, adminrequests.MsgSubmitFailed)
		return
	}

	h.Audit.RequestSubmitted(ctx, r, req.ID, req.Email)
	h.Log.Info("admin request submitted via admin-auth", zap.String("request_id", req.ID.Hex()))
	formutil.JSON(w, http.StatusCreated, adminrequests.SubmitResponse(req))
}
