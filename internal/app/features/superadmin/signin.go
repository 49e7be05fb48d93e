// internal/app/features/superadmin/signin.go
package superadmin

import (
	"net/http"
	"strings"

	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	"github.com/oneheartblacktown/hub/internal/app/system/authutil"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/ratelimit"
	"go.uber.org/zap"
)

type signinForm struct {
	Username formutil.Text `json:"username"`
	Password formutil.Text `json:"password"`
}

type signinResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// HandleSignin exchanges the configured credentials for a superadmin token.
// POST /superadmin/auth
func (h *Handler) HandleSignin(w http.ResponseWriter, r *http.Request) {
	var f signinForm
	if err := formutil.DecodeJSON(w, r, &f); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode superadmin auth body failed", err, formutil.MsgInvalidBody)
		return
	}
	username := strings.TrimSpace(f.Username.Value)
	password := f.Password.Value
	if username == "" || password == "" {
		uierrors.RenderBadRequest(w, r, MsgCredentialsMissing)
		return
	}
	if ok, msg := h.Limiter.Check(r, ratelimit.SuperAdminRealm, username); !ok {
		h.Log.Warn("superadmin sign-in throttled", zap.String("username", username))
		h.Audit.LoginThrottled(r.Context(), r, username)
		ratelimit.TooMany(w, msg)
		return
	}

	// Evaluate both comparisons so a wrong username costs the same as a
	// wrong password.
	userOK := authutil.ConstantTimeEqual(username, h.Creds.Username)
	passOK := authutil.ConstantTimeEqual(password, h.Creds.Password)
	if !userOK || !passOK || h.Creds.Username == "" || h.Creds.Password == "" {
		h.Log.Warn("superadmin sign-in failed", zap.String("username", username))
		h.Audit.SuperAdminLogin(r.Context(), r, username, false)
		uierrors.RenderUnauthorized(w, r, MsgInvalidCredentials)
		return
	}

	token, err := h.Tokens.MintSuperAdmin(username)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "mint superadmin token failed", err, MsgAuthFailed)
		return
	}

	h.Limiter.Succeeded(ratelimit.SuperAdminRealm, username)
	h.Audit.SuperAdminLogin(r.Context(), r, username, true)
	h.Log.Info("superadmin signed in", zap.String("username", username))
	formutil.JSON(w, http.StatusOK, signinResponse{Message: MsgAuthenticated, Token: token})
}
