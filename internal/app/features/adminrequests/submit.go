// internal/app/features/adminrequests/submit.go
package adminrequests

import (
	"context"
	"net/http"

	adminrequeststore "github.com/oneheartblacktown/hub/internal/app/store/adminrequests"
	adminstore "github.com/oneheartblacktown/hub/internal/app/store/admins"
	"github.com/oneheartblacktown/hub/internal/app/system/apperr"
	"github.com/oneheartblacktown/hub/internal/app/system/authutil"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/inputval"
	"github.com/oneheartblacktown/hub/internal/app/system/normalize"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// SignupForm is the signup payload accepted by POST /admin-requests and by
// the signup branch of POST /admin-auth.
type SignupForm struct {
	Name           formutil.Text  `json:"name"`
	Email          formutil.Text  `json:"email"`
	Password       formutil.Text  `json:"password"`
	Description    formutil.Text  `json:"description"`
	Address        formutil.Text  `json:"address"`
	ContactDetails formutil.Text  `json:"contactDetails"`
	Logo           formutil.Text  `json:"logo"`
	Lat            formutil.Float `json:"lat"`
	Lng            formutil.Float `json:"lng"`
}

type signupInput struct {
	Name           string  `validate:"required,max=200" label:"Name"`
	Email          string  `validate:"required,max=254,email,email_domain" label:"Email"`
	Password       string  `validate:"required,max=72" label:"Password"`
	Description    string  `validate:"max=5000" label:"Description"`
	Address        string  `validate:"max=500" label:"Address"`
	ContactDetails string  `validate:"max=500" label:"Contact details"`
	Logo           string  `validate:"omitempty,max=2048,httpurl" label:"Logo"`
	Lat            float64 `validate:"latitude" label:"Latitude"`
	Lng            float64 `validate:"longitude" label:"Longitude"`
}

// Submit validates f and stores it as a PENDING request. The password is
// hashed here and never stored in the clear. Errors are apperr-classified.
func Submit(ctx context.Context, db *mongo.Database, f SignupForm, bcryptCost int) (models.AdminRequest, error) {
	in := signupInput{
		Name:           normalize.Name(f.Name.Value),
		Email:          normalize.Email(f.Email.Value),
		Password:       f.Password.Value,
		Description:    normalize.Text(f.Description.Value),
		Address:        normalize.Text(f.Address.Value),
		ContactDetails: normalize.Text(f.ContactDetails.Value),
		Logo:           normalize.Text(f.Logo.Value),
		Lat:            f.Lat.Value,
		Lng:            f.Lng.Value,
	}
	if in.Name == "" || in.Email == "" || in.Password == "" {
		return models.AdminRequest{}, apperr.E(apperr.Validation, MsgMissingFields, nil)
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return models.AdminRequest{}, apperr.E(apperr.Validation, res.First(), nil)
	}

	taken, err := adminstore.New(db).EmailExists(ctx, in.Email)
	if err != nil {
		return models.AdminRequest{}, err
	}
	if taken {
		return models.AdminRequest{}, apperr.E(apperr.Conflict, MsgEmailInUse, adminstore.ErrDuplicateEmail)
	}

	hash, err := authutil.HashPassword(in.Password, bcryptCost)
	if err != nil {
		return models.AdminRequest{}, err
	}

	return adminrequeststore.New(db).Create(ctx, models.AdminRequest{
		Name:           in.Name,
		Email:          in.Email,
		PasswordHash:   hash,
		Description:    in.Description,
		Address:        in.Address,
		ContactDetails: in.ContactDetails,
		Logo:           normalize.OptionalText(in.Logo),
		Lat:            in.Lat,
		Lng:            in.Lng,
	})
}

type submitResponse struct {
	Message   string `json:"message"`
	ID        string `json:"id"`
	RequestID string `json:"requestId"`
}

// SubmitResponse is the 201 body for a stored request.
func SubmitResponse(req models.AdminRequest) any {
	return submitResponse{Message: MsgSubmitted, ID: req.ID.Hex(), RequestID: req.ID.Hex()}
}

// HandleSubmit stores a signup request.
// POST /admin-requests
func (h *Handler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	var f SignupForm
	if err := formutil.DecodeJSON(w, r, &f); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode signup body failed", err, formutil.MsgInvalidBody)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "submit admin request")
	defer cancel()

	req, err := Submit(ctx, h.DB, f, h.BcryptCost)
	if err != nil {
		h.ErrLog.Render(w, r, "submit admin request failed", err, MsgSubmitFailed)
		return
	}

	h.Audit.RequestSubmitted(ctx, r, req.ID, req.Email)
	h.Log.Info("admin request submitted",
		zap.String("request_id", req.ID.Hex()),
		zap.String("email", req.Email))
	formutil.JSON(w, http.StatusCreated, SubmitResponse(req))
}
