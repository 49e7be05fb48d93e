// internal/app/features/admins/edit.go
package admins

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	uierrors "github.com/oneheartblacktown/hub/internal/app/features/errors"
	adminstore "github.com/oneheartblacktown/hub/internal/app/store/admins"
	"github.com/oneheartblacktown/hub/internal/app/system/apperr"
	"github.com/oneheartblacktown/hub/internal/app/system/authz"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/inputval"
	"github.com/oneheartblacktown/hub/internal/app/system/normalize"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// profileForm is the body of PUT /admins/{id}. Absent fields keep their
// stored value.
type profileForm struct {
	Name           formutil.Text  `json:"name"`
	Email          formutil.Text  `json:"email"`
	Description    formutil.Text  `json:"description"`
	Address        formutil.Text  `json:"address"`
	ContactDetails formutil.Text  `json:"contactDetails"`
	Logo           formutil.Text  `json:"logo"`
	Lat            formutil.Float `json:"lat"`
	Lng            formutil.Float `json:"lng"`
}

type profileInput struct {
	Name           string  `validate:"required,max=200" label:"Name"`
	Email          string  `validate:"required,max=254,email" label:"Email"`
	Description    string  `validate:"max=5000" label:"Description"`
	Address        string  `validate:"max=500" label:"Address"`
	ContactDetails string  `validate:"max=500" label:"Contact details"`
	Logo           string  `validate:"omitempty,max=2048,httpurl" label:"Logo"`
	Lat            float64 `validate:"latitude" label:"Latitude"`
	Lng            float64 `validate:"longitude" label:"Longitude"`
}

// apply overlays the fields present in f onto cur.
func (f profileForm) apply(cur models.Admin) profileInput {
	in := profileInput{
		Name:           cur.Name,
		Email:          cur.Email,
		Description:    cur.Description,
		Address:        cur.Address,
		ContactDetails: cur.ContactDetails,
		Lat:            cur.Lat,
		Lng:            cur.Lng,
	}
	if cur.Logo != nil {
		in.Logo = *cur.Logo
	}
	if f.Name.Set {
		in.Name = normalize.Name(f.Name.Value)
	}
	if f.Email.Set {
		in.Email = normalize.Email(f.Email.Value)
	}
	if f.Description.Set {
		in.Description = normalize.Text(f.Description.Value)
	}
	if f.Address.Set {
		in.Address = normalize.Text(f.Address.Value)
	}
	if f.ContactDetails.Set {
		in.ContactDetails = normalize.Text(f.ContactDetails.Value)
	}
	if f.Logo.Set {
		in.Logo = normalize.Text(f.Logo.Value)
	}
	if f.Lat.Set {
		in.Lat = f.Lat.Value
	}
	if f.Lng.Set {
		in.Lng = f.Lng.Value
	}
	return in
}

// HandleEdit updates an admin profile.
// Authorization: RequireAdmin in routes.go; the caller must be the admin or the superadmin.
// PUT /admins/{id}
func (h *Handler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		h.ErrLog.LogBadRequest(w, r, "bad admin id", err, MsgInvalidID)
		return
	}
	if !authz.CanActForAdmin(r, id) {
		h.Log.Warn("admin profile edit denied", zap.String("admin_id", id.Hex()))
		uierrors.RenderForbidden(w, r, MsgNotPermitted)
		return
	}

	var f profileForm
	if err := formutil.DecodeJSON(w, r, &f); err != nil {
		h.ErrLog.LogBadRequest(w, r, "decode profile body failed", err, formutil.MsgInvalidBody)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "update admin")
	defer cancel()

	updated, err := h.updateProfile(ctx, id, f)
	if err != nil {
		h.ErrLog.Render(w, r, "update admin failed", err, MsgUpdateFailed)
		return
	}

	h.Audit.ProfileUpdated(ctx, r, id, updated.Email)
	h.Log.Info("admin profile updated", zap.String("admin_id", id.Hex()))
	formutil.JSON(w, http.StatusOK, updated)
}

// updateProfile validates f against the stored admin and persists it.
// An email held by a different admin is an apperr Conflict and nothing is
// written; keeping one's own email is fine.
func (h *Handler) updateProfile(ctx context.Context, id primitive.ObjectID, f profileForm) (models.Admin, error) {
	store := adminstore.New(h.DB)

	cur, err := store.GetByID(ctx, id)
	if err == mongo.ErrNoDocuments {
		return models.Admin{}, notFound(err)
	}
	if err != nil {
		return models.Admin{}, err
	}

	in := f.apply(cur)
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Admin{}, apperr.E(apperr.Validation, res.First(), nil)
	}

	taken, err := store.EmailExistsForOther(ctx, in.Email, id)
	if err != nil {
		return models.Admin{}, err
	}
	if taken {
		return models.Admin{}, apperr.E(apperr.Conflict, MsgEmailInUse, adminstore.ErrDuplicateEmail)
	}

	updated, err := store.Update(ctx, id, models.Admin{
		Name:           in.Name,
		Email:          in.Email,
		Description:    in.Description,
		Address:        in.Address,
		ContactDetails: in.ContactDetails,
		Logo:           normalize.OptionalText(in.Logo),
		Lat:            in.Lat,
		Lng:            in.Lng,
	})
	switch {
	case err == adminstore.ErrDuplicateEmail:
		return models.Admin{}, apperr.E(apperr.Conflict, MsgEmailInUse, err)
	case err == mongo.ErrNoDocuments:
		return models.Admin{}, notFound(err)
	case err != nil:
		return models.Admin{}, err
	}
	return updated, nil
}

func notFound(cause error) error {
	return apperr.E(apperr.NotFound, MsgNotFound, cause)
}
