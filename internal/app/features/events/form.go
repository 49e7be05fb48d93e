// internal/app/features/events/form.go
package events

import (
	"strings"
	"time"

	"github.com/oneheartblacktown/hub/internal/app/system/apperr"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/htmlsanitize"
	"github.com/oneheartblacktown/hub/internal/app/system/inputval"
	"github.com/oneheartblacktown/hub/internal/app/system/normalize"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Validation messages not produced by inputval.
const (
	MsgBadDate             = "Date must be a valid date (YYYY-MM-DD or RFC 3339)."
	MsgLatRequired         = "Latitude is required."
	MsgLngRequired         = "Longitude is required."
	MsgOpportunityRequired = "Opportunity details are required when the event has an opportunity."
	MsgBadAdminID          = "adminId is not a valid id."
)

// dateLayouts are tried in order. Layouts without a zone are read in the
// server's local time, which is what the admin editor sends.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
	"2006-01-02",
}

// ParseDate accepts the date shapes sent by browsers and API clients.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// EventForm is the body of event create and update requests. AdminID is
// honoured only for the superadmin; admins always write their own events.
type EventForm struct {
	Name             formutil.Text  `json:"name"`
	Description      formutil.Text  `json:"description"`
	Date             formutil.Text  `json:"date"`
	Location         formutil.Text  `json:"location"`
	Lat              formutil.Float `json:"lat"`
	Lng              formutil.Float `json:"lng"`
	Frequency        formutil.Text  `json:"frequency"`
	Photo            formutil.Text  `json:"photo"`
	RegistrationLink formutil.Text  `json:"registrationLink"`
	HasOpportunity   formutil.Bool  `json:"hasOpportunity"`
	Opportunity      formutil.Text  `json:"opportunity"`
	AdminID          formutil.Text  `json:"adminId"`
}

type eventInput struct {
	Name             string  `validate:"required,max=200" label:"Name"`
	Description      string  `validate:"max=20000" label:"Description"`
	Date             string  `validate:"required" label:"Date"`
	Location         string  `validate:"required,max=500" label:"Location"`
	Lat              float64 `validate:"latitude" label:"Latitude"`
	Lng              float64 `validate:"longitude" label:"Longitude"`
	Frequency        string  `validate:"required,frequency" label:"Frequency"`
	Photo            string  `validate:"omitempty,max=2048,httpurl" label:"Photo"`
	RegistrationLink string  `validate:"omitempty,max=2048,httpurl" label:"Registration link"`
	Opportunity      string  `validate:"max=20000" label:"Opportunity"`
}

func invalid(msg string) error {
	return apperr.E(apperr.Validation, msg, nil)
}

// Event validates f and builds the event it describes. Rich text is
// sanitized; an opportunity flag without visible opportunity text is
// rejected, and a cleared flag drops the text.
func (f EventForm) Event() (models.Event, error) {
	in := eventInput{
		Name:             normalize.Name(f.Name.Value),
		Description:      htmlsanitize.Sanitize(f.Description.Value),
		Date:             normalize.Text(f.Date.Value),
		Location:         normalize.Text(f.Location.Value),
		Lat:              f.Lat.Value,
		Lng:              f.Lng.Value,
		Frequency:        normalize.Text(f.Frequency.Value),
		Photo:            normalize.Text(f.Photo.Value),
		RegistrationLink: normalize.Text(f.RegistrationLink.Value),
		Opportunity:      htmlsanitize.Sanitize(f.Opportunity.Value),
	}
	if res := inputval.Validate(in); res.HasErrors() {
		return models.Event{}, invalid(res.First())
	}
	if !f.Lat.Set {
		return models.Event{}, invalid(MsgLatRequired)
	}
	if !f.Lng.Set {
		return models.Event{}, invalid(MsgLngRequired)
	}
	date, ok := ParseDate(in.Date)
	if !ok {
		return models.Event{}, invalid(MsgBadDate)
	}

	e := models.Event{
		Name:             in.Name,
		Description:      in.Description,
		Date:             date,
		Location:         in.Location,
		Lat:              in.Lat,
		Lng:              in.Lng,
		Frequency:        models.Frequency(in.Frequency),
		Photo:            normalize.OptionalText(in.Photo),
		RegistrationLink: normalize.OptionalText(in.RegistrationLink),
		HasOpportunity:   f.HasOpportunity.Value,
	}
	if e.HasOpportunity {
		if htmlsanitize.IsBlank(in.Opportunity) {
			return models.Event{}, invalid(MsgOpportunityRequired)
		}
		e.Opportunity = &in.Opportunity
	}
	return e, nil
}

// OwnerID parses the adminId field. ok is false when it is absent.
func (f EventForm) OwnerID() (id primitive.ObjectID, ok bool, err error) {
	s := strings.TrimSpace(f.AdminID.Value)
	if s == "" {
		return primitive.NilObjectID, false, nil
	}
	id, err = primitive.ObjectIDFromHex(s)
	if err != nil {
		return primitive.NilObjectID, false, invalid(MsgBadAdminID)
	}
	return id, true, nil
}
