// internal/app/features/events/list.go
package events

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/dalemusser/waffle/pantry/query"
	eventstore "github.com/oneheartblacktown/hub/internal/app/store/events"
	"github.com/oneheartblacktown/hub/internal/app/system/apperr"
	"github.com/oneheartblacktown/hub/internal/app/system/formutil"
	"github.com/oneheartblacktown/hub/internal/app/system/geo"
	"github.com/oneheartblacktown/hub/internal/app/system/paging"
	"github.com/oneheartblacktown/hub/internal/app/system/timeouts"
	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.uber.org/zap"
)

// Query errors.
const (
	MsgBadLat          = "lat must be a number between -90 and 90"
	MsgBadLng          = "lng must be a number between -180 and 180"
	MsgBadRadius       = "radius must be a positive number of kilometres"
	MsgIncompleteQuery = "lat, lng and radius must be given together"
)

// MaxRadiusKm bounds the search radius (half the Earth's circumference).
const MaxRadiusKm = 20015.0

// geoQuery is the parsed ?lat&lng&radius&precise part of GET /events.
type geoQuery struct {
	Center   geo.Point
	RadiusKm float64
	Precise  bool
	HasGeo   bool
}

func parseFloat(r *http.Request, key string) (float64, bool, error) {
	s := strings.TrimSpace(query.Get(r, key))
	if s == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, true, strconv.ErrSyntax
	}
	return v, true, nil
}

func parseGeoQuery(r *http.Request) (geoQuery, error) {
	var q geoQuery

	lat, hasLat, err := parseFloat(r, "lat")
	if err != nil || (hasLat && (lat < -90 || lat > 90)) {
		return q, apperr.E(apperr.Validation, MsgBadLat, err)
	}
	lng, hasLng, err := parseFloat(r, "lng")
	if err != nil || (hasLng && (lng < -180 || lng > 180)) {
		return q, apperr.E(apperr.Validation, MsgBadLng, err)
	}
	radius, hasRadius, err := parseFloat(r, "radius")
	if err != nil || (hasRadius && (radius <= 0 || radius > MaxRadiusKm)) {
		return q, apperr.E(apperr.Validation, MsgBadRadius, err)
	}

	switch {
	case !hasLat && !hasLng && !hasRadius:
		return q, nil
	case hasLat && hasLng && hasRadius:
	default:
		return q, apperr.E(apperr.Validation, MsgIncompleteQuery, nil)
	}

	precise, _ := strconv.ParseBool(query.Get(r, "precise"))
	return geoQuery{
		Center:   geo.Point{Lat: lat, Lng: lng},
		RadiusKm: radius,
		Precise:  precise,
		HasGeo:   true,
	}, nil
}

// eventRow is one entry of the list response. DistanceKm is set when the
// query has a centre.
type eventRow struct {
	models.Event
	DistanceKm *float64 `json:"distanceKm,omitempty"`
}

type listResponse struct {
	Events     []eventRow `json:"events"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	Total      int64      `json:"total"`
	TotalPages int        `json:"totalPages"`
}

// ServeList returns events ordered by date ascending, one page at a time.
//
// With lat, lng and radius the result is restricted to the bounding box of
// the circle, which also admits the box corners lying beyond the radius.
// precise=true additionally drops every event whose great-circle distance
// exceeds the radius.
// GET /events?lat&lng&radius&precise&page&limit
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	q, err := parseGeoQuery(r)
	if err != nil {
		h.ErrLog.Render(w, r, "bad event query", err, MsgFetchFailed)
		return
	}
	pg := paging.Parse(r)

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "list events")
	defer cancel()

	resp, err := h.list(ctx, q, pg)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "list events failed", err, MsgFetchFailed)
		return
	}

	h.Log.Debug("events listed",
		zap.Bool("geo", q.HasGeo),
		zap.Bool("precise", q.Precise),
		zap.Int64("total", resp.Total))
	formutil.JSON(w, http.StatusOK, resp)
}

func (h *Handler) list(ctx context.Context, q geoQuery, pg paging.Page) (listResponse, error) {
	store := eventstore.New(h.DB)

	var box *geo.Box
	if q.HasGeo {
		b := geo.BoundingBox(q.Center, q.RadiusKm)
		box = &b
	}

	var (
		rows  []models.Event
		total int64
		err   error
	)
	if q.HasGeo && q.Precise {
		all, err := store.FindAllInBox(ctx, box)
		if err != nil {
			return listResponse{}, err
		}
		within := make([]models.Event, 0, len(all))
		for _, e := range all {
			if geo.Within(q.Center, geo.Point{Lat: e.Lat, Lng: e.Lng}, q.RadiusKm) {
				within = append(within, e)
			}
		}
		total = int64(len(within))
		rows = paging.Window(within, pg)
	} else {
		if total, err = store.CountInBox(ctx, box); err != nil {
			return listResponse{}, err
		}
		if rows, err = store.FindInBox(ctx, box, pg); err != nil {
			return listResponse{}, err
		}
	}

	out := make([]eventRow, len(rows))
	for i, e := range rows {
		out[i] = eventRow{Event: e}
		if q.HasGeo {
			d := geo.Haversine(q.Center, geo.Point{Lat: e.Lat, Lng: e.Lng})
			d = math.Round(d*100) / 100
			out[i].DistanceKm = &d
		}
	}

	return listResponse{
		Events:     out,
		Page:       pg.Page,
		Limit:      pg.Limit,
		Total:      total,
		TotalPages: paging.TotalPages(total, pg.Limit),
	}, nil
}
