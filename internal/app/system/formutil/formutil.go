// Package formutil binds JSON request bodies to typed DTOs and writes JSON
// responses.
//
// Clients (browser forms, the map widget, older admin pages) are loose about
// shapes: numbers arrive as strings, single values arrive as one-element
// arrays, checkboxes arrive as "on". The Float, Text and Bool field types
// accept all of those and resolve them once, at decode time, so handlers
// only ever see plain Go values.
//
//	type signupRequest struct {
//	    Name formutil.Text  `json:"name"`
//	    Lat  formutil.Float `json:"lat"`
//	}
package formutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/oneheartblacktown/hub/internal/app/system/apperr"
)

// MaxBodyBytes caps request bodies accepted by DecodeJSON.
const MaxBodyBytes = 1 << 20

// MsgInvalidBody is returned for unreadable or malformed request bodies.
const MsgInvalidBody = "Invalid request body"

// DecodeJSON reads r's body into dst. Unknown fields are ignored.
// Any failure is an apperr Validation error.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	if r.Body == nil {
		return apperr.E(apperr.Validation, MsgInvalidBody, errors.New("empty body"))
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperr.E(apperr.Validation, MsgInvalidBody, errors.New("empty body"))
		}
		return apperr.E(apperr.Validation, MsgInvalidBody, err)
	}
	return nil
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Flexible field types                                                       |
*─────────────────────────────────────────────────────────────────────────────*/

// unwrap reduces a one-element JSON array to its element. Longer arrays
// are an error; empty arrays and null report absent.
func unwrap(b []byte) ([]byte, bool, error) {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil, false, nil
	}
	if b[0] != '[' {
		return b, true, nil
	}
	var arr []json.RawMessage
	if err := json.Unmarshal(b, &arr); err != nil {
		return nil, false, err
	}
	switch len(arr) {
	case 0:
		return nil, false, nil
	case 1:
		return unwrap(arr[0])
	default:
		return nil, false, fmt.Errorf("expected a single value, got %d", len(arr))
	}
}

// Text is a string field that also accepts numbers, booleans, and
// one-element arrays.
type Text struct {
	Value string
	Set   bool
}

func (t *Text) UnmarshalJSON(b []byte) error {
	raw, ok, err := unwrap(b)
	if err != nil || !ok {
		*t = Text{}
		return err
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		*t = Text{Value: s, Set: true}
		return nil
	}
	if raw[0] == '{' {
		return errors.New("expected text, got object")
	}
	*t = Text{Value: string(raw), Set: true}
	return nil
}

func (t Text) MarshalJSON() ([]byte, error) { return json.Marshal(t.Value) }

// String returns the value.
func (t Text) String() string { return t.Value }

// Float is a number field that also accepts numeric strings and
// one-element arrays. An empty string counts as absent.
type Float struct {
	Value float64
	Set   bool
}

func (f *Float) UnmarshalJSON(b []byte) error {
	raw, ok, err := unwrap(b)
	if err != nil || !ok {
		*f = Float{}
		return err
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = Float{}
			return nil
		}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("expected a number, got %q", s)
	}
	*f = Float{Value: v, Set: true}
	return nil
}

func (f Float) MarshalJSON() ([]byte, error) { return json.Marshal(f.Value) }

// Bool is a flag field that also accepts "true"/"false", "on"/"off",
// "1"/"0", "yes"/"no" and one-element arrays.
type Bool struct {
	Value bool
	Set   bool
}

func (bo *Bool) UnmarshalJSON(b []byte) error {
	raw, ok, err := unwrap(b)
	if err != nil || !ok {
		*bo = Bool{}
		return err
	}
	s := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &s); err != nil {
			return err
		}
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "on", "1", "yes":
		*bo = Bool{Value: true, Set: true}
	case "false", "off", "0", "no":
		*bo = Bool{Value: false, Set: true}
	case "":
		*bo = Bool{}
	default:
		return fmt.Errorf("expected a boolean, got %q", s)
	}
	return nil
}

func (bo Bool) MarshalJSON() ([]byte, error) { return json.Marshal(bo.Value) }
