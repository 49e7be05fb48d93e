// Package inputval wraps go-playground/validator with the project's custom
// rules and turns validation failures into short, user-facing messages.
//
// Struct fields declare rules with `validate:"..."` and a display name with
// `label:"..."`:
//
//	type signupInput struct {
//	    Email string `validate:"required,email,email_domain" label:"Email"`
//	}
package inputval

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// DefaultEmailDomains is the signup allow-list used when none is configured.
var DefaultEmailDomains = []string{
	"gmail.com", "yahoo.com", "outlook.com", "hotmail.com",
	"aol.com", "icloud.com", "protonmail.com", "mail.com",
}

// MsgEmailDomain is shown when an email's domain is not on the allow-list.
const MsgEmailDomain = "Please use a valid email domain."

var (
	once     sync.Once
	validate *validator.Validate

	domainsMu sync.RWMutex
	domains   = toSet(DefaultEmailDomains)
)

func v() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			if l := f.Tag.Get("label"); l != "" {
				return l
			}
			return f.Name
		})
		_ = validate.RegisterValidation("email_domain", func(fl validator.FieldLevel) bool {
			return IsAllowedEmailDomain(fl.Field().String())
		})
		_ = validate.RegisterValidation("frequency", func(fl validator.FieldLevel) bool {
			return IsValidFrequency(fl.Field().String())
		})
		_ = validate.RegisterValidation("objectid", func(fl validator.FieldLevel) bool {
			return IsValidObjectID(fl.Field().String())
		})
		_ = validate.RegisterValidation("httpurl", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || IsValidHTTPURL(s)
		})
	})
	return validate
}

// SetAllowedEmailDomains replaces the signup allow-list. Entries are
// lowercased; an empty list restores DefaultEmailDomains.
func SetAllowedEmailDomains(list []string) {
	if len(list) == 0 {
		list = DefaultEmailDomains
	}
	domainsMu.Lock()
	defer domainsMu.Unlock()
	domains = toSet(list)
}

// AllowedEmailDomains returns the active allow-list in no particular order.
func AllowedEmailDomains() []string {
	domainsMu.RLock()
	defer domainsMu.RUnlock()
	out := make([]string, 0, len(domains))
	for d := range domains {
		out = append(out, d)
	}
	return out
}

func toSet(list []string) map[string]struct{} {
	m := make(map[string]struct{}, len(list))
	for _, d := range list {
		d = strings.ToLower(strings.TrimSpace(d))
		if d != "" {
			m[d] = struct{}{}
		}
	}
	return m
}

// FieldError is one failed rule on one field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Result holds the outcome of Validate.
type Result struct {
	Errors []FieldError
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool { return len(r.Errors) > 0 }

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) == 0 {
		return ""
	}
	return r.Errors[0].Message
}

// All joins every message with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// Fields returns the failing field labels in order.
func (r *Result) Fields() []string {
	out := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		out[i] = e.Field
	}
	return out
}

// Validate checks s against its validate tags.
func Validate(s any) *Result {
	res := &Result{}
	err := v().Struct(s)
	if err == nil {
		return res
	}
	var ves validator.ValidationErrors
	if !errors.As(err, &ves) {
		res.Errors = append(res.Errors, FieldError{Message: "Invalid input."})
		return res
	}
	for _, fe := range ves {
		res.Errors = append(res.Errors, FieldError{Field: fe.Field(), Message: message(fe)})
	}
	return res
}

func message(fe validator.FieldError) string {
	label := fe.Field()
	switch fe.Tag() {
	case "required", "required_if":
		return label + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", label, fe.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s characters.", label, fe.Param())
	case "email":
		return "A valid email address is required."
	case "email_domain":
		return MsgEmailDomain
	case "latitude":
		return label + " must be between -90 and 90."
	case "longitude":
		return label + " must be between -180 and 180."
	case "frequency":
		return label + " must be one of Once Off, Weekly, Monthly."
	case "objectid":
		return label + " is not a valid id."
	case "httpurl":
		return label + " must be an http(s) URL."
	case "gt", "gte":
		return fmt.Sprintf("%s must be greater than %s.", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s.", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s.", label, fe.Param())
	default:
		return label + " is invalid."
	}
}
