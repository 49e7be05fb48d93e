package inputval

import (
	"testing"
)

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"pastor@gmail.com", true},
		{"user.name@example.com", true},
		{"user+tag@example.com", true},
		{"user@localhost", true},

		{"", false},
		{"   ", false},
		{"user", false},
		{"user@", false},
		{"@example.com", false},
		{".user@example.com", false},
		{"user.@example.com", false},
		{"user..name@example.com", false},
		{"user@.example.com", false},
		{"User Name <user@example.com>", false},
		{"user @example.com", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			if got := IsValidEmail(tt.email); got != tt.want {
				t.Errorf("IsValidEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestIsAllowedEmailDomain(t *testing.T) {
	t.Cleanup(func() { SetAllowedEmailDomains(nil) })

	tests := []struct {
		email string
		want  bool
	}{
		{"pastor@gmail.com", true},
		{"pastor@GMAIL.com", true},
		{"someone@protonmail.com", true},
		{"someone@mail.com", true},
		{"someone@church.org", false},
		{"someone@gmail.com.evil.io", false},
		{"no-at-sign", false},
		{"trailing@", false},
	}
	for _, tt := range tests {
		if got := IsAllowedEmailDomain(tt.email); got != tt.want {
			t.Errorf("IsAllowedEmailDomain(%q) = %v, want %v", tt.email, got, tt.want)
		}
	}

	SetAllowedEmailDomains([]string{" Church.ORG "})
	if !IsAllowedEmailDomain("someone@church.org") {
		t.Error("configured domain rejected")
	}
	if IsAllowedEmailDomain("pastor@gmail.com") {
		t.Error("default domain still allowed after override")
	}

	SetAllowedEmailDomains(nil)
	if len(AllowedEmailDomains()) != len(DefaultEmailDomains) {
		t.Errorf("reset: got %d domains, want %d", len(AllowedEmailDomains()), len(DefaultEmailDomains))
	}
}

func TestIsValidFrequency(t *testing.T) {
	for _, f := range []string{"Once Off", "Weekly", "Monthly"} {
		if !IsValidFrequency(f) {
			t.Errorf("IsValidFrequency(%q) = false, want true", f)
		}
	}
	for _, f := range []string{"", "weekly", "Daily", "Once off"} {
		if IsValidFrequency(f) {
			t.Errorf("IsValidFrequency(%q) = true, want false", f)
		}
	}
}

func TestIsValidHTTPURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://example.com/register", true},
		{"  http://localhost:8080  ", true},
		{"", false},
		{"ftp://example.com", false},
		{"example.com", false},
		{"javascript:alert(1)", false},
	}
	for _, tt := range tests {
		if got := IsValidHTTPURL(tt.url); got != tt.want {
			t.Errorf("IsValidHTTPURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	type signup struct {
		Name     string  `validate:"required,max=10" label:"Name"`
		Email    string  `validate:"required,email,email_domain" label:"Email"`
		Password string  `validate:"required" label:"Password"`
		Lat      float64 `validate:"latitude" label:"Latitude"`
	}

	tests := []struct {
		name       string
		input      signup
		wantErrors bool
		wantFirst  string
	}{
		{
			name:  "valid input",
			input: signup{Name: "Grace", Email: "pastor@gmail.com", Password: "secret123", Lat: -33.77},
		},
		{
			name:       "missing name",
			input:      signup{Email: "pastor@gmail.com", Password: "x"},
			wantErrors: true,
			wantFirst:  "Name is required.",
		},
		{
			name:       "name too long",
			input:      signup{Name: "Grace Community Church", Email: "pastor@gmail.com", Password: "x"},
			wantErrors: true,
			wantFirst:  "Name must be at most 10 characters.",
		},
		{
			name:       "invalid email",
			input:      signup{Name: "Grace", Email: "not-an-email", Password: "x"},
			wantErrors: true,
			wantFirst:  "A valid email address is required.",
		},
		{
			name:       "disallowed domain",
			input:      signup{Name: "Grace", Email: "pastor@church.org", Password: "x"},
			wantErrors: true,
			wantFirst:  MsgEmailDomain,
		},
		{
			name:       "bad latitude",
			input:      signup{Name: "Grace", Email: "pastor@gmail.com", Password: "x", Lat: 120},
			wantErrors: true,
			wantFirst:  "Latitude must be between -90 and 90.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Validate(tt.input)
			if result.HasErrors() != tt.wantErrors {
				t.Errorf("HasErrors = %v, want %v (%s)", result.HasErrors(), tt.wantErrors, result.All())
			}
			if tt.wantErrors && result.First() != tt.wantFirst {
				t.Errorf("First() = %q, want %q", result.First(), tt.wantFirst)
			}
		})
	}
}

func TestValidate_FieldsUseLabels(t *testing.T) {
	type in struct {
		Name  string `validate:"required" label:"Organisation name"`
		Email string `validate:"required"`
	}
	r := Validate(in{})
	fields := r.Fields()
	if len(fields) != 2 || fields[0] != "Organisation name" || fields[1] != "Email" {
		t.Errorf("Fields() = %v", fields)
	}
	if r.All() != "Organisation name is required.; Email is required." {
		t.Errorf("All() = %q", r.All())
	}
}

func TestResult_Empty(t *testing.T) {
	r := &Result{}
	if r.HasErrors() || r.First() != "" || r.All() != "" {
		t.Errorf("empty result: %+v", r)
	}
}
