package inputval

import (
	"net/mail"
	"net/url"
	"strings"

	"github.com/oneheartblacktown/hub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// IsValidEmail reports whether s is a bare addr-spec (no display name)
// with no leading, trailing, or doubled dots.
func IsValidEmail(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t<>") {
		return false
	}
	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Address != s || addr.Name != "" {
		return false
	}
	local, domain, ok := strings.Cut(s, "@")
	if !ok || local == "" || domain == "" {
		return false
	}
	for _, part := range []string{local, domain} {
		if strings.HasPrefix(part, ".") || strings.HasSuffix(part, ".") || strings.Contains(part, "..") {
			return false
		}
	}
	return true
}

// EmailDomain returns the lowercased part after the last "@", or "".
func EmailDomain(email string) string {
	i := strings.LastIndex(email, "@")
	if i < 0 || i == len(email)-1 {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(email[i+1:]))
}

// IsAllowedEmailDomain reports whether email's domain is on the signup allow-list.
func IsAllowedEmailDomain(email string) bool {
	d := EmailDomain(email)
	if d == "" {
		return false
	}
	domainsMu.RLock()
	defer domainsMu.RUnlock()
	_, ok := domains[d]
	return ok
}

// IsValidFrequency reports whether s names an event frequency (exact match).
func IsValidFrequency(s string) bool {
	return models.IsValidFrequency(s)
}

// IsValidObjectID reports whether s (trimmed) is a 24-hex-digit ObjectID.
func IsValidObjectID(s string) bool {
	return primitive.IsValidObjectID(strings.TrimSpace(s))
}

// IsValidHTTPURL reports whether s (trimmed) is an absolute http or https URL.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
