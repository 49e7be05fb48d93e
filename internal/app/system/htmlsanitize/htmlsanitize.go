// Package htmlsanitize cleans rich text submitted from the admin editor
// (event descriptions and opportunity text) before it is stored.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	once   sync.Once
	ugc    *bluemonday.Policy
	strict *bluemonday.Policy
)

func policies() (*bluemonday.Policy, *bluemonday.Policy) {
	once.Do(func() {
		ugc = bluemonday.UGCPolicy()
		ugc.AllowAttrs("class").OnElements("table", "th", "td", "span", "p")
		ugc.RequireNoFollowOnLinks(true)
		ugc.AddTargetBlankToFullyQualifiedLinks(true)
		strict = bluemonday.StrictPolicy()
	})
	return ugc, strict
}

// Sanitize strips scripts, event handlers, unsafe URLs, and any element
// outside the user-generated-content allow-list.
func Sanitize(s string) string {
	if s == "" {
		return ""
	}
	p, _ := policies()
	return strings.TrimSpace(p.Sanitize(s))
}

// PlainText returns the visible text of s with all markup removed.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	_, p := policies()
	return strings.TrimSpace(html.UnescapeString(p.Sanitize(s)))
}

// IsBlank reports whether s has no visible text, e.g. an editor's
// leftover "<p><br></p>".
func IsBlank(s string) bool {
	return PlainText(s) == ""
}
