// internal/app/system/paging/paging.go
package paging

import (
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// DefaultLimit is the page size used when the caller does not pass ?limit.
const DefaultLimit = 10

// MaxLimit caps ?limit so a single request cannot pull the whole collection.
const MaxLimit = 100

// Page is a parsed page/limit pair (1-based page).
type Page struct {
	Page  int
	Limit int
}

// Parse reads ?page and ?limit. Missing or invalid values fall back to
// page 1 and DefaultLimit; limit is clamped to MaxLimit.
func Parse(r *http.Request) Page {
	return Page{
		Page:  parsePositive(query.Get(r, "page"), 1),
		Limit: clamp(parsePositive(query.Get(r, "limit"), DefaultLimit)),
	}
}

func parsePositive(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

func clamp(n int) int {
	if n > MaxLimit {
		return MaxLimit
	}
	return n
}

// Skip is the number of documents preceding this page.
func (p Page) Skip() int64 { return int64(p.Page-1) * int64(p.Limit) }

// ApplyToFind sets skip and limit on a find.
func (p Page) ApplyToFind(find *options.FindOptions) *options.FindOptions {
	return find.SetSkip(p.Skip()).SetLimit(int64(p.Limit))
}

// TotalPages is ceil(total/limit); zero results give zero pages.
func TotalPages(total int64, limit int) int {
	if total <= 0 || limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// Window slices rows to this page. Used when filtering happens in memory
// (the precise distance pass) and the store cannot skip for us.
func Window[T any](rows []T, p Page) []T {
	start := int(p.Skip())
	if start >= len(rows) {
		return []T{}
	}
	end := start + p.Limit
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}
