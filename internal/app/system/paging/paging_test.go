package paging

import (
	"net/http/httptest"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		url       string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "/events", 1, DefaultLimit},
		{"explicit", "/events?page=3&limit=25", 3, 25},
		{"garbage", "/events?page=abc&limit=-4", 1, DefaultLimit},
		{"zero page", "/events?page=0", 1, DefaultLimit},
		{"clamped", "/events?limit=5000", 1, MaxLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Parse(httptest.NewRequest("GET", tt.url, nil))
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Errorf("Parse(%q) = %+v, want page=%d limit=%d", tt.url, p, tt.wantPage, tt.wantLimit)
			}
		})
	}
}

func TestSkip(t *testing.T) {
	if got := (Page{Page: 1, Limit: 10}).Skip(); got != 0 {
		t.Errorf("page 1 skip: got %d, want 0", got)
	}
	if got := (Page{Page: 4, Limit: 10}).Skip(); got != 30 {
		t.Errorf("page 4 skip: got %d, want 30", got)
	}
}

func TestTotalPages(t *testing.T) {
	tests := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 10, 10},
		{5, 0, 0},
	}
	for _, tt := range tests {
		if got := TotalPages(tt.total, tt.limit); got != tt.want {
			t.Errorf("TotalPages(%d, %d): got %d, want %d", tt.total, tt.limit, got, tt.want)
		}
	}
}

func TestWindow(t *testing.T) {
	rows := []int{1, 2, 3, 4, 5}

	got := Window(rows, Page{Page: 2, Limit: 2})
	if len(got) != 2 || got[0] != 3 || got[1] != 4 {
		t.Errorf("page 2: got %v, want [3 4]", got)
	}
	got = Window(rows, Page{Page: 3, Limit: 2})
	if len(got) != 1 || got[0] != 5 {
		t.Errorf("page 3: got %v, want [5]", got)
	}
	got = Window(rows, Page{Page: 9, Limit: 2})
	if len(got) != 0 {
		t.Errorf("past end: got %v, want empty", got)
	}
}
