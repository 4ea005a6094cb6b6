package services

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestNormalizePage(t *testing.T) {
	cases := []struct {
		name              string
		page, limit, max  int64
		wantPage, wantLim int64
	}{
		{"defaults", 0, 0, 50, 1, 20},
		{"negative page", -3, 10, 50, 1, 10},
		{"limit capped", 2, 500, 50, 2, 50},
		{"in range", 3, 25, 50, 3, 25},
		{"no cap configured", 1, 500, 0, 1, 500},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			p := NormalizePage(c.page, c.limit, c.max)
			if p.Page != c.wantPage || p.Limit != c.wantLim {
				t.Errorf("got {%d %d}, want {%d %d}", p.Page, p.Limit, c.wantPage, c.wantLim)
			}
		})
	}
}

func TestPageSkip(t *testing.T) {
	p := Page{Page: 3, Limit: 20}
	if p.Skip() != 40 {
		t.Errorf("Skip() = %d, want 40", p.Skip())
	}
}

func TestPageMeta(t *testing.T) {
	p := Page{Page: 2, Limit: 10}
	meta := p.Meta(25)
	if meta.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", meta.TotalPages)
	}
	if meta.Total != 25 || meta.Page != 2 || meta.Limit != 10 {
		t.Errorf("meta = %+v", meta)
	}
	if got := p.Meta(0); got.TotalPages != 0 {
		t.Errorf("TotalPages for empty set = %d, want 0", got.TotalPages)
	}
}

func TestPostSortTiebreak(t *testing.T) {
	sort := PostSort("likes", "desc")
	want := bson.D{{Key: "engagement.likes", Value: -1}, {Key: "_id", Value: -1}}
	if len(sort) != 2 || sort[0] != want[0] || sort[1] != want[1] {
		t.Errorf("PostSort = %v, want %v", sort, want)
	}
}

func TestPostSortUnknownFieldFallsBack(t *testing.T) {
	sort := PostSort("engagement.likes; DROP", "asc")
	if sort[0].Key != "createdAt" || sort[0].Value != 1 {
		t.Errorf("unknown field should fall back to createdAt asc, got %v", sort)
	}
}
