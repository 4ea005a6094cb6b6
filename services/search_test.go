package services

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func fptr(f float64) *float64 { return &f }

func TestNormalizeRatingRange(t *testing.T) {
	cases := []struct {
		name     string
		min, max *float64
		lo, hi   float64
	}{
		{"both absent", nil, nil, 0, 5},
		{"only min", fptr(3), nil, 3, 5},
		{"only max", nil, fptr(2), 0, 2},
		{"both present", fptr(2), fptr(4), 2, 4},
		{"inverted bounds swap", fptr(4), fptr(2), 2, 4},
		{"clamped to scale", fptr(-1), fptr(9), 0, 5},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			lo, hi := NormalizeRatingRange(c.min, c.max)
			if lo != c.lo || hi != c.hi {
				t.Errorf("got [%v, %v], want [%v, %v]", lo, hi, c.lo, c.hi)
			}
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{"#Pasta", "pasta", " VEGAN ", "", "#", "soup"})
	want := []string{"pasta", "vegan", "soup"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("NormalizeTags = %v, want %v", got, want)
	}
}

func TestBuildSearchFilterEmpty(t *testing.T) {
	if got := BuildSearchFilter(SearchParams{}); len(got) != 0 {
		t.Errorf("empty params should yield empty filter, got %v", got)
	}
}

func TestBuildSearchFilterRating(t *testing.T) {
	got := BuildSearchFilter(SearchParams{MinRating: fptr(3)})
	want := bson.M{"foodReview.rating": bson.M{"$gte": 3.0, "$lte": 5.0}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("rating filter = %v, want %v", got, want)
	}
}

func TestBuildSearchFilterFreeText(t *testing.T) {
	got := BuildSearchFilter(SearchParams{Query: "  pad thai "})
	or, ok := got["$or"].(bson.A)
	if !ok {
		t.Fatalf("free text filter missing $or: %v", got)
	}
	// content, recipe title, ingredient names, review food name, hashtags
	if len(or) != 5 {
		t.Errorf("free text matches %d fields, want 5", len(or))
	}
	re := or[0].(bson.M)["content"].(primitive.Regex)
	if re.Pattern != "pad thai" || re.Options != "i" {
		t.Errorf("regex = %+v, want case-insensitive trimmed pattern", re)
	}
}

func TestBuildSearchFilterEscapesRegexMeta(t *testing.T) {
	got := BuildSearchFilter(SearchParams{Query: "a+b"})
	re := got["$or"].(bson.A)[0].(bson.M)["content"].(primitive.Regex)
	if re.Pattern != `a\+b` {
		t.Errorf("pattern = %q, want meta characters quoted", re.Pattern)
	}
}

func TestMergeFilters(t *testing.T) {
	a := bson.M{"type": "recipe"}
	b := bson.M{"visibility": "public"}

	if got := MergeFilters(a, bson.M{}); !reflect.DeepEqual(got, a) {
		t.Errorf("merge with empty = %v, want %v", got, a)
	}
	got := MergeFilters(a, b)
	want := bson.M{"$and": bson.A{a, b}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("merge = %v, want %v", got, want)
	}
	if got := MergeFilters(); len(got) != 0 {
		t.Errorf("merge of nothing = %v, want empty", got)
	}
}
