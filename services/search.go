package services

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	ratingFloor   = 0.0
	ratingCeiling = 5.0
)

// SearchParams is the open set of optional post filters. Zero values mean
// "not supplied".
type SearchParams struct {
	Type       string
	Author     *primitive.ObjectID
	Tags       []string
	MinRating  *float64
	MaxRating  *float64
	Difficulty string
	Query      string
}

// BuildSearchFilter translates the params into one store filter. The caller
// ANDs it with the visibility filter.
func BuildSearchFilter(p SearchParams) bson.M {
	filter := bson.M{}

	if p.Type != "" {
		filter["type"] = p.Type
	}
	if p.Author != nil {
		filter["author"] = *p.Author
	}
	if p.Difficulty != "" {
		filter["recipe.difficulty"] = p.Difficulty
	}

	if tags := NormalizeTags(p.Tags); len(tags) > 0 {
		filter["hashtags"] = bson.M{"$in": tags}
	}

	if p.MinRating != nil || p.MaxRating != nil {
		lo, hi := NormalizeRatingRange(p.MinRating, p.MaxRating)
		filter["foodReview.rating"] = bson.M{"$gte": lo, "$lte": hi}
	}

	if q := strings.TrimSpace(p.Query); q != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(q), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"content": re},
			bson.M{"recipe.title": re},
			bson.M{"recipe.ingredients.name": re},
			bson.M{"foodReview.foodName": re},
			bson.M{"hashtags": re},
		}
	}

	return filter
}

// NormalizeRatingRange turns one-or-both-sided rating bounds into a closed,
// well-ordered [lo, hi] interval. Missing min defaults to 0, missing max to 5;
// out-of-range values are clamped and inverted bounds swapped.
func NormalizeRatingRange(min, max *float64) (float64, float64) {
	lo, hi := ratingFloor, ratingCeiling
	if min != nil {
		lo = *min
	}
	if max != nil {
		hi = *max
	}
	if lo < ratingFloor {
		lo = ratingFloor
	}
	if hi > ratingCeiling {
		hi = ratingCeiling
	}
	if lo > hi {
		lo, hi = hi, lo
	}
	return lo, hi
}

// NormalizeTags lowercases, trims a leading '#', drops empties, and dedups
// while preserving first-seen order.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		t = strings.TrimPrefix(t, "#")
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

// MergeFilters ANDs non-empty filters into one query document.
func MergeFilters(filters ...bson.M) bson.M {
	nonEmpty := make(bson.A, 0, len(filters))
	for _, f := range filters {
		if len(f) > 0 {
			nonEmpty = append(nonEmpty, f)
		}
	}
	switch len(nonEmpty) {
	case 0:
		return bson.M{}
	case 1:
		return nonEmpty[0].(bson.M)
	default:
		return bson.M{"$and": nonEmpty}
	}
}
