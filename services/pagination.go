package services

import (
	"go.mongodb.org/mongo-driver/bson"

	"forkful/response"
)

// Page holds normalized pagination input.
type Page struct {
	Page  int64
	Limit int64
}

// NormalizePage clamps page to >=1 and limit to [1, max], defaulting limit to
// 20 when unset.
func NormalizePage(page, limit, max int64) Page {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if max > 0 && limit > max {
		limit = max
	}
	return Page{Page: page, Limit: limit}
}

func (p Page) Skip() int64 { return (p.Page - 1) * p.Limit }

// Meta builds the pagination block for a list response.
func (p Page) Meta(total int64) response.Pagination {
	totalPages := int64(0)
	if total > 0 {
		totalPages = (total + p.Limit - 1) / p.Limit
	}
	return response.Pagination{Page: p.Page, Limit: p.Limit, Total: total, TotalPages: totalPages}
}

// postSortFields whitelists sortable post fields.
var postSortFields = map[string]string{
	"createdAt": "createdAt",
	"likes":     "engagement.likes",
	"comments":  "engagement.comments",
	"rating":    "foodReview.rating",
}

// PostSort maps a caller-supplied sort field and direction to a bson sort
// document. Unknown fields fall back to createdAt. The _id tiebreak keeps
// pagination deterministic when sort values collide.
func PostSort(field, order string) bson.D {
	key, ok := postSortFields[field]
	if !ok {
		key = "createdAt"
	}
	dir := -1
	if order == "asc" {
		dir = 1
	}
	return bson.D{{Key: key, Value: dir}, {Key: "_id", Value: dir}}
}
