package services

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forkful/models"
)

// CanViewPost decides whether a requester (nil = anonymous) may read a post.
// Checks apply in order, first match wins: author sees own content, public is
// open, followers requires an existing follow edge.
func CanViewPost(requester *primitive.ObjectID, post *models.Post, follows bool) bool {
	if requester != nil && *requester == post.Author {
		return true
	}
	switch post.Visibility {
	case models.VisibilityPublic:
		return true
	case models.VisibilityFollowers:
		return requester != nil && follows
	default:
		return false
	}
}

// VisibilityFilter is the store-level form of CanViewPost for list queries:
// visibility=public OR author=requester OR (visibility=followers AND author
// in followed). Anonymous callers only see public posts.
func VisibilityFilter(requester *primitive.ObjectID, followed []primitive.ObjectID) bson.M {
	if requester == nil {
		return bson.M{"visibility": models.VisibilityPublic}
	}

	clauses := bson.A{
		bson.M{"visibility": models.VisibilityPublic},
		bson.M{"author": *requester},
	}
	if len(followed) > 0 {
		clauses = append(clauses, bson.M{
			"visibility": models.VisibilityFollowers,
			"author":     bson.M{"$in": followed},
		})
	}
	return bson.M{"$or": clauses}
}
