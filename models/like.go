package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	LikeTargetPost    = "post"
	LikeTargetComment = "comment"
)

// Like records one user's like of a post or comment. A unique index on
// (targetType, targetId, userId) makes duplicate likes impossible to insert.
type Like struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TargetType string             `bson:"targetType" json:"targetType"`
	TargetID   primitive.ObjectID `bson:"targetId" json:"targetId"`
	UserID     primitive.ObjectID `bson:"userId" json:"userId"`
	CreatedAt  int64              `bson:"createdAt" json:"createdAt"`
}
