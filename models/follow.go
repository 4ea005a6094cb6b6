package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// Follow is the follower -> following edge. Unique on the pair.
type Follow struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Follower  primitive.ObjectID `bson:"follower" json:"follower"`
	Following primitive.ObjectID `bson:"following" json:"following"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
