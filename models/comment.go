package models

import "go.mongodb.org/mongo-driver/bson/primitive"

type Comment struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	PostID    primitive.ObjectID  `bson:"postId" json:"postId"`
	Author    primitive.ObjectID  `bson:"author" json:"author"`
	ParentID  *primitive.ObjectID `bson:"parentId,omitempty" json:"parentId,omitempty"` // set on replies
	Content   string              `bson:"content" json:"content"`
	Likes     int64               `bson:"likes" json:"likes"`
	CreatedAt int64               `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64               `bson:"updatedAt" json:"updatedAt"`

	User *User `bson:"user,omitempty" json:"user,omitempty"` // populated by $lookup
}
