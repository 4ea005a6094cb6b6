package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	NotifPostLike     = "post_like"
	NotifPostComment  = "post_comment"
	NotifCommentLike  = "comment_like"
	NotifCommentReply = "comment_reply"
	NotifFollow       = "follow"
	NotifMention      = "mention"
)

const (
	TargetPost    = "post"
	TargetComment = "comment"
	TargetUser    = "user"
)

// NotificationTarget is the polymorphic reference, tagged so the target type
// is known before any lookup.
type NotificationTarget struct {
	Kind string             `bson:"kind" json:"kind"` // post, comment, user
	ID   primitive.ObjectID `bson:"id" json:"id"`
}

type Notification struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Recipient primitive.ObjectID `bson:"recipient" json:"recipient"`
	Sender    primitive.ObjectID `bson:"sender" json:"sender"`
	Type      string             `bson:"type" json:"type"`
	Target    NotificationTarget `bson:"target" json:"target"`
	Read      bool               `bson:"read" json:"read"`
	Metadata  map[string]string  `bson:"metadata,omitempty" json:"metadata,omitempty"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
