package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"forkful/apperr"
	"forkful/database"
	"forkful/models"
)

type CommentService struct {
	DB     *database.Mongo
	Log    *logrus.Logger
	Posts  *PostService
	Notifs *NotificationService
}

// Create adds a comment (or reply) to a post the requester can view,
// increments the post's comment counter, and notifies the post author (or,
// for replies, the parent comment's author). Comment notifications are never
// deduplicated: each comment is a distinct event.
func (s *CommentService) Create(ctx context.Context, author, postID primitive.ObjectID, parentID *primitive.ObjectID, content string) (*models.Comment, error) {
	post, err := s.Posts.Get(ctx, &author, postID)
	if err != nil {
		return nil, err
	}

	notifType := models.NotifPostComment
	notifRecipient := post.Author
	if parentID != nil {
		var parent models.Comment
		err := s.DB.Comments.FindOne(ctx, bson.M{"_id": *parentID}).Decode(&parent)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apperr.NotFound("parent comment not found")
		}
		if err != nil {
			return nil, err
		}
		if parent.PostID != postID {
			return nil, apperr.Validation("parent comment belongs to a different post")
		}
		notifType = models.NotifCommentReply
		notifRecipient = parent.Author
	}

	now := time.Now().Unix()
	comment := &models.Comment{
		ID:        primitive.NewObjectID(),
		PostID:    postID,
		Author:    author,
		ParentID:  parentID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.DB.Comments.InsertOne(ctx, comment); err != nil {
		return nil, err
	}

	if _, err := s.DB.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"engagement.comments": 1}},
	); err != nil {
		s.Log.WithError(err).WithField("postId", postID.Hex()).Warn("comment counter increment failed")
	}

	target := models.NotificationTarget{Kind: models.TargetComment, ID: comment.ID}
	s.Notifs.Notify(ctx, NotificationEvent{
		Type:      notifType,
		Recipient: notifRecipient,
		Sender:    author,
		Target:    target,
	})
	return comment, nil
}

// List returns a post's comments oldest first, with authors joined.
func (s *CommentService) List(ctx context.Context, requester *primitive.ObjectID, postID primitive.ObjectID, page Page) ([]models.Comment, int64, error) {
	if _, err := s.Posts.Get(ctx, requester, postID); err != nil {
		return nil, 0, err
	}

	match := bson.M{"postId": postID}
	total, err := s.DB.Comments.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}}}},
		{{Key: "$skip", Value: page.Skip()}},
		{{Key: "$limit", Value: page.Limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: "author"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: bson.D{
			{Key: "path", Value: "$user"},
			{Key: "preserveNullAndEmptyArrays", Value: true},
		}}},
		{{Key: "$project", Value: bson.D{{Key: "user.passwordHash", Value: 0}}}},
	}

	cursor, err := s.DB.Comments.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	comments := []models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

// Delete removes a comment. Allowed for the comment author, the post author,
// and admins. The post's comment counter decrements, clamped at zero.
func (s *CommentService) Delete(ctx context.Context, requester primitive.ObjectID, isAdmin bool, commentID primitive.ObjectID) error {
	var comment models.Comment
	err := s.DB.Comments.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound("comment not found")
	}
	if err != nil {
		return err
	}

	if comment.Author != requester && !isAdmin {
		var post models.Post
		err := s.DB.Posts.FindOne(ctx, bson.M{"_id": comment.PostID}).Decode(&post)
		if err != nil || post.Author != requester {
			return apperr.Forbidden("not allowed to delete this comment")
		}
	}

	if _, err := s.DB.Comments.DeleteOne(ctx, bson.M{"_id": commentID}); err != nil {
		return err
	}

	_, err = s.DB.Posts.UpdateOne(ctx,
		bson.M{"_id": comment.PostID, "engagement.comments": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"engagement.comments": -1}},
	)
	if err != nil {
		s.Log.WithError(err).WithField("postId", comment.PostID.Hex()).Warn("comment counter decrement failed")
	}

	_, _ = s.DB.Likes.DeleteMany(ctx, bson.M{"targetType": models.LikeTargetComment, "targetId": commentID})
	return nil
}

// LikeComment mirrors post likes for comments.
func (s *CommentService) LikeComment(ctx context.Context, userID, commentID primitive.ObjectID) error {
	var comment models.Comment
	err := s.DB.Comments.FindOne(ctx, bson.M{"_id": commentID}).Decode(&comment)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound("comment not found")
	}
	if err != nil {
		return err
	}

	like := models.Like{
		TargetType: models.LikeTargetComment,
		TargetID:   commentID,
		UserID:     userID,
		CreatedAt:  time.Now().Unix(),
	}
	if _, err := s.DB.Likes.InsertOne(ctx, like); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("comment already liked")
		}
		return err
	}

	if _, err := s.DB.Comments.UpdateOne(ctx,
		bson.M{"_id": commentID},
		bson.M{"$inc": bson.M{"likes": 1}},
	); err != nil {
		return err
	}

	s.Notifs.Notify(ctx, NotificationEvent{
		Type:      models.NotifCommentLike,
		Recipient: comment.Author,
		Sender:    userID,
		Target:    models.NotificationTarget{Kind: models.TargetComment, ID: commentID},
	})
	return nil
}

// UnlikeComment removes a comment like; counter clamps at zero.
func (s *CommentService) UnlikeComment(ctx context.Context, userID, commentID primitive.ObjectID) error {
	res, err := s.DB.Likes.DeleteOne(ctx, bson.M{
		"targetType": models.LikeTargetComment,
		"targetId":   commentID,
		"userId":     userID,
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.Conflict("comment not liked")
	}

	_, err = s.DB.Comments.UpdateOne(ctx,
		bson.M{"_id": commentID, "likes": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"likes": -1}},
	)
	return err
}
