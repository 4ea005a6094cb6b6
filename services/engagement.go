package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"forkful/apperr"
	"forkful/models"
)

// LikePost records a like and increments the counter by exactly one. The
// unique like index turns a duplicate into a Conflict without racing.
func (s *PostService) LikePost(ctx context.Context, userID, postID primitive.ObjectID) error {
	var post models.Post
	err := s.DB.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound("post not found")
	}
	if err != nil {
		return err
	}

	like := models.Like{
		TargetType: models.LikeTargetPost,
		TargetID:   postID,
		UserID:     userID,
		CreatedAt:  time.Now().Unix(),
	}
	if _, err := s.DB.Likes.InsertOne(ctx, like); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("post already liked")
		}
		return err
	}

	if _, err := s.DB.Posts.UpdateOne(ctx,
		bson.M{"_id": postID},
		bson.M{"$inc": bson.M{"engagement.likes": 1}},
	); err != nil {
		return err
	}

	s.Notifs.Notify(ctx, NotificationEvent{
		Type:      models.NotifPostLike,
		Recipient: post.Author,
		Sender:    userID,
		Target:    models.NotificationTarget{Kind: models.TargetPost, ID: postID},
	})
	return nil
}

// UnlikePost removes the like and decrements the counter, clamped at zero.
func (s *PostService) UnlikePost(ctx context.Context, userID, postID primitive.ObjectID) error {
	res, err := s.DB.Likes.DeleteOne(ctx, bson.M{
		"targetType": models.LikeTargetPost,
		"targetId":   postID,
		"userId":     userID,
	})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.Conflict("post not liked")
	}

	// The filter guard keeps the counter from going below zero even if it
	// has drifted from the likes collection.
	_, err = s.DB.Posts.UpdateOne(ctx,
		bson.M{"_id": postID, "engagement.likes": bson.M{"$gt": 0}},
		bson.M{"$inc": bson.M{"engagement.likes": -1}},
	)
	return err
}

// HasLiked reports whether the user already liked the target.
func (s *PostService) HasLiked(ctx context.Context, userID, targetID primitive.ObjectID, targetType string) (bool, error) {
	err := s.DB.Likes.FindOne(ctx, bson.M{
		"targetType": targetType,
		"targetId":   targetID,
		"userId":     userID,
	}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
