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

type FollowService struct {
	DB     *database.Mongo
	Log    *logrus.Logger
	Notifs *NotificationService
}

// Follow creates the follower -> following edge and fires the deduplicated
// follow notification.
func (s *FollowService) Follow(ctx context.Context, follower, following primitive.ObjectID) error {
	if follower == following {
		return apperr.Conflict("cannot follow yourself")
	}

	count, err := s.DB.Users.CountDocuments(ctx, bson.M{"_id": following, "isActive": true})
	if err != nil {
		return err
	}
	if count == 0 {
		return apperr.NotFound("user not found")
	}

	edge := models.Follow{
		Follower:  follower,
		Following: following,
		CreatedAt: time.Now().Unix(),
	}
	if _, err := s.DB.Follows.InsertOne(ctx, edge); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apperr.Conflict("already following this user")
		}
		return err
	}

	s.Notifs.Notify(ctx, NotificationEvent{
		Type:      models.NotifFollow,
		Recipient: following,
		Sender:    follower,
		Target:    models.NotificationTarget{Kind: models.TargetUser, ID: following},
	})
	return nil
}

// Unfollow removes the edge; absent edges are reported, not ignored.
func (s *FollowService) Unfollow(ctx context.Context, follower, following primitive.ObjectID) error {
	res, err := s.DB.Follows.DeleteOne(ctx, bson.M{"follower": follower, "following": following})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("not following this user")
	}
	return nil
}

// IsFollowing reports whether follower follows following.
func (s *FollowService) IsFollowing(ctx context.Context, follower, following primitive.ObjectID) (bool, error) {
	err := s.DB.Follows.FindOne(ctx, bson.M{"follower": follower, "following": following}).Err()
	if errors.Is(err, mongo.ErrNoDocuments) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// FollowedIDs resolves the authors a user follows, for the feed filter.
func (s *FollowService) FollowedIDs(ctx context.Context, follower primitive.ObjectID) ([]primitive.ObjectID, error) {
	cursor, err := s.DB.Follows.Find(ctx, bson.M{"follower": follower})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var edges []models.Follow
	if err := cursor.All(ctx, &edges); err != nil {
		return nil, err
	}
	ids := make([]primitive.ObjectID, len(edges))
	for i, e := range edges {
		ids[i] = e.Following
	}
	return ids, nil
}

// Followers lists users following the given user, newest edge first.
func (s *FollowService) Followers(ctx context.Context, userID primitive.ObjectID, page Page) ([]models.User, int64, error) {
	return s.edgeUsers(ctx, bson.M{"following": userID}, "follower", page)
}

// Following lists users the given user follows.
func (s *FollowService) Following(ctx context.Context, userID primitive.ObjectID, page Page) ([]models.User, int64, error) {
	return s.edgeUsers(ctx, bson.M{"follower": userID}, "following", page)
}

func (s *FollowService) edgeUsers(ctx context.Context, match bson.M, localField string, page Page) ([]models.User, int64, error) {
	total, err := s.DB.Follows.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$skip", Value: page.Skip()}},
		{{Key: "$limit", Value: page.Limit}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "users"},
			{Key: "localField", Value: localField},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "user"},
		}}},
		{{Key: "$unwind", Value: "$user"}},
		{{Key: "$replaceRoot", Value: bson.D{{Key: "newRoot", Value: "$user"}}}},
	}

	cursor, err := s.DB.Follows.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}
