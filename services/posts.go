package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"forkful/apperr"
	"forkful/database"
	"forkful/models"
)

type PostService struct {
	DB       *database.Mongo
	Log      *logrus.Logger
	Follows  *FollowService
	Notifs   *NotificationService
	MaxLimit int64
}

// CreatePostInput is validated at the handler boundary; the type-specific
// sub-document matching Type is already guaranteed present.
type CreatePostInput struct {
	Type       string
	Content    string
	Visibility string
	Hashtags   []string
	Recipe     *models.Recipe
	FoodReview *models.FoodReview
}

func (s *PostService) Create(ctx context.Context, author primitive.ObjectID, in CreatePostInput) (*models.Post, error) {
	now := time.Now().Unix()
	post := &models.Post{
		ID:         primitive.NewObjectID(),
		Author:     author,
		Type:       in.Type,
		Content:    in.Content,
		Visibility: in.Visibility,
		Hashtags:   NormalizeTags(in.Hashtags),
		Recipe:     in.Recipe,
		FoodReview: in.FoodReview,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := s.DB.Posts.InsertOne(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Get fetches a post by id and applies the visibility rule in memory,
// signalling Forbidden for direct fetches of hidden posts.
func (s *PostService) Get(ctx context.Context, requester *primitive.ObjectID, postID primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	err := s.DB.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("post not found")
	}
	if err != nil {
		return nil, err
	}

	follows := false
	if requester != nil && post.Visibility == models.VisibilityFollowers && *requester != post.Author {
		follows, err = s.Follows.IsFollowing(ctx, *requester, post.Author)
		if err != nil {
			return nil, err
		}
	}

	if !CanViewPost(requester, &post, follows) {
		return nil, apperr.Forbidden("you do not have access to this post")
	}
	return &post, nil
}

// UpdatePostInput holds the author-settable fields; nil means leave as is.
type UpdatePostInput struct {
	Content    *string
	Visibility *string
	Hashtags   []string
	Recipe     *models.Recipe
	FoodReview *models.FoodReview
}

// Update applies a partial update. Only the author may edit; author,
// engagement and createdAt are not settable.
func (s *PostService) Update(ctx context.Context, requester, postID primitive.ObjectID, in UpdatePostInput) (*models.Post, error) {
	var post models.Post
	err := s.DB.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("post not found")
	}
	if err != nil {
		return nil, err
	}
	if post.Author != requester {
		return nil, apperr.Forbidden("only the author can edit this post")
	}

	set := bson.M{
		"edited":    true,
		"updatedAt": time.Now().Unix(),
	}
	if in.Content != nil {
		set["content"] = *in.Content
	}
	if in.Visibility != nil {
		set["visibility"] = *in.Visibility
	}
	if in.Hashtags != nil {
		set["hashtags"] = NormalizeTags(in.Hashtags)
	}
	if in.Recipe != nil {
		if post.Type != models.PostTypeRecipe {
			return nil, apperr.Validation("recipe can only be set on recipe posts")
		}
		set["recipe"] = in.Recipe
	}
	if in.FoodReview != nil {
		if post.Type != models.PostTypeFoodReview {
			return nil, apperr.Validation("foodReview can only be set on food_review posts")
		}
		set["foodReview"] = in.FoodReview
	}

	var updated models.Post
	err = s.DB.Posts.FindOneAndUpdate(ctx,
		bson.M{"_id": postID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a post (author or admin) plus its comments and likes.
// Cleanup of the dependents is best effort.
func (s *PostService) Delete(ctx context.Context, requester primitive.ObjectID, isAdmin bool, postID primitive.ObjectID) error {
	var post models.Post
	err := s.DB.Posts.FindOne(ctx, bson.M{"_id": postID}).Decode(&post)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.NotFound("post not found")
	}
	if err != nil {
		return err
	}
	if post.Author != requester && !isAdmin {
		return apperr.Forbidden("only the author or an admin can delete this post")
	}

	if _, err := s.DB.Posts.DeleteOne(ctx, bson.M{"_id": postID}); err != nil {
		return err
	}

	if _, err := s.DB.Comments.DeleteMany(ctx, bson.M{"postId": postID}); err != nil {
		s.Log.WithError(err).WithField("postId", postID.Hex()).Warn("comment cleanup failed")
	}
	if _, err := s.DB.Likes.DeleteMany(ctx, bson.M{"targetType": models.LikeTargetPost, "targetId": postID}); err != nil {
		s.Log.WithError(err).WithField("postId", postID.Hex()).Warn("like cleanup failed")
	}
	return nil
}

// List runs the search composer ANDed with the requester's visibility filter.
func (s *PostService) List(ctx context.Context, requester *primitive.ObjectID, params SearchParams, page Page, sortField, sortOrder string) ([]models.Post, int64, error) {
	visibility, err := s.visibilityFor(ctx, requester)
	if err != nil {
		return nil, 0, err
	}
	filter := MergeFilters(BuildSearchFilter(params), visibility)
	return s.page(ctx, filter, page, PostSort(sortField, sortOrder))
}

// Feed is the personalized feed: public posts, own posts, and followers-only
// posts from followed authors, newest first by default.
func (s *PostService) Feed(ctx context.Context, requester primitive.ObjectID, page Page, sortField, sortOrder string) ([]models.Post, int64, error) {
	followed, err := s.Follows.FollowedIDs(ctx, requester)
	if err != nil {
		return nil, 0, err
	}
	filter := VisibilityFilter(&requester, followed)
	return s.page(ctx, filter, page, PostSort(sortField, sortOrder))
}

// trendingWindow bounds how far back trending looks.
const trendingWindow = 7 * 24 * time.Hour

// Trending ranks recent public posts by a weighted engagement score.
func (s *PostService) Trending(ctx context.Context, page Page) ([]models.Post, int64, error) {
	match := bson.M{
		"visibility": models.VisibilityPublic,
		"createdAt":  bson.M{"$gte": time.Now().Add(-trendingWindow).Unix()},
	}

	total, err := s.DB.Posts.CountDocuments(ctx, match)
	if err != nil {
		return nil, 0, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$addFields", Value: bson.D{{Key: "score", Value: bson.D{{Key: "$add", Value: bson.A{
			"$engagement.likes",
			bson.D{{Key: "$multiply", Value: bson.A{"$engagement.comments", 2}}},
			bson.D{{Key: "$multiply", Value: bson.A{"$engagement.shares", 3}}},
		}}}}}}},
		{{Key: "$sort", Value: bson.D{{Key: "score", Value: -1}, {Key: "_id", Value: -1}}}},
		{{Key: "$skip", Value: page.Skip()}},
		{{Key: "$limit", Value: page.Limit}},
		{{Key: "$project", Value: bson.D{{Key: "score", Value: 0}}}},
	}

	cursor, err := s.DB.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (s *PostService) visibilityFor(ctx context.Context, requester *primitive.ObjectID) (bson.M, error) {
	if requester == nil {
		return VisibilityFilter(nil, nil), nil
	}
	followed, err := s.Follows.FollowedIDs(ctx, *requester)
	if err != nil {
		return nil, err
	}
	return VisibilityFilter(requester, followed), nil
}

// page runs the count + page query pair with a $lookup for the author.
func (s *PostService) page(ctx context.Context, filter bson.M, page Page, sort bson.D) ([]models.Post, int64, error) {
	total, err := s.DB.Posts.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: filter}},
		{{Key: "$sort", Value: sort}},
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

	cursor, err := s.DB.Posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	posts := []models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}
