package services

import (
	"context"
	"errors"
	"regexp"
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

type AdminService struct {
	DB  *database.Mongo
	Log *logrus.Logger
}

// AdminUserFilter narrows the admin user listing.
type AdminUserFilter struct {
	Role   string
	Active *bool
	Search string // matches name, username, email
}

func (s *AdminService) ListUsers(ctx context.Context, f AdminUserFilter, page Page) ([]models.User, int64, error) {
	filter := bson.M{}
	if f.Role != "" {
		filter["role"] = f.Role
	}
	if f.Active != nil {
		filter["isActive"] = *f.Active
	}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		filter["$or"] = bson.A{
			bson.M{"name": re},
			bson.M{"username": re},
			bson.M{"email": re},
		}
	}

	total, err := s.DB.Users.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit)

	cursor, err := s.DB.Users.Find(ctx, filter, opts)
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

// Promote grants admin role. Promoting an admin is a conflict, not a no-op,
// so callers learn the state they assumed was stale.
func (s *AdminService) Promote(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.setRole(ctx, userID, models.RoleUser, models.RoleAdmin, "user is already an admin")
}

// Demote revokes admin role. An admin cannot demote themselves; the handler
// enforces that before calling.
func (s *AdminService) Demote(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	return s.setRole(ctx, userID, models.RoleAdmin, models.RoleUser, "user is not an admin")
}

func (s *AdminService) setRole(ctx context.Context, userID primitive.ObjectID, from, to, conflictMsg string) (*models.User, error) {
	var updated models.User
	err := s.DB.Users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID, "role": from},
		bson.M{"$set": bson.M{"role": to, "updatedAt": time.Now().Unix()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		// Distinguish missing user from wrong current role.
		count, cerr := s.DB.Users.CountDocuments(ctx, bson.M{"_id": userID})
		if cerr != nil {
			return nil, cerr
		}
		if count == 0 {
			return nil, apperr.NotFound("user not found")
		}
		return nil, apperr.Conflict(conflictMsg)
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// SetStatus toggles the active flag. Users are never hard-deleted.
func (s *AdminService) SetStatus(ctx context.Context, userID primitive.ObjectID, active bool) (*models.User, error) {
	var updated models.User
	err := s.DB.Users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now().Unix()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}
