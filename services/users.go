package services

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"golang.org/x/crypto/bcrypt"

	"forkful/apperr"
	"forkful/database"
	"forkful/middleware"
	"forkful/models"
)

type UserService struct {
	DB        *database.Mongo
	Log       *logrus.Logger
	JWTSecret string
	JWTTTL    time.Duration
}

type RegisterInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

// Register creates a user and returns it with a signed token.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().Unix()
	user := &models.User{
		ID:           primitive.NewObjectID(),
		Name:         in.Name,
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         models.RoleUser,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := s.DB.Users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, "", apperr.Conflict("email already in use")
		}
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login checks credentials and returns the user with a fresh token.
func (s *UserService) Login(ctx context.Context, email, password string) (*models.User, string, error) {
	var user models.User
	err := s.DB.Users.FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, "", apperr.Unauthenticated("invalid email or password")
	}
	if err != nil {
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, "", apperr.Unauthenticated("invalid email or password")
	}
	if !user.IsActive {
		return nil, "", apperr.Forbidden("account is deactivated")
	}

	token, err := s.issueToken(&user)
	if err != nil {
		return nil, "", err
	}
	return &user, token, nil
}

func (s *UserService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := &middleware.Claims{
		UserID: user.ID.Hex(),
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(s.JWTTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.JWTSecret))
}

// Get returns a user by id. Inactive users are hidden from everyone except
// themselves and admins.
func (s *UserService) Get(ctx context.Context, requester *primitive.ObjectID, isAdmin bool, userID primitive.ObjectID) (*models.User, error) {
	var user models.User
	err := s.DB.Users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, apperr.NotFound("user not found")
	}
	if err != nil {
		return nil, err
	}

	self := requester != nil && *requester == user.ID
	if !user.IsActive && !self && !isAdmin {
		return nil, apperr.NotFound("user not found")
	}
	return &user, nil
}

// UpdateProfileInput covers the self-editable fields. Role, email and active
// status are not settable here.
type UpdateProfileInput struct {
	Name          *string
	Username      *string
	Bio           *string
	Avatar        *string
	Gender        *string
	DateOfBirth   *int64
	Goals         []string
	ActivityLevel *string
	Allergies     []string
}

func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, in UpdateProfileInput) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now().Unix()}
	if in.Name != nil {
		set["name"] = *in.Name
	}
	if in.Username != nil {
		set["username"] = *in.Username
	}
	if in.Bio != nil {
		set["bio"] = *in.Bio
	}
	if in.Avatar != nil {
		set["avatar"] = *in.Avatar
	}
	if in.Gender != nil {
		set["gender"] = *in.Gender
	}
	if in.DateOfBirth != nil {
		set["dateOfBirth"] = *in.DateOfBirth
	}
	if in.Goals != nil {
		set["goals"] = in.Goals
	}
	if in.ActivityLevel != nil {
		set["activityLevel"] = *in.ActivityLevel
	}
	if in.Allergies != nil {
		set["allergies"] = in.Allergies
	}

	var updated models.User
	err := s.DB.Users.FindOneAndUpdate(ctx,
		bson.M{"_id": userID},
		bson.M{"$set": set},
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
