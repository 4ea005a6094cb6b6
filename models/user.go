package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Username     string             `bson:"username" json:"username"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Role         string             `bson:"role" json:"role"` // user, admin
	IsActive     bool               `bson:"isActive" json:"isActive"`
	Bio          string             `bson:"bio" json:"bio"`
	Avatar       string             `bson:"avatar" json:"avatar"`

	// Demographic fields, consumed only by the report aggregator.
	Gender        string   `bson:"gender,omitempty" json:"gender,omitempty"` // male, female, other
	DateOfBirth   int64    `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Goals         []string `bson:"goals,omitempty" json:"goals,omitempty"` // lose_weight, gain_muscle, eat_healthy, ...
	ActivityLevel string   `bson:"activityLevel,omitempty" json:"activityLevel,omitempty"`
	Allergies     []string `bson:"allergies,omitempty" json:"allergies,omitempty"`

	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64 `bson:"updatedAt" json:"updatedAt"`
}
