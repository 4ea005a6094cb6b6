package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	PostTypeFoodReview = "food_review"
	PostTypeRecipe     = "recipe"
	PostTypeGeneral    = "general"
)

const (
	VisibilityPublic    = "public"
	VisibilityFollowers = "followers"
	VisibilityPrivate   = "private"
)

type Engagement struct {
	Likes    int64 `bson:"likes" json:"likes"`
	Comments int64 `bson:"comments" json:"comments"`
	Shares   int64 `bson:"shares" json:"shares"`
}

type Ingredient struct {
	Name     string  `bson:"name" json:"name"`
	Quantity float64 `bson:"quantity" json:"quantity"`
	Unit     string  `bson:"unit" json:"unit"`
}

type Recipe struct {
	Title       string       `bson:"title" json:"title"`
	Ingredients []Ingredient `bson:"ingredients" json:"ingredients"`
	Steps       []string     `bson:"steps" json:"steps"`
	Difficulty  string       `bson:"difficulty" json:"difficulty"` // easy, medium, hard
	PrepMinutes int          `bson:"prepMinutes" json:"prepMinutes"`
	CookMinutes int          `bson:"cookMinutes" json:"cookMinutes"`
	Servings    int          `bson:"servings" json:"servings"`
	Calories    float64      `bson:"calories,omitempty" json:"calories,omitempty"`
}

type FoodReview struct {
	FoodName string  `bson:"foodName" json:"foodName"`
	Rating   float64 `bson:"rating" json:"rating"` // 1..5
	Location string  `bson:"location,omitempty" json:"location,omitempty"`
}

// Post is a tagged union: Recipe is set iff Type == recipe,
// FoodReview is set iff Type == food_review.
type Post struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Author     primitive.ObjectID `bson:"author" json:"author"`
	Type       string             `bson:"type" json:"type"`
	Content    string             `bson:"content" json:"content"`
	Visibility string             `bson:"visibility" json:"visibility"`
	Hashtags   []string           `bson:"hashtags" json:"hashtags"`
	Engagement Engagement         `bson:"engagement" json:"engagement"`
	Recipe     *Recipe            `bson:"recipe,omitempty" json:"recipe,omitempty"`
	FoodReview *FoodReview        `bson:"foodReview,omitempty" json:"foodReview,omitempty"`
	Edited     bool               `bson:"edited" json:"edited"`
	CreatedAt  int64              `bson:"createdAt" json:"createdAt"`
	UpdatedAt  int64              `bson:"updatedAt" json:"updatedAt"`

	User *User `bson:"user,omitempty" json:"user,omitempty"` // populated by $lookup, never written
}
