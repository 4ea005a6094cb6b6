package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
)

// Meal is one logged food intake with its nutrition snapshot. The nutrition
// report groups these per day/week/month and per meal type.
type Meal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"userId" json:"userId"`
	MealType  string             `bson:"mealType" json:"mealType"`
	FoodName  string             `bson:"foodName" json:"foodName"`
	Calories  float64            `bson:"calories" json:"calories"`
	Protein   float64            `bson:"protein" json:"protein"`
	Carbs     float64            `bson:"carbs" json:"carbs"`
	Fat       float64            `bson:"fat" json:"fat"`
	AteAt     int64              `bson:"ateAt" json:"ateAt"`
	CreatedAt int64              `bson:"createdAt" json:"createdAt"`
}
