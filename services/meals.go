package services

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"forkful/apperr"
	"forkful/database"
	"forkful/models"
)

type MealService struct {
	DB  *database.Mongo
	Log *logrus.Logger
}

type MealInput struct {
	MealType string
	FoodName string
	Calories float64
	Protein  float64
	Carbs    float64
	Fat      float64
	AteAt    int64 // zero means now
}

func (s *MealService) Create(ctx context.Context, userID primitive.ObjectID, in MealInput) (*models.Meal, error) {
	now := time.Now().Unix()
	ateAt := in.AteAt
	if ateAt == 0 {
		ateAt = now
	}

	meal := &models.Meal{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		MealType:  in.MealType,
		FoodName:  in.FoodName,
		Calories:  in.Calories,
		Protein:   in.Protein,
		Carbs:     in.Carbs,
		Fat:       in.Fat,
		AteAt:     ateAt,
		CreatedAt: now,
	}
	if _, err := s.DB.Meals.InsertOne(ctx, meal); err != nil {
		return nil, err
	}
	return meal, nil
}

// List returns the user's meals in a date range, newest first.
func (s *MealService) List(ctx context.Context, userID primitive.ObjectID, dr DateRange, page Page) ([]models.Meal, int64, error) {
	filter := bson.M{
		"userId": userID,
		"ateAt":  bson.M{"$gte": dr.Start.Unix(), "$lte": dr.End.Unix()},
	}

	total, err := s.DB.Meals.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "ateAt", Value: -1}, {Key: "_id", Value: -1}}).
		SetSkip(page.Skip()).
		SetLimit(page.Limit)

	cursor, err := s.DB.Meals.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	meals := []models.Meal{}
	if err := cursor.All(ctx, &meals); err != nil {
		return nil, 0, err
	}
	return meals, total, nil
}

func (s *MealService) Delete(ctx context.Context, userID, mealID primitive.ObjectID) error {
	res, err := s.DB.Meals.DeleteOne(ctx, bson.M{"_id": mealID, "userId": userID})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("meal not found")
	}
	return nil
}
