package handlers

import (
	"github.com/gin-gonic/gin"

	"forkful/apperr"
	"forkful/response"
	"forkful/services"
	"forkful/validation"
)

type MealHandler struct {
	Meals    *services.MealService
	MaxLimit int64
}

type CreateMealRequest struct {
	MealType string  `json:"mealType" binding:"required,oneof=breakfast lunch dinner snack"`
	FoodName string  `json:"foodName" binding:"required,max=200"`
	Calories float64 `json:"calories" binding:"gte=0"`
	Protein  float64 `json:"protein" binding:"gte=0"`
	Carbs    float64 `json:"carbs" binding:"gte=0"`
	Fat      float64 `json:"fat" binding:"gte=0"`
	AteAt    int64   `json:"ateAt" binding:"gte=0"`
}

func (h *MealHandler) Create(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}

	var req CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apperr.Validation(validation.Message(err)))
		return
	}

	meal, err := h.Meals.Create(c.Request.Context(), userID, services.MealInput{
		MealType: req.MealType,
		FoodName: req.FoodName,
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
		AteAt:    req.AteAt,
	})
	if err != nil {
		abort(c, err)
		return
	}
	response.Created(c, meal, "meal logged")
}

func (h *MealHandler) List(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}

	dr, err := services.ParseDateRange(c.Query("startDate"), c.Query("endDate"))
	if err != nil {
		abort(c, err)
		return
	}

	page := services.NormalizePage(queryInt64(c, "page", 1), queryInt64(c, "limit", 20), h.MaxLimit)
	meals, total, err := h.Meals.List(c.Request.Context(), userID, dr, page)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"meals": meals, "pagination": page.Meta(total)}, "")
}

func (h *MealHandler) Delete(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	mealID, err := paramID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	if err := h.Meals.Delete(c.Request.Context(), userID, mealID); err != nil {
		abort(c, err)
		return
	}
	response.OK(c, nil, "meal deleted")
}
