package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestCreatePostRequestUnion(t *testing.T) {
	recipe := &RecipeRequest{
		Title:       "Pad Thai",
		Ingredients: nil,
		Steps:       []string{"cook"},
		Difficulty:  "easy",
	}
	review := &FoodReviewRequest{FoodName: "Pad Thai", Rating: 4}

	cases := []struct {
		name    string
		req     CreatePostRequest
		wantErr bool
	}{
		{"general plain", CreatePostRequest{Type: "general"}, false},
		{"general with recipe", CreatePostRequest{Type: "general", Recipe: recipe}, true},
		{"general with review", CreatePostRequest{Type: "general", FoodReview: review}, true},
		{"recipe with recipe", CreatePostRequest{Type: "recipe", Recipe: recipe}, false},
		{"recipe missing sub-document", CreatePostRequest{Type: "recipe"}, true},
		{"recipe with review too", CreatePostRequest{Type: "recipe", Recipe: recipe, FoodReview: review}, true},
		{"review with review", CreatePostRequest{Type: "food_review", FoodReview: review}, false},
		{"review missing sub-document", CreatePostRequest{Type: "food_review"}, true},
		{"review with recipe too", CreatePostRequest{Type: "food_review", FoodReview: review, Recipe: recipe}, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			err := c.req.validateUnion()
			if (err != nil) != c.wantErr {
				t.Errorf("validateUnion() error = %v, wantErr %v", err, c.wantErr)
			}
		})
	}
}

func TestSearchParamsParsing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := &PostHandler{}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/posts?type=recipe&tags=Pasta,vegan&minRating=3&q=noodles&author=nothex", nil)

	params := h.searchParams(c)
	if params.Type != "recipe" {
		t.Errorf("Type = %q", params.Type)
	}
	if len(params.Tags) != 2 {
		t.Errorf("Tags = %v", params.Tags)
	}
	if params.MinRating == nil || *params.MinRating != 3 {
		t.Errorf("MinRating = %v", params.MinRating)
	}
	if params.MaxRating != nil {
		t.Errorf("MaxRating should be unset, got %v", *params.MaxRating)
	}
	if params.Query != "noodles" {
		t.Errorf("Query = %q", params.Query)
	}
	if params.Author != nil {
		t.Error("malformed author id should be ignored")
	}
}
