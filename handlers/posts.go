package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forkful/apperr"
	"forkful/models"
	"forkful/response"
	"forkful/services"
	"forkful/validation"
)

type PostHandler struct {
	Posts *services.PostService
}

type RecipeRequest struct {
	Title       string              `json:"title" binding:"required,max=200"`
	Ingredients []models.Ingredient `json:"ingredients" binding:"required,min=1,dive"`
	Steps       []string            `json:"steps" binding:"required,min=1"`
	Difficulty  string              `json:"difficulty" binding:"required,oneof=easy medium hard"`
	PrepMinutes int                 `json:"prepMinutes" binding:"gte=0"`
	CookMinutes int                 `json:"cookMinutes" binding:"gte=0"`
	Servings    int                 `json:"servings" binding:"gte=0"`
	Calories    float64             `json:"calories" binding:"gte=0"`
}

type FoodReviewRequest struct {
	FoodName string  `json:"foodName" binding:"required,max=200"`
	Rating   float64 `json:"rating" binding:"required,gte=1,lte=5"`
	Location string  `json:"location" binding:"omitempty,max=200"`
}

// CreatePostRequest is the tagged union: exactly the sub-document matching
// Type must be present.
type CreatePostRequest struct {
	Type       string             `json:"type" binding:"required,oneof=food_review recipe general"`
	Content    string             `json:"content" binding:"required,max=5000"`
	Visibility string             `json:"visibility" binding:"omitempty,oneof=public followers private"`
	Hashtags   []string           `json:"hashtags" binding:"omitempty,max=20"`
	Recipe     *RecipeRequest     `json:"recipe"`
	FoodReview *FoodReviewRequest `json:"foodReview"`
}

func (r *CreatePostRequest) validateUnion() error {
	switch r.Type {
	case models.PostTypeRecipe:
		if r.Recipe == nil {
			return apperr.Validation("recipe: is required for recipe posts")
		}
		if r.FoodReview != nil {
			return apperr.Validation("foodReview: not allowed on recipe posts")
		}
	case models.PostTypeFoodReview:
		if r.FoodReview == nil {
			return apperr.Validation("foodReview: is required for food_review posts")
		}
		if r.Recipe != nil {
			return apperr.Validation("recipe: not allowed on food_review posts")
		}
	default:
		if r.Recipe != nil || r.FoodReview != nil {
			return apperr.Validation("general posts cannot carry recipe or foodReview")
		}
	}
	return nil
}

func (r *RecipeRequest) toModel() *models.Recipe {
	return &models.Recipe{
		Title:       r.Title,
		Ingredients: r.Ingredients,
		Steps:       r.Steps,
		Difficulty:  r.Difficulty,
		PrepMinutes: r.PrepMinutes,
		CookMinutes: r.CookMinutes,
		Servings:    r.Servings,
		Calories:    r.Calories,
	}
}

func (r *FoodReviewRequest) toModel() *models.FoodReview {
	return &models.FoodReview{FoodName: r.FoodName, Rating: r.Rating, Location: r.Location}
}

func (h *PostHandler) Create(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}

	var req CreatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apperr.Validation(validation.Message(err)))
		return
	}
	if err := req.validateUnion(); err != nil {
		abort(c, err)
		return
	}

	in := services.CreatePostInput{
		Type:       req.Type,
		Content:    req.Content,
		Visibility: req.Visibility,
		Hashtags:   req.Hashtags,
	}
	if in.Visibility == "" {
		in.Visibility = models.VisibilityPublic
	}
	if req.Recipe != nil {
		in.Recipe = req.Recipe.toModel()
	}
	if req.FoodReview != nil {
		in.FoodReview = req.FoodReview.toModel()
	}

	post, err := h.Posts.Create(c.Request.Context(), userID, in)
	if err != nil {
		abort(c, err)
		return
	}
	response.Created(c, post, "post created")
}

func (h *PostHandler) searchParams(c *gin.Context) services.SearchParams {
	params := services.SearchParams{
		Type:       c.Query("type"),
		Difficulty: c.Query("difficulty"),
		Query:      c.Query("q"),
		MinRating:  queryFloatPtr(c, "minRating"),
		MaxRating:  queryFloatPtr(c, "maxRating"),
	}
	if author := c.Query("author"); author != "" {
		if id, err := primitive.ObjectIDFromHex(author); err == nil {
			params.Author = &id
		}
	}
	if tags := c.Query("tags"); tags != "" {
		params.Tags = strings.Split(tags, ",")
	}
	return params
}

func (h *PostHandler) page(c *gin.Context) services.Page {
	return services.NormalizePage(
		queryInt64(c, "page", 1),
		queryInt64(c, "limit", 20),
		h.Posts.MaxLimit,
	)
}

func (h *PostHandler) List(c *gin.Context) {
	page := h.page(c)
	posts, total, err := h.Posts.List(c.Request.Context(), requesterID(c), h.searchParams(c), page,
		c.Query("sortBy"), c.Query("order"))
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"posts": posts, "pagination": page.Meta(total)}, "")
}

func (h *PostHandler) Search(c *gin.Context) {
	if strings.TrimSpace(c.Query("q")) == "" {
		abort(c, apperr.Validation("q: is required"))
		return
	}
	h.List(c)
}

func (h *PostHandler) Feed(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}

	page := h.page(c)
	posts, total, err := h.Posts.Feed(c.Request.Context(), userID, page, c.Query("sortBy"), c.Query("order"))
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"posts": posts, "pagination": page.Meta(total)}, "")
}

func (h *PostHandler) Trending(c *gin.Context) {
	page := h.page(c)
	posts, total, err := h.Posts.Trending(c.Request.Context(), page)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"posts": posts, "pagination": page.Meta(total)}, "")
}

func (h *PostHandler) Get(c *gin.Context) {
	postID, err := paramID(c, "postId")
	if err != nil {
		abort(c, err)
		return
	}

	post, err := h.Posts.Get(c.Request.Context(), requesterID(c), postID)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, post, "")
}

type UpdatePostRequest struct {
	Content    *string            `json:"content" binding:"omitempty,max=5000"`
	Visibility *string            `json:"visibility" binding:"omitempty,oneof=public followers private"`
	Hashtags   []string           `json:"hashtags" binding:"omitempty,max=20"`
	Recipe     *RecipeRequest     `json:"recipe"`
	FoodReview *FoodReviewRequest `json:"foodReview"`
}

func (h *PostHandler) Update(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	postID, err := paramID(c, "postId")
	if err != nil {
		abort(c, err)
		return
	}

	var req UpdatePostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apperr.Validation(validation.Message(err)))
		return
	}

	in := services.UpdatePostInput{
		Content:    req.Content,
		Visibility: req.Visibility,
		Hashtags:   req.Hashtags,
	}
	if req.Recipe != nil {
		in.Recipe = req.Recipe.toModel()
	}
	if req.FoodReview != nil {
		in.FoodReview = req.FoodReview.toModel()
	}

	post, err := h.Posts.Update(c.Request.Context(), userID, postID, in)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, post, "post updated")
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	postID, err := paramID(c, "postId")
	if err != nil {
		abort(c, err)
		return
	}

	if err := h.Posts.Delete(c.Request.Context(), userID, isAdmin(c), postID); err != nil {
		abort(c, err)
		return
	}
	response.OK(c, nil, "post deleted")
}

func (h *PostHandler) Like(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	postID, err := paramID(c, "postId")
	if err != nil {
		abort(c, err)
		return
	}

	if err := h.Posts.LikePost(c.Request.Context(), userID, postID); err != nil {
		abort(c, err)
		return
	}
	response.OK(c, nil, "post liked")
}

func (h *PostHandler) Unlike(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	postID, err := paramID(c, "postId")
	if err != nil {
		abort(c, err)
		return
	}

	if err := h.Posts.UnlikePost(c.Request.Context(), userID, postID); err != nil {
		abort(c, err)
		return
	}
	response.OK(c, nil, "post unliked")
}
