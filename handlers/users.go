package handlers

import (
	"github.com/gin-gonic/gin"

	"forkful/apperr"
	"forkful/response"
	"forkful/services"
	"forkful/validation"
)

type UserHandler struct {
	Users *services.UserService
}

func (h *UserHandler) Me(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}

	user, err := h.Users.Get(c.Request.Context(), &userID, isAdmin(c), userID)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, user, "")
}

type UpdateProfileRequest struct {
	Name          *string  `json:"name" binding:"omitempty,min=1,max=100"`
	Username      *string  `json:"username" binding:"omitempty,min=3,max=30,alphanum"`
	Bio           *string  `json:"bio" binding:"omitempty,max=500"`
	Avatar        *string  `json:"avatar" binding:"omitempty,url"`
	Gender        *string  `json:"gender" binding:"omitempty,oneof=male female other"`
	DateOfBirth   *int64   `json:"dateOfBirth"`
	Goals         []string `json:"goals"`
	ActivityLevel *string  `json:"activityLevel" binding:"omitempty,oneof=sedentary light moderate active very_active"`
	Allergies     []string `json:"allergies"`
}

func (h *UserHandler) UpdateMe(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}

	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apperr.Validation(validation.Message(err)))
		return
	}

	user, err := h.Users.UpdateProfile(c.Request.Context(), userID, services.UpdateProfileInput{
		Name:          req.Name,
		Username:      req.Username,
		Bio:           req.Bio,
		Avatar:        req.Avatar,
		Gender:        req.Gender,
		DateOfBirth:   req.DateOfBirth,
		Goals:         req.Goals,
		ActivityLevel: req.ActivityLevel,
		Allergies:     req.Allergies,
	})
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, user, "profile updated")
}

func (h *UserHandler) Get(c *gin.Context) {
	targetID, err := paramID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	user, err := h.Users.Get(c.Request.Context(), requesterID(c), isAdmin(c), targetID)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, user, "")
}
