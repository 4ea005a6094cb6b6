package handlers

import (
	"github.com/gin-gonic/gin"

	"forkful/apperr"
	"forkful/response"
	"forkful/services"
	"forkful/validation"
)

type AuthHandler struct {
	Users *services.UserService
}

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=100"`
	Username string `json:"username" binding:"required,min=3,max=30,alphanum"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apperr.Validation(validation.Message(err)))
		return
	}

	user, token, err := h.Users.Register(c.Request.Context(), services.RegisterInput{
		Name:     req.Name,
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		abort(c, err)
		return
	}

	response.Created(c, gin.H{"user": user, "token": token}, "account created")
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apperr.Validation(validation.Message(err)))
		return
	}

	user, token, err := h.Users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abort(c, err)
		return
	}

	response.OK(c, gin.H{"user": user, "token": token}, "login successful")
}
