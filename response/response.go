// Package response shapes the uniform API envelope:
// {success, data?, message?, error?: {message, code}}.
package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"forkful/apperr"
)

type ErrorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

type Envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Message string     `json:"message,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// Pagination is attached inside data for list endpoints.
type Pagination struct {
	Page       int64 `json:"page"`
	Limit      int64 `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int64 `json:"totalPages"`
}

func OK(c *gin.Context, data any, message string) {
	c.JSON(http.StatusOK, Envelope{Success: true, Data: data, Message: message})
}

func Created(c *gin.Context, data any, message string) {
	c.JSON(http.StatusCreated, Envelope{Success: true, Data: data, Message: message})
}

// Fail writes the envelope for a tagged error. Used by middleware and the few
// places (auth, rate limit) that must respond before the error chain runs.
func Fail(c *gin.Context, err *apperr.Error) {
	c.JSON(err.Status, Envelope{
		Success: false,
		Error:   &ErrorBody{Message: err.Message, Code: err.Code},
	})
}
