package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forkful/apperr"
	"forkful/middleware"
)

// abort pushes an error onto the gin chain for the terminal error middleware.
func abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

// authedUserID returns the caller's id. Routes behind RequireAuth always have
// one; a malformed id in the token surfaces as 401.
func authedUserID(c *gin.Context) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.GetString(middleware.CtxUserID))
	if err != nil {
		return primitive.NilObjectID, apperr.Unauthenticated("invalid user id in token")
	}
	return id, nil
}

// requesterID returns the caller's id or nil for anonymous requests, for
// optional-auth routes.
func requesterID(c *gin.Context) *primitive.ObjectID {
	hex := c.GetString(middleware.CtxUserID)
	if hex == "" {
		return nil
	}
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return nil
	}
	return &id
}

func isAdmin(c *gin.Context) bool {
	return c.GetString(middleware.CtxRole) == "admin"
}

// paramID parses a path parameter as an ObjectID.
func paramID(c *gin.Context, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		return primitive.NilObjectID, apperr.Validation(name + " must be a valid id")
	}
	return id, nil
}

func queryInt64(c *gin.Context, name string, def int64) int64 {
	v := c.Query(name)
	if v == "" {
		return def
	}
	i, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return i
}

func queryInt(c *gin.Context, name string, def int) int {
	return int(queryInt64(c, name, int64(def)))
}

func queryFloatPtr(c *gin.Context, name string) *float64 {
	v := c.Query(name)
	if v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil
	}
	return &f
}
