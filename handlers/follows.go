package handlers

import (
	"github.com/gin-gonic/gin"

	"forkful/response"
	"forkful/services"
)

type FollowHandler struct {
	Follows  *services.FollowService
	MaxLimit int64
}

func (h *FollowHandler) Follow(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	targetID, err := paramID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	if err := h.Follows.Follow(c.Request.Context(), userID, targetID); err != nil {
		abort(c, err)
		return
	}
	response.OK(c, nil, "now following")
}

func (h *FollowHandler) Unfollow(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	targetID, err := paramID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	if err := h.Follows.Unfollow(c.Request.Context(), userID, targetID); err != nil {
		abort(c, err)
		return
	}
	response.OK(c, nil, "unfollowed")
}

func (h *FollowHandler) Followers(c *gin.Context) {
	targetID, err := paramID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	page := services.NormalizePage(queryInt64(c, "page", 1), queryInt64(c, "limit", 20), h.MaxLimit)
	users, total, err := h.Follows.Followers(c.Request.Context(), targetID, page)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"users": users, "pagination": page.Meta(total)}, "")
}

func (h *FollowHandler) Following(c *gin.Context) {
	targetID, err := paramID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	page := services.NormalizePage(queryInt64(c, "page", 1), queryInt64(c, "limit", 20), h.MaxLimit)
	users, total, err := h.Follows.Following(c.Request.Context(), targetID, page)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"users": users, "pagination": page.Meta(total)}, "")
}
