package handlers

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"forkful/apperr"
	"forkful/response"
	"forkful/services"
	"forkful/validation"
)

type CommentHandler struct {
	Comments *services.CommentService
	MaxLimit int64
}

type CreateCommentRequest struct {
	Content  string `json:"content" binding:"required,max=2000"`
	ParentID string `json:"parentId" binding:"omitempty,len=24,hexadecimal"`
}

func (h *CommentHandler) Create(c *gin.Context) {
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

	var req CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apperr.Validation(validation.Message(err)))
		return
	}

	var parentID *primitive.ObjectID
	if req.ParentID != "" {
		id, err := primitive.ObjectIDFromHex(req.ParentID)
		if err != nil {
			abort(c, apperr.Validation("parentId must be a valid id"))
			return
		}
		parentID = &id
	}

	comment, err := h.Comments.Create(c.Request.Context(), userID, postID, parentID, req.Content)
	if err != nil {
		abort(c, err)
		return
	}
	response.Created(c, comment, "comment created")
}

func (h *CommentHandler) List(c *gin.Context) {
	postID, err := paramID(c, "postId")
	if err != nil {
		abort(c, err)
		return
	}

	page := services.NormalizePage(queryInt64(c, "page", 1), queryInt64(c, "limit", 20), h.MaxLimit)
	comments, total, err := h.Comments.List(c.Request.Context(), requesterID(c), postID, page)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"comments": comments, "pagination": page.Meta(total)}, "")
}

func (h *CommentHandler) Delete(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	commentID, err := paramID(c, "commentId")
	if err != nil {
		abort(c, err)
		return
	}

	if err := h.Comments.Delete(c.Request.Context(), userID, isAdmin(c), commentID); err != nil {
		abort(c, err)
		return
	}
	response.OK(c, nil, "comment deleted")
}

func (h *CommentHandler) Like(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	commentID, err := paramID(c, "commentId")
	if err != nil {
		abort(c, err)
		return
	}

	if err := h.Comments.LikeComment(c.Request.Context(), userID, commentID); err != nil {
		abort(c, err)
		return
	}
	response.OK(c, nil, "comment liked")
}

func (h *CommentHandler) Unlike(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	commentID, err := paramID(c, "commentId")
	if err != nil {
		abort(c, err)
		return
	}

	if err := h.Comments.UnlikeComment(c.Request.Context(), userID, commentID); err != nil {
		abort(c, err)
		return
	}
	response.OK(c, nil, "comment unliked")
}
