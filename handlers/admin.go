package handlers

import (
	"github.com/gin-gonic/gin"

	"forkful/apperr"
	"forkful/response"
	"forkful/services"
	"forkful/validation"
)

type AdminHandler struct {
	Admin    *services.AdminService
	MaxLimit int64
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	filter := services.AdminUserFilter{
		Role:   c.Query("role"),
		Search: c.Query("search"),
	}
	if v := c.Query("active"); v != "" {
		active := v == "true"
		filter.Active = &active
	}

	page := services.NormalizePage(queryInt64(c, "page", 1), queryInt64(c, "limit", 20), h.MaxLimit)
	users, total, err := h.Admin.ListUsers(c.Request.Context(), filter, page)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"users": users, "pagination": page.Meta(total)}, "")
}

func (h *AdminHandler) Promote(c *gin.Context) {
	targetID, err := paramID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	user, err := h.Admin.Promote(c.Request.Context(), targetID)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, user, "user promoted to admin")
}

func (h *AdminHandler) Demote(c *gin.Context) {
	adminID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	targetID, err := paramID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}
	if targetID == adminID {
		abort(c, apperr.Conflict("admins cannot demote themselves"))
		return
	}

	user, err := h.Admin.Demote(c.Request.Context(), targetID)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, user, "user demoted")
}

type SetStatusRequest struct {
	Active *bool `json:"active" binding:"required"`
}

func (h *AdminHandler) SetStatus(c *gin.Context) {
	targetID, err := paramID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	var req SetStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apperr.Validation(validation.Message(err)))
		return
	}

	user, err := h.Admin.SetStatus(c.Request.Context(), targetID, *req.Active)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, user, "user status updated")
}
