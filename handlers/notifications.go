package handlers

import (
	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"forkful/apperr"
	"forkful/response"
	"forkful/services"
	"forkful/validation"
)

type NotificationHandler struct {
	Notifs   *services.NotificationService
	MaxLimit int64
}

func (h *NotificationHandler) List(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}

	page := services.NormalizePage(queryInt64(c, "page", 1), queryInt64(c, "limit", 20), h.MaxLimit)
	unreadOnly := c.Query("unread") == "true"

	notifs, total, err := h.Notifs.List(c.Request.Context(), userID, unreadOnly, page)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"notifications": notifs, "pagination": page.Meta(total)}, "")
}

func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}

	count, err := h.Notifs.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"count": count}, "")
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	notifID, err := paramID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	if err := h.Notifs.MarkRead(c.Request.Context(), userID, notifID); err != nil {
		abort(c, err)
		return
	}
	response.OK(c, nil, "notification marked read")
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}

	updated, err := h.Notifs.MarkAllRead(c.Request.Context(), userID)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"updated": updated}, "all notifications marked read")
}

func (h *NotificationHandler) Delete(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}
	notifID, err := paramID(c, "id")
	if err != nil {
		abort(c, err)
		return
	}

	if err := h.Notifs.Delete(c.Request.Context(), userID, notifID); err != nil {
		abort(c, err)
		return
	}
	response.OK(c, nil, "notification deleted")
}

func (h *NotificationHandler) DeleteRead(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}

	deleted, err := h.Notifs.DeleteRead(c.Request.Context(), userID)
	if err != nil {
		abort(c, err)
		return
	}
	response.OK(c, gin.H{"deleted": deleted}, "read notifications deleted")
}

type SubscribeRequest struct {
	Endpoint string `json:"endpoint" binding:"required,url"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys" binding:"required"`
}

func (h *NotificationHandler) Subscribe(c *gin.Context) {
	userID, err := authedUserID(c)
	if err != nil {
		abort(c, err)
		return
	}

	var req SubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, apperr.Validation(validation.Message(err)))
		return
	}

	sub := webpush.Subscription{
		Endpoint: req.Endpoint,
		Keys:     webpush.Keys{P256dh: req.Keys.P256dh, Auth: req.Keys.Auth},
	}
	if err := h.Notifs.Subscribe(c.Request.Context(), userID, sub); err != nil {
		abort(c, err)
		return
	}
	response.Created(c, nil, "push subscription stored")
}

func (h *NotificationHandler) VapidKey(c *gin.Context) {
	if h.Notifs.WebPush.PublicKey == "" {
		abort(c, apperr.NotFound("web push is not configured"))
		return
	}
	response.OK(c, gin.H{"publicKey": h.Notifs.WebPush.PublicKey}, "")
}
