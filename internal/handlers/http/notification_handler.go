package http

import (
	"errors"
	"net/http"
	"strconv"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"
	"boardsync/internal/infrastructure/middleware"

	"github.com/gin-gonic/gin"
)

type NotificationHandler struct {
	notificationService ports.NotificationService
	identity            ports.IdentityService
}

func NewNotificationHandler(notificationService ports.NotificationService, identity ports.IdentityService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		identity:            identity,
	}
}

func (h *NotificationHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/notifications")
	api.Use(middleware.AuthMiddleware(h.identity))
	{
		api.GET("", h.ListNotifications)
		api.PUT("/:id/read", h.MarkRead)
		api.POST("/:id/respond", h.RespondToInvitation)
	}
}

type RespondRequest struct {
	Accept bool `json:"accept"`
}

func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	notifications, err := h.notificationService.ListNotifications(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	if err := h.notificationService.MarkRead(c.Request.Context(), userID, id); err != nil {
		if errors.Is(err, domain.ErrNotificationNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "notification not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "read"})
}

func (h *NotificationHandler) RespondToInvitation(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid notification id"})
		return
	}

	var req RespondRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.notificationService.RespondToInvitation(c.Request.Context(), userID, id, req.Accept); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotificationNotFound), errors.Is(err, domain.ErrInvitationNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "invitation not found"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	status := "declined"
	if req.Accept {
		status = "accepted"
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}
