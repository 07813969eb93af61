package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"boardsync/internal/core/domain"
	"boardsync/internal/core/ports"
	"boardsync/internal/infrastructure/middleware"
	"boardsync/pkg/validation"

	"github.com/gin-gonic/gin"
)

type BoardHandler struct {
	boardService ports.BoardService
	access       ports.AccessService
	identity     ports.IdentityService
}

func NewBoardHandler(boardService ports.BoardService, access ports.AccessService, identity ports.IdentityService) *BoardHandler {
	return &BoardHandler{
		boardService: boardService,
		access:       access,
		identity:     identity,
	}
}

func (h *BoardHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/whiteboards")
	api.Use(middleware.AuthMiddleware(h.identity))
	{
		api.POST("", h.CreateBoard)
		api.GET("", h.ListBoards)
		api.GET("/:id", h.GetBoard)
		api.PUT("/:id", h.UpdateBoard)
		api.DELETE("/:id", h.DeleteBoard)
		api.GET("/:id/collaborators", h.ListCollaborators)
		api.POST("/:id/collaborators", h.InviteCollaborator)
		api.GET("/:id/access", h.GetAccess)
	}
}

type CreateBoardRequest struct {
	Title   string          `json:"title" binding:"required,max=200"`
	Content json.RawMessage `json:"content"`
}

type UpdateBoardRequest struct {
	Title   *string         `json:"title" binding:"omitempty,max=200"`
	Content json.RawMessage `json:"content"`
}

type InviteCollaboratorRequest struct {
	Username    string `json:"username" binding:"required,max=50"`
	AccessLevel string `json:"accessLevel" binding:"omitempty,oneof=read write admin"`
}

func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req CreateBoardRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Title = strings.TrimSpace(req.Title)
	if err := validation.ValidateTitle(req.Title); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), userID, req.Title, req.Content)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"whiteboard": board})
}

func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	boards, err := h.boardService.ListBoards(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"whiteboards": boards})
}

func (h *BoardHandler) GetBoard(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	board, err := h.boardService.GetBoard(c.Request.Context(), userID, domain.BoardID(c.Param("id")))
	if err != nil {
		if errors.Is(err, domain.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "whiteboard not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"whiteboard": board})
}

func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req UpdateBoardRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Title != nil {
		trimmed := strings.TrimSpace(*req.Title)
		if err := validation.ValidateTitle(trimmed); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Title = &trimmed
	}

	board, err := h.boardService.UpdateBoard(c.Request.Context(), userID, domain.BoardID(c.Param("id")), req.Title, req.Content)
	if err != nil {
		if errors.Is(err, domain.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "whiteboard not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"whiteboard": board})
}

func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	err := h.boardService.DeleteBoard(c.Request.Context(), userID, domain.BoardID(c.Param("id")))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "whiteboard not found"})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "only the owner can delete a whiteboard"})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

func (h *BoardHandler) ListCollaborators(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	collabs, err := h.boardService.ListCollaborators(c.Request.Context(), userID, domain.BoardID(c.Param("id")))
	if err != nil {
		if errors.Is(err, domain.ErrBoardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "whiteboard not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"collaborators": collabs})
}

// GetAccess reports the caller's resolved tier on a whiteboard. Clients use
// it to pick read-only vs editable canvas mode before connecting.
func (h *BoardHandler) GetAccess(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	tier := h.access.ResolveAccess(c.Request.Context(), userID, domain.BoardID(c.Param("id")))
	c.JSON(http.StatusOK, gin.H{"accessLevel": tier})
}

func (h *BoardHandler) InviteCollaborator(c *gin.Context) {
	userID, ok := middleware.UserFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
		return
	}

	var req InviteCollaboratorRequest
	if err := c.BindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	if err := validation.ValidateUsername(req.Username); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	invitation, err := h.boardService.InviteCollaborator(
		c.Request.Context(),
		userID,
		domain.BoardID(c.Param("id")),
		domain.UserID(req.Username),
		domain.AccessLevel(req.AccessLevel),
	)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrBoardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "whiteboard not found"})
		case errors.Is(err, domain.ErrForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "only the owner can invite collaborators"})
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{"invitation": invitation})
}
