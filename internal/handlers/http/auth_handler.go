package http

import (
	"net/http"
	"strings"
	"time"

	"boardsync/pkg/errors"
	"boardsync/pkg/validation"

	"github.com/gin-gonic/gin"
)

// TokenIssuer mints local dev tokens. Deployments with an external
// identity provider never call this endpoint; clients bring their own
// tokens.
type TokenIssuer interface {
	IssueToken(username, email string) (string, error)
}

type AuthHandler struct {
	issuer         TokenIssuer
	accessTokenTTL time.Duration
}

func NewAuthHandler(issuer TokenIssuer, accessTokenTTL time.Duration) *AuthHandler {
	return &AuthHandler{
		issuer:         issuer,
		accessTokenTTL: accessTokenTTL,
	}
}

func (h *AuthHandler) SetupRoutes(router *gin.Engine) {
	api := router.Group("/api/v1/auth")
	{
		api.POST("/token", h.IssueToken)
	}
}

type TokenRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Email    string `json:"email" binding:"omitempty,email,max=254"`
}

func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.BindJSON(&req); err != nil {
		c.Error(errors.NewInvalidInputError("invalid request format"))
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	if err := validation.ValidateUsername(req.Username); err != nil {
		c.Error(errors.NewInvalidInputError(err.Error()))
		return
	}
	if req.Email != "" {
		if err := validation.ValidateEmail(req.Email); err != nil {
			c.Error(errors.NewInvalidInputError(err.Error()))
			return
		}
	}

	token, err := h.issuer.IssueToken(req.Username, req.Email)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token": token,
		"token_type":   "Bearer",
		"expires_in":   int(h.accessTokenTTL / time.Second),
	})
}
