package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"micro-casino-engine/internal/models"
	"micro-casino-engine/internal/services"
)

// AuthHandler issues tokens for development and testing. Production
// deployments sit behind a real identity provider.
type AuthHandler struct {
	jwtService *services.JWTService
	ledger     *services.Ledger
}

func NewAuthHandler(jwtService *services.JWTService, ledger *services.Ledger) *AuthHandler {
	return &AuthHandler{jwtService: jwtService, ledger: ledger}
}

func (h *AuthHandler) IssueToken(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, err := h.ledger.Register(c.Request.Context(), req.UserID, req.Username)
	if err != nil {
		respondError(c, "Failed to register user", err)
		return
	}

	token, sessionID, err := h.jwtService.GenerateToken(user.ID, user.Username)
	if err != nil {
		respondError(c, "Failed to issue token", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      token,
		"session_id": sessionID,
		"user": gin.H{
			"id":       user.ID,
			"username": user.Username,
			"balance":  user.Balance,
		},
	})
}
