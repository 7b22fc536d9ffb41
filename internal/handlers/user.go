package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"micro-casino-engine/internal/models"
	"micro-casino-engine/internal/services"
)

type UserHandler struct {
	gameEngine *services.GameEngine
}

func NewUserHandler(gameEngine *services.GameEngine) *UserHandler {
	return &UserHandler{gameEngine: gameEngine}
}

func (h *UserHandler) GetCurrentUser(c *gin.Context) {
	userID := c.GetInt64("user_id")

	stats, err := h.gameEngine.UserStats(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to load user", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": stats,
		"session": gin.H{
			"session_id": c.GetString("session_id"),
		},
	})
}

func (h *UserHandler) GetBalance(c *gin.Context) {
	userID := c.GetInt64("user_id")

	user, err := h.gameEngine.Ledger().GetOrCreate(c.Request.Context(), userID)
	if err != nil {
		respondError(c, "Failed to get balance", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"balance": models.NewBalanceResponse(user),
	})
}

func (h *UserHandler) GetGameHistory(c *gin.Context) {
	userID := c.GetInt64("user_id")

	records, err := h.gameEngine.Ledger().History(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		respondError(c, "Failed to get game history", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"games":   records,
		"count":   len(records),
	})
}

func (h *UserHandler) GetTransactions(c *gin.Context) {
	userID := c.GetInt64("user_id")

	txs, err := h.gameEngine.Ledger().Transactions(c.Request.Context(), userID, queryLimit(c))
	if err != nil {
		respondError(c, "Failed to get transactions", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"transactions": txs,
		"count":        len(txs),
	})
}

func queryLimit(c *gin.Context) int64 {
	limit, err := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	if err != nil || limit <= 0 || limit > 100 {
		limit = 50
	}
	return limit
}
