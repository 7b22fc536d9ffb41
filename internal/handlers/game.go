package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"micro-casino-engine/internal/models"
	"micro-casino-engine/internal/services"
)

type GameHandler struct {
	gameEngine *services.GameEngine
}

func NewGameHandler(gameEngine *services.GameEngine) *GameHandler {
	return &GameHandler{gameEngine: gameEngine}
}

func (h *GameHandler) SpinSlots(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.SlotSpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.gameEngine.SpinSlots(c.Request.Context(), userID, req.Amount, req.Machine)
	if err != nil {
		respondError(c, "Failed to spin", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

func (h *GameHandler) SpinRoulette(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.RouletteSpinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.gameEngine.SpinRoulette(c.Request.Context(), userID, req.Bets)
	if err != nil {
		respondError(c, "Failed to spin", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

func (h *GameHandler) RollDice(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.DiceRollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	result, err := h.gameEngine.RollDice(c.Request.Context(), userID, req.Amount, req.Target, req.Prediction)
	if err != nil {
		respondError(c, "Failed to roll", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"result":  result,
	})
}

func (h *GameHandler) StartBlackjack(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.BlackjackStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	round, err := h.gameEngine.StartBlackjack(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, "Failed to start blackjack", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   round,
	})
}

func (h *GameHandler) BlackjackAction(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.BlackjackActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	round, err := h.gameEngine.BlackjackAction(c.Request.Context(), userID, req.RoundID, req.Action)
	if err != nil {
		respondError(c, "Failed to apply action", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   round,
	})
}

func (h *GameHandler) GetBlackjackRound(c *gin.Context) {
	userID := c.GetInt64("user_id")

	round, err := h.gameEngine.GetBlackjackRound(userID, c.Param("id"))
	if err != nil {
		respondError(c, "Round not found", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   round,
	})
}

func (h *GameHandler) CurrentCrashRound(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"round":   h.gameEngine.CurrentCrashRound(),
	})
}

func (h *GameHandler) PlaceCrashBet(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.CrashBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	bet, err := h.gameEngine.PlaceCrashBet(c.Request.Context(), userID, req.Amount)
	if err != nil {
		respondError(c, "Failed to place bet", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bet":     bet,
	})
}

func (h *GameHandler) CashoutCrash(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.CrashCashoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	bet, err := h.gameEngine.CashoutCrash(c.Request.Context(), req.RoundID, userID)
	if err != nil {
		respondError(c, "Failed to cashout", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bet":     bet,
	})
}

func (h *GameHandler) CurrentLotteryDraw(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"draw":    h.gameEngine.CurrentLotteryDraw(),
	})
}

func (h *GameHandler) BuyLotteryTicket(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.LotteryTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	ticket, err := h.gameEngine.BuyLotteryTicket(c.Request.Context(), userID, req.Numbers)
	if err != nil {
		respondError(c, "Failed to buy ticket", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"ticket":  ticket,
	})
}

func (h *GameHandler) LotteryTickets(c *gin.Context) {
	userID := c.GetInt64("user_id")

	tickets := h.gameEngine.LotteryTickets(userID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"tickets": tickets,
		"count":   len(tickets),
	})
}

func (h *GameHandler) SportEvents(c *gin.Context) {
	events := h.gameEngine.SportEvents()
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"events":  events,
		"count":   len(events),
	})
}

func (h *GameHandler) PlaceSportsBet(c *gin.Context) {
	userID := c.GetInt64("user_id")

	var req models.SportBetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	bet, err := h.gameEngine.PlaceSportsBet(c.Request.Context(), userID, req.EventID, req.BetType, req.Amount)
	if err != nil {
		respondError(c, "Failed to place bet", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bet":     bet,
	})
}

func (h *GameHandler) SportBets(c *gin.Context) {
	userID := c.GetInt64("user_id")

	bets := h.gameEngine.SportBets(userID)
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"bets":    bets,
		"count":   len(bets),
	})
}

func (h *GameHandler) Leaderboard(c *gin.Context) {
	period := models.LeaderboardPeriod(c.DefaultQuery("period", string(models.PeriodWeekly)))

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil {
		limit = 10
	}

	entries, err := h.gameEngine.Leaderboard(c.Request.Context(), period, limit)
	if err != nil {
		respondError(c, "Failed to build leaderboard", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"period":      period,
		"leaderboard": entries,
	})
}
