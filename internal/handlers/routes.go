package handlers

import (
	"github.com/gin-gonic/gin"

	"micro-casino-engine/internal/middleware"
	"micro-casino-engine/internal/services"
)

// RegisterRoutes mounts the authenticated API under /api.
func RegisterRoutes(router gin.IRouter, jwtService *services.JWTService, limiter services.RateLimiter, gameHandler *GameHandler, userHandler *UserHandler, wsHandler *WebSocketHandler) {
	protected := router.Group("/api")
	protected.Use(middleware.AuthMiddleware(jwtService))
	protected.Use(middleware.RateLimitMiddleware(limiter))
	{
		protected.GET("/me", userHandler.GetCurrentUser)
		protected.GET("/balance", userHandler.GetBalance)
		protected.GET("/history", userHandler.GetGameHistory)
		protected.GET("/transactions", userHandler.GetTransactions)
		protected.GET("/leaderboard", gameHandler.Leaderboard)

		if wsHandler != nil {
			protected.GET("/ws", wsHandler.HandleWebSocket)
		}

		games := protected.Group("/games")
		{
			games.POST("/slots/spin", gameHandler.SpinSlots)
			games.POST("/roulette/spin", gameHandler.SpinRoulette)
			games.POST("/dice/roll", gameHandler.RollDice)

			blackjack := games.Group("/blackjack")
			{
				blackjack.POST("/start", gameHandler.StartBlackjack)
				blackjack.POST("/action", gameHandler.BlackjackAction)
				blackjack.GET("/:id", gameHandler.GetBlackjackRound)
			}

			crash := games.Group("/crash")
			{
				crash.GET("/current", gameHandler.CurrentCrashRound)
				crash.POST("/bet", gameHandler.PlaceCrashBet)
				crash.POST("/cashout", gameHandler.CashoutCrash)
			}

			lottery := games.Group("/lottery")
			{
				lottery.GET("/current", gameHandler.CurrentLotteryDraw)
				lottery.POST("/tickets", gameHandler.BuyLotteryTicket)
				lottery.GET("/tickets", gameHandler.LotteryTickets)
			}
		}

		sports := protected.Group("/sports")
		{
			sports.GET("/events", gameHandler.SportEvents)
			sports.POST("/bets", gameHandler.PlaceSportsBet)
			sports.GET("/bets", gameHandler.SportBets)
		}
	}
}
