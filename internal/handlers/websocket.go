package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"micro-casino-engine/internal/models"
	"micro-casino-engine/internal/services"
)

const writeWait = 5 * time.Second

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Client struct {
	UserID int64
	Conn   *websocket.Conn
}

type Message struct {
	Type   string      `json:"type"`
	UserID int64       `json:"user_id,omitempty"`
	GameID string      `json:"game_id,omitempty"`
	Data   interface{} `json:"data,omitempty"`
}

// WebSocketHub owns every connection. All writes happen on the hub
// goroutine, so a connection never has two concurrent writers.
type WebSocketHub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message

	// done is closed when Run returns; nothing reads the channels after that.
	done   chan struct{}
	logger *zap.Logger
}

var _ services.Broadcaster = (*WebSocketHub)(nil)

func NewWebSocketHub(logger *zap.Logger) *WebSocketHub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketHub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 256),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

func (hub *WebSocketHub) Run(ctx context.Context) error {
	defer close(hub.done)

	for {
		select {
		case client := <-hub.register:
			hub.clients[client] = struct{}{}
			hub.logger.Debug("client registered", zap.Int64("user_id", client.UserID))

		case client := <-hub.unregister:
			if _, ok := hub.clients[client]; ok {
				delete(hub.clients, client)
				hub.logger.Debug("client unregistered", zap.Int64("user_id", client.UserID))
			}

		case message := <-hub.broadcast:
			hub.broadcastMessage(message)

		case <-ctx.Done():
			for client := range hub.clients {
				client.Conn.Close()
			}
			return nil
		}
	}
}

func (hub *WebSocketHub) broadcastMessage(message *Message) {
	for client := range hub.clients {
		if message.UserID != 0 && client.UserID != message.UserID {
			continue
		}
		client.Conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := client.Conn.WriteJSON(message); err != nil {
			hub.logger.Debug("dropping client after write error", zap.Int64("user_id", client.UserID), zap.Error(err))
			client.Conn.Close()
			delete(hub.clients, client)
		}
	}
}

// attach reports false once the hub has stopped.
func (hub *WebSocketHub) attach(client *Client) bool {
	select {
	case hub.register <- client:
		return true
	case <-hub.done:
		return false
	}
}

func (hub *WebSocketHub) detach(client *Client) {
	select {
	case hub.unregister <- client:
	case <-hub.done:
	}
}

// publish never blocks the caller; a full queue drops the message.
func (hub *WebSocketHub) publish(msg *Message) {
	select {
	case hub.broadcast <- msg:
	default:
		hub.logger.Warn("broadcast queue full, dropping message", zap.String("type", msg.Type))
	}
}

func (hub *WebSocketHub) BroadcastRoundStart(round models.CrashRound) {
	hub.publish(&Message{
		Type:   "CRASH_ROUND_START",
		GameID: round.ID,
		Data: gin.H{
			"round_id":        round.ID,
			"betting_ends_at": round.BettingEndsAt,
		},
	})
}

func (hub *WebSocketHub) BroadcastGameUpdate(gameID string, multiplier decimal.Decimal) {
	hub.publish(&Message{
		Type:   "GAME_UPDATE",
		GameID: gameID,
		Data: gin.H{
			"game_id":    gameID,
			"multiplier": multiplier,
			"timestamp":  time.Now().Unix(),
		},
	})
}

func (hub *WebSocketHub) BroadcastCashout(bet models.CrashBet) {
	hub.publish(&Message{
		Type:   "CRASH_CASHOUT",
		GameID: bet.RoundID,
		Data: gin.H{
			"user_id":    bet.UserID,
			"multiplier": bet.CashedOutAt,
			"win_amount": bet.WinAmount,
		},
	})
}

func (hub *WebSocketHub) BroadcastGameCrash(gameID string, crashPoint decimal.Decimal) {
	hub.publish(&Message{
		Type:   "GAME_CRASH",
		GameID: gameID,
		Data: gin.H{
			"game_id":     gameID,
			"crash_point": crashPoint,
			"timestamp":   time.Now().Unix(),
		},
	})
}

type WebSocketHandler struct {
	ledger *services.Ledger
	hub    *WebSocketHub
	logger *zap.Logger
}

func NewWebSocketHandler(ledger *services.Ledger, hub *WebSocketHub, logger *zap.Logger) *WebSocketHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebSocketHandler{
		ledger: ledger,
		hub:    hub,
		logger: logger,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetInt64("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("failed to upgrade to websocket", zap.Error(err))
		return
	}

	client := &Client{
		UserID: userID,
		Conn:   conn,
	}

	if !h.hub.attach(client) {
		conn.Close()
		return
	}

	defer func() {
		h.hub.detach(client)
		conn.Close()
	}()

	h.sendBalance(c.Request.Context(), client)

	for {
		var msg Message
		err := conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Debug("websocket read error", zap.Int64("user_id", userID), zap.Error(err))
			}
			break
		}

		h.handleMessage(c.Request.Context(), client, &msg)
	}
}

func (h *WebSocketHandler) handleMessage(ctx context.Context, client *Client, msg *Message) {
	switch msg.Type {
	case "PING":
		h.hub.publish(&Message{
			Type:   "PONG",
			UserID: client.UserID,
			Data: gin.H{
				"timestamp": time.Now().Unix(),
			},
		})
	case "BALANCE":
		h.sendBalance(ctx, client)
	}
}

func (h *WebSocketHandler) sendBalance(ctx context.Context, client *Client) {
	user, err := h.ledger.GetOrCreate(ctx, client.UserID)
	if err != nil {
		h.logger.Warn("failed to load balance for websocket", zap.Int64("user_id", client.UserID), zap.Error(err))
		return
	}

	h.hub.publish(&Message{
		Type:   "BALANCE_UPDATE",
		UserID: client.UserID,
		Data:   models.NewBalanceResponse(user),
	})
}
