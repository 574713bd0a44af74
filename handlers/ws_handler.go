package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/anjiri1684/pickleball_coach/middleware"
	"github.com/anjiri1684/pickleball_coach/services"
	hub "github.com/anjiri1684/pickleball_coach/websocket"
	websocketcontrib "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"go.uber.org/zap"
)

const wsWriteWait = 10 * time.Second

// deadlineConn puts a write deadline on every push from the hub.
type deadlineConn struct {
	*websocketcontrib.Conn
}

func (c deadlineConn) WriteJSON(v interface{}) error {
	if err := c.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return c.Conn.WriteJSON(v)
}

type WSHandler struct {
	hub    *hub.Hub
	secret []byte
	logger *zap.Logger
}

func NewWSHandler(h *hub.Hub, jwtSecret string, logger *zap.Logger) *WSHandler {
	return &WSHandler{hub: h, secret: []byte(jwtSecret), logger: logger}
}

type authMessage struct {
	Type  string `json:"type"`
	Token string `json:"token"`
}

// Serve expects {"type":"auth","token":"..."} as the first frame, then keeps the socket open
// for server pushes until the client goes away.
func (h *WSHandler) Serve(c *websocketcontrib.Conn) {
	var authMsg authMessage
	if err := c.ReadJSON(&authMsg); err != nil || authMsg.Type != "auth" {
		h.logger.Debug("websocket auth failed, invalid or missing auth message", zap.Error(err))
		_ = c.WriteJSON(fiber.Map{"error": "Invalid or missing auth message"})
		c.Close()
		return
	}

	actor, err := h.authenticate(authMsg.Token)
	if err != nil {
		h.logger.Debug("websocket auth failed, invalid token", zap.Error(err))
		_ = c.WriteJSON(fiber.Map{"error": "Invalid token"})
		c.Close()
		return
	}

	if err := c.WriteJSON(fiber.Map{"type": "ready"}); err != nil {
		c.Close()
		return
	}
	client := &hub.Client{UserID: actor.UserID, Conn: deadlineConn{c}}
	h.hub.Register(client)
	defer func() {
		h.hub.Unregister(client)
		c.Close()
	}()

	for {
		if _, _, err := c.ReadMessage(); err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure) {
				h.logger.Debug("websocket closed", zap.Uint("user_id", actor.UserID))
			} else {
				h.logger.Debug("websocket read error", zap.Uint("user_id", actor.UserID), zap.Error(err))
			}
			return
		}
	}
}

func (h *WSHandler) authenticate(tokenString string) (services.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return h.secret, nil
	})
	if err != nil {
		return services.Actor{}, err
	}
	if !token.Valid {
		return services.Actor{}, errors.New("invalid token")
	}
	actor, ok := middleware.ActorFromClaims(token.Claims)
	if !ok {
		return services.Actor{}, errors.New("invalid token claims")
	}
	return actor, nil
}

// Upgrade rejects plain HTTP requests on the websocket route.
func Upgrade(c *fiber.Ctx) error {
	if !websocketcontrib.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	return c.Next()
}
