package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"github.com/latestcomment/go-negotiation-game/internal/models"
	"github.com/latestcomment/go-negotiation-game/internal/services"
)

type WebSocketHandler struct {
	Service *services.RelayService
}

func NewWebSocketHandler(service *services.RelayService) *WebSocketHandler {
	return &WebSocketHandler{Service: service}
}

// WebSocketMiddleware accepts only upgrade requests with a known role.
func (h *WebSocketHandler) WebSocketMiddleware(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	role, err := models.ParseRole(c.Params("role"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	c.Locals("role", role)
	return c.Next()
}

func (h *WebSocketHandler) HandleWebSocket(c *websocket.Conn) {
	defer func() {
		_ = c.Close()
	}()

	role, _ := c.Locals("role").(models.Role)
	client := &models.Client{
		Id:      uuid.New(),
		Session: c.Params("session"),
		Role:    role,
		Conn:    c,
	}

	leave := h.Service.AddClient(client)
	defer leave()
	h.Service.LoopMessages(c, client)
}
