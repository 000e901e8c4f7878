package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	apperrors "pocketbook/internal/errors"
	"pocketbook/internal/logger"
	"pocketbook/internal/services"
)

// TelegramHandler forwards messages from internal callers to the bot.
type TelegramHandler struct {
	notificationService services.NotificationServicer
}

// NewTelegramHandler creates a new TelegramHandler.
func NewTelegramHandler(notificationService services.NotificationServicer) *TelegramHandler {
	return &TelegramHandler{notificationService: notificationService}
}

// NotifyRequest is the webhook payload. Secret may instead be sent in the
// X-Webhook-Secret header.
type NotifyRequest struct {
	Message string `json:"message" binding:"required,max=4096"`
	Secret  string `json:"secret"`
}

// NotifyResponse wraps the bot API reply.
type NotifyResponse struct {
	Success bool           `json:"success"`
	Data    map[string]any `json:"data"`
}

// Notify forwards a message to the configured chat
// @Summary     Forward a Telegram message
// @Description Sends message to the configured chat with HTML parse mode. Guarded by the shared webhook secret.
// @Tags        telegram
// @Accept      json
// @Produce     json
// @Param       X-Webhook-Secret header string        false "Shared secret"
// @Param       request          body   NotifyRequest true  "Message"
// @Success     200 {object} NotifyResponse "Bot API reply"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Invalid secret"
// @Failure     502 {object} ErrorResponse "Bot API rejected the message"
// @Failure     500 {object} ErrorResponse "Bot not configured"
// @Failure     503 {object} ErrorResponse "Webhook secret not configured"
// @Router      /telegram/notify [post]
func (h *TelegramHandler) Notify(c *gin.Context) {
	var req NotifyRequest
	if err := c.ShouldBindBodyWith(&req, binding.JSON); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	data, err := h.notificationService.Forward(c.Request.Context(), req.Message)
	if err != nil {
		respondWithError(c, err)
		return
	}

	logger.Get().Infow("telegram message forwarded", "ip", c.ClientIP(), "length", len(req.Message))

	c.JSON(http.StatusOK, NotifyResponse{Success: true, Data: data})
}
