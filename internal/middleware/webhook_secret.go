package middleware

import (
	"crypto/subtle"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	apperrors "pocketbook/internal/errors"
)

// WebhookSecretHeader may carry the shared secret instead of the JSON body.
const WebhookSecretHeader = "X-Webhook-Secret"

type secretBody struct {
	Secret string `json:"secret"`
}

// WebhookSecret guards internal webhook routes with a shared secret taken
// from the X-Webhook-Secret header or the "secret" field of the JSON body.
// The body is cached so handlers can bind it again with ShouldBindBodyWith.
func WebhookSecret(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" {
			abortWithAppError(c, apperrors.ErrWebhookNotConfigured)
			return
		}

		provided := c.GetHeader(WebhookSecretHeader)
		if provided == "" {
			var body secretBody
			_ = c.ShouldBindBodyWith(&body, binding.JSON)
			provided = body.Secret
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(secret)) != 1 {
			abortWithAppError(c, apperrors.ErrInvalidWebhookSecret)
			return
		}
		c.Next()
	}
}
