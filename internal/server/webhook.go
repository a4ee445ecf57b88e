package server

import (
	"crypto/subtle"

	"hayami/internal/middleware"
	"hayami/internal/telegram"

	"github.com/gofiber/fiber/v2"
)

// secretTokenHeader carries the value passed to setWebhook as secret_token.
const secretTokenHeader = "X-Telegram-Bot-Api-Secret-Token"

// HandleWebhook receives one update from Telegram and dispatches it to the
// bot. Handler failures are logged but still acknowledged with 200; a
// non-2xx answer would make Telegram redeliver the same update forever.
func (s *Server) HandleWebhook(c *fiber.Ctx) error {
	if s.config.WebhookToken != "" {
		got := c.Get(secretTokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.config.WebhookToken)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "invalid secret token",
			})
		}
	}

	var update telegram.Update
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "malformed update",
		})
	}

	if err := s.bot.HandleUpdate(c.UserContext(), &update); err != nil {
		middleware.Logger.ErrorContext(c.UserContext(), "update handling failed",
			"update_id", update.UpdateID, "error", err.Error())
	}

	return c.SendStatus(fiber.StatusOK)
}
