package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/gofiber/websocket/v2"
)

// WebSocketUpgrade rejects requests that are not websocket upgrades or carry
// no player ID. It must run after EnsurePlayerID.
func WebSocketUpgrade() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		playerID, ok := c.Locals("playerID").(string)
		if !ok || playerID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "player ID is required",
			})
		}

		// Locals set here survive the upgrade; the connection handler reads them back.
		c.Locals("wsPlayerID", playerID)
		if gameID := c.Params("gameId"); gameID != "" {
			c.Locals("wsGameID", utils.CopyString(gameID))
		}
		log.Debugf("websocket upgrade for %s on %s", playerID, c.Path())
		return c.Next()
	}
}
