package handlers

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
)

// HandleHealth reports whether the document store is reachable.
// GET /health
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	if err := h.store.Ping(c.UserContext()); err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"success": false, "message": "Database ping failed: " + err.Error()})
	}
	return c.JSON(fiber.Map{"success": true, "message": "ok"})
}

// HandleVersion prints the binary's build information.
// GET /version
func HandleVersion(c *fiber.Ctx) error {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return c.Status(500).SendString("no build information available")
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTML)
	return c.SendString("<pre>\n" + info.String() + "</pre>\n")
}
