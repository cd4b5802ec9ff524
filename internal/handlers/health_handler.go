package handlers

import (
	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/ats-api/internal/models"
)

// HandlePing handles GET /ping. It must stay independent of the LLM.
func HandlePing(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(models.PingResponse{
		Message: "pong",
		Status:  "API is live ✅",
	})
}

// HandleRoot handles GET /
func HandleRoot(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "ATS API running 🚀...",
	})
}
