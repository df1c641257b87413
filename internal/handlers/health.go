package handlers

import (
	"github.com/gofiber/fiber/v2"
)

const serviceName = "wildebeast-llm-api"

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

// Health handles GET /health
//
// The payload is fixed and the check performs no dependency probes, so load
// balancers can tell "process is up" apart from "downstream is reachable".
func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": serviceName,
	})
}

// Root handles GET /
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "Wildebeast LLM API",
		"version": "1.0.0",
		"status":  "operational",
		"endpoints": fiber.Map{
			"health":   "/health",
			"forecast": "/api/v1/forecast",
			"history":  "/api/v1/history",
			"docs":     "/docs",
			"openapi":  "/openapi.json",
		},
	})
}
