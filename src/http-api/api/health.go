package api

import (
	"github.com/gofiber/fiber/v2"
)

// GetHealth implements the health check endpoint
func (s *APIServer) GetHealth(c *fiber.Ctx) error {
	response := HealthResponse{
		Status:  "healthy",
		Version: "1.0.0",
	}
	if !s.Timetable.ExtractedAt().IsZero() {
		response.ExtractedAt = s.Timetable.ExtractedAt().Format("2006-01-02 15:04")
	}
	return c.JSON(response)
}
