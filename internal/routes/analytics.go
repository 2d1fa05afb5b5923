package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/analytics"
)

// RegisterAnalyticsRoutes wires spending analytics endpoints.
func RegisterAnalyticsRoutes(r fiber.Router, h *analytics.Handler) {
	group := r.Group("/analytics")
	group.Get("/spending", h.Spending)
}
