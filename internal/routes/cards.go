package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/cards"
)

// RegisterCardRoutes wires virtual card endpoints.
func RegisterCardRoutes(r fiber.Router, h *cards.Handler) {
	group := r.Group("/cards")
	group.Get("/", h.List)
	group.Post("/", h.Request)
	group.Post("/:id/freeze", h.SetFrozen)
}
