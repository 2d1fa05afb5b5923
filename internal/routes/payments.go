package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/payments"
)

// RegisterPaymentRoutes wires P2P payment endpoints.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler) {
	group := r.Group("/payments")
	group.Post("/send", h.Send)
	group.Post("/request", h.Request)
	group.Post("/:id/settle", h.Settle)
	group.Post("/:id/decline", h.Decline)
	group.Get("/history", h.History)
	group.Get("/:id", h.Status)
}
