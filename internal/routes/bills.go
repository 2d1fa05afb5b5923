package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/bills"
)

// RegisterBillRoutes wires bill payment endpoints.
func RegisterBillRoutes(r fiber.Router, h *bills.Handler) {
	group := r.Group("/bills")
	group.Get("/categories", h.Categories)
	group.Post("/pay", h.Pay)
}
