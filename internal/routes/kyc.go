package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/kyc"
)

// RegisterKYCRoutes wires the user-facing verification endpoints. Admin
// review endpoints live under the admin group.
func RegisterKYCRoutes(r fiber.Router, h *kyc.Handler) {
	group := r.Group("/kyc")
	group.Post("/submit", h.Submit)
	group.Get("/status", h.Status)
}
