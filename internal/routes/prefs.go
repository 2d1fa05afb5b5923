package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/prefs"
)

// RegisterPrefsRoutes wires display preference endpoints.
func RegisterPrefsRoutes(r fiber.Router, h *prefs.Handler) {
	group := r.Group("/prefs")
	group.Get("/", h.Get)
	group.Put("/", h.Update)
}
