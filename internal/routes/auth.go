package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/auth"
)

// RegisterAuthRoutes wires the public authentication endpoints. Login sits
// behind the rate limiter.
func RegisterAuthRoutes(r fiber.Router, h *auth.Handler, rateLimiter fiber.Handler) {
	group := r.Group("/auth")
	if rateLimiter != nil {
		group.Post("/login", rateLimiter, h.Login)
	} else {
		group.Post("/login", h.Login)
	}
	group.Post("/register", h.Register)
	group.Post("/refresh", h.Refresh)
	group.Post("/verify-otp", h.VerifyOTP)
	group.Post("/forgot-password", h.ForgotPassword)
	group.Post("/reset-password", h.ResetPassword)
}

// RegisterSessionRoutes wires the auth endpoints that require a session.
func RegisterSessionRoutes(r fiber.Router, h *auth.Handler) {
	group := r.Group("/auth")
	group.Post("/logout", h.Logout)
	group.Get("/profile", h.Profile)
}
