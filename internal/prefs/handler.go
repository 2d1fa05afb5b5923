package prefs

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes display preference endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a preferences handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Get returns the caller's preferences.
func (h *Handler) Get(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	prefs, err := h.service.Get(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{
		"color_theme": prefs.ColorTheme,
		"ui_mode":     prefs.UIMode,
		"themes":      Themes(),
	})
}

type updateRequest struct {
	ColorTheme string `json:"color_theme"`
	UIMode     string `json:"ui_mode"`
}

// Update stores the fields present in the request body.
func (h *Handler) Update(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	if req.ColorTheme != "" {
		if err := h.service.SetColorTheme(c.UserContext(), uid, req.ColorTheme); err != nil {
			if errors.Is(err, ErrUnknownTheme) {
				return fiber.NewError(http.StatusBadRequest, "unknown color theme")
			}
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	if req.UIMode != "" {
		if err := h.service.SetUIMode(c.UserContext(), uid, req.UIMode); err != nil {
			if errors.Is(err, ErrUnknownMode) {
				return fiber.NewError(http.StatusBadRequest, "unknown ui mode")
			}
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	prefs, err := h.service.Get(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"color_theme": prefs.ColorTheme, "ui_mode": prefs.UIMode})
}
