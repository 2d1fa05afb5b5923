package cards

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes virtual card endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a cards handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type cardResponse struct {
	ID           string `json:"id"`
	Label        string `json:"label"`
	MaskedNumber string `json:"masked_number"`
	Last4        string `json:"last4"`
	Expiry       string `json:"expiry"`
	Frozen       bool   `json:"frozen"`
	CreatedAt    string `json:"created_at"`
}

func toCardResponse(card Card) cardResponse {
	return cardResponse{
		ID:           card.ID,
		Label:        card.Label,
		MaskedNumber: card.MaskedNumber,
		Last4:        card.Last4,
		Expiry:       time.Date(card.ExpiryYear, time.Month(card.ExpiryMonth), 1, 0, 0, 0, 0, time.UTC).Format("01/06"),
		Frozen:       card.Frozen,
		CreatedAt:    card.CreatedAt.Format(time.RFC3339),
	}
}

type requestCardRequest struct {
	Label string `json:"label"`
}

// Request issues a new virtual card for the caller.
func (h *Handler) Request(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	// Body is optional; an omitted label falls back to the default.
	var req requestCardRequest
	_ = c.BodyParser(&req)

	card, err := h.service.Request(c.UserContext(), uid, req.Label)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(toCardResponse(card))
}

// List returns the caller's cards.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	cards, err := h.service.List(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	items := make([]cardResponse, 0, len(cards))
	for _, card := range cards {
		items = append(items, toCardResponse(card))
	}
	return c.JSON(fiber.Map{"cards": items})
}

type freezeRequest struct {
	Frozen bool `json:"frozen"`
}

// SetFrozen toggles the frozen state of one of the caller's cards.
func (h *Handler) SetFrozen(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	var req freezeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	card, err := h.service.SetFrozen(c.UserContext(), c.Params("id"), uid, req.Frozen)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "card not found")
		case errors.Is(err, ErrNotOwner):
			return fiber.NewError(http.StatusForbidden, "not your card")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}
	return c.JSON(toCardResponse(card))
}
