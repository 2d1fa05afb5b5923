package routes

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/identity"
	"github.com/naya-pay/naya_pay/internal/payments"
	"github.com/naya-pay/naya_pay/internal/wallet"
)

// RegisterUserRoutes wires profile and contact endpoints.
func RegisterUserRoutes(r fiber.Router, ids *identity.Service, wallets *wallet.Service, paymentRepo payments.Repository) {
	group := r.Group("/users")

	group.Put("/me", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		var req struct {
			Name  string `json:"name"`
			Phone string `json:"phone"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		user, err := ids.UpdateProfile(c.UserContext(), uid, req.Name, req.Phone)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(fiber.Map{
			"user_id": user.ID,
			"name":    user.Name,
			"email":   user.Email,
			"phone":   user.Phone,
		})
	})

	group.Get("/search", func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return fiber.NewError(http.StatusBadRequest, "q is required")
		}
		users, err := ids.Search(c.UserContext(), query, c.QueryInt("limit", 20))
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
		uid, _ := c.Locals("user_id").(string)
		items := make([]fiber.Map, 0, len(users))
		for _, u := range users {
			if u.ID == uid {
				continue
			}
			item := fiber.Map{"user_id": u.ID, "name": u.Name, "email": u.Email}
			if w, err := wallets.GetByOwner(c.UserContext(), u.ID); err == nil {
				item["wallet_id"] = w.ID
			}
			items = append(items, item)
		}
		return c.JSON(fiber.Map{"users": items})
	})

	// Contacts are derived from past payment counterparties.
	group.Get("/contacts", func(c *fiber.Ctx) error {
		uid, _ := c.Locals("user_id").(string)
		w, err := wallets.GetByOwner(c.UserContext(), uid)
		if err != nil {
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		}
		walletIDs, err := paymentRepo.Counterparties(c.UserContext(), w.ID, c.QueryInt("limit", 20))
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
		contacts := make([]fiber.Map, 0, len(walletIDs))
		for _, wid := range walletIDs {
			cw, err := wallets.Get(c.UserContext(), wid)
			if err != nil {
				continue
			}
			owner, err := ids.Get(c.UserContext(), cw.OwnerID)
			if err != nil {
				continue
			}
			contacts = append(contacts, fiber.Map{
				"user_id":   owner.ID,
				"name":      owner.Name,
				"wallet_id": cw.ID,
			})
		}
		return c.JSON(fiber.Map{"contacts": contacts})
	})
}
