package routes

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/identity"
	"github.com/naya-pay/naya_pay/internal/kyc"
	"github.com/naya-pay/naya_pay/internal/ledger"
	"github.com/naya-pay/naya_pay/internal/payments"
	"github.com/naya-pay/naya_pay/internal/wallet"
)

type adminDeps struct {
	ledger   ledger.Ledger
	wallets  *wallet.Service
	users    identity.Repository
	payments payments.Repository
	kyc      *kyc.Service
	kycH     *kyc.Handler
}

// RegisterAdminRoutes wires admin-only endpoints. The caller applies the
// role guard on the router group.
func RegisterAdminRoutes(r fiber.Router, d adminDeps) {
	r.Get("/stats", func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		userCount, err := d.users.Count(ctx)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
		paymentCount, err := d.payments.Count(ctx)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
		pendingKYC, err := d.kyc.PendingCount(ctx)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
		// The treasury runs negative by the net value issued to wallets.
		treasury, err := d.ledger.Balance(ctx, ledger.TreasuryAccountCode)
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(fiber.Map{
			"users":         userCount,
			"payments":      paymentCount,
			"pending_kyc":   pendingKYC,
			"issued_volume": wallet.FormatAmount(-treasury),
		})
	})

	r.Get("/users", func(c *fiber.Ctx) error {
		query := c.Query("q")
		users, err := d.users.Search(c.UserContext(), query, c.QueryInt("limit", 50))
		if err != nil {
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
		items := make([]fiber.Map, 0, len(users))
		for _, u := range users {
			items = append(items, fiber.Map{
				"user_id":    u.ID,
				"name":       u.Name,
				"email":      u.Email,
				"role":       u.Role,
				"kyc_status": u.KYCStatus,
				"created_at": u.CreatedAt,
			})
		}
		return c.JSON(fiber.Map{"users": items})
	})

	r.Post("/wallets/:id/balance", func(c *fiber.Ctx) error {
		var req struct {
			Balance string `json:"balance"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		// Zero is a legal target even though it is not a legal amount.
		target, err := wallet.ParseBalance(req.Balance)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid balance")
		}
		bal, err := d.wallets.SetBalance(c.UserContext(), c.Params("id"), target)
		if err != nil {
			if errors.Is(err, wallet.ErrNotFound) {
				return fiber.NewError(http.StatusNotFound, "wallet not found")
			}
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		return c.JSON(fiber.Map{
			"wallet_id":     bal.WalletID,
			"balance":       wallet.FormatAmount(bal.Amount),
			"balance_minor": bal.Amount,
		})
	})

	kycGroup := r.Group("/kyc")
	kycGroup.Get("/pending", d.kycH.Pending)
	kycGroup.Post("/:id/approve", d.kycH.Approve)
	kycGroup.Post("/:id/reject", d.kycH.Reject)
}
