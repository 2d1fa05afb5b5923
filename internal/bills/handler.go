package bills

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/ledger"
	"github.com/naya-pay/naya_pay/internal/wallet"
)

// Handler exposes bill payment endpoints.
type Handler struct {
	service *Service
	wallets *wallet.Service
}

// NewHandler constructs a bills handler.
func NewHandler(service *Service, wallets *wallet.Service) *Handler {
	return &Handler{service: service, wallets: wallets}
}

// Categories lists the supported biller categories.
func (h *Handler) Categories(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"categories": Categories()})
}

type payRequest struct {
	Category   string `json:"category"`
	AccountRef string `json:"account_ref"`
	Amount     string `json:"amount"`
	ClientTxID string `json:"client_tx_id"`
}

// Pay settles a bill from the caller's wallet.
func (h *Handler) Pay(c *fiber.Ctx) error {
	var req payRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := wallet.ParseAmount(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}

	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	w, err := h.wallets.GetByOwner(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	}

	receipt, err := h.service.Pay(c.UserContext(), PayInput{
		WalletID:   w.ID,
		UserID:     uid,
		Category:   req.Category,
		AccountRef: req.AccountRef,
		Amount:     amount,
		ClientTxID: req.ClientTxID,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrUnknownCategory):
			return fiber.NewError(http.StatusBadRequest, "unknown biller category")
		case errors.Is(err, ledger.ErrInsufficientFunds):
			return fiber.NewError(http.StatusBadRequest, "insufficient funds")
		case errors.Is(err, ledger.ErrDuplicateTransaction):
			return fiber.NewError(http.StatusConflict, "duplicate transaction")
		case errors.Is(err, ErrNotOwner):
			return fiber.NewError(http.StatusForbidden, "not your wallet")
		default:
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transaction_id": receipt.TransactionID,
		"category":       receipt.Category,
		"account_ref":    receipt.AccountRef,
		"amount":         wallet.FormatAmount(receipt.Amount),
		"amount_minor":   receipt.Amount,
		"balance_minor":  receipt.NewBalance,
	})
}
