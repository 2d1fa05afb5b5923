package wallet

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/ledger"
)

// Handler exposes wallet endpoints for the authenticated user.
type Handler struct {
	service *Service
}

// NewHandler constructs a wallet HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type balanceResponse struct {
	WalletID     string `json:"wallet_id"`
	Balance      string `json:"balance"`
	BalanceMinor int64  `json:"balance_minor"`
	Currency     string `json:"currency"`
	AsOf         string `json:"as_of"`
}

func (h *Handler) ownWallet(c *fiber.Ctx) (Wallet, error) {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return Wallet{}, fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	w, err := h.service.GetByOwner(c.UserContext(), uid)
	if err != nil {
		return Wallet{}, fiber.NewError(http.StatusNotFound, "wallet not found")
	}
	return w, nil
}

// Balance returns the caller's wallet balance.
func (h *Handler) Balance(c *fiber.Ctx) error {
	w, err := h.ownWallet(c)
	if err != nil {
		return err
	}
	bal, err := h.service.Balance(c.UserContext(), w.ID)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(balanceResponse{
		WalletID:     bal.WalletID,
		Balance:      FormatAmount(bal.Amount),
		BalanceMinor: bal.Amount,
		Currency:     w.Currency,
		AsOf:         bal.AsOf.Format("2006-01-02T15:04:05.999999999Z07:00"),
	})
}

type transactionItem struct {
	TransactionID string `json:"transaction_id"`
	Kind          string `json:"kind"`
	Amount        string `json:"amount"`
	AmountMinor   int64  `json:"amount_minor"`
	Counterparty  string `json:"counterparty"`
	CreatedAt     string `json:"created_at"`
}

// Transactions lists the caller's wallet entries, paginated.
func (h *Handler) Transactions(c *fiber.Ctx) error {
	w, err := h.ownWallet(c)
	if err != nil {
		return err
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	entries, err := h.service.Transactions(c.UserContext(), w.ID, page, limit)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	items := make([]transactionItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, transactionItem{
			TransactionID: e.TransactionID,
			Kind:          e.Kind,
			Amount:        FormatAmount(e.Amount),
			AmountMinor:   e.Amount,
			Counterparty:  e.Counterparty,
			CreatedAt:     e.CreatedAt.Format("2006-01-02T15:04:05.999999999Z07:00"),
		})
	}
	return c.JSON(fiber.Map{"page": page, "limit": limit, "transactions": items})
}

type addMoneyRequest struct {
	Amount        string `json:"amount"`
	PaymentMethod string `json:"payment_method"`
	ClientTxID    string `json:"client_tx_id"`
}

// Add credits the caller's wallet via a simulated funding source.
func (h *Handler) Add(c *fiber.Ctx) error {
	w, err := h.ownWallet(c)
	if err != nil {
		return err
	}
	var req addMoneyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	amount, err := ParseAmount(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	bal, err := h.service.Credit(c.UserContext(), w.ID, amount, ledger.KindTopUp, req.ClientTxID)
	if err != nil {
		if errors.Is(err, ledger.ErrDuplicateTransaction) {
			return fiber.NewError(http.StatusConflict, "duplicate transaction")
		}
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"wallet_id":     bal.WalletID,
		"balance":       FormatAmount(bal.Amount),
		"balance_minor": bal.Amount,
	})
}
