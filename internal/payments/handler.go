package payments

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/ledger"
	"github.com/naya-pay/naya_pay/internal/wallet"
)

// Handler exposes P2P payment endpoints.
type Handler struct {
	service       *Service
	walletService *wallet.Service
}

// NewHandler constructs a payments handler.
func NewHandler(service *Service, walletService *wallet.Service) *Handler {
	return &Handler{service: service, walletService: walletService}
}

type sendRequest struct {
	ToWalletID  string `json:"to_wallet_id"`
	Amount      string `json:"amount"`
	Description string `json:"description"`
	ClientTxID  string `json:"client_tx_id"`
}

type requestMoneyRequest struct {
	FromWalletID string `json:"from_wallet_id"`
	Amount       string `json:"amount"`
	Description  string `json:"description"`
}

type paymentResponse struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	FromWalletID string `json:"from_wallet_id"`
	ToWalletID   string `json:"to_wallet_id"`
	Amount       string `json:"amount"`
	AmountMinor  int64  `json:"amount_minor"`
	Description  string `json:"description,omitempty"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

func toResponse(p Payment) paymentResponse {
	return paymentResponse{
		ID:           p.ID,
		Kind:         p.Kind,
		FromWalletID: p.FromWalletID,
		ToWalletID:   p.ToWalletID,
		Amount:       wallet.FormatAmount(p.Amount),
		AmountMinor:  p.Amount,
		Description:  p.Description,
		Status:       p.Status,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    p.UpdatedAt.Format(time.RFC3339),
	}
}

func (h *Handler) callerWallet(c *fiber.Ctx) (wallet.Wallet, error) {
	userID, _ := c.Locals("user_id").(string)
	if userID == "" {
		return wallet.Wallet{}, fiber.NewError(http.StatusUnauthorized, "missing session")
	}
	w, err := h.walletService.GetByOwner(c.UserContext(), userID)
	if err != nil {
		return wallet.Wallet{}, fiber.NewError(http.StatusNotFound, "wallet not found")
	}
	return w, nil
}

// Send moves funds from the caller's wallet to another wallet.
func (h *Handler) Send(c *fiber.Ctx) error {
	var req sendRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	amount, err := wallet.ParseAmount(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}
	from, err := h.callerWallet(c)
	if err != nil {
		return err
	}

	userID, _ := c.Locals("user_id").(string)
	payment, err := h.service.Send(c.UserContext(), SendInput{
		FromWalletID:    from.ID,
		ToWalletID:      req.ToWalletID,
		Amount:          amount,
		Description:     req.Description,
		ClientTxID:      req.ClientTxID,
		RequestorUserID: userID,
	})
	switch {
	case err == nil:
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return fiber.NewError(http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, ledger.ErrDuplicateTransaction):
		return fiber.NewError(http.StatusConflict, "duplicate transaction")
	case errors.Is(err, wallet.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, "not your wallet")
	default:
		return err
	}

	return c.Status(http.StatusCreated).JSON(toResponse(payment))
}

// Request records a money request against another wallet.
func (h *Handler) Request(c *fiber.Ctx) error {
	var req requestMoneyRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid request body")
	}
	amount, err := wallet.ParseAmount(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}
	requester, err := h.callerWallet(c)
	if err != nil {
		return err
	}

	userID, _ := c.Locals("user_id").(string)
	payment, err := h.service.Request(c.UserContext(), RequestInput{
		RequesterWalletID: requester.ID,
		PayerWalletID:     req.FromWalletID,
		Amount:            amount,
		Description:       req.Description,
		RequestorUserID:   userID,
	})
	switch {
	case err == nil:
	case errors.Is(err, wallet.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, "not your wallet")
	default:
		return err
	}

	return c.Status(http.StatusCreated).JSON(toResponse(payment))
}

// Settle fulfils a pending money request addressed to the caller.
func (h *Handler) Settle(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	payment, err := h.service.Settle(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return mapLifecycleError(err)
	}
	return c.JSON(toResponse(payment))
}

// Decline rejects a pending money request addressed to the caller.
func (h *Handler) Decline(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	payment, err := h.service.Decline(c.UserContext(), c.Params("id"), userID)
	if err != nil {
		return mapLifecycleError(err)
	}
	return c.JSON(toResponse(payment))
}

// Status returns one payment the caller participates in.
func (h *Handler) Status(c *fiber.Ctx) error {
	userID, _ := c.Locals("user_id").(string)
	payment, err := h.service.Status(c.UserContext(), c.Params("id"), userID)
	switch {
	case err == nil:
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "payment not found")
	case errors.Is(err, ErrNotParticipant):
		return fiber.NewError(http.StatusForbidden, "not your payment")
	default:
		return err
	}
	return c.JSON(toResponse(payment))
}

// History lists the caller's payments, newest first.
func (h *Handler) History(c *fiber.Ctx) error {
	w, err := h.callerWallet(c)
	if err != nil {
		return err
	}
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)

	payments, err := h.service.History(c.UserContext(), w.ID, page, limit)
	if err != nil {
		return err
	}
	items := make([]paymentResponse, 0, len(payments))
	for _, p := range payments {
		items = append(items, toResponse(p))
	}
	return c.JSON(fiber.Map{"payments": items, "page": page, "limit": limit})
}

func mapLifecycleError(err error) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "payment not found")
	case errors.Is(err, ErrNotPending):
		return fiber.NewError(http.StatusConflict, "request is not pending")
	case errors.Is(err, ErrNotOwner):
		return fiber.NewError(http.StatusForbidden, "not your payment")
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return fiber.NewError(http.StatusBadRequest, "insufficient funds")
	case errors.Is(err, wallet.ErrNotFound):
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	default:
		return err
	}
}
