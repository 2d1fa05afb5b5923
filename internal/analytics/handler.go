package analytics

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/naya-pay/naya_pay/internal/wallet"
)

// Handler exposes spending analytics for the authenticated user.
type Handler struct {
	service *Service
	wallets *wallet.Service
}

// NewHandler constructs an analytics handler.
func NewHandler(service *Service, wallets *wallet.Service) *Handler {
	return &Handler{service: service, wallets: wallets}
}

type kindTotalResponse struct {
	Kind  string `json:"kind"`
	In    string `json:"in"`
	Out   string `json:"out"`
	Net   string `json:"net"`
	Count int    `json:"count"`
}

// Spending returns a breakdown of the caller's recent wallet activity.
func (h *Handler) Spending(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	if uid == "" {
		return fiber.NewError(http.StatusUnauthorized, "unauthorized")
	}
	w, err := h.wallets.GetByOwner(c.UserContext(), uid)
	if err != nil {
		return fiber.NewError(http.StatusNotFound, "wallet not found")
	}

	windowSize := c.QueryInt("window", 100)
	summary, err := h.service.Spending(c.UserContext(), w.ID, windowSize)
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}

	byKind := make([]kindTotalResponse, 0, len(summary.ByKind))
	for _, kt := range summary.ByKind {
		byKind = append(byKind, kindTotalResponse{
			Kind:  kt.Kind,
			In:    wallet.FormatAmount(kt.In),
			Out:   wallet.FormatAmount(kt.Out),
			Net:   wallet.FormatAmount(kt.NetMinor),
			Count: kt.Count,
		})
	}
	return c.JSON(fiber.Map{
		"wallet_id": summary.WalletID,
		"total_in":  wallet.FormatAmount(summary.TotalIn),
		"total_out": wallet.FormatAmount(summary.TotalOut),
		"net":       wallet.FormatAmount(summary.NetMinor),
		"entries":   summary.Entries,
		"window":    summary.WindowSize,
		"by_kind":   byKind,
	})
}
