package transfer

import (
	"errors"
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/nova-pay/nova_pay/internal/ledger"
	"github.com/nova-pay/nova_pay/internal/wallet"
)

// Handler exposes transfer HTTP endpoints.
type Handler struct {
	service *Service
}

// NewHandler constructs a transfer handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

type transferRequest struct {
	WalletFrom string `json:"wallet_from"`
	WalletTo   string `json:"wallet_to"`
	Amount     string `json:"amount"`
}

type entryResponse struct {
	ID          int64     `json:"id"`
	WalletID    string    `json:"wallet_id"`
	Direction   string    `json:"direction"`
	Kind        string    `json:"kind"`
	Amount      string    `json:"amount"`
	ReferenceID string    `json:"reference_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func newEntryResponses(entries []ledger.Transaction) []entryResponse {
	out := make([]entryResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, entryResponse{
			ID:          e.ID,
			WalletID:    e.WalletID,
			Direction:   string(e.Direction),
			Kind:        string(e.Kind),
			Amount:      e.Amount.StringFixed(2),
			ReferenceID: e.ReferenceID,
			CreatedAt:   e.CreatedAt,
		})
	}
	return out
}

// Create processes a wallet-to-wallet transfer.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return fiber.NewError(http.StatusBadRequest, "invalid amount")
	}

	res, err := h.service.Transfer(c.UserContext(), req.WalletFrom, req.WalletTo, amount)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount):
			return fiber.NewError(http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrInsufficientBalance):
			return fiber.NewError(http.StatusBadRequest, "insufficient balance")
		case errors.Is(err, wallet.ErrNotFound):
			return fiber.NewError(http.StatusNotFound, "wallet not found")
		default:
			return fiber.NewError(http.StatusInternalServerError, err.Error())
		}
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"reference_id": res.ReferenceID,
		"amount":       res.Amount.StringFixed(2),
		"commission":   res.Commission.StringFixed(2),
		"entries":      newEntryResponses(res.Entries),
	})
}

// Reference returns the ledger entry group of one committed transfer.
func (h *Handler) Reference(c *fiber.Ctx) error {
	entries, err := h.service.Reference(c.UserContext(), c.Params("referenceId"))
	if err != nil {
		return fiber.NewError(http.StatusInternalServerError, err.Error())
	}
	if len(entries) == 0 {
		return fiber.NewError(http.StatusNotFound, "unknown reference id")
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"entries": newEntryResponses(entries)})
}
