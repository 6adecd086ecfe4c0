package wallet

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/communipay/communipay/internal/apperr"
	"github.com/communipay/communipay/internal/money"
)

// Handler exposes wallet HTTP endpoints.
type Handler struct {
	service *Service
	sharing *SharingManager
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(service *Service, sharing *SharingManager) *Handler {
	return &Handler{service: service, sharing: sharing}
}

type createRequest struct {
	Token       string  `json:"token"`
	CommunityID *string `json:"community_id"`
}

type shareRequest struct {
	RecipientID string `json:"recipient_id"`
}

type walletResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Token       string  `json:"token"`
	Balance     string  `json:"balance"`
	CommunityID *string `json:"community_id,omitempty"`
	IsShared    bool    `json:"is_shared"`
}

// Create provisions a wallet for the authenticated owner.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	w, err := h.service.Create(c.UserContext(), CreateInput{
		OwnerID:     uid,
		Token:       req.Token,
		CommunityID: req.CommunityID,
	})
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(http.StatusCreated).JSON(toWalletResponse(w))
}

// List returns the caller's wallets, optionally including shared ones.
func (h *Handler) List(c *fiber.Ctx) error {
	uid, _ := c.Locals("user_id").(string)
	includeShared := c.QueryBool("includeShared", false)

	wallets, err := h.service.List(c.UserContext(), uid, includeShared)
	if err != nil {
		return apperr.Respond(c, err)
	}

	out := make([]walletResponse, 0, len(wallets))
	for _, w := range wallets {
		out = append(out, toWalletResponse(w))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{"wallets": out})
}

// Share grants another user access to the caller's wallet.
func (h *Handler) Share(c *fiber.Ctx) error {
	var req shareRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)
	walletID := c.Params("walletId")

	w, err := h.sharing.Share(c.UserContext(), uid, walletID, req.RecipientID)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Status(http.StatusOK).JSON(toWalletResponse(w))
}

func toWalletResponse(w Wallet) walletResponse {
	return walletResponse{
		ID:          w.ID,
		OwnerID:     w.OwnerID,
		Token:       w.Token,
		Balance:     money.Format(w.Balance),
		CommunityID: w.CommunityID,
		IsShared:    w.IsShared,
	}
}
