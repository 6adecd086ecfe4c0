package payments

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"github.com/communipay/communipay/internal/apperr"
	"github.com/communipay/communipay/internal/ledger"
	"github.com/communipay/communipay/internal/money"
)

// Handler exposes payment endpoints.
type Handler struct {
	engine *Engine
	ledger ledger.Ledger
}

// NewHandler constructs a payment handler.
func NewHandler(engine *Engine, l ledger.Ledger) *Handler {
	return &Handler{engine: engine, ledger: l}
}

type createPaymentRequest struct {
	SenderWalletID   string          `json:"sender_wallet_id"`
	ReceiverWalletID string          `json:"receiver_wallet_id"`
	Amount           decimal.Decimal `json:"amount"`
	ReceiverUserID   string          `json:"receiver_user_id"`
	Description      string          `json:"description"`
	CommunityID      *string         `json:"community_id"`
	TransactionID    string          `json:"transaction_id"`
}

type transactionResponse struct {
	ID               string    `json:"id"`
	Amount           string    `json:"amount"`
	Description      string    `json:"description,omitempty"`
	SenderID         *string   `json:"sender_id,omitempty"`
	SenderWalletID   *string   `json:"sender_wallet_id,omitempty"`
	ReceiverID       string    `json:"receiver_id"`
	ReceiverWalletID string    `json:"receiver_wallet_id"`
	CommunityID      *string   `json:"community_id,omitempty"`
	Type             string    `json:"type"`
	Subtype          string    `json:"subtype"`
	Status           string    `json:"status"`
	CreatedAt        time.Time `json:"created_at"`
}

type senderWalletResponse struct {
	ID          string  `json:"id"`
	OwnerID     string  `json:"owner_id"`
	Token       string  `json:"token"`
	Balance     string  `json:"balance"`
	CommunityID *string `json:"community_id,omitempty"`
	IsShared    bool    `json:"is_shared"`
}

// Create executes a wallet-to-wallet transfer for the authenticated caller.
func (h *Handler) Create(c *fiber.Ctx) error {
	var req createPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	uid, _ := c.Locals("user_id").(string)

	res, err := h.engine.CreatePayment(c.UserContext(), CreatePaymentInput{
		ActingUserID:     uid,
		SenderWalletID:   req.SenderWalletID,
		ReceiverWalletID: req.ReceiverWalletID,
		Amount:           money.ToMinor(req.Amount),
		ReceiverUserID:   req.ReceiverUserID,
		Description:      req.Description,
		CommunityID:      req.CommunityID,
		TransactionID:    req.TransactionID,
	})
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"transaction": toTransactionResponse(res.Transaction),
		"wallet": senderWalletResponse{
			ID:          res.SenderWallet.ID,
			OwnerID:     res.SenderWallet.OwnerID,
			Token:       res.SenderWallet.Token,
			Balance:     money.Format(res.SenderWallet.Balance),
			CommunityID: res.SenderWallet.CommunityID,
			IsShared:    res.SenderWallet.IsShared,
		},
	})
}

// ListByWallet pages transactions touching a wallet.
func (h *Handler) ListByWallet(c *fiber.Ctx) error {
	walletID := c.Params("walletId")
	limit := c.QueryInt("limit", 50)
	offset := c.QueryInt("offset", 0)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	txns, err := h.ledger.ListByWallet(c.UserContext(), walletID, limit, offset)
	if err != nil {
		return apperr.Respond(c, err)
	}

	out := make([]transactionResponse, 0, len(txns))
	for _, txn := range txns {
		out = append(out, toTransactionResponse(txn))
	}
	return c.Status(http.StatusOK).JSON(fiber.Map{
		"transactions": out,
		"limit":        limit,
		"offset":       offset,
	})
}

func toTransactionResponse(t ledger.Transaction) transactionResponse {
	return transactionResponse{
		ID:               t.ID,
		Amount:           money.Format(t.Amount),
		Description:      t.Description,
		SenderID:         t.SenderID,
		SenderWalletID:   t.SenderWalletID,
		ReceiverID:       t.ReceiverID,
		ReceiverWalletID: t.ReceiverWalletID,
		CommunityID:      t.CommunityID,
		Type:             string(t.Type),
		Subtype:          string(t.Subtype),
		Status:           string(t.Status),
		CreatedAt:        t.CreatedAt,
	}
}
