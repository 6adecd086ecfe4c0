package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/communipay/communipay/internal/payments"
)

// RegisterPaymentRoutes wires payment endpoints.
func RegisterPaymentRoutes(r fiber.Router, h *payments.Handler) {
	r.Post("/payments", h.Create)
	r.Get("/wallets/:walletId/transactions", h.ListByWallet)
}
