package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/communipay/communipay/internal/wallet"
)

// RegisterWalletRoutes wires wallet-related endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallets", h.Create)
	r.Get("/wallets", h.List)
	r.Put("/wallets/:walletId/share", h.Share)
}
