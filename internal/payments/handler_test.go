package payments

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func setupApp(f *fixture, uid string) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", uid)
		return c.Next()
	})
	h := NewHandler(f.engine, f.ledger)
	app.Post("/payments", h.Create)
	app.Get("/wallets/:walletId/transactions", h.ListByWallet)
	return app
}

func postPayment(t *testing.T, app *fiber.App, body string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(fiber.MethodPost, "/payments", strings.NewReader(body))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, payload
}

func TestHandlerCreatePayment(t *testing.T) {
	f := newFixture(t)
	alice := uuid.NewString()
	sender := f.seedWallet(t, alice, "USD", nil, 10000)
	receiver := f.seedWallet(t, uuid.NewString(), "USD", nil, 0)
	app := setupApp(f, alice)

	status, payload := postPayment(t, app, `{"sender_wallet_id":"`+sender.ID+`","receiver_wallet_id":"`+receiver.ID+`","amount":40,"description":"lunch"}`)
	require.Equal(t, fiber.StatusCreated, status)

	var body struct {
		Transaction struct {
			Amount string `json:"amount"`
			Status string `json:"status"`
		} `json:"transaction"`
		Wallet struct {
			Balance string `json:"balance"`
		} `json:"wallet"`
	}
	require.NoError(t, json.Unmarshal(payload, &body))
	require.Equal(t, "40.00", body.Transaction.Amount)
	require.Equal(t, "COMPLETED", body.Transaction.Status)
	require.Equal(t, "60.00", body.Wallet.Balance)
}

func TestHandlerCreatePaymentErrorCodes(t *testing.T) {
	f := newFixture(t)
	alice := uuid.NewString()
	sender := f.seedWallet(t, alice, "USD", nil, 1000)
	receiver := f.seedWallet(t, uuid.NewString(), "USD", nil, 0)
	app := setupApp(f, alice)

	status, payload := postPayment(t, app, `{"sender_wallet_id":"`+sender.ID+`","receiver_wallet_id":"`+receiver.ID+`","amount":"40.00"}`)
	require.Equal(t, fiber.StatusBadRequest, status)

	var body struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Context map[string]any `json:"context"`
	}
	require.NoError(t, json.Unmarshal(payload, &body))
	require.Equal(t, "InsufficientFunds", body.Code)
	require.Equal(t, sender.ID, body.Context["wallet_id"])

	status, payload = postPayment(t, app, `{"sender_wallet_id":"`+sender.ID+`","receiver_wallet_id":"`+sender.ID+`","amount":1}`)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.NoError(t, json.Unmarshal(payload, &body))
	require.Equal(t, "WalletCannotSendToItself", body.Code)

	status, payload = postPayment(t, app, `{"sender_wallet_id":"`+uuid.NewString()+`","receiver_wallet_id":"`+receiver.ID+`","amount":1}`)
	require.Equal(t, fiber.StatusNotFound, status)
	require.NoError(t, json.Unmarshal(payload, &body))
	require.Equal(t, "InvalidWalletId", body.Code)
}

func TestHandlerListTransactions(t *testing.T) {
	f := newFixture(t)
	alice := uuid.NewString()
	sender := f.seedWallet(t, alice, "USD", nil, 10000)
	receiver := f.seedWallet(t, uuid.NewString(), "USD", nil, 0)
	app := setupApp(f, alice)

	for i := 0; i < 3; i++ {
		status, _ := postPayment(t, app, `{"sender_wallet_id":"`+sender.ID+`","receiver_wallet_id":"`+receiver.ID+`","amount":1}`)
		require.Equal(t, fiber.StatusCreated, status)
	}

	req := httptest.NewRequest(fiber.MethodGet, "/wallets/"+sender.ID+"/transactions?limit=2", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var body struct {
		Transactions []struct {
			ID string `json:"id"`
		} `json:"transactions"`
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	require.NoError(t, json.Unmarshal(payload, &body))
	require.Len(t, body.Transactions, 2)
	require.Equal(t, 2, body.Limit)
}
