package apperr

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"
)

// HTTPStatus maps a validation code to its 4xx response status.
func HTTPStatus(code Code) int {
	switch code {
	case CodeInvalidWalletID, CodeInvalidCommunityID:
		return http.StatusNotFound
	case CodeTransactionNotPlaceholder, CodeWalletAlreadyShared:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// Respond writes err as an HTTP response. Validation errors produce a coded
// 4xx payload with their structured context; anything else is treated as an
// infrastructure failure and reported as an opaque 500.
func Respond(c *fiber.Ctx, err error) error {
	var ae *Error
	if errors.As(err, &ae) {
		body := fiber.Map{
			"code":    ae.Code,
			"message": ae.Message,
		}
		if len(ae.Context) > 0 {
			body["context"] = ae.Context
		}
		return c.Status(HTTPStatus(ae.Code)).JSON(body)
	}
	return fiber.NewError(http.StatusInternalServerError, "internal error")
}
