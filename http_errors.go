package accounts

import (
	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
)

// ErrorResponse is the JSON error envelope. Clients key on TextCode, the
// message is display material only.
type ErrorResponse struct {
	TextCode string `json:"text_code,omitempty"`
	Message  string `json:"message"`
}

// HTTPStatusForError maps a lifecycle error to an HTTP status. The switch
// keys on text codes and categories, never on message text, so reworded
// messages cannot change API behavior.
func HTTPStatusForError(err error) int {
	var richErr *goerrors.Error
	if !goerrors.As(err, &richErr) {
		return fiber.StatusInternalServerError
	}

	switch richErr.TextCode {
	case TextCodeDuplicateAccount:
		return fiber.StatusConflict
	case TextCodeInvalidCredentials, TextCodeAccountNotActivated:
		return fiber.StatusUnauthorized
	case TextCodeTokenExpired, TextCodeTokenInvalid:
		// Token consumption flows (activate, reset) treat a bad token as a
		// bad request. The gatekeeper renders its own 401 for protected
		// routes.
		return fiber.StatusBadRequest
	case TextCodeAccountMissing:
		// Token verified but the subject is gone. The caller presented a
		// stale reference, not bad credentials.
		return fiber.StatusBadRequest
	case TextCodeStoreUnavailable:
		return fiber.StatusServiceUnavailable
	case TextCodeConfiguration:
		return fiber.StatusInternalServerError
	case TextCodeEmptyPassword:
		return fiber.StatusBadRequest
	}

	switch richErr.Category {
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryValidation, goerrors.CategoryBadInput:
		return fiber.StatusBadRequest
	case goerrors.CategoryOperation:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// RenderError writes the JSON error envelope for err. Internal failures are
// masked with a generic message so store and config details never leak.
func RenderError(ctx router.Context, err error) error {
	status := HTTPStatusForError(err)

	resp := ErrorResponse{Message: "internal server error"}

	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) && status != fiber.StatusInternalServerError {
		resp.TextCode = richErr.TextCode
		resp.Message = richErr.Message
	}

	return ctx.JSON(status, map[string]any{"error": resp})
}
