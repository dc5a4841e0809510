package accounts_test

import (
	"errors"
	"testing"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-router"
	accounts "github.com/hardwarehub/go-accounts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestHTTPStatusForError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"duplicate account", accounts.ErrDuplicateAccount, fiber.StatusConflict},
		{"invalid credentials", accounts.ErrMismatchedHashAndPassword, fiber.StatusUnauthorized},
		{"not activated", accounts.ErrAccountNotActivated, fiber.StatusUnauthorized},
		{"token expired", accounts.ErrTokenExpired, fiber.StatusBadRequest},
		{"token invalid", accounts.ErrTokenInvalid, fiber.StatusBadRequest},
		{"account missing", accounts.ErrAccountMissing, fiber.StatusBadRequest},
		{"store unavailable", accounts.ErrStoreUnavailable, fiber.StatusServiceUnavailable},
		{"configuration", accounts.ErrMissingSigningSecret, fiber.StatusInternalServerError},
		{"empty password", accounts.ErrNoEmptyString, fiber.StatusBadRequest},
		{"plain error", errors.New("boom"), fiber.StatusInternalServerError},
		{"uncoded validation error", goerrors.New("bad input", goerrors.CategoryValidation), fiber.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, accounts.HTTPStatusForError(tt.err))
		})
	}
}

func TestRenderErrorEnvelope(t *testing.T) {
	t.Run("client errors carry the text code", func(t *testing.T) {
		ctx := router.NewMockContext()

		var payload map[string]any
		ctx.On("JSON", fiber.StatusConflict, mock.Anything).Run(func(args mock.Arguments) {
			payload = args.Get(1).(map[string]any)
		}).Return(nil)

		err := accounts.RenderError(ctx, accounts.ErrDuplicateAccount)
		require.NoError(t, err)

		resp, ok := payload["error"].(accounts.ErrorResponse)
		require.True(t, ok)
		assert.Equal(t, accounts.TextCodeDuplicateAccount, resp.TextCode)
		assert.NotEmpty(t, resp.Message)
	})

	t.Run("internal errors are masked", func(t *testing.T) {
		ctx := router.NewMockContext()

		var payload map[string]any
		ctx.On("JSON", fiber.StatusInternalServerError, mock.Anything).Run(func(args mock.Arguments) {
			payload = args.Get(1).(map[string]any)
		}).Return(nil)

		internal := goerrors.New("database column mismatch in accounts", goerrors.CategoryInternal)
		err := accounts.RenderError(ctx, internal)
		require.NoError(t, err)

		resp, ok := payload["error"].(accounts.ErrorResponse)
		require.True(t, ok)
		assert.Empty(t, resp.TextCode)
		assert.NotContains(t, resp.Message, "column")
	})
}

func TestRenderUnauthorizedAlways401(t *testing.T) {
	// Token errors map to 400 on the consumption flows but protected routes
	// answer 401 no matter the flaw.
	for _, err := range []error{
		accounts.ErrTokenExpired,
		accounts.ErrTokenInvalid,
		errors.New("boom"),
	} {
		ctx := router.NewMockContext()

		var payload map[string]any
		ctx.On("JSON", fiber.StatusUnauthorized, mock.Anything).Run(func(args mock.Arguments) {
			payload = args.Get(1).(map[string]any)
		}).Return(nil)

		require.NoError(t, accounts.RenderUnauthorized(ctx, err))

		resp, ok := payload["error"].(accounts.ErrorResponse)
		require.True(t, ok)
		assert.NotEmpty(t, resp.Message)
	}
}
