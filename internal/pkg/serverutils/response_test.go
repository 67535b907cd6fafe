package serverutils

import (
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"

	"nexusai-be/internal/pkg/apperrors"
)

func TestErrorHandlerStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"validation error", &apperrors.ValidationError{Field: "content", Message: "required"}, fiber.StatusBadRequest},
		{"not found", &apperrors.NotFoundError{Resource: "chat session"}, fiber.StatusNotFound},
		{"invalid credentials", apperrors.ErrInvalidCredentials, fiber.StatusUnauthorized},
		{"blocked account", apperrors.ErrAccountBlocked, fiber.StatusUnauthorized},
		{"admins only", apperrors.ErrAdminsOnly, fiber.StatusForbidden},
		{"email taken", apperrors.ErrEmailTaken, fiber.StatusBadRequest},
		{"social-only account", apperrors.ErrOAuthOnlyAccount, fiber.StatusBadRequest},
		{"fiber error", fiber.NewError(fiber.StatusTeapot, "short and stout"), fiber.StatusTeapot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware())
			app.Get("/boom", func(ctx *fiber.Ctx) error {
				return tt.err
			})

			resp, err := app.Test(httptest.NewRequest("GET", "/boom", nil))
			if err != nil {
				t.Fatalf("app.Test() error = %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantCode {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantCode)
			}
		})
	}
}
