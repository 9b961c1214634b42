package util

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/product-service/internal/domain"
)

func TestToDomainError(t *testing.T) {
	t.Run("passes domain errors through", func(t *testing.T) {
		de := ToDomainError(fmt.Errorf("wrap: %w", NewForbidden("admin required")))
		require.Equal(t, http.StatusForbidden, de.HTTPStatus)
		require.Equal(t, "admin required", de.Message)
	})

	t.Run("maps repository not found", func(t *testing.T) {
		de := ToDomainError(fmt.Errorf("find product 7: %w", domain.ErrNotFound))
		require.Equal(t, http.StatusNotFound, de.HTTPStatus)
		require.Equal(t, "NOT_FOUND", de.Code)
	})

	t.Run("maps fiber errors", func(t *testing.T) {
		de := ToDomainError(fiber.ErrNotFound)
		require.Equal(t, http.StatusNotFound, de.HTTPStatus)

		de = ToDomainError(fiber.NewError(http.StatusBadRequest, "bad body"))
		require.Equal(t, "VALIDATION_FAILED", de.Code)
	})

	t.Run("hides unknown errors", func(t *testing.T) {
		de := ToDomainError(errors.New("pq: connection refused"))
		require.Equal(t, http.StatusInternalServerError, de.HTTPStatus)
		require.Equal(t, "internal server error", de.Message)
	})

	require.Nil(t, ToDomainError(nil))
}
