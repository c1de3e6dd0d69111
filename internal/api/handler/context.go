package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/api/middleware"
	"github.com/taskhive/task-tracker/internal/core/domain"
)

// ctxAccount extracts the account resolved by the Auth middleware and
// performs a fast-fail check before any service call: a nil account means
// the gate did not run, which is a routing bug surfaced as 401.
func ctxAccount(c echo.Context) (*domain.Account, error) {
	account, _ := c.Get(middleware.AccountContextKey).(*domain.Account)
	if account == nil {
		return nil, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return account, nil
}
