package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
	"github.com/taskhive/task-tracker/internal/core/token"
)

// AccountContextKey is where Auth stores the resolved *domain.Account in the
// echo context.
const AccountContextKey = "account"

// Auth is the authorization gate run before every protected operation. Four
// checks, in order: the Authorization header scheme must equal scheme exactly
// (case-sensitive), the access token must verify, the embedded account id
// must resolve to a stored account, and that account must be active. Only an
// inactive account is distinguishable from the other failures (403 vs 401).
func Auth(codec *token.Codec, scheme string, accounts ports.AccountRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != scheme {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims, err := codec.Verify(parts[1])
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			account, err := accounts.FindByID(c.Request().Context(), claims.AccountID)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			if !account.Active {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrInactiveAccount.Error())
			}

			c.Set(AccountContextKey, account)
			return next(c)
		}
	}
}
