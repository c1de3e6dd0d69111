package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
	"github.com/taskhive/task-tracker/internal/core/token"
)

type stubAccountRepo struct {
	accounts map[int64]*domain.Account
}

func (r *stubAccountRepo) FindByID(_ context.Context, id int64) (*domain.Account, error) {
	a, ok := r.accounts[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	return a, nil
}

func (r *stubAccountRepo) FindByEmail(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByUsername(context.Context, string) (*domain.Account, error) {
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) Insert(_ context.Context, a *domain.Account) (*domain.Account, error) {
	return a, nil
}

func (r *stubAccountRepo) UpdateFields(context.Context, int64, ports.AccountPatch) error {
	return nil
}

func (r *stubAccountRepo) SetActive(context.Context, int64, bool) error { return nil }

func (r *stubAccountRepo) Delete(context.Context, int64) error { return nil }

func (r *stubAccountRepo) List(context.Context, int, int) ([]*domain.Account, error) {
	return nil, nil
}

func authFixture(t *testing.T, active bool) (echo.MiddlewareFunc, string, *domain.Account) {
	t.Helper()

	codec, err := token.NewCodec("access-secret", "HS256", "task-tracker", "task-tracker-clients", "session", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}

	account := &domain.Account{
		ID:     42,
		Email:  "joe@example.com",
		Role:   domain.RoleUser,
		Active: active,
	}
	repo := &stubAccountRepo{accounts: map[int64]*domain.Account{42: account}}

	signed, err := codec.Issue(account)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}

	return Auth(codec, "Bearer", repo), signed, account
}

func invokeAuth(gate echo.MiddlewareFunc, authHeader string) (error, bool, echo.Context) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set(echo.HeaderAuthorization, authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	err := gate(func(c echo.Context) error {
		called = true
		return c.NoContent(http.StatusOK)
	})(c)
	return err, called, c
}

func assertHTTPError(t *testing.T, err error, want int) {
	t.Helper()
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %v", err)
	}
	if he.Code != want {
		t.Fatalf("expected status %d, got %d", want, he.Code)
	}
}

func TestAuth_ValidTokenActiveAccount(t *testing.T) {
	gate, signed, account := authFixture(t, true)

	err, called, c := invokeAuth(gate, "Bearer "+signed)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !called {
		t.Fatalf("next handler must run")
	}

	got, _ := c.Get(AccountContextKey).(*domain.Account)
	if got == nil || got.ID != account.ID {
		t.Fatalf("expected resolved account in context, got %v", got)
	}
}

func TestAuth_MissingHeader(t *testing.T) {
	gate, _, _ := authFixture(t, true)

	err, called, _ := invokeAuth(gate, "")
	if called {
		t.Fatalf("next handler must not run")
	}
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuth_SchemeMismatch(t *testing.T) {
	gate, signed, _ := authFixture(t, true)

	// The scheme match is exact and case-sensitive.
	for _, header := range []string{"bearer " + signed, "BEARER " + signed, "Token " + signed, signed} {
		err, called, _ := invokeAuth(gate, header)
		if called {
			t.Fatalf("next handler must not run for header %q", header)
		}
		assertHTTPError(t, err, http.StatusUnauthorized)
	}
}

func TestAuth_InvalidToken(t *testing.T) {
	gate, _, _ := authFixture(t, true)

	err, called, _ := invokeAuth(gate, "Bearer not-a-token")
	if called {
		t.Fatalf("next handler must not run")
	}
	assertHTTPError(t, err, http.StatusUnauthorized)
}

func TestAuth_UnknownAccount(t *testing.T) {
	codec, err := token.NewCodec("access-secret", "HS256", "task-tracker", "task-tracker-clients", "session", time.Hour)
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	signed, err := codec.Issue(&domain.Account{ID: 999, Email: "ghost@example.com", Role: domain.RoleUser})
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	gate := Auth(codec, "Bearer", &stubAccountRepo{accounts: map[int64]*domain.Account{}})

	authErr, called, _ := invokeAuth(gate, "Bearer "+signed)
	if called {
		t.Fatalf("next handler must not run")
	}
	assertHTTPError(t, authErr, http.StatusUnauthorized)
}

func TestAuth_InactiveAccount(t *testing.T) {
	gate, signed, _ := authFixture(t, false)

	// Inactive is the one failure reported as 403 rather than 401.
	err, called, _ := invokeAuth(gate, "Bearer "+signed)
	if called {
		t.Fatalf("next handler must not run")
	}
	assertHTTPError(t, err, http.StatusForbidden)
}
