package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/api/middleware"
	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
)

type stubSessionService struct {
	registerIn    *ports.RegisterInput
	registerOut   *domain.Account
	registerErr   error
	loginEmail    string
	loginPassword string
	loginOut      *ports.TokenPair
	loginErr      error
	refreshToken  string
	refreshOut    *ports.TokenPair
	refreshErr    error
	logoutID      int64
	updateID      int64
	updateIn      *ports.UpdateAccountInput
	updateOut     *domain.Account
	deleteID      int64
	listPage      int
	listLimit     int
	listOut       []*domain.Account
}

func (s *stubSessionService) Register(_ context.Context, input ports.RegisterInput) (*domain.Account, error) {
	s.registerIn = &input
	return s.registerOut, s.registerErr
}

func (s *stubSessionService) Login(_ context.Context, email, password string) (*ports.TokenPair, error) {
	s.loginEmail = email
	s.loginPassword = password
	return s.loginOut, s.loginErr
}

func (s *stubSessionService) Refresh(_ context.Context, refreshToken string) (*ports.TokenPair, error) {
	s.refreshToken = refreshToken
	return s.refreshOut, s.refreshErr
}

func (s *stubSessionService) Logout(_ context.Context, accountID int64) error {
	s.logoutID = accountID
	return nil
}

func (s *stubSessionService) UpdateSelf(_ context.Context, accountID int64, input ports.UpdateAccountInput) (*domain.Account, error) {
	s.updateID = accountID
	s.updateIn = &input
	return s.updateOut, nil
}

func (s *stubSessionService) DeleteSelf(_ context.Context, accountID int64) error {
	s.deleteID = accountID
	return nil
}

func (s *stubSessionService) ListAccounts(_ context.Context, page, limit int) ([]*domain.Account, error) {
	s.listPage = page
	s.listLimit = limit
	return s.listOut, nil
}

func newTestContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestRegister_Created(t *testing.T) {
	svc := &stubSessionService{
		registerOut: &domain.Account{
			ID:           1,
			FirstName:    "Joe",
			Username:     "jc",
			Email:        "joe@example.com",
			PasswordHash: "$2a$04$secret",
			Role:         domain.RoleGuest,
		},
	}
	h := NewAccountHandler(svc)

	body := `{"first_name":"Joe","last_name":"Crane","username":"jc","email":"joe@example.com","password":"12345678"}`
	c, rec := newTestContext(http.MethodPost, "/api/v1/accounts/register", body)

	if err := h.Register(c); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
	if svc.registerIn == nil || svc.registerIn.Email != "joe@example.com" {
		t.Fatalf("service did not receive the register input: %+v", svc.registerIn)
	}
	if strings.Contains(rec.Body.String(), "password") || strings.Contains(rec.Body.String(), "secret") {
		t.Fatalf("response must not expose password material: %s", rec.Body.String())
	}
}

func TestRegister_ValidationFailure(t *testing.T) {
	h := NewAccountHandler(&stubSessionService{})

	cases := []struct {
		name string
		body string
	}{
		{"missing email", `{"first_name":"Joe","last_name":"Crane","username":"jc","password":"12345678"}`},
		{"bad email", `{"first_name":"Joe","last_name":"Crane","username":"jc","email":"nope","password":"12345678"}`},
		{"short password", `{"first_name":"Joe","last_name":"Crane","username":"jc","email":"joe@example.com","password":"short"}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newTestContext(http.MethodPost, "/api/v1/accounts/register", tc.body)
			if err := h.Register(c); err != nil {
				t.Fatalf("Register: %v", err)
			}
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestRegister_DuplicatePropagates(t *testing.T) {
	h := NewAccountHandler(&stubSessionService{registerErr: domain.ErrDuplicateEmail})

	body := `{"first_name":"Joe","last_name":"Crane","username":"jc","email":"joe@example.com","password":"12345678"}`
	c, _ := newTestContext(http.MethodPost, "/api/v1/accounts/register", body)

	// Domain errors flow to the centralized error handler untouched.
	if err := h.Register(c); !errors.Is(err, domain.ErrDuplicateEmail) {
		t.Fatalf("expected ErrDuplicateEmail, got %v", err)
	}
}

func TestLogin_ReturnsTokenPair(t *testing.T) {
	svc := &stubSessionService{
		loginOut: &ports.TokenPair{
			RefreshToken:       "refresh",
			AccessToken:        "access",
			TokenType:          "Bearer",
			TokenExpirySeconds: 3600,
			Data:               ports.AccountSnapshot{ID: 1, Email: "joe@example.com", Role: "Guest"},
		},
	}
	h := NewAccountHandler(svc)

	c, rec := newTestContext(http.MethodPost, "/api/v1/accounts/login", `{"email":"joe@example.com","password":"12345678"}`)
	if err := h.Login(c); err != nil {
		t.Fatalf("Login: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.loginEmail != "joe@example.com" || svc.loginPassword != "12345678" {
		t.Fatalf("service received wrong credentials: %s / %s", svc.loginEmail, svc.loginPassword)
	}

	var got map[string]json.RawMessage
	if err := json.Unmarshal(rec.Body.Bytes(), &got); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	for _, key := range []string{"refresh_token", "access_token", "token_type", "token_expiry_seconds", "data"} {
		if _, ok := got[key]; !ok {
			t.Fatalf("response missing %q: %s", key, rec.Body.String())
		}
	}
}

func TestLogin_ErrorPropagates(t *testing.T) {
	h := NewAccountHandler(&stubSessionService{loginErr: domain.ErrInvalidCredentials})

	c, _ := newTestContext(http.MethodPost, "/api/v1/accounts/login", `{"email":"joe@example.com","password":"12345678"}`)
	if err := h.Login(c); !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestRefresh_MissingHeader(t *testing.T) {
	h := NewAccountHandler(&stubSessionService{})

	c, _ := newTestContext(http.MethodGet, "/api/v1/accounts/renew-access-token", "")
	err := h.Refresh(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestRefresh_ForwardsHeaderToken(t *testing.T) {
	svc := &stubSessionService{refreshOut: &ports.TokenPair{AccessToken: "new-access"}}
	h := NewAccountHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/api/v1/accounts/renew-access-token", "")
	c.Request().Header.Set("x-refresh-token", "the-refresh-token")

	if err := h.Refresh(c); err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.refreshToken != "the-refresh-token" {
		t.Fatalf("service received wrong token: %s", svc.refreshToken)
	}
}

func TestLogout_UsesContextAccount(t *testing.T) {
	svc := &stubSessionService{}
	h := NewAccountHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/api/v1/accounts/logout", "")
	c.Set(middleware.AccountContextKey, &domain.Account{ID: 7, Active: true})

	if err := h.Logout(c); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.logoutID != 7 {
		t.Fatalf("expected logout for account 7, got %d", svc.logoutID)
	}
}

func TestLogout_WithoutGate(t *testing.T) {
	h := NewAccountHandler(&stubSessionService{})

	c, _ := newTestContext(http.MethodGet, "/api/v1/accounts/logout", "")
	err := h.Logout(c)
	he, ok := err.(*echo.HTTPError)
	if !ok || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 HTTPError, got %v", err)
	}
}

func TestUpdateMe_ForwardsPartialInput(t *testing.T) {
	svc := &stubSessionService{updateOut: &domain.Account{ID: 7, FirstName: "Joanna"}}
	h := NewAccountHandler(svc)

	c, rec := newTestContext(http.MethodPut, "/api/v1/accounts/me", `{"first_name":"Joanna"}`)
	c.Set(middleware.AccountContextKey, &domain.Account{ID: 7, Active: true})

	if err := h.UpdateMe(c); err != nil {
		t.Fatalf("UpdateMe: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.updateID != 7 {
		t.Fatalf("expected update for account 7, got %d", svc.updateID)
	}
	in := svc.updateIn
	if in == nil || in.FirstName == nil || *in.FirstName != "Joanna" {
		t.Fatalf("first name not forwarded: %+v", in)
	}
	if in.LastName != nil || in.Username != nil || in.Avatar != nil || in.Password != nil {
		t.Fatalf("absent fields must stay nil: %+v", in)
	}
}

func TestDeleteMe(t *testing.T) {
	svc := &stubSessionService{}
	h := NewAccountHandler(svc)

	c, rec := newTestContext(http.MethodDelete, "/api/v1/accounts/me", "")
	c.Set(middleware.AccountContextKey, &domain.Account{ID: 7, Active: true})

	if err := h.DeleteMe(c); err != nil {
		t.Fatalf("DeleteMe: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.deleteID != 7 {
		t.Fatalf("expected delete for account 7, got %d", svc.deleteID)
	}
}

func TestList_ForwardsPaging(t *testing.T) {
	svc := &stubSessionService{listOut: []*domain.Account{}}
	h := NewAccountHandler(svc)

	c, rec := newTestContext(http.MethodGet, "/api/v1/accounts?page=2&limit=10", "")
	if err := h.List(c); err != nil {
		t.Fatalf("List: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if svc.listPage != 2 || svc.listLimit != 10 {
		t.Fatalf("paging not forwarded: page=%d limit=%d", svc.listPage, svc.listLimit)
	}
}
