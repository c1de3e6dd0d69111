package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/taskhive/task-tracker/internal/core/ports"
)

// refreshTokenHeader carries the refresh token on the renew endpoint.
const refreshTokenHeader = "x-refresh-token"

// AccountHandler handles HTTP requests for account and session operations.
type AccountHandler struct {
	sessions ports.SessionService
}

func NewAccountHandler(sessions ports.SessionService) *AccountHandler {
	return &AccountHandler{sessions: sessions}
}

type registerRequest struct {
	FirstName string  `json:"first_name" validate:"required"`
	LastName  string  `json:"last_name"  validate:"required"`
	Username  string  `json:"username"   validate:"required"`
	Email     string  `json:"email"      validate:"required,email"`
	Password  string  `json:"password"   validate:"required,min=8"`
	Avatar    *string `json:"avatar,omitempty" validate:"omitempty,url"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type updateAccountRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Username  *string `json:"username,omitempty"`
	Avatar    *string `json:"avatar,omitempty"   validate:"omitempty,url"`
	Password  *string `json:"password,omitempty" validate:"omitempty,min=8"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// Register creates a new account in the inactive state.
//
// @Summary      Register a new account
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Account registration details"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/accounts/register [post]
func (h *AccountHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	account, err := h.sessions.Register(c.Request().Context(), ports.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Email:     req.Email,
		Password:  req.Password,
		Avatar:    req.Avatar,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, account)
}

// Login authenticates credentials and returns an access/refresh token pair.
//
// @Summary      Login for access and refresh tokens
// @Tags         accounts
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  ports.TokenPair
// @Failure      401   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/v1/accounts/login [post]
func (h *AccountHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	pair, err := h.sessions.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pair)
}

// Refresh mints a new token pair from a valid refresh token.
//
// @Summary      Renew the access token
// @Tags         accounts
// @Produce      json
// @Param        x-refresh-token  header    string  true  "Refresh token"
// @Success      200              {object}  ports.TokenPair
// @Failure      401              {object}  map[string]string
// @Router       /api/v1/accounts/renew-access-token [get]
func (h *AccountHandler) Refresh(c echo.Context) error {
	refreshToken := c.Request().Header.Get(refreshTokenHeader)
	if refreshToken == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "missing refresh token")
	}

	pair, err := h.sessions.Refresh(c.Request().Context(), refreshToken)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, pair)
}

// Logout clears the caller's active session flag.
func (h *AccountHandler) Logout(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	if err := h.sessions.Logout(c.Request().Context(), account.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "logout successful"})
}

// UpdateMe applies a partial update to the caller's account.
func (h *AccountHandler) UpdateMe(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	updated, err := h.sessions.UpdateSelf(c.Request().Context(), account.ID, ports.UpdateAccountInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Username:  req.Username,
		Avatar:    req.Avatar,
		Password:  req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteMe hard-deletes the caller's account and its tasks.
func (h *AccountHandler) DeleteMe(c echo.Context) error {
	account, err := ctxAccount(c)
	if err != nil {
		return err
	}

	if err := h.sessions.DeleteSelf(c.Request().Context(), account.ID); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, messageResponse{Message: "account deleted successfully"})
}

// List returns a page of accounts. Admin only (enforced by RBAC middleware).
func (h *AccountHandler) List(c echo.Context) error {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))

	accounts, err := h.sessions.ListAccounts(c.Request().Context(), page, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, accounts)
}
