package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/taskhive/task-tracker/internal/core/domain"
	"github.com/taskhive/task-tracker/internal/core/ports"
	"github.com/taskhive/task-tracker/internal/core/token"
	"github.com/taskhive/task-tracker/internal/pkg/metrics"
	"github.com/taskhive/task-tracker/internal/pkg/password"
)

// OwnedTaskPurger removes every task owned by an account. Deleting an
// account must trigger it so no orphaned tasks survive the hard delete.
type OwnedTaskPurger interface {
	DeleteByOwner(ctx context.Context, ownerID int64) error
}

// SessionService implements the account/session lifecycle: register, login,
// refresh, logout, self-update, and self-delete. It enforces the
// single-active-session policy and the account-active invariant.
type SessionService struct {
	accounts ports.AccountRepository
	purger   OwnedTaskPurger
	hasher   *password.Hasher
	access   *token.Codec
	refresh  *token.Codec
	scheme   string
	logger   zerolog.Logger
}

func NewSessionService(
	accounts ports.AccountRepository,
	purger OwnedTaskPurger,
	hasher *password.Hasher,
	access, refresh *token.Codec,
	scheme string,
	logger zerolog.Logger,
) *SessionService {
	return &SessionService{
		accounts: accounts,
		purger:   purger,
		hasher:   hasher,
		access:   access,
		refresh:  refresh,
		scheme:   scheme,
		logger:   logger,
	}
}

// Register creates a new inactive account with the Guest role. Uniqueness is
// checked email first, then username, so duplicate reporting is
// deterministic when both collide.
func (s *SessionService) Register(ctx context.Context, input ports.RegisterInput) (*domain.Account, error) {
	if _, err := s.accounts.FindByEmail(ctx, input.Email); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate_email").Inc()
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	if _, err := s.accounts.FindByUsername(ctx, input.Username); err == nil {
		metrics.RegistrationsTotal.WithLabelValues("duplicate_username").Inc()
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrAccountNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	account := &domain.Account{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
		Active:       false,
		Role:         domain.RoleGuest,
		Avatar:       input.Avatar,
	}

	created, err := s.accounts.Insert(ctx, account)
	if err != nil {
		metrics.RegistrationsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.RegistrationsTotal.WithLabelValues("created").Inc()
	s.logger.Info().Int64("account_id", created.ID).Str("username", created.Username).Msg("account registered")
	return created, nil
}

// Login validates credentials and establishes the single active session.
// An unknown email and a wrong password both report ErrInvalidCredentials so
// the error kind cannot be used to enumerate accounts.
func (s *SessionService) Login(ctx context.Context, email, pass string) (*ports.TokenPair, error) {
	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrAccountNotFound) {
			metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if !s.hasher.Verify(pass, account.PasswordHash) {
		metrics.LoginsTotal.WithLabelValues("invalid_credentials").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	if account.Active {
		metrics.LoginsTotal.WithLabelValues("already_active").Inc()
		return nil, domain.ErrAlreadyActive
	}

	// Tokens embed the account as fetched; the role promotion below is
	// picked up on the next refresh.
	pair, err := s.mintPair(account)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.accounts.SetActive(ctx, account.ID, true); err != nil {
		metrics.LoginsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("login: activate account: %w", err)
	}

	if account.Role == domain.RoleGuest {
		role := domain.RoleUser
		if err := s.accounts.UpdateFields(ctx, account.ID, ports.AccountPatch{Role: &role}); err != nil {
			s.logger.Error().Err(err).Int64("account_id", account.ID).Msg("role promotion failed")
		}
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	metrics.ActiveSessions.Inc()
	s.logger.Info().Int64("account_id", account.ID).Msg("login completed")
	return pair, nil
}

// Refresh verifies a refresh token and mints a fresh pair from the current
// stored account record, not the stale token snapshot. It does not require
// an active session: a valid token embeds its own trust.
func (s *SessionService) Refresh(ctx context.Context, refreshToken string) (*ports.TokenPair, error) {
	claims, err := s.refresh.Verify(refreshToken)
	if err != nil {
		return nil, domain.ErrUnauthorized
	}

	account, err := s.accounts.FindByID(ctx, claims.AccountID)
	if err != nil {
		if !errors.Is(err, domain.ErrAccountNotFound) {
			s.logger.Error().Err(err).Int64("account_id", claims.AccountID).Msg("refresh lookup failed")
		}
		return nil, domain.ErrUnauthorized
	}

	pair, err := s.mintPair(account)
	if err != nil {
		return nil, fmt.Errorf("refresh: %w", err)
	}

	s.logger.Info().Int64("account_id", account.ID).Msg("token pair renewed")
	return pair, nil
}

// Logout clears the active flag unconditionally. Idempotent: the gauge only
// moves on an actual active-to-inactive transition, so repeating the call
// cannot drive it below the true session count.
func (s *SessionService) Logout(ctx context.Context, accountID int64) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if err := s.accounts.SetActive(ctx, accountID, false); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	if account.Active {
		metrics.ActiveSessions.Dec()
	}
	s.logger.Info().Int64("account_id", accountID).Msg("logout completed")
	return nil
}

// UpdateSelf applies a partial update of mutable fields. A supplied password
// is hashed and written in the same update; absent fields are never touched.
func (s *SessionService) UpdateSelf(ctx context.Context, accountID int64, input ports.UpdateAccountInput) (*domain.Account, error) {
	patch := ports.AccountPatch{
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Username:  input.Username,
		Avatar:    input.Avatar,
	}
	if input.Password != nil {
		hash, err := s.hasher.Hash(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("update account: hash password: %w", err)
		}
		patch.PasswordHash = &hash
	}

	if !patch.Empty() {
		if err := s.accounts.UpdateFields(ctx, accountID, patch); err != nil {
			return nil, fmt.Errorf("update account: %w", err)
		}
	}

	updated, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("update account: %w", err)
	}
	return updated, nil
}

// DeleteSelf hard-deletes the account after purging its tasks. Deleting an
// active account also releases its session from the gauge.
func (s *SessionService) DeleteSelf(ctx context.Context, accountID int64) error {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if err := s.purger.DeleteByOwner(ctx, accountID); err != nil {
		return fmt.Errorf("delete account: purge tasks: %w", err)
	}
	if err := s.accounts.Delete(ctx, accountID); err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if account.Active {
		metrics.ActiveSessions.Dec()
	}
	s.logger.Info().Int64("account_id", accountID).Msg("account deleted")
	return nil
}

// ListAccounts returns a page of accounts. Intended for admin use; the
// handler layer enforces the role check.
func (s *SessionService) ListAccounts(ctx context.Context, page, limit int) ([]*domain.Account, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 50
	}
	accounts, err := s.accounts.List(ctx, (page-1)*limit, limit)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (s *SessionService) mintPair(account *domain.Account) (*ports.TokenPair, error) {
	accessToken, err := s.access.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("issue access token: %w", err)
	}
	refreshToken, err := s.refresh.Issue(account)
	if err != nil {
		return nil, fmt.Errorf("issue refresh token: %w", err)
	}
	metrics.TokensIssuedTotal.WithLabelValues("access").Inc()
	metrics.TokensIssuedTotal.WithLabelValues("refresh").Inc()

	return &ports.TokenPair{
		RefreshToken:       refreshToken,
		AccessToken:        accessToken,
		TokenType:          s.scheme,
		TokenExpirySeconds: int(s.access.TTL().Seconds()),
		Data: ports.AccountSnapshot{
			ID:        account.ID,
			FirstName: account.FirstName,
			LastName:  account.LastName,
			Username:  account.Username,
			Email:     account.Email,
			Role:      string(account.Role),
			Avatar:    account.Avatar,
		},
	}, nil
}
