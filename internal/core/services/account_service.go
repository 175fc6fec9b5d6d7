package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/bizsuite/ledger_backend/internal/apperrors"
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizsuite/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/bizsuite/ledger_backend/internal/core/ports/services"
	"github.com/bizsuite/ledger_backend/internal/dto"
)

// accountService owns the chart of accounts: hierarchy, type taxonomy, activation state.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new account service.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount validates code uniqueness and the parent/type invariant, computes the
// tree level, and persists the account.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error) {
	logger := s.GetLogger(ctx)

	code := strings.TrimSpace(req.Code)
	if code == "" {
		return nil, fmt.Errorf("%w: account code is required", apperrors.ErrValidation)
	}

	accountType := domain.AccountType(req.AccountType)
	if !accountType.IsValid() {
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
	}

	// Duplicate code check up front for a friendly error; the unique index is the
	// authoritative guard under concurrency.
	existing, err := s.accountRepo.FindAccountByCode(ctx, code)
	if err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check account code uniqueness", slog.String("error", err.Error()), slog.String("code", code))
		return nil, fmt.Errorf("failed to check account code: %w", err)
	}
	if existing != nil {
		return nil, fmt.Errorf("%w: account code %s already exists", apperrors.ErrDuplicate, code)
	}

	level := 0
	if req.ParentAccountID != "" {
		parent, err := s.accountRepo.FindAccountByID(ctx, req.ParentAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: parent account %s not found", apperrors.ErrValidation, req.ParentAccountID)
			}
			return nil, fmt.Errorf("failed to resolve parent account: %w", err)
		}
		// Sub-accounts cannot change type: the whole subtree shares the root's type.
		if parent.AccountType != accountType {
			return nil, fmt.Errorf("%w: account type %s does not match parent type %s", apperrors.ErrValidation, accountType, parent.AccountType)
		}
		if !parent.IsActive {
			return nil, fmt.Errorf("%w: parent account %s", apperrors.ErrInactiveAccount, parent.Code)
		}
		level = parent.Level + 1
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:       uuid.NewString(),
		Code:            code,
		Name:            req.Name,
		AccountType:     accountType,
		Category:        req.Category,
		ParentAccountID: req.ParentAccountID,
		Level:           level,
		Description:     req.Description,
		IsActive:        true,
		Balance:         decimal.Zero,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorUserID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorUserID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("code", code))
		return nil, fmt.Errorf("failed to save account: %w", err)
	}

	logger.Info("Account created successfully", slog.String("account_id", account.AccountID), slog.String("code", code))
	return &account, nil
}

// GetAccountByID resolves a single account.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	return account, nil
}

// GetAccountsByIDs resolves multiple accounts keyed by id.
func (s *accountService) GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to find accounts by IDs")
		return nil, fmt.Errorf("failed to find accounts: %w", err)
	}
	return accounts, nil
}

// ListAccounts lists accounts matching the filter.
func (s *accountService) ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error) {
	filter := portsrepo.AccountFilter{
		Category: params.Category,
		IsActive: params.IsActive,
		Search:   strings.TrimSpace(params.Search),
		Limit:    params.Limit,
		Offset:   params.Offset,
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if params.AccountType != nil {
		accountType := domain.AccountType(*params.AccountType)
		if !accountType.IsValid() {
			return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, *params.AccountType)
		}
		filter.AccountType = &accountType
	}

	accounts, err := s.accountRepo.ListAccounts(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts")
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return accounts, nil
}

// UpdateAccount updates mutable account fields. Code, type and parent are fixed at
// creation so the tree and type invariants cannot be broken after the fact.
func (s *accountService) UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error) {
	logger := s.GetLogger(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", accountID, err)
	}

	updated := false
	if req.Name != nil {
		account.Name = *req.Name
		updated = true
	}
	if req.Category != nil {
		account.Category = *req.Category
		updated = true
	}
	if req.Description != nil {
		account.Description = *req.Description
		updated = true
	}

	if !updated {
		return account, nil
	}

	now := time.Now().UTC()
	account.LastUpdatedAt = now
	account.LastUpdatedBy = userID

	if err := s.accountRepo.UpdateAccountDetails(ctx, *account); err != nil {
		logger.Error("Failed to update account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return nil, fmt.Errorf("failed to update account: %w", err)
	}

	logger.Info("Account updated successfully", slog.String("account_id", accountID))
	return account, nil
}

// DeactivateAccount marks an account inactive. Deactivation only blocks new drafts;
// historical and already-drafted entries are unaffected.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, userID string) error {
	logger := s.GetLogger(ctx)

	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		return fmt.Errorf("failed to find account %s: %w", accountID, err)
	}
	if !account.IsActive {
		logger.Debug("Account already inactive", slog.String("account_id", accountID))
		return nil
	}

	if err := s.accountRepo.DeactivateAccount(ctx, accountID, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to deactivate account", slog.String("error", err.Error()), slog.String("account_id", accountID))
		return fmt.Errorf("failed to deactivate account: %w", err)
	}

	logger.Info("Account deactivated", slog.String("account_id", accountID))
	return nil
}
