package services

import (
	"context"

	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/bizsuite/ledger_backend/internal/dto"
)

// AccountSvcFacade is the chart-of-accounts registry surface.
type AccountSvcFacade interface {
	// CreateAccount validates code uniqueness and parent/type consistency, computes the
	// tree level, and persists the account.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, creatorUserID string) (*domain.Account, error)

	// GetAccountByID resolves a single account.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountsByIDs resolves multiple accounts keyed by id.
	GetAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts lists accounts matching the filter.
	ListAccounts(ctx context.Context, params dto.ListAccountsParams) ([]domain.Account, error)

	// UpdateAccount updates mutable fields (name, category, description).
	UpdateAccount(ctx context.Context, accountID string, req dto.UpdateAccountRequest, userID string) (*domain.Account, error)

	// DeactivateAccount marks the account inactive. Historical postings are unaffected.
	DeactivateAccount(ctx context.Context, accountID string, userID string) error
}
