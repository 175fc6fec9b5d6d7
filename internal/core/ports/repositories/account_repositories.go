package repositories

import (
	"context"
	"time"

	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// AccountFilter narrows account listings.
type AccountFilter struct {
	AccountType *domain.AccountType
	Category    *string
	IsActive    *bool
	Search      string // Free-text match over code and name
	Limit       int
	Offset      int
}

// AccountReader defines read operations for chart-of-accounts data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCode retrieves an account by its human-readable code.
	FindAccountByCode(ctx context.Context, code string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts keyed by id. Missing ids are simply
	// absent from the result map.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// ListAccounts retrieves accounts matching the filter.
	ListAccounts(ctx context.Context, filter AccountFilter) ([]domain.Account, error)
}

// AccountWriter defines write operations for chart-of-accounts data.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// UpdateAccountDetails updates mutable account fields (name, category, description).
	UpdateAccountDetails(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account inactive. Historical postings are unaffected;
	// only new drafts are blocked.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountTxOps are account operations executed inside an externally managed database
// transaction. Used by the posting path to serialize balance updates per account.
type AccountTxOps interface {
	// FindAccountsByIDsForUpdate locks the account rows in ascending account id order and
	// returns them. Must be called within a transaction.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// UpdateAccountBalancesInTx applies signed balance deltas to the locked accounts.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTxOps
}
