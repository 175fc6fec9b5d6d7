package models

import (
	"github.com/shopspring/decimal"
)

// AccountType defines the fundamental accounting type of an account.
type AccountType string

const (
	Asset     AccountType = "ASSET"
	Liability AccountType = "LIABILITY"
	Equity    AccountType = "EQUITY"
	Revenue   AccountType = "REVENUE"
	Expense   AccountType = "EXPENSE"
)

// Account is the persistence model for a chart-of-accounts node.
// Note: ParentAccountID maps to a nullable foreign key.
type Account struct {
	AccountID       string          `db:"account_id"`
	Code            string          `db:"code"`
	Name            string          `db:"name"`
	AccountType     AccountType     `db:"account_type"`
	Category        string          `db:"category"`
	ParentAccountID string          `db:"parent_account_id"` // Nullable
	Level           int             `db:"level"`
	Description     string          `db:"description"`
	IsActive        bool            `db:"is_active"`
	Balance         decimal.Decimal `db:"balance"`
	AuditFields
}
