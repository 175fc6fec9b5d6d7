package domain

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

// AccountTypeOrder is the canonical grouping order used by reports.
var AccountTypeOrder = []AccountType{Asset, Liability, Equity, Revenue, Expense}

// IsValid reports whether t is one of the five account types.
func (t AccountType) IsValid() bool {
	switch t {
	case Asset, Liability, Equity, Revenue, Expense:
		return true
	}
	return false
}

// IsDebitNormal reports whether accounts of this type increase on the debit side.
func (t AccountType) IsDebitNormal() bool {
	return t == Asset || t == Expense
}

// Account represents a node in the chart of accounts.
// Sub-accounts inherit (and may not change) the type of their root ancestor.
type Account struct {
	AccountID       string          `json:"accountID"`       // Primary key (UUID)
	Code            string          `json:"code"`            // Unique human code, e.g. "1001"
	Name            string          `json:"name"`            // User-defined name
	AccountType     AccountType     `json:"accountType"`     // ASSET, LIABILITY, etc.
	Category        string          `json:"category"`        // Free-form grouping
	ParentAccountID string          `json:"parentAccountID"` // Empty for root accounts
	Level           int             `json:"level"`           // Tree depth, root = 0
	Description     string          `json:"description"`
	IsActive        bool            `json:"isActive"` // Deactivation only, never physical delete
	Balance         decimal.Decimal `json:"balance"`  // Persisted running balance (natural sign)
	AuditFields
}
