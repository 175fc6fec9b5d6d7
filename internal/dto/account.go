package dto

import (
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
	"time"
)

// CreateAccountRequest defines the payload for creating an account.
type CreateAccountRequest struct {
	Code            string `json:"code" binding:"required"`
	Name            string `json:"name" binding:"required"`
	AccountType     string `json:"accountType" binding:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Category        string `json:"category"`
	ParentAccountID string `json:"parentAccountID"`
	Description     string `json:"description"`
}

// UpdateAccountRequest defines the mutable fields of an account. Code, type and parent
// are fixed at creation.
type UpdateAccountRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
}

// ListAccountsParams narrows account listings.
type ListAccountsParams struct {
	AccountType *string `form:"type"`
	Category    *string `form:"category"`
	IsActive    *bool   `form:"isActive"`
	Search      string  `form:"search"`
	Limit       int     `form:"limit"`
	Offset      int     `form:"offset"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID       string          `json:"accountID"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	AccountType     string          `json:"accountType"`
	Category        string          `json:"category"`
	ParentAccountID string          `json:"parentAccountID,omitempty"`
	Level           int             `json:"level"`
	Description     string          `json:"description,omitempty"`
	IsActive        bool            `json:"isActive"`
	Balance         decimal.Decimal `json:"balance"`
	CreatedAt       time.Time       `json:"createdAt"`
	CreatedBy       string          `json:"createdBy"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts []AccountResponse `json:"accounts"`
}

// ToAccountResponse converts a domain.Account to AccountResponse.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:       a.AccountID,
		Code:            a.Code,
		Name:            a.Name,
		AccountType:     string(a.AccountType),
		Category:        a.Category,
		ParentAccountID: a.ParentAccountID,
		Level:           a.Level,
		Description:     a.Description,
		IsActive:        a.IsActive,
		Balance:         a.Balance,
		CreatedAt:       a.CreatedAt,
		CreatedBy:       a.CreatedBy,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	responses := make([]AccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = ToAccountResponse(&accounts[i])
	}
	return responses
}
