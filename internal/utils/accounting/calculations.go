package accounting

import (
	"fmt"

	"github.com/bizsuite/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// SignedAmount applies the correct sign to a ledger movement based on account type.
// This is the single source of truth for balance arithmetic, used by both services and
// the posting repository.
//
// DEBIT to ASSET/EXPENSE -> Positive (+)
// CREDIT to ASSET/EXPENSE -> Negative (-)
// DEBIT to LIABILITY/EQUITY/REVENUE -> Negative (-)
// CREDIT to LIABILITY/EQUITY/REVENUE -> Positive (+)
func SignedAmount(debit, credit decimal.Decimal, accountType domain.AccountType) (decimal.Decimal, error) {
	net := debit.Sub(credit)
	switch accountType {
	case domain.Asset, domain.Expense:
		return net, nil
	case domain.Liability, domain.Equity, domain.Revenue:
		return net.Neg(), nil
	default:
		return decimal.Zero, fmt.Errorf("unknown account type %q", accountType)
	}
}

// LineAmounts validates the debit/credit pair of a single journal line: amounts must be
// non-negative, within scale, and exactly one side must be positive.
func LineAmounts(debit, credit decimal.Decimal, scale int32) error {
	if debit.IsNegative() || credit.IsNegative() {
		return fmt.Errorf("line amounts must not be negative")
	}
	if debit.Exponent() < -scale || credit.Exponent() < -scale {
		return fmt.Errorf("line amounts must have at most %d decimal places", scale)
	}
	if debit.IsPositive() == credit.IsPositive() {
		// Both zero or both positive.
		return fmt.Errorf("exactly one of debit or credit must be positive")
	}
	return nil
}

// Totals sums the debit and credit sides of a set of journal lines.
func Totals(lines []domain.JournalLine) (totalDebit, totalCredit decimal.Decimal) {
	totalDebit = decimal.Zero
	totalCredit = decimal.Zero
	for _, l := range lines {
		totalDebit = totalDebit.Add(l.Debit)
		totalCredit = totalCredit.Add(l.Credit)
	}
	return totalDebit, totalCredit
}

// ValidateEntryBalance checks the double-entry invariant over a full line set using
// exact decimal comparison.
func ValidateEntryBalance(lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return fmt.Errorf("entry has no lines")
	}
	totalDebit, totalCredit := Totals(lines)
	if !totalDebit.Equal(totalCredit) {
		return fmt.Errorf("debits sum is %s and credits sum is %s", totalDebit.String(), totalCredit.String())
	}
	return nil
}
