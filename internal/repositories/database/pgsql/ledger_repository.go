package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bizsuite/ledger_backend/internal/apperrors"
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizsuite/ledger_backend/internal/core/ports/repositories"
	"github.com/bizsuite/ledger_backend/internal/models"
	"github.com/bizsuite/ledger_backend/internal/utils/mapping"
	"github.com/bizsuite/ledger_backend/internal/utils/pagination"
)

const ledgerColumns = `ledger_line_id, seq, account_id, entry_id, entry_number, entry_date, description, debit, credit, balance, fiscal_year, period, position, created_at`

type PgxLedgerRepository struct {
	pool *pgxpool.Pool
}

// newPgxLedgerRepository creates a new read-side repository over the append-only ledger.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerReader {
	return &PgxLedgerRepository{pool: pool}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerReader
var _ portsrepo.LedgerReader = (*PgxLedgerRepository)(nil)

func scanLedgerLine(row pgx.Row) (models.LedgerLine, error) {
	var m models.LedgerLine
	err := row.Scan(
		&m.LedgerLineID,
		&m.Seq,
		&m.AccountID,
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Description,
		&m.Debit,
		&m.Credit,
		&m.Balance,
		&m.FiscalYear,
		&m.Period,
		&m.Position,
		&m.CreatedAt,
	)
	return m, err
}

// ListLedgerLines retrieves ledger lines for an account ordered ascending by
// (entry_date, seq). The cursor is that tuple of the last returned row, which is stable
// because ledger lines are append-only.
func (r *PgxLedgerRepository) ListLedgerLines(ctx context.Context, accountID string, from, to *time.Time, limit int, nextToken *string) ([]domain.LedgerLine, *string, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `SELECT ` + ledgerColumns + ` FROM ledger_lines WHERE account_id = $1`
	args := []any{accountID}
	argn := 1
	addArg := func(v any) string {
		argn++
		args = append(args, v)
		return fmt.Sprintf("$%d", argn)
	}

	if from != nil {
		query += ` AND entry_date >= ` + addArg(*from)
	}
	if to != nil {
		query += ` AND entry_date <= ` + addArg(*to)
	}
	if nextToken != nil && *nextToken != "" {
		cursorDate, cursorSeq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		pDate := addArg(cursorDate)
		pSeq := addArg(cursorSeq)
		query += ` AND (entry_date, seq) > (` + pDate + `, ` + pSeq + `)`
	}
	query += ` ORDER BY entry_date ASC, seq ASC LIMIT ` + addArg(limit+1) + `;`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query ledger lines: %w", err)
	}
	defer rows.Close()

	lines := make([]models.LedgerLine, 0, limit+1)
	for rows.Next() {
		m, err := scanLedgerLine(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan ledger line row: %w", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating ledger line rows: %w", err)
	}

	var token *string
	if len(lines) > limit {
		lines = lines[:limit]
		last := lines[len(lines)-1]
		t := pagination.EncodeToken(last.EntryDate, last.Seq)
		token = &t
	}
	return mapping.ToDomainLedgerLineSlice(lines), token, nil
}

// GetLedgerSummary aggregates the whole filtered window regardless of pagination.
func (r *PgxLedgerRepository) GetLedgerSummary(ctx context.Context, accountID string, from, to *time.Time) (*domain.LedgerSummary, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0), COUNT(*)
		FROM ledger_lines
		WHERE account_id = $1
	`
	args := []any{accountID}
	argn := 1
	addArg := func(v any) string {
		argn++
		args = append(args, v)
		return fmt.Sprintf("$%d", argn)
	}
	if from != nil {
		query += ` AND entry_date >= ` + addArg(*from)
	}
	if to != nil {
		query += ` AND entry_date <= ` + addArg(*to)
	}
	query += `;`

	var summary domain.LedgerSummary
	err := r.pool.QueryRow(ctx, query, args...).Scan(&summary.TotalDebit, &summary.TotalCredit, &summary.Count)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ledger window: %w", err)
	}
	summary.NetBalance = summary.TotalDebit.Sub(summary.TotalCredit)
	return &summary, nil
}

// FindAllLinesByAccount retrieves every line of an account inside [from, to], ordered
// ascending by (entry_date, seq).
func (r *PgxLedgerRepository) FindAllLinesByAccount(ctx context.Context, accountID string, from, to time.Time) ([]domain.LedgerLine, error) {
	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_lines
		WHERE account_id = $1 AND entry_date >= $2 AND entry_date <= $3
		ORDER BY entry_date ASC, seq ASC;
	`
	rows, err := r.pool.Query(ctx, query, accountID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query account activity: %w", err)
	}
	defer rows.Close()

	lines := []models.LedgerLine{}
	for rows.Next() {
		m, err := scanLedgerLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger line row: %w", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger line rows: %w", err)
	}
	return mapping.ToDomainLedgerLineSlice(lines), nil
}

// GetBalanceSums returns the debit/credit totals of an account's lines strictly before
// the given date.
func (r *PgxLedgerRepository) GetBalanceSums(ctx context.Context, accountID string, before time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0)
		FROM ledger_lines
		WHERE account_id = $1 AND entry_date < $2;
	`
	var debit, credit decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, accountID, before).Scan(&debit, &credit); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("failed to sum balances before %s: %w", before.Format("2006-01-02"), err)
	}
	return debit, credit, nil
}

// GetTrialBalanceData returns per-account opening and period sums for every active
// account, plus inactive accounts that still carry postings on or before asOf. Active
// accounts without postings appear with zero sums. Opening covers lines strictly before
// the period start; period covers [periodStart, asOf].
func (r *PgxLedgerRepository) GetTrialBalanceData(ctx context.Context, periodStart, asOf time.Time) ([]portsrepo.TrialBalanceAccountSums, error) {
	query := `
		SELECT
			a.account_id,
			a.code,
			a.name,
			a.account_type,
			COALESCE(SUM(CASE WHEN l.entry_date < $1 THEN l.debit ELSE 0 END), 0) AS opening_debit,
			COALESCE(SUM(CASE WHEN l.entry_date < $1 THEN l.credit ELSE 0 END), 0) AS opening_credit,
			COALESCE(SUM(CASE WHEN l.entry_date >= $1 AND l.entry_date <= $2 THEN l.debit ELSE 0 END), 0) AS period_debit,
			COALESCE(SUM(CASE WHEN l.entry_date >= $1 AND l.entry_date <= $2 THEN l.credit ELSE 0 END), 0) AS period_credit
		FROM accounts a
		LEFT JOIN ledger_lines l ON l.account_id = a.account_id AND l.entry_date <= $2
		WHERE a.is_active = TRUE OR l.ledger_line_id IS NOT NULL
		GROUP BY a.account_id, a.code, a.name, a.account_type
		ORDER BY a.code ASC;
	`
	rows, err := r.pool.Query(ctx, query, periodStart, asOf)
	if err != nil {
		return nil, fmt.Errorf("failed to query trial balance data: %w", err)
	}
	defer rows.Close()

	sums := []portsrepo.TrialBalanceAccountSums{}
	for rows.Next() {
		var s portsrepo.TrialBalanceAccountSums
		err := rows.Scan(
			&s.AccountID,
			&s.AccountCode,
			&s.AccountName,
			&s.AccountType,
			&s.OpeningDebit,
			&s.OpeningCredit,
			&s.PeriodDebit,
			&s.PeriodCredit,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan trial balance row: %w", err)
		}
		sums = append(sums, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trial balance rows: %w", err)
	}
	return sums, nil
}

// GetPeriodTotals aggregates all posting activity inside [from, to).
func (r *PgxLedgerRepository) GetPeriodTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(debit), 0), COALESCE(SUM(credit), 0), COUNT(DISTINCT entry_id)
		FROM ledger_lines
		WHERE entry_date >= $1 AND entry_date < $2;
	`
	var debit, credit decimal.Decimal
	var entryCount int
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&debit, &credit, &entryCount); err != nil {
		return decimal.Zero, decimal.Zero, 0, fmt.Errorf("failed to aggregate period totals: %w", err)
	}
	return debit, credit, entryCount, nil
}

// FindLinesByIDs retrieves specific ledger lines of one account. Ids belonging to other
// accounts are absent from the result.
func (r *PgxLedgerRepository) FindLinesByIDs(ctx context.Context, accountID string, ledgerLineIDs []string) ([]domain.LedgerLine, error) {
	if len(ledgerLineIDs) == 0 {
		return []domain.LedgerLine{}, nil
	}

	query := `
		SELECT ` + ledgerColumns + `
		FROM ledger_lines
		WHERE account_id = $1 AND ledger_line_id = ANY($2)
		ORDER BY entry_date ASC, seq ASC;
	`
	rows, err := r.pool.Query(ctx, query, accountID, ledgerLineIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger lines by IDs: %w", err)
	}
	defer rows.Close()

	lines := []models.LedgerLine{}
	for rows.Next() {
		m, err := scanLedgerLine(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger line row: %w", err)
		}
		lines = append(lines, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger line rows: %w", err)
	}
	return mapping.ToDomainLedgerLineSlice(lines), nil
}
