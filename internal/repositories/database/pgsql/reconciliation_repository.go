package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bizsuite/ledger_backend/internal/apperrors"
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizsuite/ledger_backend/internal/core/ports/repositories"
	"github.com/bizsuite/ledger_backend/internal/models"
	"github.com/bizsuite/ledger_backend/internal/utils/mapping"
)

const reconciliationColumns = `reconciliation_id, account_id, statement_date, statement_balance, cleared_balance, difference, status, notes, created_at, created_by, last_updated_at, last_updated_by`

type PgxReconciliationRepository struct {
	BaseRepository
}

// newPgxReconciliationRepository creates a new repository for reconciliation data.
func newPgxReconciliationRepository(pool *pgxpool.Pool) portsrepo.ReconciliationRepositoryFacade {
	return &PgxReconciliationRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxReconciliationRepository implements portsrepo.ReconciliationRepositoryFacade
var _ portsrepo.ReconciliationRepositoryFacade = (*PgxReconciliationRepository)(nil)

func scanReconciliation(row pgx.Row) (models.Reconciliation, error) {
	var m models.Reconciliation
	err := row.Scan(
		&m.ReconciliationID,
		&m.AccountID,
		&m.StatementDate,
		&m.StatementBalance,
		&m.ClearedBalance,
		&m.Difference,
		&m.Status,
		&m.Notes,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// loadClearedLineIDs fetches the cleared line ids of one reconciliation.
func (r *PgxReconciliationRepository) loadClearedLineIDs(ctx context.Context, reconciliationID string) ([]string, error) {
	query := `SELECT ledger_line_id FROM reconciliation_lines WHERE reconciliation_id = $1 ORDER BY cleared_at ASC, ledger_line_id ASC;`
	rows, err := r.Pool.Query(ctx, query, reconciliationID)
	if err != nil {
		return nil, fmt.Errorf("failed to query cleared lines of reconciliation %s: %w", reconciliationID, err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan cleared line row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating cleared line rows: %w", err)
	}
	return ids, nil
}

// FindReconciliationByID retrieves a reconciliation with its cleared line ids.
func (r *PgxReconciliationRepository) FindReconciliationByID(ctx context.Context, reconciliationID string) (*domain.Reconciliation, error) {
	query := `SELECT ` + reconciliationColumns + ` FROM reconciliations WHERE reconciliation_id = $1;`

	m, err := scanReconciliation(r.Pool.QueryRow(ctx, query, reconciliationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find reconciliation by ID %s: %w", reconciliationID, err)
	}

	rec := mapping.ToDomainReconciliation(m)
	rec.ClearedLineIDs, err = r.loadClearedLineIDs(ctx, reconciliationID)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// FindOpenReconciliation retrieves the uncompleted reconciliation for an account whose
// statement date falls inside [periodStart, periodEnd).
func (r *PgxReconciliationRepository) FindOpenReconciliation(ctx context.Context, accountID string, periodStart, periodEnd time.Time) (*domain.Reconciliation, error) {
	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliations
		WHERE account_id = $1
		  AND statement_date >= $2 AND statement_date < $3
		  AND status IN ('PENDING', 'IN_PROGRESS')
		ORDER BY created_at DESC
		LIMIT 1;
	`
	m, err := scanReconciliation(r.Pool.QueryRow(ctx, query, accountID, periodStart, periodEnd))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find open reconciliation for account %s: %w", accountID, err)
	}

	rec := mapping.ToDomainReconciliation(m)
	return &rec, nil
}

// ListReconciliationsByAccount retrieves reconciliations for an account, newest first.
func (r *PgxReconciliationRepository) ListReconciliationsByAccount(ctx context.Context, accountID string, limit, offset int) ([]domain.Reconciliation, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT ` + reconciliationColumns + `
		FROM reconciliations
		WHERE account_id = $1
		ORDER BY statement_date DESC, created_at DESC
		LIMIT $2 OFFSET $3;
	`
	rows, err := r.Pool.Query(ctx, query, accountID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query reconciliations: %w", err)
	}
	defer rows.Close()

	recs := []domain.Reconciliation{}
	for rows.Next() {
		m, err := scanReconciliation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reconciliation row: %w", err)
		}
		recs = append(recs, mapping.ToDomainReconciliation(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating reconciliation rows: %w", err)
	}
	return recs, nil
}

// SaveReconciliation persists a new reconciliation record.
func (r *PgxReconciliationRepository) SaveReconciliation(ctx context.Context, rec domain.Reconciliation) error {
	m := mapping.ToModelReconciliation(rec)

	query := `
		INSERT INTO reconciliations (` + reconciliationColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.ReconciliationID,
		m.AccountID,
		m.StatementDate,
		m.StatementBalance,
		m.ClearedBalance,
		m.Difference,
		m.Status,
		m.Notes,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to save reconciliation %s: %w", m.ReconciliationID, err)
	}
	return nil
}

// UpdateReconciliation updates the record and replaces its cleared line set within one
// transaction. Ledger lines themselves are never written here.
func (r *PgxReconciliationRepository) UpdateReconciliation(ctx context.Context, rec domain.Reconciliation, clearedLineIDs []string) error {
	m := mapping.ToModelReconciliation(rec)

	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	query := `
		UPDATE reconciliations
		SET statement_balance = $2, cleared_balance = $3, difference = $4, status = $5,
		    notes = $6, last_updated_at = $7, last_updated_by = $8
		WHERE reconciliation_id = $1;
	`
	tag, err := tx.Exec(ctx, query,
		m.ReconciliationID,
		m.StatementBalance,
		m.ClearedBalance,
		m.Difference,
		m.Status,
		m.Notes,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update reconciliation %s: %w", m.ReconciliationID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if _, err := tx.Exec(ctx, `DELETE FROM reconciliation_lines WHERE reconciliation_id = $1;`, m.ReconciliationID); err != nil {
		return fmt.Errorf("failed to replace cleared lines of reconciliation %s: %w", m.ReconciliationID, err)
	}

	if len(clearedLineIDs) > 0 {
		insertQuery := `INSERT INTO reconciliation_lines (reconciliation_id, ledger_line_id, cleared_at) VALUES ($1, $2, $3);`
		batch := &pgx.Batch{}
		for _, lineID := range clearedLineIDs {
			batch.Queue(insertQuery, m.ReconciliationID, lineID, m.LastUpdatedAt)
		}
		results := tx.SendBatch(ctx, batch)
		for range clearedLineIDs {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("failed to insert cleared line: %w", err)
			}
		}
		results.Close()
	}

	return r.Commit(ctx, tx)
}
