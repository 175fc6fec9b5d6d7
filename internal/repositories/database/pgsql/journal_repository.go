package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/bizsuite/ledger_backend/internal/apperrors"
	"github.com/bizsuite/ledger_backend/internal/core/domain"
	portsrepo "github.com/bizsuite/ledger_backend/internal/core/ports/repositories"
	"github.com/bizsuite/ledger_backend/internal/models"
	"github.com/bizsuite/ledger_backend/internal/utils/accounting"
	"github.com/bizsuite/ledger_backend/internal/utils/mapping"
	"github.com/bizsuite/ledger_backend/internal/utils/pagination"
)

const entryColumns = `entry_id, entry_number, entry_date, reference, memo, status, total_debit, total_credit, posted_at, posted_by, original_entry_id, reversing_entry_id, created_at, created_by, last_updated_at, last_updated_by`

const lineColumns = `line_id, entry_id, account_id, debit, credit, description, position, created_at, created_by, last_updated_at, last_updated_by`

type PgxJournalRepository struct {
	BaseRepository
	accountRepo portsrepo.AccountRepositoryFacade
}

// newPgxJournalRepository creates a new repository for journal entry data. The account
// repository is injected for the in-transaction lock and balance operations.
func newPgxJournalRepository(pool *pgxpool.Pool, accountRepo portsrepo.AccountRepositoryFacade) portsrepo.JournalRepositoryFacade {
	return &PgxJournalRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accountRepo:    accountRepo,
	}
}

// Ensure PgxJournalRepository implements portsrepo.JournalRepositoryFacade
var _ portsrepo.JournalRepositoryFacade = (*PgxJournalRepository)(nil)

// scanEntry scans one journal entry header row.
func scanEntry(row pgx.Row) (models.JournalEntry, error) {
	var m models.JournalEntry
	err := row.Scan(
		&m.EntryID,
		&m.EntryNumber,
		&m.EntryDate,
		&m.Reference,
		&m.Memo,
		&m.Status,
		&m.TotalDebit,
		&m.TotalCredit,
		&m.PostedAt,
		&m.PostedBy,
		&m.OriginalEntryID,
		&m.ReversingEntryID,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// nextEntryNumber assigns the next sequential human-readable entry number.
func nextEntryNumber(ctx context.Context, tx pgx.Tx) (string, error) {
	var n int64
	if err := tx.QueryRow(ctx, `SELECT nextval('journal_entry_number_seq');`).Scan(&n); err != nil {
		return "", fmt.Errorf("failed to assign entry number: %w", err)
	}
	return fmt.Sprintf("JE-%06d", n), nil
}

// insertEntryInTx inserts a header and its lines inside tx, assigning the entry number.
func (r *PgxJournalRepository) insertEntryInTx(ctx context.Context, tx pgx.Tx, entry domain.JournalEntry, lines []domain.JournalLine) (string, error) {
	entryNumber, err := nextEntryNumber(ctx, tx)
	if err != nil {
		return "", err
	}

	m := mapping.ToModelJournalEntry(entry)
	m.EntryNumber = entryNumber

	entryQuery := `
		INSERT INTO journal_entries (` + entryColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = tx.Exec(ctx, entryQuery,
		m.EntryID,
		m.EntryNumber,
		m.EntryDate,
		m.Reference,
		m.Memo,
		m.Status,
		m.TotalDebit,
		m.TotalCredit,
		m.PostedAt,
		m.PostedBy,
		m.OriginalEntryID,
		m.ReversingEntryID,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert journal entry %s: %w", m.EntryID, err)
	}

	if err := insertLinesInTx(ctx, tx, lines); err != nil {
		return "", err
	}
	return entryNumber, nil
}

// insertLinesInTx batch-inserts entry lines inside tx.
func insertLinesInTx(ctx context.Context, tx pgx.Tx, lines []domain.JournalLine) error {
	if len(lines) == 0 {
		return nil
	}

	lineQuery := `
		INSERT INTO journal_entry_lines (` + lineColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11);
	`
	batch := &pgx.Batch{}
	for _, l := range lines {
		ml := mapping.ToModelJournalLine(l)
		batch.Queue(lineQuery,
			ml.LineID,
			ml.EntryID,
			ml.AccountID,
			ml.Debit,
			ml.Credit,
			ml.Description,
			ml.Position,
			ml.CreatedAt,
			ml.CreatedBy,
			ml.LastUpdatedAt,
			ml.LastUpdatedBy,
		)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()
	for range lines {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("failed to insert journal entry line: %w", err)
		}
	}
	return nil
}

// SaveDraftEntry persists a new draft entry and its lines, returning the assigned
// sequential entry number.
func (r *PgxJournalRepository) SaveDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) (string, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return "", err
	}
	defer r.Rollback(ctx, tx)

	entryNumber, err := r.insertEntryInTx(ctx, tx, entry, lines)
	if err != nil {
		return "", err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return "", err
	}
	return entryNumber, nil
}

// entryStateError maps a zero-rows-affected guard failure to the right sentinel: the
// entry either does not exist or is not in the state the guard required.
func (r *PgxJournalRepository) entryStateError(ctx context.Context, q interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}, entryID string) error {
	var status models.EntryStatus
	err := q.QueryRow(ctx, `SELECT status FROM journal_entries WHERE entry_id = $1;`, entryID).Scan(&status)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrNotFound
		}
		return fmt.Errorf("failed to check entry %s state: %w", entryID, err)
	}
	return fmt.Errorf("%w: entry %s is %s", apperrors.ErrInvalidState, entryID, status)
}

// UpdateDraftEntry replaces the header fields and lines of a draft entry.
func (r *PgxJournalRepository) UpdateDraftEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer r.Rollback(ctx, tx)

	// Status guard in the UPDATE itself so a concurrent post cannot slip in between a
	// read and a write.
	headerQuery := `
		UPDATE journal_entries
		SET entry_date = $2, reference = $3, memo = $4, total_debit = $5, total_credit = $6,
		    last_updated_at = $7, last_updated_by = $8
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, headerQuery,
		entry.EntryID,
		entry.EntryDate,
		entry.Reference,
		entry.Memo,
		entry.TotalDebit,
		entry.TotalCredit,
		entry.LastUpdatedAt,
		entry.LastUpdatedBy,
	)
	if err != nil {
		return fmt.Errorf("failed to update journal entry %s: %w", entry.EntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.entryStateError(ctx, tx, entry.EntryID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM journal_entry_lines WHERE entry_id = $1;`, entry.EntryID); err != nil {
		return fmt.Errorf("failed to replace lines of entry %s: %w", entry.EntryID, err)
	}
	if err := insertLinesInTx(ctx, tx, lines); err != nil {
		return err
	}

	return r.Commit(ctx, tx)
}

// VoidEntry transitions a draft entry to void.
func (r *PgxJournalRepository) VoidEntry(ctx context.Context, entryID string, userID string, now time.Time) error {
	query := `
		UPDATE journal_entries
		SET status = 'VOID', last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	tag, err := r.Pool.Exec(ctx, query, entryID, now, userID)
	if err != nil {
		return fmt.Errorf("failed to void entry %s: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return r.entryStateError(ctx, r.Pool, entryID)
	}
	return nil
}

// FindEntryByID retrieves a journal entry header.
func (r *PgxJournalRepository) FindEntryByID(ctx context.Context, entryID string) (*domain.JournalEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`

	m, err := scanEntry(r.Pool.QueryRow(ctx, query, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find entry by ID %s: %w", entryID, err)
	}

	entry := mapping.ToDomainJournalEntry(m)
	return &entry, nil
}

// FindLinesByEntryID retrieves the lines of an entry ordered by position.
func (r *PgxJournalRepository) FindLinesByEntryID(ctx context.Context, entryID string) ([]domain.JournalLine, error) {
	query := `SELECT ` + lineColumns + ` FROM journal_entry_lines WHERE entry_id = $1 ORDER BY position ASC;`

	rows, err := r.Pool.Query(ctx, query, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of entry %s: %w", entryID, err)
	}
	defer rows.Close()

	lines := []domain.JournalLine{}
	for rows.Next() {
		var m models.JournalLine
		err := rows.Scan(
			&m.LineID,
			&m.EntryID,
			&m.AccountID,
			&m.Debit,
			&m.Credit,
			&m.Description,
			&m.Position,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan entry line row: %w", err)
		}
		lines = append(lines, mapping.ToDomainJournalLine(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entry line rows: %w", err)
	}
	return lines, nil
}

// ListEntries retrieves entries newest first with token-based pagination. The cursor is
// the (created_at, entry_id) tuple of the last returned row.
func (r *PgxJournalRepository) ListEntries(ctx context.Context, status *domain.EntryStatus, limit int, nextToken *string) ([]domain.JournalEntry, *string, error) {
	if limit <= 0 {
		limit = 50
	}

	query := `SELECT ` + entryColumns + ` FROM journal_entries WHERE 1=1`
	args := []any{}
	argn := 0
	addArg := func(v any) string {
		argn++
		args = append(args, v)
		return fmt.Sprintf("$%d", argn)
	}

	if status != nil {
		query += ` AND status = ` + addArg(string(*status))
	}
	if nextToken != nil && *nextToken != "" {
		cursorTime, cursorID, err := pagination.DecodeTimeIDToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err.Error())
		}
		pTime := addArg(cursorTime)
		pID := addArg(cursorID)
		query += ` AND (created_at, entry_id) < (` + pTime + `, ` + pID + `)`
	}
	// Fetch one extra row to detect whether another page exists.
	query += ` ORDER BY created_at DESC, entry_id DESC LIMIT ` + addArg(limit+1) + `;`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query journal entries: %w", err)
	}
	defer rows.Close()

	entries := make([]domain.JournalEntry, 0, limit+1)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to scan journal entry row: %w", err)
		}
		entries = append(entries, mapping.ToDomainJournalEntry(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating journal entry rows: %w", err)
	}

	var token *string
	if len(entries) > limit {
		entries = entries[:limit]
		last := entries[len(entries)-1]
		t := pagination.EncodeTimeIDToken(last.CreatedAt, last.EntryID)
		token = &t
	}
	return entries, token, nil
}

// postEntryInTx performs the atomic posting work inside tx: flips the draft to posted,
// locks the affected accounts, appends ledger lines with running balances, and applies
// the balance deltas. The status flip is guarded on DRAFT so a concurrent or repeated
// post of the same entry finds zero rows and fails instead of double-posting.
func (r *PgxJournalRepository) postEntryInTx(ctx context.Context, tx pgx.Tx, entryID string, meta portsrepo.PostingMeta) (*domain.JournalEntry, error) {
	flipQuery := `
		UPDATE journal_entries
		SET status = 'POSTED', posted_at = $2, posted_by = $3, last_updated_at = $2, last_updated_by = $3
		WHERE entry_id = $1 AND status = 'DRAFT';
	`
	tag, err := tx.Exec(ctx, flipQuery, entryID, meta.PostedAt, meta.PostedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to mark entry %s posted: %w", entryID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, r.entryStateError(ctx, tx, entryID)
	}

	headerQuery := `SELECT ` + entryColumns + ` FROM journal_entries WHERE entry_id = $1;`
	mEntry, err := scanEntry(tx.QueryRow(ctx, headerQuery, entryID))
	if err != nil {
		return nil, fmt.Errorf("failed to reload entry %s: %w", entryID, err)
	}

	linesQuery := `SELECT line_id, account_id, debit, credit, description, position FROM journal_entry_lines WHERE entry_id = $1 ORDER BY position ASC;`
	rows, err := tx.Query(ctx, linesQuery, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lines of entry %s: %w", entryID, err)
	}

	type postingLine struct {
		lineID      string
		accountID   string
		debit       decimal.Decimal
		credit      decimal.Decimal
		description string
		position    int
	}
	lines := []postingLine{}
	for rows.Next() {
		var l postingLine
		if err := rows.Scan(&l.lineID, &l.accountID, &l.debit, &l.credit, &l.description, &l.position); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan posting line: %w", err)
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posting lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%w: entry %s", apperrors.ErrEmptyEntry, entryID)
	}

	accountIDs := make([]string, 0, len(lines))
	seen := make(map[string]struct{}, len(lines))
	for _, l := range lines {
		if _, ok := seen[l.accountID]; !ok {
			seen[l.accountID] = struct{}{}
			accountIDs = append(accountIDs, l.accountID)
		}
	}

	lockedAccounts, err := r.accountRepo.FindAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts for posting: %w", err)
	}

	// Running balances start from the locked pre-posting balances; lines are applied in
	// position order so within-entry ordering is deterministic.
	runningBalances := make(map[string]decimal.Decimal, len(lockedAccounts))
	balanceChanges := make(map[string]decimal.Decimal, len(lockedAccounts))
	for id, acc := range lockedAccounts {
		runningBalances[id] = acc.Balance
		balanceChanges[id] = decimal.Zero
	}

	ledgerQuery := `
		INSERT INTO ledger_lines (ledger_line_id, account_id, entry_id, entry_number, entry_date, description, debit, credit, balance, fiscal_year, period, position, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13);
	`
	batch := &pgx.Batch{}
	for _, l := range lines {
		account := lockedAccounts[l.accountID]
		signed, err := accounting.SignedAmount(l.debit, l.credit, account.AccountType)
		if err != nil {
			return nil, fmt.Errorf("failed to compute signed amount for line %s: %w", l.lineID, err)
		}
		newBalance := runningBalances[l.accountID].Add(signed)
		runningBalances[l.accountID] = newBalance
		balanceChanges[l.accountID] = balanceChanges[l.accountID].Add(signed)

		batch.Queue(ledgerQuery,
			uuid.NewString(),
			l.accountID,
			entryID,
			mEntry.EntryNumber,
			mEntry.EntryDate,
			l.description,
			l.debit,
			l.credit,
			newBalance,
			meta.FiscalYear,
			meta.Period,
			l.position,
			meta.PostedAt,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range lines {
		if _, err := results.Exec(); err != nil {
			results.Close()
			return nil, fmt.Errorf("failed to append ledger line: %w", err)
		}
	}
	results.Close()

	if err := r.accountRepo.UpdateAccountBalancesInTx(ctx, tx, balanceChanges, meta.PostedBy, meta.PostedAt); err != nil {
		return nil, fmt.Errorf("failed to update account balances: %w", err)
	}

	entry := mapping.ToDomainJournalEntry(mEntry)
	return &entry, nil
}

// PostEntry atomically transitions a draft entry to posted. On any failure the
// transaction rolls back and the entry remains a draft.
func (r *PgxJournalRepository) PostEntry(ctx context.Context, entryID string, meta portsrepo.PostingMeta) (*domain.JournalEntry, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	entry, err := r.postEntryInTx(ctx, tx, entryID, meta)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return entry, nil
}

// SaveAndPostEntry persists a reversing entry and posts it within one transaction,
// linking the original entry. The original link is guarded on reversing_entry_id being
// NULL so an entry can only ever be reversed once.
func (r *PgxJournalRepository) SaveAndPostEntry(ctx context.Context, entry domain.JournalEntry, lines []domain.JournalLine, meta portsrepo.PostingMeta) (*domain.JournalEntry, error) {
	if entry.OriginalEntryID == nil {
		return nil, fmt.Errorf("%w: reversing entry must reference its original", apperrors.ErrValidation)
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	if _, err := r.insertEntryInTx(ctx, tx, entry, lines); err != nil {
		return nil, err
	}

	linkQuery := `
		UPDATE journal_entries
		SET reversing_entry_id = $2, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $1 AND status = 'POSTED' AND reversing_entry_id IS NULL;
	`
	tag, err := tx.Exec(ctx, linkQuery, *entry.OriginalEntryID, entry.EntryID, meta.PostedAt, meta.PostedBy)
	if err != nil {
		return nil, fmt.Errorf("failed to link reversal to entry %s: %w", *entry.OriginalEntryID, err)
	}
	if tag.RowsAffected() == 0 {
		return nil, fmt.Errorf("%w: entry %s was already reversed or is not posted", apperrors.ErrConflict, *entry.OriginalEntryID)
	}

	posted, err := r.postEntryInTx(ctx, tx, entry.EntryID, meta)
	if err != nil {
		return nil, err
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return posted, nil
}
