package storage

import (
	"context"
	"database/sql"
	"time"
)

// Expense is the database row shape. Amounts are integer kobo, spent_at is
// an RFC3339 instant.
type Expense struct {
	ID         int64
	AmountKobo int64
	Category   string
	Note       string
	SpentAt    string
	CreatedAt  time.Time
	Version    int64
	SyncStatus string
	SyncedAt   sql.NullTime
}

// DBTX is satisfied by both *sql.DB and *sql.Tx, so the same queries run
// standalone or inside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Queries wraps raw SQL access to the expenses and settings tables.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns the same queries bound to a transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const expenseColumns = `id, amount_kobo, category, note, spent_at, created_at, version, sync_status, synced_at`

func scanExpense(row interface{ Scan(dest ...any) error }) (Expense, error) {
	var e Expense
	err := row.Scan(&e.ID, &e.AmountKobo, &e.Category, &e.Note, &e.SpentAt,
		&e.CreatedAt, &e.Version, &e.SyncStatus, &e.SyncedAt)
	return e, err
}

type CreateExpenseParams struct {
	AmountKobo int64
	Category   string
	Note       string
	SpentAt    string
}

func (q *Queries) CreateExpense(ctx context.Context, arg CreateExpenseParams) (Expense, error) {
	row := q.db.QueryRowContext(ctx, `
		INSERT INTO expenses (amount_kobo, category, note, spent_at)
		VALUES (?, ?, ?, ?)
		RETURNING `+expenseColumns,
		arg.AmountKobo, arg.Category, arg.Note, arg.SpentAt)
	return scanExpense(row)
}

func (q *Queries) GetExpense(ctx context.Context, id int64) (Expense, error) {
	row := q.db.QueryRowContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses WHERE id = ?`, id)
	return scanExpense(row)
}

func (q *Queries) ListExpenses(ctx context.Context) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses ORDER BY spent_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

type UpdateExpenseParams struct {
	ID         int64
	AmountKobo int64
	Category   string
	Note       string
	SpentAt    string
}

// UpdateExpense replaces the mutable fields of a row, bumps its version and
// re-queues it for sync. Returns the number of affected rows (0 when the id
// does not exist).
func (q *Queries) UpdateExpense(ctx context.Context, arg UpdateExpenseParams) (int64, error) {
	res, err := q.db.ExecContext(ctx, `
		UPDATE expenses
		SET amount_kobo = ?, category = ?, note = ?, spent_at = ?,
		    version = version + 1, sync_status = 'pending'
		WHERE id = ?`,
		arg.AmountKobo, arg.Category, arg.Note, arg.SpentAt, arg.ID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) DeleteExpense(ctx context.Context, id int64) (int64, error) {
	res, err := q.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (q *Queries) ClearExpenses(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, `DELETE FROM expenses`)
	return err
}

func (q *Queries) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := q.db.QueryRowContext(ctx, `SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	return value, err
}

func (q *Queries) SetSetting(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value)
	return err
}

func (q *Queries) GetPendingSyncExpenses(ctx context.Context, limit int64) ([]Expense, error) {
	rows, err := q.db.QueryContext(ctx, `
		SELECT `+expenseColumns+` FROM expenses
		WHERE sync_status = 'pending'
		ORDER BY created_at, id
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (q *Queries) MarkExpenseSynced(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE expenses SET sync_status = 'synced', synced_at = CURRENT_TIMESTAMP
		WHERE id = ?`, id)
	return err
}

func (q *Queries) MarkExpenseSyncError(ctx context.Context, id int64) error {
	_, err := q.db.ExecContext(ctx, `
		UPDATE expenses SET sync_status = 'error' WHERE id = ?`, id)
	return err
}
