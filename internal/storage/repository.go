package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/JamesHardey/NairaStudent/internal/budget"
	"github.com/JamesHardey/NairaStudent/internal/core"

	_ "modernc.org/sqlite"
)

// Settings keys for the persisted budget scalars.
const (
	settingDailyLimit     = "daily_limit_kobo"
	settingLastAlertLevel = "last_alert_level"
)

type SQLiteRepository struct {
	db      *sql.DB
	queries *Queries
}

var _ Store = (*SQLiteRepository)(nil)

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{
		db:      db,
		queries: New(db),
	}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func toCore(e Expense) core.Expense {
	spentAt, err := time.Parse(time.RFC3339, e.SpentAt)
	if err != nil {
		// A bad timestamp must not break aggregation; a zero date simply
		// falls outside every window.
		spentAt = time.Time{}
	}
	return core.Expense{
		ID:       strconv.FormatInt(e.ID, 10),
		Amount:   core.Money{Kobo: e.AmountKobo},
		Category: e.Category,
		Note:     e.Note,
		Date:     spentAt,
	}
}

// ListExpenses returns the full expense snapshot.
func (r *SQLiteRepository) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	dbExpenses, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	expenses := make([]core.Expense, len(dbExpenses))
	for i, e := range dbExpenses {
		expenses[i] = toCore(e)
	}
	return expenses, nil
}

// AppendExpense stores a new expense, assigning its id and defaulting the
// date to the current time when unset.
func (r *SQLiteRepository) AppendExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if e.Date.IsZero() {
		e.Date = time.Now()
	}

	row, err := r.queries.CreateExpense(ctx, CreateExpenseParams{
		AmountKobo: e.Amount.Kobo,
		Category:   e.Category,
		Note:       e.Note,
		SpentAt:    e.Date.Format(time.RFC3339),
	})
	if err != nil {
		return core.Expense{}, fmt.Errorf("create expense: %w", err)
	}

	slog.InfoContext(ctx, "Expense saved",
		"id", row.ID,
		"category", row.Category,
		"amount_kobo", row.AmountKobo)

	return toCore(row), nil
}

// UpdateExpense applies a partial update. A missing id reports found=false
// and leaves the store unchanged.
func (r *SQLiteRepository) UpdateExpense(ctx context.Context, id string, patch core.ExpensePatch) (bool, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return false, nil
	}

	row, err := r.queries.GetExpense(ctx, rowID)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get expense: %w", err)
	}

	updated := toCore(row).Apply(patch)
	affected, err := r.queries.UpdateExpense(ctx, UpdateExpenseParams{
		ID:         rowID,
		AmountKobo: updated.Amount.Kobo,
		Category:   updated.Category,
		Note:       updated.Note,
		SpentAt:    updated.Date.Format(time.RFC3339),
	})
	if err != nil {
		return false, fmt.Errorf("update expense: %w", err)
	}
	return affected > 0, nil
}

// DeleteExpense removes a row by id; a missing id reports found=false.
func (r *SQLiteRepository) DeleteExpense(ctx context.Context, id string) (bool, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return false, nil
	}

	affected, err := r.queries.DeleteExpense(ctx, rowID)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	if affected > 0 {
		slog.InfoContext(ctx, "Expense deleted", "id", rowID)
	}
	return affected > 0, nil
}

// ClearExpenses removes every expense and resets the alert level in one
// transaction. The daily limit survives a clear.
func (r *SQLiteRepository) ClearExpenses(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin clear transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	if err := qtx.ClearExpenses(ctx); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	if err := qtx.SetSetting(ctx, settingLastAlertLevel, strconv.Itoa(int(budget.AlertLevelNone))); err != nil {
		return fmt.Errorf("reset alert level: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit clear transaction: %w", err)
	}
	slog.InfoContext(ctx, "All expenses cleared")
	return nil
}

// DailyLimit returns the configured limit, defaulting to ₦5,000 when it has
// never been set.
func (r *SQLiteRepository) DailyLimit(ctx context.Context) (core.Money, error) {
	value, err := r.queries.GetSetting(ctx, settingDailyLimit)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Money{Kobo: DefaultDailyLimitKobo}, nil
	}
	if err != nil {
		return core.Money{}, fmt.Errorf("get daily limit: %w", err)
	}

	kobo, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return core.Money{Kobo: DefaultDailyLimitKobo}, nil
	}
	return core.Money{Kobo: kobo}, nil
}

func (r *SQLiteRepository) SetDailyLimit(ctx context.Context, limit core.Money) error {
	if err := r.queries.SetSetting(ctx, settingDailyLimit, strconv.FormatInt(limit.Kobo, 10)); err != nil {
		return fmt.Errorf("set daily limit: %w", err)
	}
	slog.InfoContext(ctx, "Daily limit updated", "limit_kobo", limit.Kobo)
	return nil
}

// LastAlertLevel returns the highest threshold already announced,
// defaulting to none.
func (r *SQLiteRepository) LastAlertLevel(ctx context.Context) (budget.AlertLevel, error) {
	value, err := r.queries.GetSetting(ctx, settingLastAlertLevel)
	if errors.Is(err, sql.ErrNoRows) {
		return budget.AlertLevelNone, nil
	}
	if err != nil {
		return budget.AlertLevelNone, fmt.Errorf("get alert level: %w", err)
	}

	level, err := strconv.Atoi(value)
	if err != nil {
		return budget.AlertLevelNone, nil
	}
	return budget.ParseAlertLevel(level), nil
}

func (r *SQLiteRepository) SetLastAlertLevel(ctx context.Context, level budget.AlertLevel) error {
	if err := r.queries.SetSetting(ctx, settingLastAlertLevel, strconv.Itoa(int(level))); err != nil {
		return fmt.Errorf("set alert level: %w", err)
	}
	return nil
}

// GetExpense retrieves a single row by its string id, for the sync worker.
func (r *SQLiteRepository) GetExpense(ctx context.Context, id string) (*Expense, error) {
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse expense id %q: %w", id, err)
	}
	expense, err := r.queries.GetExpense(ctx, rowID)
	if err != nil {
		return nil, fmt.Errorf("get expense by id: %w", err)
	}
	return &expense, nil
}

// PendingSyncExpense is the minimal row data carried in sync queue messages.
type PendingSyncExpense struct {
	ID        int64
	Version   int64
	CreatedAt time.Time
}

// GetPendingSyncExpenses returns expenses not yet exported to the sheet.
func (r *SQLiteRepository) GetPendingSyncExpenses(ctx context.Context, limit int) ([]PendingSyncExpense, error) {
	dbExpenses, err := r.queries.GetPendingSyncExpenses(ctx, int64(limit))
	if err != nil {
		return nil, fmt.Errorf("get pending sync expenses: %w", err)
	}

	expenses := make([]PendingSyncExpense, len(dbExpenses))
	for i, e := range dbExpenses {
		expenses[i] = PendingSyncExpense{
			ID:        e.ID,
			Version:   e.Version,
			CreatedAt: e.CreatedAt,
		}
	}
	return expenses, nil
}

// MarkSynced marks an expense as successfully exported.
func (r *SQLiteRepository) MarkSynced(ctx context.Context, id int64) error {
	if err := r.queries.MarkExpenseSynced(ctx, id); err != nil {
		return fmt.Errorf("mark expense synced: %w", err)
	}
	slog.InfoContext(ctx, "Expense marked as synced", "id", id)
	return nil
}

// MarkSyncError marks an expense whose export keeps failing.
func (r *SQLiteRepository) MarkSyncError(ctx context.Context, id int64) error {
	if err := r.queries.MarkExpenseSyncError(ctx, id); err != nil {
		return fmt.Errorf("mark expense sync error: %w", err)
	}
	slog.WarnContext(ctx, "Expense marked with sync error", "id", id)
	return nil
}
