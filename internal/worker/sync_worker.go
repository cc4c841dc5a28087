package worker

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/JamesHardey/NairaStudent/internal/amqp"
	"github.com/JamesHardey/NairaStudent/internal/core"
	"github.com/JamesHardey/NairaStudent/internal/sheets"
	"github.com/JamesHardey/NairaStudent/internal/storage"
)

// SyncWorker exports expenses from SQLite to the Google Sheets backup.
type SyncWorker struct {
	storage   *storage.SQLiteRepository
	writer    sheets.ExpenseWriter
	deleter   sheets.ExpenseDeleter
	batchSize int
}

func NewSyncWorker(storage *storage.SQLiteRepository, writer sheets.ExpenseWriter, deleter sheets.ExpenseDeleter, batchSize int) *SyncWorker {
	return &SyncWorker{
		storage:   storage,
		writer:    writer,
		deleter:   deleter,
		batchSize: batchSize,
	}
}

// HandleQueueMessage routes one raw sync-queue delivery by its action field.
func (w *SyncWorker) HandleQueueMessage(ctx context.Context, body []byte) error {
	env, err := amqp.EnvelopeFromJSON(body)
	if err != nil {
		return fmt.Errorf("decode message envelope: %w", err)
	}

	switch env.Action {
	case amqp.ActionDelete:
		msg, err := amqp.ExpenseDeleteMessageFromJSON(body)
		if err != nil {
			return fmt.Errorf("decode delete message: %w", err)
		}
		return w.HandleDeleteMessage(ctx, msg)
	default:
		msg, err := amqp.ExpenseSyncMessageFromJSON(body)
		if err != nil {
			return fmt.Errorf("decode sync message: %w", err)
		}
		return w.HandleSyncMessage(ctx, msg)
	}
}

// HandleSyncMessage processes a single expense sync message from AMQP.
func (w *SyncWorker) HandleSyncMessage(ctx context.Context, msg *amqp.ExpenseSyncMessage) error {
	slog.InfoContext(ctx, "Processing sync message",
		"id", msg.ID,
		"version", msg.Version)

	id := strconv.FormatInt(msg.ID, 10)
	row, err := w.storage.GetExpense(ctx, id)
	if err != nil {
		return fmt.Errorf("get expense from storage: %w", err)
	}

	if err := w.exportExpense(ctx, row); err != nil {
		return fmt.Errorf("export expense to sheets: %w", err)
	}

	return nil
}

// HandleDeleteMessage processes a single expense delete message from AMQP.
// The local row is already gone; only the sheet row remains to remove.
func (w *SyncWorker) HandleDeleteMessage(ctx context.Context, msg *amqp.ExpenseDeleteMessage) error {
	slog.InfoContext(ctx, "Processing delete message", "id", msg.ID)

	if w.deleter == nil {
		slog.WarnContext(ctx, "No sheet deleter configured, skipping row deletion",
			"id", msg.ID)
		return nil
	}

	id := strconv.FormatInt(msg.ID, 10)
	found, err := w.deleter.Delete(ctx, id)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to delete row from sheet",
			"id", msg.ID,
			"error", err)
		return fmt.Errorf("delete sheet row: %w", err)
	}
	if !found {
		// Nothing to do: the expense was deleted before it ever synced.
		slog.InfoContext(ctx, "No sheet row for deleted expense", "id", msg.ID)
		return nil
	}

	slog.InfoContext(ctx, "Deleted row from sheet",
		"id", msg.ID,
		"timestamp", msg.Timestamp)
	return nil
}

// ProcessPendingExpenses exports any rows still marked pending. This is the
// backup path for lost AMQP messages and for edits, which reset a row to
// pending without republishing.
func (w *SyncWorker) ProcessPendingExpenses(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncExpenses(ctx, w.batchSize)
	if err != nil {
		return fmt.Errorf("get pending expenses: %w", err)
	}

	if len(pending) == 0 {
		return nil
	}

	slog.InfoContext(ctx, "Processing pending expenses", "count", len(pending))

	for _, p := range pending {
		row, err := w.storage.GetExpense(ctx, strconv.FormatInt(p.ID, 10))
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get pending expense", "id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			continue
		}

		if err := w.exportExpense(ctx, row); err != nil {
			slog.ErrorContext(ctx, "Failed to export pending expense", "id", p.ID, "error", err)
			continue
		}
	}

	return nil
}

// StartupSyncCheck drains the pending backlog once at worker startup,
// recovering from missed messages or worker downtime.
func (w *SyncWorker) StartupSyncCheck(ctx context.Context) error {
	pending, err := w.storage.GetPendingSyncExpenses(ctx, w.batchSize*5)
	if err != nil {
		return fmt.Errorf("get pending expenses for startup check: %w", err)
	}

	if len(pending) == 0 {
		slog.InfoContext(ctx, "No pending expenses found on startup")
		return nil
	}

	slog.InfoContext(ctx, "Found pending expenses on startup, processing...",
		"count", len(pending))

	synced := 0
	failed := 0

	for _, p := range pending {
		row, err := w.storage.GetExpense(ctx, strconv.FormatInt(p.ID, 10))
		if err != nil {
			slog.ErrorContext(ctx, "Failed to get expense for startup sync",
				"id", p.ID, "error", err)
			if err := w.storage.MarkSyncError(ctx, p.ID); err != nil {
				slog.ErrorContext(ctx, "Failed to mark sync error", "id", p.ID, "error", err)
			}
			failed++
			continue
		}

		if err := w.exportExpense(ctx, row); err != nil {
			slog.ErrorContext(ctx, "Failed to sync expense during startup",
				"id", p.ID, "error", err)
			failed++
			continue
		}

		synced++
	}

	slog.InfoContext(ctx, "Startup sync completed",
		"total", len(pending),
		"synced", synced,
		"errors", failed)

	return nil
}

func (w *SyncWorker) exportExpense(ctx context.Context, row *storage.Expense) error {
	expense := core.Expense{
		ID:       strconv.FormatInt(row.ID, 10),
		Amount:   core.Money{Kobo: row.AmountKobo},
		Category: row.Category,
		Note:     row.Note,
	}
	if spentAt, err := time.Parse(time.RFC3339, row.SpentAt); err == nil {
		expense.Date = spentAt
	}

	ref, err := w.writer.Append(ctx, expense)
	if err != nil {
		if markErr := w.storage.MarkSyncError(ctx, row.ID); markErr != nil {
			slog.ErrorContext(ctx, "Failed to mark sync error", "id", row.ID, "error", markErr)
		}
		return fmt.Errorf("append to sheet: %w", err)
	}

	if err := w.storage.MarkSynced(ctx, row.ID); err != nil {
		// The row is on the sheet; a failed status update just means the
		// pending scan will re-export it later.
		slog.ErrorContext(ctx, "Failed to mark as synced", "id", row.ID, "error", err)
	}

	slog.InfoContext(ctx, "Exported expense to sheet",
		"id", row.ID,
		"sheet_ref", ref,
		"amount_kobo", row.AmountKobo)

	return nil
}
