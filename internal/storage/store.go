// Package storage provides the durable record store for expenses and the
// two persisted budget scalars (daily limit and last announced alert level).
package storage

import (
	"context"

	"github.com/JamesHardey/NairaStudent/internal/budget"
	"github.com/JamesHardey/NairaStudent/internal/core"
)

// DefaultDailyLimitKobo is used when no limit has ever been set: ₦5,000.
const DefaultDailyLimitKobo int64 = 500000

// Store is the record-store boundary the engine reads snapshots from and
// the save flow writes through. Update and Delete report a missing id as
// found=false, not as an error; errors mean the store itself failed.
type Store interface {
	ListExpenses(ctx context.Context) ([]core.Expense, error)
	AppendExpense(ctx context.Context, e core.Expense) (core.Expense, error)
	UpdateExpense(ctx context.Context, id string, patch core.ExpensePatch) (found bool, err error)
	DeleteExpense(ctx context.Context, id string) (found bool, err error)
	ClearExpenses(ctx context.Context) error

	DailyLimit(ctx context.Context) (core.Money, error)
	SetDailyLimit(ctx context.Context, limit core.Money) error
	LastAlertLevel(ctx context.Context) (budget.AlertLevel, error)
	SetLastAlertLevel(ctx context.Context, level budget.AlertLevel) error

	Close() error
}
