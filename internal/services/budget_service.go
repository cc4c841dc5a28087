// Package services orchestrates the record store, the aggregation engine
// and the notification boundary into the operations the presentation layer
// calls.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/JamesHardey/NairaStudent/internal/amqp"
	"github.com/JamesHardey/NairaStudent/internal/budget"
	"github.com/JamesHardey/NairaStudent/internal/core"
	"github.com/JamesHardey/NairaStudent/internal/notify"
	"github.com/JamesHardey/NairaStudent/internal/storage"
)

// BudgetService runs the save-then-evaluate flow and serves the derived
// views. The host serializes user actions, so one save's read-modify-write
// of the alert level never interleaves with another.
type BudgetService struct {
	store      storage.Store
	notifier   notify.Notifier
	amqpClient *amqp.Client
}

func NewBudgetService(store storage.Store, notifier notify.Notifier, amqpClient *amqp.Client) *BudgetService {
	if notifier == nil {
		notifier = notify.LogNotifier{}
	}
	return &BudgetService{
		store:      store,
		notifier:   notifier,
		amqpClient: amqpClient,
	}
}

// SaveExpense validates and stores a new expense, then runs the alert
// threshold check against the fresh snapshot. Alert delivery and sheet-sync
// publishing are both best-effort: the expense is saved either way.
func (s *BudgetService) SaveExpense(ctx context.Context, e core.Expense) (core.Expense, error) {
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	saved, err := s.store.AppendExpense(ctx, e)
	if err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publishSyncMessage(ctx, saved.ID)
	s.checkThresholds(ctx, time.Now())

	return saved, nil
}

// UpdateExpense applies a partial update to an existing expense. A missing
// id reports found=false with the store untouched. The sheet row is
// re-queued through the worker's pending scan rather than a direct publish.
func (s *BudgetService) UpdateExpense(ctx context.Context, id string, patch core.ExpensePatch) (bool, error) {
	if patch.Amount != nil {
		if err := patch.Amount.Validate(); err != nil {
			return false, err
		}
	}
	found, err := s.store.UpdateExpense(ctx, id, patch)
	if err != nil {
		return false, fmt.Errorf("update expense: %w", err)
	}
	return found, nil
}

// DeleteExpense removes an expense and queues removal of its sheet row.
func (s *BudgetService) DeleteExpense(ctx context.Context, id string) (bool, error) {
	found, err := s.store.DeleteExpense(ctx, id)
	if err != nil {
		return false, fmt.Errorf("delete expense: %w", err)
	}
	if found {
		s.publishDeleteMessage(ctx, id)
	}
	return found, nil
}

// ClearExpenses wipes every expense and resets the alert level. The daily
// limit is left alone.
func (s *BudgetService) ClearExpenses(ctx context.Context) error {
	if err := s.store.ClearExpenses(ctx); err != nil {
		return fmt.Errorf("clear expenses: %w", err)
	}
	return nil
}

// ListExpenses returns the stored snapshot, oldest first.
func (s *BudgetService) ListExpenses(ctx context.Context) ([]core.Expense, error) {
	return s.store.ListExpenses(ctx)
}

func (s *BudgetService) DailyLimit(ctx context.Context) (core.Money, error) {
	return s.store.DailyLimit(ctx)
}

func (s *BudgetService) SetDailyLimit(ctx context.Context, limit core.Money) error {
	if err := limit.Validate(); err != nil {
		return err
	}
	if err := s.store.SetDailyLimit(ctx, limit); err != nil {
		return fmt.Errorf("set daily limit: %w", err)
	}
	return nil
}

type (
	// Overview is the home view: today's position against the limit.
	Overview struct {
		Status    budget.Status
		Breakdown []budget.BreakdownEntry
		Trend     budget.Trend
	}

	// Analytics is the trends view over the current week and month.
	Analytics struct {
		WeeklyTotal    core.Money
		MonthlyTotal   core.Money
		WeeklyAverage  float64
		MonthlyAverage float64
		ByDay          []budget.DayAmount
		TopWeek        []budget.CategoryTotal
		TopMonth       []budget.CategoryTotal
		Trend          budget.Trend
	}
)

// Overview computes the home view for the given instant. It never fails:
// an unreadable store degrades to an empty snapshot and the default limit.
func (s *BudgetService) Overview(ctx context.Context, now time.Time) Overview {
	expenses := s.snapshot(ctx)
	limit := s.limitOrDefault(ctx)

	return Overview{
		Status:    budget.Evaluate(limit, expenses, now),
		Breakdown: budget.CategoryBreakdown(expenses, now),
		Trend:     budget.SpendingTrend(expenses, now),
	}
}

// Analytics computes the trends view for the given instant. Same
// degradation policy as Overview.
func (s *BudgetService) Analytics(ctx context.Context, now time.Time) Analytics {
	expenses := s.snapshot(ctx)

	return Analytics{
		WeeklyTotal:    budget.WeeklyTotal(expenses, now),
		MonthlyTotal:   budget.MonthlyTotal(expenses, now),
		WeeklyAverage:  budget.WeeklyAverage(expenses, now),
		MonthlyAverage: budget.MonthlyAverage(expenses, now),
		ByDay:          budget.WeeklyByDay(expenses, now),
		TopWeek:        budget.TopCategories(expenses, now, budget.PeriodWeek),
		TopMonth:       budget.TopCategories(expenses, now, budget.PeriodMonth),
		Trend:          budget.SpendingTrend(expenses, now),
	}
}

// DailySummary delivers the end-of-day recap notification.
func (s *BudgetService) DailySummary(ctx context.Context, now time.Time) error {
	expenses := s.snapshot(ctx)
	limit := s.limitOrDefault(ctx)

	count := 0
	for _, e := range expenses {
		if budget.IsToday(e.Date, now) {
			count++
		}
	}

	alert := budget.DailySummaryAlert(limit, budget.DailyTotal(expenses, now), count)
	if err := s.notifier.Deliver(ctx, alert); err != nil {
		return fmt.Errorf("deliver daily summary: %w", err)
	}
	return nil
}

// snapshot reads the full expense collection. A failed read degrades to an
// empty snapshot: aggregation computes over whatever it is given.
func (s *BudgetService) snapshot(ctx context.Context) []core.Expense {
	expenses, err := s.store.ListExpenses(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read expenses, treating as empty", "error", err)
		return nil
	}
	return expenses
}

func (s *BudgetService) limitOrDefault(ctx context.Context) core.Money {
	limit, err := s.store.DailyLimit(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read daily limit, using default", "error", err)
		return core.Money{Kobo: storage.DefaultDailyLimitKobo}
	}
	return limit
}

// checkThresholds runs the alert state machine once after a save. The new
// level is persisted before delivery so a redelivered alert can never fire
// twice; if persisting fails the alert is withheld this round and the next
// save re-evaluates.
func (s *BudgetService) checkThresholds(ctx context.Context, now time.Time) {
	limit := s.limitOrDefault(ctx)
	dailyTotal := budget.DailyTotal(s.snapshot(ctx), now)

	lastLevel, err := s.store.LastAlertLevel(ctx)
	if err != nil {
		slog.WarnContext(ctx, "Failed to read alert level, skipping threshold check", "error", err)
		return
	}

	alert, newLevel := budget.CheckThreshold(limit, dailyTotal, lastLevel)
	if alert == nil {
		return
	}

	if err := s.store.SetLastAlertLevel(ctx, newLevel); err != nil {
		slog.ErrorContext(ctx, "Failed to persist alert level, withholding alert",
			"level", int(newLevel), "error", err)
		return
	}

	if err := s.notifier.Deliver(ctx, *alert); err != nil {
		slog.ErrorContext(ctx, "Failed to deliver budget alert",
			"level", int(alert.Level), "error", err)
		// Level stays persisted: the threshold was announced as far as the
		// state machine is concerned.
	}
}

func (s *BudgetService) publishSyncMessage(ctx context.Context, id string) {
	if s.amqpClient == nil {
		return
	}
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse expense ID for sync", "id", id, "error", err)
		return
	}
	if err := s.amqpClient.PublishExpenseSync(ctx, rowID, 1); err != nil {
		slog.ErrorContext(ctx, "Failed to publish sync message", "id", id, "error", err)
		// Expense is saved locally; the worker's pending scan will catch up.
	}
}

func (s *BudgetService) publishDeleteMessage(ctx context.Context, id string) {
	if s.amqpClient == nil {
		return
	}
	rowID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to parse expense ID for delete", "id", id, "error", err)
		return
	}
	if err := s.amqpClient.PublishExpenseDelete(ctx, amqp.NewExpenseDeleteMessage(rowID)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish delete message", "id", id, "error", err)
	}
}

// Close releases the store and broker connections.
func (s *BudgetService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}
	if s.amqpClient != nil {
		if err := s.amqpClient.Close(); err != nil {
			errs = append(errs, fmt.Errorf("amqp: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close budget service: %v", errs)
	}
	return nil
}
