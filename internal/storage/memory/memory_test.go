package memory

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/JamesHardey/NairaStudent/internal/budget"
	"github.com/JamesHardey/NairaStudent/internal/core"
	"github.com/JamesHardey/NairaStudent/internal/storage"
)

func TestAppendAssignsUniqueIDs(t *testing.T) {
	ctx := context.Background()
	s := New()

	first, err := s.AppendExpense(ctx, core.Expense{Amount: core.Money{Kobo: 100}, Category: core.CategoryFood})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.AppendExpense(ctx, core.Expense{Amount: core.Money{Kobo: 200}, Category: core.CategoryData})
	if err != nil {
		t.Fatal(err)
	}
	if first.ID == "" || first.ID == second.ID {
		t.Errorf("ids not unique: %q vs %q", first.ID, second.ID)
	}
	if first.Date.IsZero() {
		t.Error("date should default to creation time")
	}
}

func TestUpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	s := New()
	e, _ := s.AppendExpense(ctx, core.Expense{Amount: core.Money{Kobo: 100000}, Category: core.CategoryFood})

	amount := core.Money{Kobo: 50000}
	found, err := s.UpdateExpense(ctx, e.ID, core.ExpensePatch{Amount: &amount})
	if err != nil || !found {
		t.Fatalf("update: found=%v err=%v", found, err)
	}
	items, _ := s.ListExpenses(ctx)
	if items[0].Amount.Kobo != 50000 {
		t.Errorf("amount = %d after update", items[0].Amount.Kobo)
	}
	if items[0].Date != e.Date {
		t.Error("date should carry through an update that does not set it")
	}

	// Missing id: failure signal, store untouched
	found, err = s.UpdateExpense(ctx, "999", core.ExpensePatch{Amount: &amount})
	if err != nil || found {
		t.Errorf("update missing id: found=%v err=%v", found, err)
	}

	found, err = s.DeleteExpense(ctx, e.ID)
	if err != nil || !found {
		t.Fatalf("delete: found=%v err=%v", found, err)
	}
	found, _ = s.DeleteExpense(ctx, e.ID)
	if found {
		t.Error("second delete of same id should report not found")
	}
}

func TestClearKeepsLimitResetsAlertLevel(t *testing.T) {
	ctx := context.Background()
	s := New()
	s.AppendExpense(ctx, core.Expense{Amount: core.Money{Kobo: 100}, Category: core.CategoryMisc})
	s.SetDailyLimit(ctx, core.Money{Kobo: 200000})
	s.SetLastAlertLevel(ctx, budget.AlertLevel75)

	if err := s.ClearExpenses(ctx); err != nil {
		t.Fatal(err)
	}
	items, _ := s.ListExpenses(ctx)
	if len(items) != 0 {
		t.Errorf("expected empty store, got %d items", len(items))
	}
	limit, _ := s.DailyLimit(ctx)
	if limit.Kobo != 200000 {
		t.Errorf("limit should survive a clear, got %d", limit.Kobo)
	}
	level, _ := s.LastAlertLevel(ctx)
	if level != budget.AlertLevelNone {
		t.Errorf("alert level should reset on clear, got %d", level)
	}
}

func TestDefaults(t *testing.T) {
	ctx := context.Background()
	s := New()
	limit, err := s.DailyLimit(ctx)
	if err != nil || limit.Kobo != storage.DefaultDailyLimitKobo {
		t.Errorf("default limit = %d, err %v", limit.Kobo, err)
	}
	level, err := s.LastAlertLevel(ctx)
	if err != nil || level != budget.AlertLevelNone {
		t.Errorf("default level = %d, err %v", level, err)
	}
}

func TestNewFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "expenses.json")
	dump := `[
		{"id": "1700000000001", "amount": "1000", "category": "food", "note": "rice", "date": "2025-03-12T09:00:00Z"},
		{"id": "1700000000002", "amount": 500, "category": "transport", "date": "2025-03-12T10:00:00Z"},
		{"id": "1700000000003", "amount": "oops", "category": "misc", "date": "not-a-date"}
	]`
	if err := os.WriteFile(path, []byte(dump), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewFromFile(path)
	items, _ := s.ListExpenses(context.Background())
	if len(items) != 3 {
		t.Fatalf("expected 3 records, got %d", len(items))
	}
	if items[0].Amount.Kobo != 100000 {
		t.Errorf("string amount parsed to %d", items[0].Amount.Kobo)
	}
	if items[1].Amount.Kobo != 50000 {
		t.Errorf("numeric amount parsed to %d", items[1].Amount.Kobo)
	}
	// Malformed amount and date degrade to zero values, never an error
	if items[2].Amount.Kobo != 0 {
		t.Errorf("malformed amount should be 0, got %d", items[2].Amount.Kobo)
	}
	if !items[2].Date.IsZero() {
		t.Errorf("malformed date should be zero, got %v", items[2].Date)
	}

	want := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	if !items[0].Date.Equal(want) {
		t.Errorf("date = %v, want %v", items[0].Date, want)
	}
}

func TestNewFromFileMissing(t *testing.T) {
	s := NewFromFile("does/not/exist.json")
	items, err := s.ListExpenses(context.Background())
	if err != nil || len(items) != 0 {
		t.Errorf("missing file should yield empty store: %v, %v", items, err)
	}
}
