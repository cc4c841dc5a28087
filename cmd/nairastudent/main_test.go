package main

import (
	"context"
	"testing"

	"github.com/JamesHardey/NairaStudent/internal/core"
	"github.com/JamesHardey/NairaStudent/internal/services"
	"github.com/JamesHardey/NairaStudent/internal/storage/memory"
)

func newTestService() *services.BudgetService {
	return services.NewBudgetService(memory.New(), nil, nil)
}

func TestRunEditClearsNote(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	saved, err := svc.SaveExpense(ctx, core.Expense{
		Amount:   core.Money{Kobo: 45000},
		Category: core.CategoryFood,
		Note:     "suya after class",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := runEdit(ctx, svc, []string{"-note", "", saved.ID}); err != nil {
		t.Fatal(err)
	}

	items, _ := svc.ListExpenses(ctx)
	if len(items) != 1 {
		t.Fatalf("expected one expense, got %d", len(items))
	}
	if items[0].Note != "" {
		t.Errorf("note not cleared: %q", items[0].Note)
	}
	if items[0].Amount.Kobo != 45000 || items[0].Category != core.CategoryFood {
		t.Errorf("unrelated fields changed: %+v", items[0])
	}
}

func TestRunEditLeavesNoteWhenFlagUnset(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	saved, err := svc.SaveExpense(ctx, core.Expense{
		Amount:   core.Money{Kobo: 45000},
		Category: core.CategoryFood,
		Note:     "suya after class",
	})
	if err != nil {
		t.Fatal(err)
	}

	if err := runEdit(ctx, svc, []string{"-amount", "300", saved.ID}); err != nil {
		t.Fatal(err)
	}

	items, _ := svc.ListExpenses(ctx)
	if items[0].Note != "suya after class" {
		t.Errorf("note changed without -note flag: %q", items[0].Note)
	}
	if items[0].Amount.Kobo != 30000 {
		t.Errorf("amount = %d, want 30000", items[0].Amount.Kobo)
	}
}

func TestRunEditMissingID(t *testing.T) {
	ctx := context.Background()
	svc := newTestService()

	if err := runEdit(ctx, svc, []string{"-note", "x", "404"}); err == nil {
		t.Error("expected error for missing expense id")
	}
}
