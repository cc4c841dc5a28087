package core

import (
	"strings"
	"testing"
	"time"
)

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		Amount:   Money{Kobo: 100000},
		Category: CategoryFood,
		Note:     "lunch at the buka",
		Date:     time.Now(),
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	cases := []struct {
		name    string
		mutate  func(e *Expense)
		wantErr error
	}{
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount = Money{Kobo: -5} }, ErrInvalidAmount},
		{"empty category", func(e *Expense) { e.Category = "  " }, ErrEmptyCategory},
		{"long note", func(e *Expense) { e.Note = strings.Repeat("x", 201) }, ErrNoteTooLong},
	}
	for _, tc := range cases {
		e := valid
		tc.mutate(&e)
		if err := e.Validate(); err != tc.wantErr {
			t.Errorf("%s: got %v, want %v", tc.name, err, tc.wantErr)
		}
	}
}

func TestExpenseApply(t *testing.T) {
	date := time.Date(2025, 3, 10, 9, 30, 0, 0, time.Local)
	e := Expense{
		ID:       "7",
		Amount:   Money{Kobo: 50000},
		Category: CategoryTransport,
		Note:     "keke to campus",
		Date:     date,
	}

	amount := Money{Kobo: 75000}
	note := "cab, it rained"
	got := e.Apply(ExpensePatch{Amount: &amount, Note: &note})

	if got.ID != "7" {
		t.Errorf("ID changed to %q", got.ID)
	}
	if got.Amount != amount {
		t.Errorf("amount not applied: %+v", got.Amount)
	}
	if got.Note != note {
		t.Errorf("note not applied: %q", got.Note)
	}
	if got.Category != CategoryTransport {
		t.Errorf("category should be unchanged, got %q", got.Category)
	}
	if !got.Date.Equal(date) {
		t.Errorf("date should carry through unmodified, got %v", got.Date)
	}
}

func TestCategoryByID(t *testing.T) {
	if c := CategoryByID(CategoryFood); c.Name != "Food (Mama Put)" {
		t.Errorf("unexpected food category: %+v", c)
	}
	// Unknown identifiers fall back to Miscellaneous
	if c := CategoryByID("subscriptions"); c.ID != CategoryMisc {
		t.Errorf("expected misc fallback, got %+v", c)
	}
	if KnownCategory("subscriptions") {
		t.Error("subscriptions should not be a known category")
	}
	if !KnownCategory(CategoryPrinting) {
		t.Error("printing should be a known category")
	}
}
