package budget

import (
	"testing"

	"github.com/JamesHardey/NairaStudent/internal/core"
)

func naira(n int64) core.Money {
	return core.Money{Kobo: n * 100}
}

func TestRemainingBalance(t *testing.T) {
	if got := RemainingBalance(naira(5000), naira(1500)); got.Kobo != naira(3500).Kobo {
		t.Errorf("remaining = %d, want 350000", got.Kobo)
	}
	// Over budget goes negative; that is a valid state.
	if got := RemainingBalance(naira(1000), naira(1300)); got.Kobo != -30000 {
		t.Errorf("remaining = %d, want -30000", got.Kobo)
	}
}

func TestProgressPercentage(t *testing.T) {
	cases := []struct {
		name  string
		limit int64
		total int64
		want  float64
	}{
		{"thirty percent", 5000, 1500, 30},
		{"capped at 100", 1000, 2500, 100},
		{"exactly full", 1000, 1000, 100},
		{"zero limit", 0, 1500, 0},
		{"no spend", 5000, 0, 0},
	}
	for _, tc := range cases {
		if got := ProgressPercentage(naira(tc.limit), naira(tc.total)); !approx(got, tc.want) {
			t.Errorf("%s: progress = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestInDangerZone(t *testing.T) {
	cases := []struct {
		name  string
		limit int64
		total int64
		want  bool
	}{
		{"well under", 5000, 1500, false},
		{"inside last 20%", 1000, 850, true}, // 150 remaining < 200
		{"exactly 20% left", 1000, 800, false},
		{"just inside", 1000, 801, true},
		{"over budget", 1000, 1300, true},
		{"no spend", 5000, 0, false},
	}
	for _, tc := range cases {
		if got := InDangerZone(naira(tc.limit), naira(tc.total)); got != tc.want {
			t.Errorf("%s: danger = %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestEvaluate(t *testing.T) {
	expenses := []core.Expense{
		exp(100000, core.CategoryFood, at(12, 9)),
		exp(50000, core.CategoryTransport, at(12, 12)),
	}
	s := Evaluate(naira(5000), expenses, now)
	if s.DailyTotal.Kobo != 150000 {
		t.Errorf("daily total = %d", s.DailyTotal.Kobo)
	}
	if s.Remaining.Kobo != 350000 {
		t.Errorf("remaining = %d", s.Remaining.Kobo)
	}
	if !approx(s.Progress, 30) {
		t.Errorf("progress = %v", s.Progress)
	}
	if s.InDanger || s.State != StateNormal {
		t.Errorf("unexpected danger state: %+v", s)
	}

	over := Evaluate(naira(1000), expenses, now)
	if !over.InDanger || over.State != StateDanger {
		t.Errorf("expected danger at 150%% spend: %+v", over)
	}
}

func TestEvaluateEmpty(t *testing.T) {
	s := Evaluate(naira(5000), nil, now)
	if s.DailyTotal.Kobo != 0 || s.Remaining.Kobo != 500000 || s.Progress != 0 {
		t.Errorf("empty snapshot: %+v", s)
	}
	if s.State != StateNormal {
		t.Errorf("empty snapshot should be normal, got %s", s.State)
	}
}
