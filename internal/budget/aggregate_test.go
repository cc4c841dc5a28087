package budget

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/JamesHardey/NairaStudent/internal/core"
)

func exp(kobo int64, category string, ts time.Time) core.Expense {
	return core.Expense{Amount: core.Money{Kobo: kobo}, Category: category, Date: ts}
}

func at(day, hour int) time.Time {
	return time.Date(2025, 3, day, hour, 0, 0, 0, time.UTC)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestPeriodTotals(t *testing.T) {
	expenses := []core.Expense{
		exp(100000, core.CategoryFood, at(12, 9)),       // today
		exp(50000, core.CategoryTransport, at(12, 14)),  // today
		exp(30000, core.CategoryData, at(11, 10)),       // yesterday
		exp(20000, core.CategoryFood, at(9, 8)),         // sunday, this week
		exp(40000, core.CategoryPrinting, at(3, 12)),    // this month, last week
		exp(99900, core.CategoryMisc, time.Date(2025, 2, 20, 9, 0, 0, 0, time.UTC)), // february
	}

	if got := DailyTotal(expenses, now).Kobo; got != 150000 {
		t.Errorf("DailyTotal = %d, want 150000", got)
	}
	if got := YesterdayTotal(expenses, now).Kobo; got != 30000 {
		t.Errorf("YesterdayTotal = %d, want 30000", got)
	}
	if got := WeeklyTotal(expenses, now).Kobo; got != 200000 {
		t.Errorf("WeeklyTotal = %d, want 200000", got)
	}
	if got := MonthlyTotal(expenses, now).Kobo; got != 240000 {
		t.Errorf("MonthlyTotal = %d, want 240000", got)
	}
}

func TestEmptySnapshot(t *testing.T) {
	var none []core.Expense
	if got := DailyTotal(none, now).Kobo; got != 0 {
		t.Errorf("DailyTotal on empty = %d", got)
	}
	if got := WeeklyAverage(none, now); got != 0 {
		t.Errorf("WeeklyAverage on empty = %v", got)
	}
	if got := CategoryBreakdown(none, now); len(got) != 0 {
		t.Errorf("CategoryBreakdown on empty = %v", got)
	}
	if got := TopCategories(none, now, PeriodWeek); len(got) != 0 {
		t.Errorf("TopCategories on empty = %v", got)
	}
}

func TestAverages(t *testing.T) {
	// Two spend days this week (Mon 10 and Wed 12); the average divides by
	// distinct spend days, not by seven or by days elapsed.
	expenses := []core.Expense{
		exp(100000, core.CategoryFood, at(10, 9)),
		exp(50000, core.CategoryFood, at(10, 19)),
		exp(150000, core.CategoryTransport, at(12, 9)),
	}
	if got := WeeklyAverage(expenses, now); !approx(got, 1500) {
		t.Errorf("WeeklyAverage = %v, want 1500", got)
	}
	// One more spend day earlier in the month makes three for the monthly cut.
	expenses = append(expenses, exp(60000, core.CategoryData, at(3, 9)))
	if got := MonthlyAverage(expenses, now); !approx(got, 1200) {
		t.Errorf("MonthlyAverage = %v, want 1200", got)
	}
}

func TestCategoryBreakdown(t *testing.T) {
	expenses := []core.Expense{
		exp(100000, core.CategoryFood, at(12, 9)),
		exp(50000, core.CategoryTransport, at(12, 12)),
		exp(25000, core.CategoryFood, at(12, 18)),
		exp(70000, core.CategoryData, at(11, 9)), // yesterday, excluded
	}
	got := CategoryBreakdown(expenses, now)
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	// Insertion order of first occurrence, not sorted by amount.
	if got[0].Category != core.CategoryFood || got[1].Category != core.CategoryTransport {
		t.Errorf("unexpected order: %v", got)
	}
	if got[0].Amount.Kobo != 125000 || got[1].Amount.Kobo != 50000 {
		t.Errorf("unexpected sums: %v", got)
	}
	total := 175000.0
	if !approx(got[0].Percentage, 125000/total*100) {
		t.Errorf("food percentage = %v", got[0].Percentage)
	}
	if !approx(got[0].Percentage+got[1].Percentage, 100) {
		t.Errorf("percentages should sum to 100, got %v", got[0].Percentage+got[1].Percentage)
	}
}

func TestCategoryBreakdownUnknownCategory(t *testing.T) {
	expenses := []core.Expense{exp(10000, "subscriptions", at(12, 9))}
	got := CategoryBreakdown(expenses, now)
	if len(got) != 1 || got[0].Category != "subscriptions" {
		t.Fatalf("unknown category should pass through as its own bucket: %v", got)
	}
	if !approx(got[0].Percentage, 100) {
		t.Errorf("percentage = %v, want 100", got[0].Percentage)
	}
}

func TestWeeklyByDay(t *testing.T) {
	expenses := []core.Expense{
		exp(20000, core.CategoryFood, at(9, 8)),       // Sun
		exp(30000, core.CategoryFood, at(12, 9)),      // Wed
		exp(10000, core.CategoryTransport, at(12, 18)), // Wed
		exp(99999, core.CategoryMisc, at(5, 9)),       // last week, excluded
	}
	got := WeeklyByDay(expenses, now)
	if len(got) != 7 {
		t.Fatalf("expected exactly 7 entries, got %d", len(got))
	}
	wantLabels := []string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}
	var sum int64
	for i, d := range got {
		if d.Day != wantLabels[i] {
			t.Errorf("entry %d labelled %q, want %q", i, d.Day, wantLabels[i])
		}
		sum += d.Amount.Kobo
	}
	if got[0].Amount.Kobo != 20000 {
		t.Errorf("Sun = %d, want 20000", got[0].Amount.Kobo)
	}
	if got[3].Amount.Kobo != 40000 {
		t.Errorf("Wed = %d, want 40000", got[3].Amount.Kobo)
	}
	if got[1].Amount.Kobo != 0 {
		t.Errorf("Mon should be zero, got %d", got[1].Amount.Kobo)
	}
	if want := WeeklyTotal(expenses, now).Kobo; sum != want {
		t.Errorf("histogram sums to %d, weekly total is %d", sum, want)
	}
}

func TestTopCategories(t *testing.T) {
	expenses := []core.Expense{
		exp(30000, core.CategoryTransport, at(10, 9)),
		exp(80000, core.CategoryFood, at(11, 9)),
		exp(30000, core.CategoryData, at(12, 9)), // ties with transport, seen later
	}
	got := TopCategories(expenses, now, PeriodWeek)
	want := []CategoryTotal{
		{Category: core.CategoryFood, Amount: core.Money{Kobo: 80000}},
		{Category: core.CategoryTransport, Amount: core.Money{Kobo: 30000}},
		{Category: core.CategoryData, Amount: core.Money{Kobo: 30000}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("TopCategories = %v, want %v", got, want)
	}

	// Monthly cut includes spend from earlier in the month.
	expenses = append(expenses, exp(200000, core.CategoryPrinting, at(3, 9)))
	gotMonth := TopCategories(expenses, now, PeriodMonth)
	if gotMonth[0].Category != core.CategoryPrinting {
		t.Errorf("month leader = %q, want printing", gotMonth[0].Category)
	}
}

func TestSpendingTrend(t *testing.T) {
	cases := []struct {
		name      string
		today     int64
		yesterday int64
		want      Trend
	}{
		{"increasing", 150000, 100000, Trend{Direction: TrendIncreasing, Percentage: 50}},
		{"decreasing", 50000, 100000, Trend{Direction: TrendDecreasing, Percentage: 50}},
		{"flat", 100000, 100000, Trend{Direction: TrendNeutral, Percentage: 0}},
		{"zero yesterday", 150000, 0, Trend{Direction: TrendNeutral, Percentage: 0}},
		{"nothing either day", 0, 0, Trend{Direction: TrendNeutral, Percentage: 0}},
	}
	for _, tc := range cases {
		var expenses []core.Expense
		if tc.today > 0 {
			expenses = append(expenses, exp(tc.today, core.CategoryFood, at(12, 9)))
		}
		if tc.yesterday > 0 {
			expenses = append(expenses, exp(tc.yesterday, core.CategoryFood, at(11, 9)))
		}
		got := SpendingTrend(expenses, now)
		if got.Direction != tc.want.Direction || !approx(got.Percentage, tc.want.Percentage) {
			t.Errorf("%s: trend = %+v, want %+v", tc.name, got, tc.want)
		}
	}
}

// Aggregates are pure: the same snapshot and now yield identical results
// and the input is never mutated.
func TestAggregateIdempotence(t *testing.T) {
	expenses := []core.Expense{
		exp(100000, core.CategoryFood, at(12, 9)),
		exp(50000, core.CategoryTransport, at(12, 12)),
		exp(30000, core.CategoryData, at(11, 9)),
	}
	snapshot := make([]core.Expense, len(expenses))
	copy(snapshot, expenses)

	first := CategoryBreakdown(expenses, now)
	second := CategoryBreakdown(expenses, now)
	if !reflect.DeepEqual(first, second) {
		t.Error("CategoryBreakdown is not idempotent")
	}
	if !reflect.DeepEqual(TopCategories(expenses, now, PeriodWeek), TopCategories(expenses, now, PeriodWeek)) {
		t.Error("TopCategories is not idempotent")
	}
	if SpendingTrend(expenses, now) != SpendingTrend(expenses, now) {
		t.Error("SpendingTrend is not idempotent")
	}
	if !reflect.DeepEqual(expenses, snapshot) {
		t.Error("aggregation mutated its input")
	}
}
