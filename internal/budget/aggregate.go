package budget

import (
	"sort"
	"time"

	"github.com/JamesHardey/NairaStudent/internal/core"
)

// Period selects the window for top-category rankings.
type Period string

const (
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

// TrendDirection describes today's spend relative to yesterday's.
type TrendDirection string

const (
	TrendIncreasing TrendDirection = "increasing"
	TrendDecreasing TrendDirection = "decreasing"
	TrendNeutral    TrendDirection = "neutral"
)

type (
	// BreakdownEntry is one category's share of today's spend.
	BreakdownEntry struct {
		Category   string
		Amount     core.Money
		Percentage float64
	}

	// CategoryTotal is a category's summed spend over a period.
	CategoryTotal struct {
		Category string
		Amount   core.Money
	}

	// DayAmount is one weekday's total in the weekly histogram.
	DayAmount struct {
		Day    string
		Amount core.Money
	}

	// Trend compares today's total against yesterday's.
	Trend struct {
		Direction  TrendDirection
		Percentage float64
	}
)

// weekdayLabels is the fixed Sun-first order of the weekly histogram.
var weekdayLabels = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

func totalWhere(expenses []core.Expense, keep func(time.Time) bool) core.Money {
	var sum int64
	for _, e := range expenses {
		if keep(e.Date) {
			sum += e.Amount.Kobo
		}
	}
	return core.Money{Kobo: sum}
}

// DailyTotal sums today's expenses.
func DailyTotal(expenses []core.Expense, now time.Time) core.Money {
	return totalWhere(expenses, func(ts time.Time) bool { return IsToday(ts, now) })
}

// YesterdayTotal sums yesterday's expenses.
func YesterdayTotal(expenses []core.Expense, now time.Time) core.Money {
	return totalWhere(expenses, func(ts time.Time) bool { return IsYesterday(ts, now) })
}

// WeeklyTotal sums this week's expenses (Sunday-start week).
func WeeklyTotal(expenses []core.Expense, now time.Time) core.Money {
	return totalWhere(expenses, func(ts time.Time) bool { return IsThisWeek(ts, now) })
}

// MonthlyTotal sums this month's expenses.
func MonthlyTotal(expenses []core.Expense, now time.Time) core.Money {
	return totalWhere(expenses, func(ts time.Time) bool { return IsThisMonth(ts, now) })
}

// averageOverSpendDays divides the period total by the number of distinct
// calendar days that have at least one expense in the period. Days without
// spending do not dilute the average. Returns naira.
func averageOverSpendDays(expenses []core.Expense, now time.Time, inPeriod func(time.Time) bool) float64 {
	days := map[string]struct{}{}
	var sum int64
	for _, e := range expenses {
		if !inPeriod(e.Date) {
			continue
		}
		sum += e.Amount.Kobo
		days[dayKey(e.Date, now)] = struct{}{}
	}
	if len(days) == 0 {
		return 0
	}
	return core.Money{Kobo: sum}.Naira() / float64(len(days))
}

// WeeklyAverage returns this week's spend per distinct spend day, in naira.
func WeeklyAverage(expenses []core.Expense, now time.Time) float64 {
	return averageOverSpendDays(expenses, now, func(ts time.Time) bool { return IsThisWeek(ts, now) })
}

// MonthlyAverage returns this month's spend per distinct spend day, in naira.
func MonthlyAverage(expenses []core.Expense, now time.Time) float64 {
	return averageOverSpendDays(expenses, now, func(ts time.Time) bool { return IsThisMonth(ts, now) })
}

// CategoryBreakdown groups today's expenses by category with each entry's
// share of the daily total. Entries appear in first-occurrence order among
// today's expenses, not sorted by amount. A zero daily total yields zero
// percentages rather than NaN.
func CategoryBreakdown(expenses []core.Expense, now time.Time) []BreakdownEntry {
	sums := map[string]int64{}
	order := []string{}
	var total int64
	for _, e := range expenses {
		if !IsToday(e.Date, now) {
			continue
		}
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount.Kobo
		total += e.Amount.Kobo
	}

	out := make([]BreakdownEntry, 0, len(order))
	for _, cat := range order {
		entry := BreakdownEntry{Category: cat, Amount: core.Money{Kobo: sums[cat]}}
		if total > 0 {
			entry.Percentage = float64(sums[cat]) / float64(total) * 100
		}
		out = append(out, entry)
	}
	return out
}

// WeeklyByDay returns this week's totals per weekday, always exactly seven
// entries labelled Sun through Sat; weekdays with no expenses report zero.
func WeeklyByDay(expenses []core.Expense, now time.Time) []DayAmount {
	var sums [7]int64
	for _, e := range expenses {
		if !IsThisWeek(e.Date, now) {
			continue
		}
		sums[int(e.Date.In(now.Location()).Weekday())] += e.Amount.Kobo
	}

	out := make([]DayAmount, 7)
	for i, label := range weekdayLabels {
		out[i] = DayAmount{Day: label, Amount: core.Money{Kobo: sums[i]}}
	}
	return out
}

// TopCategories groups the period's expenses by category and returns the
// sums sorted descending by amount. Ties keep first-encountered order. The
// caller decides how many entries to display.
func TopCategories(expenses []core.Expense, now time.Time, period Period) []CategoryTotal {
	inPeriod := func(ts time.Time) bool { return IsThisWeek(ts, now) }
	if period == PeriodMonth {
		inPeriod = func(ts time.Time) bool { return IsThisMonth(ts, now) }
	}

	sums := map[string]int64{}
	order := []string{}
	for _, e := range expenses {
		if !inPeriod(e.Date) {
			continue
		}
		if _, seen := sums[e.Category]; !seen {
			order = append(order, e.Category)
		}
		sums[e.Category] += e.Amount.Kobo
	}

	out := make([]CategoryTotal, 0, len(order))
	for _, cat := range order {
		out = append(out, CategoryTotal{Category: cat, Amount: core.Money{Kobo: sums[cat]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Kobo > out[j].Amount.Kobo
	})
	return out
}

// SpendingTrend compares today's total to yesterday's. A zero yesterday
// yields a neutral trend with percentage 0, whatever today's spend is;
// reporting "infinitely increasing" after a no-spend day helps nobody.
func SpendingTrend(expenses []core.Expense, now time.Time) Trend {
	today := DailyTotal(expenses, now).Kobo
	yesterday := YesterdayTotal(expenses, now).Kobo

	if yesterday == 0 {
		return Trend{Direction: TrendNeutral, Percentage: 0}
	}

	change := float64(today-yesterday) / float64(yesterday) * 100
	t := Trend{Percentage: change}
	switch {
	case change > 0:
		t.Direction = TrendIncreasing
	case change < 0:
		t.Direction = TrendDecreasing
		t.Percentage = -change
	default:
		t.Direction = TrendNeutral
	}
	return t
}
