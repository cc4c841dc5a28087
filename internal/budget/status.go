package budget

import (
	"time"

	"github.com/JamesHardey/NairaStudent/internal/core"
)

// State is the two-valued budget classification. The presentation layer may
// add visual tiers on top; the evaluator only distinguishes normal from
// danger.
type State string

const (
	StateNormal State = "normal"
	StateDanger State = "danger"
)

// Status is the derived view of today's spend against the daily limit.
type Status struct {
	Limit      core.Money
	DailyTotal core.Money
	Remaining  core.Money
	Progress   float64 // 0..100, capped
	InDanger   bool
	State      State
}

// RemainingBalance is limit minus today's total. It goes negative when over
// budget; negative is a meaningful state, not an error.
func RemainingBalance(limit, dailyTotal core.Money) core.Money {
	return core.Money{Kobo: limit.Kobo - dailyTotal.Kobo}
}

// ProgressPercentage is today's spend as a share of the limit, capped at
// 100. A zero limit yields 0 rather than a division error.
func ProgressPercentage(limit, dailyTotal core.Money) float64 {
	if limit.Kobo == 0 {
		return 0
	}
	p := float64(dailyTotal.Kobo) / float64(limit.Kobo) * 100
	if p > 100 {
		return 100
	}
	return p
}

// InDangerZone reports whether less than 20% of the limit remains. Over
// budget states are always in the danger zone.
func InDangerZone(limit, dailyTotal core.Money) bool {
	remaining := limit.Kobo - dailyTotal.Kobo
	return remaining*5 < limit.Kobo
}

// Evaluate computes the full budget status for a snapshot at now.
func Evaluate(limit core.Money, expenses []core.Expense, now time.Time) Status {
	dailyTotal := DailyTotal(expenses, now)
	inDanger := InDangerZone(limit, dailyTotal)
	state := StateNormal
	if inDanger {
		state = StateDanger
	}
	return Status{
		Limit:      limit,
		DailyTotal: dailyTotal,
		Remaining:  RemainingBalance(limit, dailyTotal),
		Progress:   ProgressPercentage(limit, dailyTotal),
		InDanger:   inDanger,
		State:      state,
	}
}
