package budget

import (
	"fmt"

	"github.com/JamesHardey/NairaStudent/internal/core"
)

// AlertLevel is the highest spend-percentage threshold already announced.
// It only ever moves upward until something external resets it; the store
// persists it between evaluations.
type AlertLevel int

const (
	AlertLevelNone AlertLevel = 0
	AlertLevel50   AlertLevel = 50
	AlertLevel75   AlertLevel = 75
	AlertLevel90   AlertLevel = 90
)

// Alert message types carried as structured notification metadata.
const (
	AlertTypeBudget  = "budget-alert"
	AlertTypeSummary = "daily-summary"
)

// Alert is a one-shot notification decided by the threshold check. Delivery
// is the notifier collaborator's job.
type Alert struct {
	Title string
	Body  string
	Type  string
	Level AlertLevel
}

// ParseAlertLevel maps a persisted integer onto a known level. Anything
// unrecognized degrades to AlertLevelNone rather than failing.
func ParseAlertLevel(v int) AlertLevel {
	switch AlertLevel(v) {
	case AlertLevel50, AlertLevel75, AlertLevel90:
		return AlertLevel(v)
	default:
		return AlertLevelNone
	}
}

// CheckThreshold runs the alert state machine once, after an expense save.
// It returns the alert to deliver (nil when no threshold was newly crossed)
// and the level the caller must persist for the next evaluation. At most
// one alert fires per call; the highest qualifying threshold wins and lower
// thresholds it implies are never separately announced.
//
// A zero limit emits nothing: the percentage is undefined, same as the
// progress guard.
func CheckThreshold(limit, dailyTotal core.Money, last AlertLevel) (*Alert, AlertLevel) {
	if limit.Kobo <= 0 {
		return nil, last
	}
	p := float64(dailyTotal.Kobo) / float64(limit.Kobo) * 100
	remaining := RemainingBalance(limit, dailyTotal)

	switch {
	case p >= 90 && last < AlertLevel90:
		return &Alert{
			Title: "Budget Alert!",
			Body: fmt.Sprintf("You've spent 90%% of your daily budget (%s / %s). Only %s remaining!",
				core.FormatNaira(dailyTotal), core.FormatNaira(limit), core.FormatNaira(remaining)),
			Type:  AlertTypeBudget,
			Level: AlertLevel90,
		}, AlertLevel90
	case p >= 75 && last < AlertLevel75:
		return &Alert{
			Title: "Budget Warning",
			Body: fmt.Sprintf("You've spent 75%% of your daily budget. %s left for today.",
				core.FormatNaira(remaining)),
			Type:  AlertTypeBudget,
			Level: AlertLevel75,
		}, AlertLevel75
	case p >= 50 && last < AlertLevel50:
		return &Alert{
			Title: "Budget Update",
			Body: fmt.Sprintf("You've reached halfway through your daily budget. %s remaining.",
				core.FormatNaira(remaining)),
			Type:  AlertTypeBudget,
			Level: AlertLevel50,
		}, AlertLevel50
	}
	return nil, last
}

// DailySummaryAlert builds the end-of-day recap notification.
func DailySummaryAlert(limit, dailyTotal core.Money, expenseCount int) Alert {
	message := "Great job staying under budget!"
	p := ProgressPercentage(limit, dailyTotal)
	switch {
	case limit.Kobo > 0 && dailyTotal.Kobo >= limit.Kobo:
		message = "You went over budget today!"
	case p >= 80:
		message = "Close to your budget limit!"
	}
	return Alert{
		Title: "Daily Summary",
		Body: fmt.Sprintf("Spent %s out of %s (%d transactions). %s",
			core.FormatNaira(dailyTotal), core.FormatNaira(limit), expenseCount, message),
		Type: AlertTypeSummary,
	}
}
