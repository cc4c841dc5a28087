package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Money is a Naira amount held as integer kobo to avoid floating-point
	// drift in totals. 100 kobo = 1 naira.
	Money struct {
		Kobo int64
	}

	// Expense is a single logged spend. ID is assigned by the record store
	// and is stable for the record's lifetime.
	Expense struct {
		ID       string
		Amount   Money
		Category string
		Note     string
		Date     time.Time
	}

	// ExpensePatch carries the fields of an expense update. Nil fields are
	// left unchanged; in particular the original date is carried through
	// unless the patch sets one.
	ExpensePatch struct {
		Amount   *Money
		Category *string
		Note     *string
		Date     *time.Time
	}
)

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrNoteTooLong   = errors.New("note too long (max 200 characters)")
)

func (m Money) Validate() error {
	if m.Kobo <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}

// Apply returns a copy of e with the patch's non-nil fields replaced.
// The ID is never touched.
func (e Expense) Apply(p ExpensePatch) Expense {
	out := e
	if p.Amount != nil {
		out.Amount = *p.Amount
	}
	if p.Category != nil {
		out.Category = *p.Category
	}
	if p.Note != nil {
		out.Note = *p.Note
	}
	if p.Date != nil {
		out.Date = *p.Date
	}
	return out
}
