// Package memory is an in-process stand-in for the spreadsheet backup,
// used in tests and when no spreadsheet is configured.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/JamesHardey/NairaStudent/internal/core"
	ports "github.com/JamesHardey/NairaStudent/internal/sheets"
)

type Sheet struct {
	mu   sync.Mutex
	rows []core.Expense
}

var (
	_ ports.ExpenseWriter  = (*Sheet)(nil)
	_ ports.ExpenseDeleter = (*Sheet)(nil)
)

func New() *Sheet {
	return &Sheet{}
}

func (s *Sheet) Append(_ context.Context, e core.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, e)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

func (s *Sheet) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.rows {
		if e.ID == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

// Rows returns a copy of the appended rows, for assertions.
func (s *Sheet) Rows() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.rows))
	copy(out, s.rows)
	return out
}
