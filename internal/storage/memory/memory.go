// Package memory provides an in-memory record store, used as the test
// double and as the zero-setup data backend.
package memory

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/JamesHardey/NairaStudent/internal/budget"
	"github.com/JamesHardey/NairaStudent/internal/core"
	"github.com/JamesHardey/NairaStudent/internal/storage"
)

type Store struct {
	mu     sync.Mutex
	nextID int64
	items  []core.Expense
	limit  *core.Money
	level  budget.AlertLevel
}

var _ storage.Store = (*Store)(nil)

func New() *Store {
	return &Store{nextID: 1}
}

// seedRecord mirrors the JSON dump shape of the phone app's key-value
// store: amounts arrive as strings (or worse) and are parsed leniently,
// with anything malformed counting as zero.
type seedRecord struct {
	ID       string          `json:"id"`
	Amount   json.RawMessage `json:"amount"`
	Category string          `json:"category"`
	Note     string          `json:"note"`
	Date     string          `json:"date"`
}

// NewFromFile seeds a store from a JSON expense dump. A missing or
// unreadable file yields an empty store; this is seed data, not the
// durable record store.
func NewFromFile(path string) *Store {
	s := New()

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var records []seedRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return s
	}

	for _, rec := range records {
		date, err := time.Parse(time.RFC3339, rec.Date)
		if err != nil {
			date = time.Time{}
		}
		e := core.Expense{
			ID:       rec.ID,
			Amount:   core.Money{Kobo: lenientAmount(rec.Amount)},
			Category: rec.Category,
			Note:     rec.Note,
			Date:     date,
		}
		if e.ID == "" {
			e.ID = strconv.FormatInt(s.nextID, 10)
		}
		s.items = append(s.items, e)
		if id, err := strconv.ParseInt(e.ID, 10, 64); err == nil && id >= s.nextID {
			s.nextID = id + 1
		}
	}
	return s
}

func lenientAmount(raw json.RawMessage) int64 {
	text := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	return core.LenientKobo(text)
}

func (s *Store) ListExpenses(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out, nil
}

func (s *Store) AppendExpense(_ context.Context, e core.Expense) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.Date.IsZero() {
		e.Date = time.Now()
	}
	e.ID = strconv.FormatInt(s.nextID, 10)
	s.nextID++
	s.items = append(s.items, e)
	return e, nil
}

func (s *Store) UpdateExpense(_ context.Context, id string, patch core.ExpensePatch) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID == id {
			s.items[i] = e.Apply(patch)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) DeleteExpense(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.items {
		if e.ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) ClearExpenses(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.level = budget.AlertLevelNone
	return nil
}

func (s *Store) DailyLimit(_ context.Context) (core.Money, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.limit == nil {
		return core.Money{Kobo: storage.DefaultDailyLimitKobo}, nil
	}
	return *s.limit, nil
}

func (s *Store) SetDailyLimit(_ context.Context, limit core.Money) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limit = &limit
	return nil
}

func (s *Store) LastAlertLevel(_ context.Context) (budget.AlertLevel, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.level, nil
}

func (s *Store) SetLastAlertLevel(_ context.Context, level budget.AlertLevel) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = level
	return nil
}

func (s *Store) Close() error { return nil }
