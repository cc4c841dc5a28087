package sheets

import (
	"context"

	"github.com/JamesHardey/NairaStudent/internal/core"
)

// Ports for the spreadsheet backup adapters.
type (
	// ExpenseWriter appends one expense row to the backup sheet.
	ExpenseWriter interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	// ExpenseDeleter removes the row for a deleted expense. A row that is
	// not on the sheet reports found=false, not an error.
	ExpenseDeleter interface {
		Delete(ctx context.Context, id string) (found bool, err error)
	}
)
