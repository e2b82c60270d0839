package services

import (
	"context"
	"strings"

	"jobsite-api/models"
)

// AddExpense records an expense against a project. Labor is not a valid
// expense category; labor actuals come from time logs.
func (d *DataContext) AddExpense(ctx context.Context, req models.ExpenseCreateRequest) (models.Expense, error) {
	if strings.TrimSpace(req.Description) == "" {
		return models.Expense{}, invalid("expense description is required")
	}
	if !models.ValidExpenseCategory(req.Category) {
		return models.Expense{}, invalid("unknown expense category %q", req.Category)
	}
	if req.Amount.IsNegative() {
		return models.Expense{}, invalid("expense amount must not be negative")
	}

	d.lock()
	defer d.unlock()

	if d.findProject(req.ProjectID) == nil {
		return models.Expense{}, notFound("project", req.ProjectID)
	}

	date := req.Date
	if date.IsZero() {
		date = d.now()
	}
	expense := models.Expense{
		ExpenseID:   d.peekID("expense"),
		ProjectID:   req.ProjectID,
		Description: strings.TrimSpace(req.Description),
		Amount:      req.Amount,
		Category:    req.Category,
		Date:        date,
	}
	if err := d.store.CreateExpense(ctx, &expense); err != nil {
		return models.Expense{}, err
	}
	d.commitID("expense", expense.ExpenseID)
	d.expenses = append(d.expenses, expense)
	d.saveSnapshot(ctx, "expenses", d.expenses)
	return expense, nil
}

// DeleteExpense removes an expense. Expense ids are never reassigned
// afterwards.
func (d *DataContext) DeleteExpense(ctx context.Context, id int) error {
	d.lock()
	defer d.unlock()

	idx := -1
	for i := range d.expenses {
		if d.expenses[i].ExpenseID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return notFound("expense", id)
	}
	if err := d.store.DeleteExpense(ctx, id); err != nil {
		return err
	}
	d.expenses = append(d.expenses[:idx], d.expenses[idx+1:]...)
	d.saveSnapshot(ctx, "expenses", d.expenses)
	return nil
}
