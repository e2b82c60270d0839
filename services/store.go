package services

import (
	"context"

	"jobsite-api/models"
)

// Store is the persistent store boundary. One list/create/update/delete per
// entity type, in entity shape; implementations surface failures as
// StoreError and never swallow them. Delete exists only for the entities the
// application actually deletes (expenses, invoices, time logs).
//
// List operations return the full collection; at this scale there is no
// pagination.
type Store interface {
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	UpdateUser(ctx context.Context, user *models.User) error

	ListProjects(ctx context.Context) ([]models.Project, error)
	CreateProject(ctx context.Context, project *models.Project) error
	UpdateProject(ctx context.Context, project *models.Project) error

	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, task *models.Task) error
	UpdateTask(ctx context.Context, task *models.Task) error

	ListTimeLogs(ctx context.Context) ([]models.TimeLog, error)
	CreateTimeLog(ctx context.Context, log *models.TimeLog) error
	UpdateTimeLog(ctx context.Context, log *models.TimeLog) error
	DeleteTimeLog(ctx context.Context, id int) error

	ListEstimates(ctx context.Context) ([]models.Estimate, error)
	CreateEstimate(ctx context.Context, estimate *models.Estimate) error
	UpdateEstimate(ctx context.Context, estimate *models.Estimate) error

	ListExpenses(ctx context.Context) ([]models.Expense, error)
	CreateExpense(ctx context.Context, expense *models.Expense) error
	DeleteExpense(ctx context.Context, id int) error

	ListInvoices(ctx context.Context) ([]models.Invoice, error)
	CreateInvoice(ctx context.Context, invoice *models.Invoice) error
	UpdateInvoice(ctx context.Context, invoice *models.Invoice) error
	DeleteInvoice(ctx context.Context, id int) error

	ListInventory(ctx context.Context) ([]models.InventoryItem, error)
	CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error
	UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error
}
