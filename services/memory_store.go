package services

import (
	"context"
	"sort"
	"sync"

	"jobsite-api/models"
)

// MemoryStore is an in-process Store used by tests and by the seed tool when
// no database is configured. FailNext can arm a one-shot error for a given
// "op:entity" pair ("create:time_log") to exercise rollback paths.
type MemoryStore struct {
	mu        sync.Mutex
	users     map[int]models.User
	projects  map[int]models.Project
	tasks     map[int]models.Task
	timeLogs  map[int]models.TimeLog
	estimates map[int]models.Estimate
	expenses  map[int]models.Expense
	invoices  map[int]models.Invoice
	inventory map[int]models.InventoryItem
	failures  map[string]error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[int]models.User),
		projects:  make(map[int]models.Project),
		tasks:     make(map[int]models.Task),
		timeLogs:  make(map[int]models.TimeLog),
		estimates: make(map[int]models.Estimate),
		expenses:  make(map[int]models.Expense),
		invoices:  make(map[int]models.Invoice),
		inventory: make(map[int]models.InventoryItem),
		failures:  make(map[string]error),
	}
}

// FailNext arms a one-shot failure for the next call matching op and entity.
func (s *MemoryStore) FailNext(op, entity string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op+":"+entity] = err
}

func (s *MemoryStore) checkFailure(op, entity string) error {
	key := op + ":" + entity
	if err, ok := s.failures[key]; ok {
		delete(s.failures, key)
		return &StoreError{Entity: entity, Op: op, Err: err}
	}
	return nil
}

func listMap[T any](m map[int]T, less func(a, b T) bool) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func (s *MemoryStore) ListUsers(ctx context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("list", "user"); err != nil {
		return nil, err
	}
	return listMap(s.users, func(a, b models.User) bool { return a.UserID < b.UserID }), nil
}

func (s *MemoryStore) CreateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("create", "user"); err != nil {
		return err
	}
	s.users[user.UserID] = *user
	return nil
}

func (s *MemoryStore) UpdateUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("update", "user"); err != nil {
		return err
	}
	s.users[user.UserID] = *user
	return nil
}

func (s *MemoryStore) ListProjects(ctx context.Context) ([]models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("list", "project"); err != nil {
		return nil, err
	}
	return listMap(s.projects, func(a, b models.Project) bool { return a.ProjectID < b.ProjectID }), nil
}

func (s *MemoryStore) CreateProject(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("create", "project"); err != nil {
		return err
	}
	s.projects[project.ProjectID] = *project
	return nil
}

func (s *MemoryStore) UpdateProject(ctx context.Context, project *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("update", "project"); err != nil {
		return err
	}
	s.projects[project.ProjectID] = *project
	return nil
}

func (s *MemoryStore) ListTasks(ctx context.Context) ([]models.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("list", "task"); err != nil {
		return nil, err
	}
	return listMap(s.tasks, func(a, b models.Task) bool { return a.TaskID < b.TaskID }), nil
}

func (s *MemoryStore) CreateTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("create", "task"); err != nil {
		return err
	}
	s.tasks[task.TaskID] = *task
	return nil
}

func (s *MemoryStore) UpdateTask(ctx context.Context, task *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("update", "task"); err != nil {
		return err
	}
	s.tasks[task.TaskID] = *task
	return nil
}

func (s *MemoryStore) ListTimeLogs(ctx context.Context) ([]models.TimeLog, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("list", "time_log"); err != nil {
		return nil, err
	}
	return listMap(s.timeLogs, func(a, b models.TimeLog) bool { return a.TimeLogID < b.TimeLogID }), nil
}

func (s *MemoryStore) CreateTimeLog(ctx context.Context, log *models.TimeLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("create", "time_log"); err != nil {
		return err
	}
	s.timeLogs[log.TimeLogID] = *log
	return nil
}

func (s *MemoryStore) UpdateTimeLog(ctx context.Context, log *models.TimeLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("update", "time_log"); err != nil {
		return err
	}
	s.timeLogs[log.TimeLogID] = *log
	return nil
}

func (s *MemoryStore) DeleteTimeLog(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("delete", "time_log"); err != nil {
		return err
	}
	delete(s.timeLogs, id)
	return nil
}

func (s *MemoryStore) ListEstimates(ctx context.Context) ([]models.Estimate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("list", "estimate"); err != nil {
		return nil, err
	}
	return listMap(s.estimates, func(a, b models.Estimate) bool { return a.EstimateID < b.EstimateID }), nil
}

func (s *MemoryStore) CreateEstimate(ctx context.Context, estimate *models.Estimate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("create", "estimate"); err != nil {
		return err
	}
	s.estimates[estimate.EstimateID] = *estimate
	return nil
}

func (s *MemoryStore) UpdateEstimate(ctx context.Context, estimate *models.Estimate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("update", "estimate"); err != nil {
		return err
	}
	s.estimates[estimate.EstimateID] = *estimate
	return nil
}

func (s *MemoryStore) ListExpenses(ctx context.Context) ([]models.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("list", "expense"); err != nil {
		return nil, err
	}
	return listMap(s.expenses, func(a, b models.Expense) bool { return a.ExpenseID < b.ExpenseID }), nil
}

func (s *MemoryStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("create", "expense"); err != nil {
		return err
	}
	s.expenses[expense.ExpenseID] = *expense
	return nil
}

func (s *MemoryStore) DeleteExpense(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("delete", "expense"); err != nil {
		return err
	}
	delete(s.expenses, id)
	return nil
}

func (s *MemoryStore) ListInvoices(ctx context.Context) ([]models.Invoice, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("list", "invoice"); err != nil {
		return nil, err
	}
	return listMap(s.invoices, func(a, b models.Invoice) bool { return a.InvoiceID < b.InvoiceID }), nil
}

func (s *MemoryStore) CreateInvoice(ctx context.Context, invoice *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("create", "invoice"); err != nil {
		return err
	}
	s.invoices[invoice.InvoiceID] = *invoice
	return nil
}

func (s *MemoryStore) UpdateInvoice(ctx context.Context, invoice *models.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("update", "invoice"); err != nil {
		return err
	}
	s.invoices[invoice.InvoiceID] = *invoice
	return nil
}

func (s *MemoryStore) DeleteInvoice(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("delete", "invoice"); err != nil {
		return err
	}
	delete(s.invoices, id)
	return nil
}

func (s *MemoryStore) ListInventory(ctx context.Context) ([]models.InventoryItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("list", "inventory_item"); err != nil {
		return nil, err
	}
	return listMap(s.inventory, func(a, b models.InventoryItem) bool { return a.ItemID < b.ItemID }), nil
}

func (s *MemoryStore) CreateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("create", "inventory_item"); err != nil {
		return err
	}
	s.inventory[item.ItemID] = *item
	return nil
}

func (s *MemoryStore) UpdateInventoryItem(ctx context.Context, item *models.InventoryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkFailure("update", "inventory_item"); err != nil {
		return err
	}
	s.inventory[item.ItemID] = *item
	return nil
}
